package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/greatchat/onboarding/backend/handler"
	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/service"
)

var (
	stepStyles = map[model.StepStatus]lipgloss.Style{
		model.StepCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")),
		model.StepActive:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
		model.StepPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("#EAB308")),
		model.StepLocked:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
	stepMarks = map[model.StepStatus]string{
		model.StepCompleted: "✓",
		model.StepActive:    "●",
		model.StepPending:   "○",
		model.StepLocked:    "-",
	}
)

func progressCmd() *cobra.Command {
	var (
		current int
		pending string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show the onboarding stepper for a given current step",
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := handler.ParsePending(pending)
			if err != nil {
				return fmt.Errorf("invalid --pending %q: %w", pending, err)
			}
			steps := model.OnboardingSteps()
			if !service.StepInRange(steps, current) {
				return fmt.Errorf("--current must be a step id from 1 to %d", len(steps))
			}
			p := service.NewProgress(steps, current, overrides)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			fmt.Fprintln(out, renderProgress(p))
			return nil
		},
	}
	cmd.Flags().IntVar(&current, "current", model.StepRegistration, "current step id")
	cmd.Flags().StringVar(&pending, "pending", "", "comma separated step ids reachable ahead of current")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func renderProgress(p service.Progress) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Step %d of %d (%d%%)\n", p.Current, p.Total, p.Percent)
	for _, s := range p.Steps {
		style := stepStyles[s.Status]
		fmt.Fprintf(&b, "%s %d. %-13s %s\n", style.Render(stepMarks[s.Status]), s.ID, s.Title, style.Render(string(s.Status)))
	}
	if next, ok := p.NextPath(); ok {
		fmt.Fprintf(&b, "next: %s\n", next)
	}
	return strings.TrimRight(b.String(), "\n")
}

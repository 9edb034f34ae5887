package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/greatchat/onboarding/backend/service"
)

func draftCmd() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or remove a user's saved registration draft",
	}
	cmd.PersistentFlags().StringVar(&user, "user", "", "owner email")
	_ = cmd.MarkPersistentFlagRequired("user")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the saved draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := strings.ToLower(strings.TrimSpace(user))
			store, _, err := openStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			data, found, err := service.DraftStore(store, owner).Get(cmd.Context(), service.DraftKey)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintf(out, "no draft saved for %s\n", owner)
				return nil
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, data, "", "  "); err != nil {
				// Unreadable drafts are printed raw.
				pretty.Reset()
				pretty.Write(data)
			}
			fmt.Fprintln(out, pretty.String())
			return nil
		},
	}

	clear := &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner := strings.ToLower(strings.TrimSpace(user))
			store, _, err := openStores(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := service.DraftStore(store, owner).Delete(cmd.Context(), service.DraftKey); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "draft cleared for %s\n", owner)
			return nil
		},
	}

	cmd.AddCommand(show, clear)
	return cmd
}

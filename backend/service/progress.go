package service

import "github.com/greatchat/onboarding/backend/model"

// ComputeStepStates derives each step's status from the current step id.
// Steps before current are completed, current is active and later steps are
// locked. overrides may mark a later step pending when the caller knows it is
// reachable; overrides for other steps or with other statuses are ignored.
func ComputeStepStates(defs []model.StepDefinition, current int, overrides map[int]model.StepStatus) []model.Step {
	steps := make([]model.Step, len(defs))
	for i, def := range defs {
		status := model.StepLocked
		switch {
		case def.ID < current:
			status = model.StepCompleted
		case def.ID == current:
			status = model.StepActive
		case overrides[def.ID] == model.StepPending:
			status = model.StepPending
		}
		steps[i] = model.Step{StepDefinition: def, Status: status}
	}
	return steps
}

// Navigable reports whether the step with the given id may be opened.
// Locked and unknown steps are not navigable.
func Navigable(steps []model.Step, id int) bool {
	for _, s := range steps {
		if s.ID == id {
			return s.Status != model.StepLocked
		}
	}
	return false
}

// StepInRange reports whether id names one of defs. Only such ids yield a
// stepper with exactly one active step.
func StepInRange(defs []model.StepDefinition, id int) bool {
	return id >= 1 && id <= len(defs)
}

// Progress is the stepper state for one screen.
type Progress struct {
	Steps   []model.Step `json:"steps"`
	Current int          `json:"currentStep"`
	Total   int          `json:"totalSteps"`
	Percent int          `json:"percent"`
}

func NewProgress(defs []model.StepDefinition, current int, overrides map[int]model.StepStatus) Progress {
	p := Progress{
		Steps:   ComputeStepStates(defs, current, overrides),
		Current: current,
		Total:   len(defs),
	}
	if p.Total > 0 {
		p.Percent = current * 100 / p.Total
	}
	return p
}

// NextPath returns the path of the step after current if it is navigable.
func (p Progress) NextPath() (string, bool) {
	for _, s := range p.Steps {
		if s.ID == p.Current+1 {
			return s.Path, Navigable(p.Steps, s.ID)
		}
	}
	return "", false
}

package model

// StepStatus is the reachability of one onboarding step.
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepActive    StepStatus = "active"
	StepLocked    StepStatus = "locked"
	StepPending   StepStatus = "pending"
)

// StepDefinition is the static part of a step, ids are 1-based positions.
type StepDefinition struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Step is a definition with its derived status. Steps are recomputed from the
// current index on every read and never persisted.
type Step struct {
	StepDefinition
	Status StepStatus `json:"status"`
}

// Onboarding step ids.
const (
	StepRegistration = 1
	StepDocuments    = 2
	StepContracts    = 3
	StepPayments     = 4
)

// OnboardingSteps is the fixed four-step onboarding sequence.
func OnboardingSteps() []StepDefinition {
	return []StepDefinition{
		{ID: StepRegistration, Title: "Registration", Path: "/register"},
		{ID: StepDocuments, Title: "Documents", Path: "/documents"},
		{ID: StepContracts, Title: "Contracts", Path: "/contracts"},
		{ID: StepPayments, Title: "Payments", Path: "/payments"},
	}
}

// NavLink is a header navigation button.
type NavLink struct {
	Label    string `json:"label"`
	Path     string `json:"path"`
	Disabled bool   `json:"disabled"`
}

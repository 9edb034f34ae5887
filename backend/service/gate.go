package service

import "github.com/greatchat/onboarding/backend/model"

// Screen names a gated onboarding screen.
type Screen string

const (
	ScreenDocuments Screen = "documents"
	ScreenContracts Screen = "contracts"
	ScreenPayments  Screen = "payments"
)

// DocumentsUnlocked reports whether every required document definition has
// an uploaded record of the same name. Records with other names do not count.
func DocumentsUnlocked(required []model.RequiredDocument, docs []model.Document) bool {
	return uploadedRequired(required, docs) == len(required)
}

func uploadedRequired(required []model.RequiredDocument, docs []model.Document) int {
	names := make(map[string]bool, len(required))
	for _, r := range required {
		names[r.Name] = false
	}
	n := 0
	for _, d := range docs {
		seen, ok := names[d.Name]
		if !ok || seen || !d.Uploaded() {
			continue
		}
		names[d.Name] = true
		n++
	}
	return n
}

// ContractsUnlocked reports whether any contract is signed or completed.
func ContractsUnlocked(contracts []model.Contract) bool {
	for _, c := range contracts {
		if c.Status == model.ContractSigned || c.Status == model.ContractCompleted {
			return true
		}
	}
	return false
}

// PaymentsUnlocked reports whether any payment is completed.
func PaymentsUnlocked(payments []model.Payment) bool {
	for _, p := range payments {
		if p.Status == model.PaymentCompleted {
			return true
		}
	}
	return false
}

// IsUnlocked dispatches on the screen. Records of the wrong type leave the
// gate closed.
func IsUnlocked(screen Screen, records any) bool {
	switch screen {
	case ScreenDocuments:
		docs, ok := records.([]model.Document)
		return ok && DocumentsUnlocked(RequiredDocuments(), docs)
	case ScreenContracts:
		contracts, ok := records.([]model.Contract)
		return ok && ContractsUnlocked(contracts)
	case ScreenPayments:
		payments, ok := records.([]model.Payment)
		return ok && PaymentsUnlocked(payments)
	}
	return false
}

// Header is the navigation header of a gated screen. The next link follows
// the gate; the previous link is never disabled.
type Header struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	CurrentStep int               `json:"currentStep"`
	TotalSteps  int               `json:"totalSteps"`
	StepStatus  model.BadgeStatus `json:"stepStatus"`
	Prev        *model.NavLink    `json:"prevStep,omitempty"`
	Next        *model.NavLink    `json:"nextStep,omitempty"`
}

// screenProgress builds the stepper for a gated screen. An open gate makes
// the following step reachable.
func screenProgress(current int, unlocked bool) Progress {
	var overrides map[int]model.StepStatus
	if unlocked {
		overrides = map[int]model.StepStatus{current + 1: model.StepPending}
	}
	return NewProgress(model.OnboardingSteps(), current, overrides)
}

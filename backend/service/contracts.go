package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/greatchat/onboarding/backend/model"
	"github.com/greatchat/onboarding/backend/pkg/logger"
)

const agreementTemplate = `BUSINESS PARTNERSHIP AGREEMENT

This Business Partnership Agreement ("Agreement") is entered into on [DATE] between Great Chat Platform ("Platform") and [BUSINESS_NAME] ("Partner").

TERMS AND CONDITIONS:

1. PARTNERSHIP SCOPE
   The Partner agrees to utilize Great Chat's business registration and approval services for e-commerce platform integration.

2. SERVICES PROVIDED
   - Business registration processing
   - Document verification and approval
   - E-commerce platform integration support
   - Ongoing account management

3. OBLIGATIONS
   Partner Obligations:
   - Provide accurate business information
   - Submit required documentation
   - Maintain compliance with platform policies
   - Pay applicable fees as agreed

   Platform Obligations:
   - Process applications in timely manner
   - Provide support and guidance
   - Maintain data security and privacy
   - Facilitate e-commerce platform connections

4. PAYMENT TERMS
   Payment shall be made according to the selected subscription plan:
   - Trial Package: 3-month trial period
   - Annual Subscription: Full feature access

5. TERMINATION
   Either party may terminate this agreement with 30 days written notice.

6. GOVERNING LAW
   This agreement shall be governed by applicable local laws and regulations.

By signing below, both parties agree to the terms and conditions outlined in this agreement.

_________________________          _________________________
Great Chat Platform                 Partner Signature

Date: _______________              Date: _______________
`

// ContractStats are the counters shown above the contract list.
type ContractStats struct {
	Pending   int `json:"pending"`
	Signed    int `json:"signed"`
	Completed int `json:"completed"`
}

// ContractService owns the Contracts screen.
type ContractService struct {
	contracts *RecordList[model.Contract]
	notifier  Notifier
	now       func() time.Time
}

func NewContractService(seed []model.Contract, notifier Notifier, now func() time.Time) *ContractService {
	if now == nil {
		now = time.Now
	}
	return &ContractService{
		contracts: NewRecordList(seed),
		notifier:  notifier,
		now:       now,
	}
}

func (s *ContractService) List() []model.Contract { return s.contracts.Snapshot() }

// Generate creates a pending partnership agreement at the head of the list.
func (s *ContractService) Generate(ctx context.Context, businessName string) model.Contract {
	if businessName == "" {
		businessName = "New Business"
	}
	var c model.Contract
	s.contracts.Replace(func(cur []model.Contract) []model.Contract {
		c = model.Contract{
			ID:            fmt.Sprintf("CTR%03d", len(cur)+1),
			Title:         "Business Partnership Agreement",
			Type:          "Partnership Agreement",
			Status:        model.ContractPending,
			GeneratedDate: model.Date(s.now()),
			BusinessName:  businessName,
		}
		next := make([]model.Contract, 0, len(cur)+1)
		next = append(next, c)
		return append(next, cur...)
	})

	logger.Info(ctx, "contract generated", "contract_id", c.ID)
	notify(ctx, s.notifier, "Contract Generated", "A new contract has been automatically generated and is ready for review.")
	return c
}

// Sign marks a pending or approved contract signed today.
func (s *ContractService) Sign(ctx context.Context, id string) (model.Contract, error) {
	var (
		signed model.Contract
		err    = ErrNotFound
	)
	s.contracts.Replace(func(cur []model.Contract) []model.Contract {
		for i, c := range cur {
			if c.ID != id {
				continue
			}
			if c.Status != model.ContractPending && c.Status != model.ContractApproved {
				err = fmt.Errorf("contract %s is %s: %w", id, c.Status, ErrInvalidTransition)
				return cur
			}
			next := make([]model.Contract, len(cur))
			copy(next, cur)
			c.Status = model.ContractSigned
			c.SignedDate = model.Date(s.now())
			next[i] = c
			signed, err = c, nil
			return next
		}
		return cur
	})
	if err != nil {
		return model.Contract{}, err
	}

	logger.Info(ctx, "contract signed", "contract_id", id)
	notify(ctx, s.notifier, "Contract Signed", "The contract has been digitally signed successfully.")
	return signed, nil
}

func (s *ContractService) Stats() ContractStats {
	var st ContractStats
	for _, c := range s.contracts.Snapshot() {
		switch c.Status {
		case model.ContractPending:
			st.Pending++
		case model.ContractSigned:
			st.Signed++
		case model.ContractCompleted:
			st.Completed++
		}
	}
	return st
}

func (s *ContractService) Unlocked() bool {
	return ContractsUnlocked(s.contracts.Snapshot())
}

// Template renders the agreement text for preview.
func (s *ContractService) Template(businessName string) string {
	if businessName == "" {
		businessName = "[BUSINESS_NAME]"
	}
	r := strings.NewReplacer("[DATE]", model.Date(s.now()), "[BUSINESS_NAME]", businessName)
	return r.Replace(agreementTemplate)
}

func (s *ContractService) Header() Header {
	unlocked := s.Unlocked()
	status := model.BadgePending
	if unlocked {
		status = model.BadgeApproved
	}
	return Header{
		Title:       "Contract Management",
		Description: "Generate, review, and digitally sign business contracts",
		CurrentStep: model.StepContracts,
		TotalSteps:  len(model.OnboardingSteps()),
		StepStatus:  status,
		Prev:        &model.NavLink{Label: "Back to Documents", Path: "/documents"},
		Next:        &model.NavLink{Label: "Next: Payments", Path: "/payments", Disabled: !unlocked},
	}
}

func (s *ContractService) Progress() Progress {
	return screenProgress(model.StepContracts, s.Unlocked())
}

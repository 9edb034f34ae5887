package model

import "fmt"

// Each record category has its own closed status type so a payment can never
// be marked "signed" or a document "completed".

// DocumentStatus is the review state of an uploaded document.
type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentPending, DocumentApproved, DocumentRejected:
		return true
	}
	return false
}

func (s *DocumentStatus) UnmarshalText(b []byte) error {
	return parseStatus(s, b, "document")
}

// ContractStatus is the signature state of a contract.
type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractApproved  ContractStatus = "approved"
	ContractSigned    ContractStatus = "signed"
	ContractCompleted ContractStatus = "completed"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractPending, ContractApproved, ContractSigned, ContractCompleted:
		return true
	}
	return false
}

func (s *ContractStatus) UnmarshalText(b []byte) error {
	return parseStatus(s, b, "contract")
}

// PaymentStatus is the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

func (s *PaymentStatus) UnmarshalText(b []byte) error {
	return parseStatus(s, b, "payment")
}

// ApplicationStatus is the review state of a registration application.
// Approved and rejected are terminal.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

func (s *ApplicationStatus) UnmarshalText(b []byte) error {
	return parseStatus(s, b, "application")
}

// ActivationStatus is the state of the account subscription.
type ActivationStatus string

const (
	ActivationPending  ActivationStatus = "pending"
	ActivationActive   ActivationStatus = "active"
	ActivationInactive ActivationStatus = "inactive"
)

func (s ActivationStatus) Valid() bool {
	switch s {
	case ActivationPending, ActivationActive, ActivationInactive:
		return true
	}
	return false
}

func (s *ActivationStatus) UnmarshalText(b []byte) error {
	return parseStatus(s, b, "activation")
}

// BadgeStatus is the display vocabulary shared by every screen's status
// badge. It is only ever derived from a category status, never stored.
type BadgeStatus string

const (
	BadgePending   BadgeStatus = "pending"
	BadgeApproved  BadgeStatus = "approved"
	BadgeRejected  BadgeStatus = "rejected"
	BadgeDraft     BadgeStatus = "draft"
	BadgeCompleted BadgeStatus = "completed"
	BadgeSigned    BadgeStatus = "signed"
	BadgeFailed    BadgeStatus = "failed"
	BadgeActive    BadgeStatus = "active"
	BadgeInactive  BadgeStatus = "inactive"
)

func (s BadgeStatus) Valid() bool {
	switch s {
	case BadgePending, BadgeApproved, BadgeRejected, BadgeDraft, BadgeCompleted,
		BadgeSigned, BadgeFailed, BadgeActive, BadgeInactive:
		return true
	}
	return false
}

func (s *BadgeStatus) UnmarshalText(b []byte) error {
	return parseStatus(s, b, "badge")
}

// Tone groups badge statuses into the four colour families.
type Tone string

const (
	ToneSuccess     Tone = "success"
	ToneWarning     Tone = "warning"
	ToneDestructive Tone = "destructive"
	ToneMuted       Tone = "muted"
)

func (s BadgeStatus) Tone() Tone {
	switch s {
	case BadgeApproved, BadgeCompleted, BadgeActive, BadgeSigned:
		return ToneSuccess
	case BadgePending:
		return ToneWarning
	case BadgeRejected, BadgeInactive, BadgeFailed:
		return ToneDestructive
	default:
		return ToneMuted
	}
}

type statusType interface {
	~string
	Valid() bool
}

func parseStatus[S statusType](dst *S, b []byte, kind string) error {
	s := S(b)
	if !s.Valid() {
		return fmt.Errorf("invalid %s status %q", kind, string(b))
	}
	*dst = s
	return nil
}

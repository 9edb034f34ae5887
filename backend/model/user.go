package model

// User is the signed-in account as the session remembers it.
type User struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ResetStatus tracks a password-reset request.
type ResetStatus string

const (
	ResetNone    ResetStatus = ""
	ResetPending ResetStatus = "pending"
	ResetSent    ResetStatus = "sent"
)

package model

import "strings"

// ValidationError reports missing or malformed user input. Operations that
// return it leave all state untouched.
type ValidationError struct {
	Title  string   `json:"title"`
	Fields []string `json:"fields,omitempty"`
	Reason string   `json:"reason"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Reason
	}
	return e.Reason + ": " + strings.Join(e.Fields, ", ")
}

// NewValidationError builds a ValidationError with an optional field list.
func NewValidationError(title, reason string, fields ...string) *ValidationError {
	return &ValidationError{Title: title, Reason: reason, Fields: fields}
}

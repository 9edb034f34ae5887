package model

import "time"

// DateFormat is the calendar-date layout used by every record.
const DateFormat = "2006-01-02"

// Date formats t as a calendar date.
func Date(t time.Time) string {
	return t.Format(DateFormat)
}

// RequiredDocument is one of the fixed document definitions a business must
// upload before the Documents gate opens.
type RequiredDocument struct {
	Name        string `json:"name" yaml:"name"`
	Formats     string `json:"formats" yaml:"formats"`
	Description string `json:"description" yaml:"description"`
}

// Document is an uploaded (or expected) business document. An empty
// UploadDate means nothing was uploaded yet.
type Document struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Type       string         `json:"type" yaml:"type"`
	Status     DocumentStatus `json:"status" yaml:"status"`
	UploadDate string         `json:"uploadDate" yaml:"uploadDate"`
	Size       string         `json:"size,omitempty" yaml:"size"`
	Required   bool           `json:"required" yaml:"required"`
	ObjectKey  string         `json:"-" yaml:"-"`
}

// Uploaded reports whether a file was attached.
func (d Document) Uploaded() bool { return d.UploadDate != "" }

// Contract is a generated agreement awaiting or holding a signature.
type Contract struct {
	ID            string         `json:"id" yaml:"id"`
	Title         string         `json:"title" yaml:"title"`
	Type          string         `json:"type" yaml:"type"`
	Status        ContractStatus `json:"status" yaml:"status"`
	GeneratedDate string         `json:"generatedDate" yaml:"generatedDate"`
	SignedDate    string         `json:"signedDate,omitempty" yaml:"signedDate"`
	BusinessName  string         `json:"businessName" yaml:"businessName"`
}

// Payment is one invoice in the payment history.
type Payment struct {
	ID               string        `json:"id" yaml:"id"`
	InvoiceNumber    string        `json:"invoiceNumber" yaml:"invoiceNumber"`
	Amount           float64       `json:"amount" yaml:"amount"`
	Currency         string        `json:"currency" yaml:"currency"`
	Status           PaymentStatus `json:"status" yaml:"status"`
	DueDate          string        `json:"dueDate" yaml:"dueDate"`
	PaidDate         string        `json:"paidDate,omitempty" yaml:"paidDate"`
	Description      string        `json:"description" yaml:"description"`
	SubscriptionPlan string        `json:"subscriptionPlan" yaml:"subscriptionPlan"`
}

// Application is a submitted registration under finance review.
type Application struct {
	ID             string            `json:"id" yaml:"id"`
	BusinessName   string            `json:"businessName" yaml:"businessName"`
	OwnerName      string            `json:"ownerName" yaml:"ownerName"`
	SubmissionDate string            `json:"submissionDate" yaml:"submissionDate"`
	Status         ApplicationStatus `json:"status" yaml:"status"`
	Documents      int               `json:"documents" yaml:"documents"`
	Remarks        string            `json:"remarks,omitempty" yaml:"remarks"`
	ResolvedDate   string            `json:"resolvedDate,omitempty" yaml:"resolvedDate"`
}

// Business is a selectable business on the admin payments screen.
type Business struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ManualPayment is a post-dated cheque recorded by an administrator.
type ManualPayment struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"businessId"`
	BusinessName string    `json:"businessName"`
	Amount       float64   `json:"amount"`
	Date         string    `json:"date"`
	AddedBy      string    `json:"addedBy"`
	AddedAt      time.Time `json:"addedAt"`
}

// Subscription is the account's current plan.
type Subscription struct {
	Plan        string           `json:"plan" yaml:"plan"`
	Status      ActivationStatus `json:"status" yaml:"status"`
	StartDate   string           `json:"startDate" yaml:"startDate"`
	EndDate     string           `json:"endDate" yaml:"endDate"`
	NextBilling string           `json:"nextBilling" yaml:"nextBilling"`
	Amount      float64          `json:"amount" yaml:"amount"`
	Features    []string         `json:"features" yaml:"features"`
}

// Activity is one line of the account activity feed.
type Activity struct {
	ID     int         `json:"id" yaml:"id"`
	Title  string      `json:"title" yaml:"title"`
	Time   string      `json:"time" yaml:"time"`
	Status BadgeStatus `json:"status" yaml:"status"`
}

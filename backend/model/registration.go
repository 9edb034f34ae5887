package model

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// SubscriptionPlan is the closed plan choice made on the review step.
type SubscriptionPlan string

const (
	PlanNone   SubscriptionPlan = ""
	PlanTrial  SubscriptionPlan = "trial"
	PlanAnnual SubscriptionPlan = "annual"
)

func (p SubscriptionPlan) Valid() bool {
	return p == PlanTrial || p == PlanAnnual
}

func (p *SubscriptionPlan) UnmarshalText(b []byte) error {
	v := SubscriptionPlan(b)
	if v != PlanNone && !v.Valid() {
		return fmt.Errorf("invalid subscription plan %q", string(b))
	}
	*p = v
	return nil
}

// IndustryOptions lists the selectable industry / product categories.
var IndustryOptions = []string{
	"Cosmetics & Skincare",
	"Beauty & Personal Care",
	"Health & Supplements",
	"Gadgets & Electronics",
	"Home & Living",
	"Equipment",
	"Clothing/Apparel",
	"Shoes, Bags, Accessories",
	"Automobile",
	"Arts & Crafts",
	"Food",
	"Others",
}

// PlatformOptions lists the supported e-commerce platforms.
var PlatformOptions = []string{"Shopee", "TikTok", "Lazada"}

// OptionSet is an insertion-ordered multi-select value without duplicates.
type OptionSet []string

// Toggle returns a new set with option added (on) or removed (off). Adding
// an option that is already present returns an equal set.
func (s OptionSet) Toggle(option string, on bool) OptionSet {
	if on {
		if s.Contains(option) {
			return slices.Clone(s)
		}
		return append(slices.Clone(s), option)
	}
	out := make(OptionSet, 0, len(s))
	for _, o := range s {
		if o != option {
			out = append(out, o)
		}
	}
	return out
}

func (s OptionSet) Contains(option string) bool {
	return slices.Contains(s, option)
}

func (s OptionSet) Len() int { return len(s) }

// Equal compares membership, ignoring order.
func (s OptionSet) Equal(o OptionSet) bool {
	if len(s) != len(o) {
		return false
	}
	for _, v := range s {
		if !o.Contains(v) {
			return false
		}
	}
	return true
}

func (s OptionSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// UnmarshalJSON drops duplicate entries so a hand-edited draft cannot break
// the set invariant.
func (s *OptionSet) UnmarshalJSON(b []byte) error {
	var raw []string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := OptionSet{}
	for _, v := range raw {
		if !out.Contains(v) {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

// Registration field names, shared by the JSON encoding and SetField.
const (
	FieldBusinessName     = "businessName"
	FieldBusinessAddress  = "businessAddress"
	FieldOwnerName        = "ownerName"
	FieldEmail            = "email"
	FieldContactNumber    = "contactNumber"
	FieldBillingLiaison   = "billingLiaison"
	FieldBillingEmail     = "billingEmail"
	FieldIndustry         = "industry"
	FieldPlatforms        = "platforms"
	FieldSubscriptionPlan = "subscriptionPlan"
)

// RegistrationDraft is the in-progress business registration form.
type RegistrationDraft struct {
	BusinessName     string           `json:"businessName"`
	BusinessAddress  string           `json:"businessAddress"`
	OwnerName        string           `json:"ownerName"`
	Email            string           `json:"email"`
	ContactNumber    string           `json:"contactNumber"`
	BillingLiaison   string           `json:"billingLiaison"`
	BillingEmail     string           `json:"billingEmail"`
	Industry         OptionSet        `json:"industry"`
	SubscriptionPlan SubscriptionPlan `json:"subscriptionPlan"`
	Platforms        OptionSet        `json:"platforms"`
}

// NewRegistrationDraft returns an empty form.
func NewRegistrationDraft() RegistrationDraft {
	return RegistrationDraft{Industry: OptionSet{}, Platforms: OptionSet{}}
}

func (d *RegistrationDraft) scalar(field string) (*string, bool) {
	switch field {
	case FieldBusinessName:
		return &d.BusinessName, true
	case FieldBusinessAddress:
		return &d.BusinessAddress, true
	case FieldOwnerName:
		return &d.OwnerName, true
	case FieldEmail:
		return &d.Email, true
	case FieldContactNumber:
		return &d.ContactNumber, true
	case FieldBillingLiaison:
		return &d.BillingLiaison, true
	case FieldBillingEmail:
		return &d.BillingEmail, true
	}
	return nil, false
}

// SetField assigns one scalar text field by its JSON name.
func (d *RegistrationDraft) SetField(field, value string) error {
	p, ok := d.scalar(field)
	if !ok {
		return NewValidationError("Unknown Field", "field cannot be set as text", field)
	}
	*p = value
	return nil
}

// Toggle flips a multi-select option on the industry or platforms field.
func (d *RegistrationDraft) Toggle(field, option string, on bool) error {
	switch field {
	case FieldIndustry:
		if !slices.Contains(IndustryOptions, option) {
			return NewValidationError("Unknown Option", "not an industry option", option)
		}
		d.Industry = d.Industry.Toggle(option, on)
	case FieldPlatforms:
		if !slices.Contains(PlatformOptions, option) {
			return NewValidationError("Unknown Option", "not a platform option", option)
		}
		d.Platforms = d.Platforms.Toggle(option, on)
	default:
		return NewValidationError("Unknown Field", "field is not multi-select", field)
	}
	return nil
}

// StepFields lists the fields collected on each wizard step.
var StepFields = map[int][]string{
	1: {FieldBusinessName, FieldOwnerName, FieldEmail, FieldContactNumber,
		FieldBusinessAddress, FieldBillingLiaison, FieldBillingEmail},
	2: {FieldIndustry, FieldPlatforms},
	3: {FieldSubscriptionPlan},
}

func (d *RegistrationDraft) missing(field string) bool {
	if p, ok := d.scalar(field); ok {
		return strings.TrimSpace(*p) == ""
	}
	switch field {
	case FieldIndustry:
		return d.Industry.Len() == 0
	case FieldPlatforms:
		return d.Platforms.Len() == 0
	case FieldSubscriptionPlan:
		return !d.SubscriptionPlan.Valid()
	}
	return false
}

// ValidateStep checks the required fields collected on one step.
func (d RegistrationDraft) ValidateStep(step int) error {
	var missing []string
	for _, f := range StepFields[step] {
		if d.missing(f) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return NewValidationError("Missing Information", "required fields are empty", missing...)
	}
	return nil
}

// Validate checks every required field across all steps.
func (d RegistrationDraft) Validate() error {
	var missing []string
	for step := 1; step <= len(StepFields); step++ {
		for _, f := range StepFields[step] {
			if d.missing(f) {
				missing = append(missing, f)
			}
		}
	}
	if len(missing) > 0 {
		return NewValidationError("Missing Information", "required fields are empty", missing...)
	}
	return nil
}

// Equal compares field-for-field; set membership is order-independent.
func (d RegistrationDraft) Equal(o RegistrationDraft) bool {
	return d.BusinessName == o.BusinessName &&
		d.BusinessAddress == o.BusinessAddress &&
		d.OwnerName == o.OwnerName &&
		d.Email == o.Email &&
		d.ContactNumber == o.ContactNumber &&
		d.BillingLiaison == o.BillingLiaison &&
		d.BillingEmail == o.BillingEmail &&
		d.SubscriptionPlan == o.SubscriptionPlan &&
		d.Industry.Equal(o.Industry) &&
		d.Platforms.Equal(o.Platforms)
}

// Clone returns a deep copy.
func (d RegistrationDraft) Clone() RegistrationDraft {
	d.Industry = slices.Clone(d.Industry)
	d.Platforms = slices.Clone(d.Platforms)
	if d.Industry == nil {
		d.Industry = OptionSet{}
	}
	if d.Platforms == nil {
		d.Platforms = OptionSet{}
	}
	return d
}

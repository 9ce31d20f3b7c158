package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PartnerRequestMarker in a subject line marks a partner-application inquiry.
const PartnerRequestMarker = "Partner Request"

// ClientIPUnknown is recorded when no forwarding header identifies the submitter.
const ClientIPUnknown = "Unknown"

// Inquiry is a contact or partner-application form submission.
// It lives for a single relay request and is never persisted.
type Inquiry struct {
	Name         string `json:"name" form:"name"`
	Email        string `json:"email" form:"email"`
	Phone        string `json:"phone" form:"phone"`
	Company      string `json:"company,omitempty" form:"company"`
	Subject      string `json:"subject,omitempty" form:"subject"`
	Budget       string `json:"budget,omitempty" form:"budget"`
	PropertyType string `json:"propertyType,omitempty" form:"propertyType"`
	Message      string `json:"message" form:"message"`

	// Derived by the server, never bound from the request body.
	Reference   uuid.UUID `json:"-" form:"-"`
	SubmittedAt time.Time `json:"-" form:"-"`
	ClientIP    string    `json:"-" form:"-"`
}

// IsPartnerRequest reports whether the inquiry came from the partner form.
func (i *Inquiry) IsPartnerRequest() bool {
	return strings.Contains(i.Subject, PartnerRequestMarker)
}

// Normalize trims surrounding whitespace from every submitted field.
func (i *Inquiry) Normalize() {
	i.Name = strings.TrimSpace(i.Name)
	i.Email = strings.TrimSpace(i.Email)
	i.Phone = strings.TrimSpace(i.Phone)
	i.Company = strings.TrimSpace(i.Company)
	i.Subject = strings.TrimSpace(i.Subject)
	i.Budget = strings.TrimSpace(i.Budget)
	i.PropertyType = strings.TrimSpace(i.PropertyType)
	i.Message = strings.TrimSpace(i.Message)
}

// DeliveryResult reports the outcome of relaying one inquiry.
type DeliveryResult struct {
	BusinessSent bool
	UserSent     bool
	UserError    *string
}

package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"

	"hemkey/internal/models"
)

// Inquiry validation errors.
var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email format")
)

// EmailPattern is a deliberately loose local@domain.tld shape check.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError identifies the inquiry field that failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidateEmail checks an address against EmailPattern.
func ValidateEmail(email string) bool {
	return EmailPattern.MatchString(email)
}

// ValidateInquiry checks the required fields of a form submission.
// Name, email, phone and message are required; blank values count as missing.
func ValidateInquiry(inq *models.Inquiry) error {
	required := []struct {
		field string
		value string
	}{
		{"name", inq.Name},
		{"email", inq.Email},
		{"phone", inq.Phone},
		{"message", inq.Message},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &FieldError{Field: r.field, Err: ErrMissingFields}
		}
	}

	if !ValidateEmail(inq.Email) {
		return &FieldError{Field: "email", Err: ErrInvalidEmail}
	}

	return nil
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

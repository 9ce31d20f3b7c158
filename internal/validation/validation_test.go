package validation

import (
	"errors"
	"testing"

	"hemkey/internal/models"
)

func validInquiry() *models.Inquiry {
	return &models.Inquiry{
		Name:    "Jane Doe",
		Email:   "jane@x.com",
		Phone:   "+1234567890",
		Message: "Hello there, interested.",
	}
}

func TestValidateInquiry(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.Inquiry)
		wantErr   error
		wantField string
	}{
		{"all required fields", func(*models.Inquiry) {}, nil, ""},
		{"optional fields set", func(i *models.Inquiry) {
			i.Company = "Acme"
			i.Budget = "1-2 Cr"
			i.PropertyType = "Villa"
		}, nil, ""},
		{"missing name", func(i *models.Inquiry) { i.Name = "" }, ErrMissingFields, "name"},
		{"missing email", func(i *models.Inquiry) { i.Email = "" }, ErrMissingFields, "email"},
		{"missing phone", func(i *models.Inquiry) { i.Phone = "" }, ErrMissingFields, "phone"},
		{"missing message", func(i *models.Inquiry) { i.Message = "" }, ErrMissingFields, "message"},
		{"blank message", func(i *models.Inquiry) { i.Message = "   \n" }, ErrMissingFields, "message"},
		{"not an email", func(i *models.Inquiry) { i.Email = "not-an-email" }, ErrInvalidEmail, "email"},
		{"email without tld", func(i *models.Inquiry) { i.Email = "jane@localhost" }, ErrInvalidEmail, "email"},
		{"email with space", func(i *models.Inquiry) { i.Email = "jane doe@x.com" }, ErrInvalidEmail, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inq := validInquiry()
			tt.mutate(inq)

			err := ValidateInquiry(inq)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateInquiry() = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateInquiry() = %v, want %v", err, tt.wantErr)
			}
			var fe *FieldError
			if !errors.As(err, &fe) {
				t.Fatalf("ValidateInquiry() error %T is not a *FieldError", err)
			}
			if fe.Field != tt.wantField {
				t.Errorf("FieldError.Field = %q, want %q", fe.Field, tt.wantField)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@x.com", true},
		{"first.last+tag@sub.example.co.in", true},
		{"not-an-email", false},
		{"@x.com", false},
		{"jane@", false},
		{"jane@@x.com", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := ValidateEmail(tt.email); got != tt.want {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		valid   bool
		wantMsg string
	}{
		{"valid https", "https://eu1-kv.upstash.io", true, ""},
		{"valid http with port", "http://127.0.0.1:8079", true, ""},
		{"uppercase scheme", "HTTPS://example.com", true, ""},
		{"empty string", "", false, "URL is required"},
		{"javascript scheme", "javascript:alert(1)", false, "URL must use http:// or https:// scheme"},
		{"no scheme", "example.com", false, "URL must use http:// or https:// scheme"},
		{"redis scheme", "redis://localhost:6379", false, "URL must use http:// or https:// scheme"},
		{"scheme only", "https://", false, "URL must have a valid host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, msg := ValidateURL(tt.url)
			if valid != tt.valid {
				t.Errorf("ValidateURL(%q) valid = %v, want %v", tt.url, valid, tt.valid)
			}
			if !valid && msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

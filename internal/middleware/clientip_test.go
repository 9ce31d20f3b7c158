package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
)

func TestResolveClientIP(t *testing.T) {
	tests := []struct {
		name         string
		forwardedFor string
		realIP       string
		cfIP         string
		expected     string
	}{
		{
			name:         "first hop of forwarded chain",
			forwardedFor: "203.0.113.7, 10.0.0.1, 10.0.0.2",
			expected:     "203.0.113.7",
		},
		{
			name:         "single forwarded address with spaces",
			forwardedFor: "  198.51.100.4  ",
			expected:     "198.51.100.4",
		},
		{
			name:         "forwarded wins over real ip",
			forwardedFor: "203.0.113.7",
			realIP:       "198.51.100.4",
			cfIP:         "192.0.2.1",
			expected:     "203.0.113.7",
		},
		{
			name:     "real ip when not forwarded",
			realIP:   "198.51.100.4",
			cfIP:     "192.0.2.1",
			expected: "198.51.100.4",
		},
		{
			name:     "cloudflare header last",
			cfIP:     "192.0.2.1",
			expected: "192.0.2.1",
		},
		{
			name:         "empty first hop falls through",
			forwardedFor: " , 10.0.0.1",
			realIP:       "198.51.100.4",
			expected:     "198.51.100.4",
		},
		{
			name:     "no headers",
			expected: "Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveClientIP(tt.forwardedFor, tt.realIP, tt.cfIP)
			if got != tt.expected {
				t.Errorf("resolveClientIP(%q, %q, %q) = %q, want %q",
					tt.forwardedFor, tt.realIP, tt.cfIP, got, tt.expected)
			}
		})
	}
}

func TestClientIP_Middleware(t *testing.T) {
	app := fiber.New()
	app.Use(ClientIP)
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString(GetClientIP(c))
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "203.0.113.7" {
		t.Errorf("client IP = %q, want 203.0.113.7", body)
	}
}

func TestGetClientIP_WithoutMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString(GetClientIP(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "Unknown" {
		t.Errorf("client IP = %q, want Unknown", body)
	}
}

func TestNoStore(t *testing.T) {
	app := fiber.New()
	app.Get("/", NoStore, func(c fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if got := resp.Header.Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}

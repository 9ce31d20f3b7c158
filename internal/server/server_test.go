package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"hemkey/internal/config"
	"hemkey/internal/counter"
	"hemkey/internal/models"
)

type stubRelay struct{}

func (stubRelay) Deliver(ctx context.Context, inq *models.Inquiry) (*models.DeliveryResult, error) {
	return &models.DeliveryResult{BusinessSent: true, UserSent: true}, nil
}

func newTestServer(t *testing.T) (*Server, counter.Store) {
	t.Helper()
	cfg := &config.Config{Env: "production", BaseURL: "http://localhost:3000"}
	store := counter.NewFileStore(filepath.Join(t.TempDir(), "data", "visitor-counter.json"))

	s := New(cfg, nil)
	s.RegisterRoutes(store, stubRelay{})
	return s, store
}

func get(t *testing.T, s *Server, target string) (*http.Response, string) {
	t.Helper()
	resp, err := s.App.Test(httptest.NewRequest("GET", target, nil))
	if err != nil {
		t.Fatalf("GET %s failed: %v", target, err)
	}
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestPages(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		path string
		want string
	}{
		{"/", "Happy Visitors"},
		{"/about", "About Hemkey"},
		{"/services", "Residential Sales"},
		{"/markets", "Dubai"},
		{"/contact", `name="propertyType"`},
		{"/become-partner", "New Hemkey Partner Request"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, s, tt.path)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, body %s", resp.StatusCode, body)
			}
			if !strings.Contains(body, tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
			if !strings.Contains(body, "<title>") || !strings.Contains(body, "/static/js/site.js") {
				t.Error("page not wrapped in layout")
			}
		})
	}
}

func TestHomeShowsBaselinePlusCount(t *testing.T) {
	s, store := newTestServer(t)

	for range 3 {
		if _, err := store.Increment(context.Background()); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}

	_, body := get(t, s, "/")
	if !strings.Contains(body, ">12503<") {
		t.Errorf("home page does not show 12500 + 3")
	}
}

func TestVisitorCounterAPI(t *testing.T) {
	s, _ := newTestServer(t)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/visitor-counter", nil)
		resp, err := s.App.Test(req)
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("POST status = %d", resp.StatusCode)
		}
	}

	resp, body := get(t, s, "/api/visitor-counter")
	if resp.Header.Get("Cache-Control") != "no-store" {
		t.Errorf("Cache-Control = %q", resp.Header.Get("Cache-Control"))
	}

	var got models.CounterResponse
	if err := json.Unmarshal([]byte(body), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Count != 3 {
		t.Errorf("count = %d, want 3", got.Count)
	}
}

func TestSendMailRoute(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/api/sendMail",
		strings.NewReader(`{"name":"Jane Doe","email":"jane@example.com","phone":"555","message":"Hi"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t)

	resp, body := get(t, s, "/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"counterBackend":"file"`) {
		t.Errorf("body = %s", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	resp, body := get(t, s, "/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("metrics output missing runtime metrics")
	}
}

func TestStaticAssets(t *testing.T) {
	s, _ := newTestServer(t)

	resp, body := get(t, s, "/static/js/site.js")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "hemkey-visitor-count") {
		t.Error("unexpected script content")
	}
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	resp, body := get(t, s, "/no-such-page")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Page not found") {
		t.Errorf("body = %s", body)
	}

	resp, body = get(t, s, "/api/no-such-endpoint")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("api status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"error":"Page not found"`) {
		t.Errorf("api body = %s", body)
	}
}

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hemkey/internal/counter"
)

func runSitectl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func useFileCounter(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "visitor-counter.json")
	t.Setenv("VISITOR_COUNTER_FILE", path)
	t.Setenv("UPSTASH_REDIS_REST_URL", "")
	t.Setenv("UPSTASH_REDIS_REST_TOKEN", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("DATABASE_URL", "")
	return path
}

func TestCounterCommands(t *testing.T) {
	useFileCounter(t)

	out, err := runSitectl(t, "counter", "incr")
	require.NoError(t, err)
	assert.Equal(t, "1 (file)\n", out)

	out, err = runSitectl(t, "counter", "incr")
	require.NoError(t, err)
	assert.Equal(t, "2 (file)\n", out)

	out, err = runSitectl(t, "counter", "get")
	require.NoError(t, err)
	assert.Equal(t, "2 (file)\n", out)
}

func TestCounterExport(t *testing.T) {
	useFileCounter(t)

	_, err := runSitectl(t, "counter", "incr")
	require.NoError(t, err)

	dest := filepath.Join(t.TempDir(), "seed.json")
	out, err := runSitectl(t, "counter", "export", "--out", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote count 1")

	seeded := counter.NewFileStore(dest)
	n, err := seeded.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	raw, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lastUpdated"`)
}

func TestSMTPVerifyNotConfigured(t *testing.T) {
	t.Setenv("SMTP_USER", "")
	t.Setenv("SMTP_PASS", "")
	t.Setenv("SITE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	out, err := runSitectl(t, "smtp", "verify")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
	assert.Contains(t, out, "Pass: not set")
}

// counterSite serves the visitor counter API from a file store.
func counterSite(t *testing.T) (*httptest.Server, counter.Store) {
	t.Helper()
	store := counter.NewFileStore(filepath.Join(t.TempDir(), "site.json"))

	// The file backend does not lock, so requests are serialized here.
	var mu sync.Mutex
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()

		var n int64
		var err error
		switch r.Method {
		case http.MethodGet:
			n, err = store.Read(r.Context())
		case http.MethodPost:
			n, err = store.Increment(r.Context())
		}
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"count":` + strconv.FormatInt(n, 10) + `}`))
	}))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestVisit(t *testing.T) {
	srv, store := counterSite(t)
	cacheDir := t.TempDir()

	out, err := runSitectl(t, "visit", "--url", srv.URL, "--sessions", "4", "--dwell", "1ms", "--cache", cacheDir)
	require.NoError(t, err)
	assert.Contains(t, out, "4 sessions, 0 degraded, highest count seen 4")

	n, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	// Returning visitors share their session cache and never increment again.
	out, err = runSitectl(t, "visit", "--url", srv.URL, "--sessions", "4", "--dwell", "1ms", "--cache", cacheDir)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(out, "incremented true"))

	n, err = store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

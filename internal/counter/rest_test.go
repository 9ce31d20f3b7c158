package counter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKV mimics the REST API of a hosted Redis: values are strings,
// INCR returns a number.
type fakeKV struct {
	mu     sync.Mutex
	token  string
	values map[string]int64
	fail   int // status to return instead of serving, 0 = serve

	cacheHeaders []string
}

func newFakeKV(token string) *fakeKV {
	return &fakeKV{token: token, values: map[string]int64{}}
}

func (kv *fakeKV) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.cacheHeaders = append(kv.cacheHeaders, r.Header.Get("Cache-Control"))

	if r.Header.Get("Authorization") != "Bearer "+kv.token {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
		return
	}
	if kv.fail != 0 {
		w.WriteHeader(kv.fail)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	command, key := parts[0], parts[1]

	switch {
	case command == "get" && r.Method == http.MethodGet:
		v, ok := kv.values[key]
		if !ok {
			_, _ = w.Write([]byte(`{"result":null}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"` + strconv.FormatInt(v, 10) + `"}`))
	case command == "incr" && r.Method == http.MethodPost:
		kv.values[key]++
		_, _ = w.Write([]byte(`{"result":` + strconv.FormatInt(kv.values[key], 10) + `}`))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestRESTStore(t *testing.T, kv *fakeKV, token string) *RESTStore {
	t.Helper()
	srv := httptest.NewServer(kv)
	t.Cleanup(srv.Close)

	store, err := NewRESTStore(srv.URL+"/", token, "visitor_count", 5*time.Second)
	require.NoError(t, err)
	return store
}

func TestRESTStore_ReadMissingKey(t *testing.T) {
	kv := newFakeKV("secret")
	store := newTestRESTStore(t, kv, "secret")

	n, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.Equal(t, BackendREST, store.Backend())
}

func TestRESTStore_SequentialIncrements(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV("secret")
	kv.values["visitor_count"] = 100
	store := newTestRESTStore(t, kv, "secret")

	initial, err := store.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(100), initial)

	const n = 5
	var last int64
	for i := 0; i < n; i++ {
		last, err = store.Increment(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, initial+n, last)

	after, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, initial+n, after)
	assert.GreaterOrEqual(t, after, last)
}

func TestRESTStore_ConcurrentIncrementsAreNotLost(t *testing.T) {
	ctx := context.Background()
	kv := newFakeKV("secret")
	store := newTestRESTStore(t, kv, "secret")

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Increment(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), n)
}

func TestRESTStore_DisablesCaching(t *testing.T) {
	kv := newFakeKV("secret")
	store := newTestRESTStore(t, kv, "secret")

	_, err := store.Read(context.Background())
	require.NoError(t, err)
	_, err = store.Increment(context.Background())
	require.NoError(t, err)

	require.Len(t, kv.cacheHeaders, 2)
	for _, h := range kv.cacheHeaders {
		assert.Equal(t, "no-store", h)
	}
}

func TestRESTStore_ErrorStatusIsTyped(t *testing.T) {
	tests := []struct {
		name       string
		token      string
		fail       int
		wantStatus int
	}{
		{"bad token", "wrong", 0, http.StatusUnauthorized},
		{"server error", "secret", http.StatusServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newFakeKV("secret")
			kv.fail = tt.fail
			store := newTestRESTStore(t, kv, tt.token)

			_, err := store.Read(context.Background())
			var re *RemoteError
			require.True(t, errors.As(err, &re), "Read error %v is not a *RemoteError", err)
			assert.Equal(t, "GET", re.Op)
			assert.Equal(t, tt.wantStatus, re.StatusCode)

			_, err = store.Increment(context.Background())
			require.True(t, errors.As(err, &re), "Increment error %v is not a *RemoteError", err)
			assert.Equal(t, "INCR", re.Op)
			assert.Equal(t, tt.wantStatus, re.StatusCode)
		})
	}
}

func TestNewRESTStore_Validation(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		token   string
		key     string
		wantErr bool
	}{
		{"valid", "https://kv.example.com", "t", "visitor_count", false},
		{"missing token", "https://kv.example.com", "", "visitor_count", true},
		{"missing url", "", "t", "visitor_count", true},
		{"bad scheme", "redis://kv.example.com", "t", "visitor_count", true},
		{"empty key", "https://kv.example.com", "t", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRESTStore(tt.url, tt.token, tt.key, time.Second)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseResult(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{`"42"`, 42},
		{`42`, 42},
		{`null`, 0},
		{``, 0},
		{`"abc"`, 0},
		{`"-3"`, 0},
		{`1.5`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseResult([]byte(tt.raw)))
		})
	}
}

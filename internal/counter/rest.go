package counter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3/client"
	jsoniter "github.com/json-iterator/go"

	"hemkey/internal/validation"
)

// RESTStore talks to a hosted Redis-compatible key-value service over its
// REST API (GET <base>/get/<key>, POST <base>/incr/<key>). INCR is atomic on
// the server side.
type RESTStore struct {
	baseURL string
	token   string
	key     string
	client  *client.Client
}

type kvReply struct {
	Result jsoniter.RawMessage `json:"result"`
	Error  string              `json:"error,omitempty"`
}

// NewRESTStore creates a store for the endpoint at baseURL.
func NewRESTStore(baseURL, token, key string, timeout time.Duration) (*RESTStore, error) {
	if baseURL == "" || token == "" {
		return nil, ErrNotConfigured
	}
	if valid, msg := validation.ValidateURL(baseURL); !valid {
		return nil, fmt.Errorf("invalid counter endpoint: %s", msg)
	}
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrNotConfigured)
	}

	cc := client.New()
	if timeout > 0 {
		cc.SetTimeout(timeout)
	}

	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		key:     key,
		client:  cc,
	}, nil
}

// Backend implements Store.
func (s *RESTStore) Backend() string {
	return BackendREST
}

// Read fetches the current value; a missing key reads as 0.
func (s *RESTStore) Read(ctx context.Context) (int64, error) {
	resp, err := s.client.Get(s.endpoint("get"), s.requestConfig(ctx))
	if err != nil {
		return 0, fmt.Errorf("KV GET request failed: %w", err)
	}
	defer resp.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return 0, &RemoteError{Op: "GET", StatusCode: resp.StatusCode()}
	}

	var reply kvReply
	if err := json.Unmarshal(resp.Body(), &reply); err != nil {
		return 0, fmt.Errorf("KV GET reply: %w", err)
	}
	return parseResult(reply.Result), nil
}

// Increment atomically increments the key and returns the new value.
func (s *RESTStore) Increment(ctx context.Context) (int64, error) {
	resp, err := s.client.Post(s.endpoint("incr"), s.requestConfig(ctx))
	if err != nil {
		return 0, fmt.Errorf("KV INCR request failed: %w", err)
	}
	defer resp.Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return 0, &RemoteError{Op: "INCR", StatusCode: resp.StatusCode()}
	}

	var reply kvReply
	if err := json.Unmarshal(resp.Body(), &reply); err != nil {
		return 0, fmt.Errorf("KV INCR reply: %w", err)
	}
	if reply.Error != "" {
		return 0, errors.New("KV INCR: " + reply.Error)
	}
	return parseResult(reply.Result), nil
}

// Close implements Store.
func (s *RESTStore) Close() error {
	return nil
}

func (s *RESTStore) endpoint(command string) string {
	return s.baseURL + "/" + command + "/" + url.PathEscape(s.key)
}

func (s *RESTStore) requestConfig(ctx context.Context) client.Config {
	return client.Config{
		Ctx: ctx,
		Header: map[string]string{
			"Authorization": "Bearer " + s.token,
			"Cache-Control": "no-store",
		},
	}
}

// parseResult reads a KV result that may be a JSON string, number or null.
// Anything that is not an integer reads as 0.
func parseResult(raw jsoniter.RawMessage) int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0
		}
	}

	n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

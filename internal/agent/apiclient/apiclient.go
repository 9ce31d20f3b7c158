// Package apiclient calls the site's visitor counter API on behalf of the
// counter agent.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3/client"
	jsoniter "github.com/json-iterator/go"

	"hemkey/internal/models"
	"hemkey/internal/validation"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// CounterPath is the visitor counter endpoint relative to the site root.
const CounterPath = "/api/visitor-counter"

// StatusError is a non-2xx reply from the site.
type StatusError struct {
	Method     string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP error, status %d", e.Method, CounterPath, e.StatusCode)
}

// Client reads and increments the visitor count through the site API.
type Client struct {
	baseURL string
	client  *client.Client
}

// New creates a client for the site at baseURL.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if valid, msg := validation.ValidateURL(baseURL); !valid {
		return nil, fmt.Errorf("invalid site URL: %s", msg)
	}

	cc := client.New()
	if timeout > 0 {
		cc.SetTimeout(timeout)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  cc,
	}, nil
}

// Read returns the current count.
func (c *Client) Read(ctx context.Context) (int64, error) {
	resp, err := c.client.Get(c.baseURL+CounterPath, client.Config{Ctx: ctx})
	if err != nil {
		return 0, fmt.Errorf("GET %s: %w", CounterPath, err)
	}
	defer resp.Close()

	return decode("GET", resp.StatusCode(), resp.Body())
}

// Increment registers one visit and returns the new count.
func (c *Client) Increment(ctx context.Context) (int64, error) {
	resp, err := c.client.Post(c.baseURL+CounterPath, client.Config{
		Ctx:    ctx,
		Header: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		return 0, fmt.Errorf("POST %s: %w", CounterPath, err)
	}
	defer resp.Close()

	return decode("POST", resp.StatusCode(), resp.Body())
}

func decode(method string, status int, body []byte) (int64, error) {
	if status < 200 || status > 299 {
		return 0, &StatusError{Method: method, StatusCode: status}
	}

	var reply models.CounterResponse
	if err := json.Unmarshal(body, &reply); err != nil {
		return 0, fmt.Errorf("%s %s reply: %w", method, CounterPath, err)
	}
	if !reply.Success {
		msg := reply.Error
		if msg == "" {
			msg = "server returned error"
		}
		return 0, errors.New(msg)
	}
	return reply.Count, nil
}

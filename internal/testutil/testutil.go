// Package testutil provides test utilities and helpers.
package testutil

import (
	"os"
	"testing"

	"github.com/google/uuid"
)

// DatabaseURL returns TEST_DATABASE_URL or skips the test when it is unset.
func DatabaseURL(t *testing.T) string {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	return connString
}

// RedisURL returns TEST_REDIS_URL or skips the test when it is unset.
func RedisURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	return url
}

// UniqueKey returns prefix plus a random suffix so parallel runs against a
// shared server never touch each other's counters.
func UniqueKey(prefix string) string {
	return prefix + "_test_" + uuid.NewString()
}

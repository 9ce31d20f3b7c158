package email

import (
	"context"
	"errors"
	"net"
)

// ErrNotConfigured is returned before any connection attempt when SMTP
// credentials are missing.
var ErrNotConfigured = errors.New("email service not configured")

// Transport stages.
const (
	StageVerify = "verify"
	StageSend   = "send"
)

// Transport error codes, named after the codes common SMTP clients report.
const (
	CodeAuth       = "EAUTH"
	CodeConnection = "ECONNECTION"
	CodeTimeout    = "ETIMEDOUT"
)

// TransportError is a failure talking to the mail server.
// Stage separates a failed connectivity check from a failed delivery.
type TransportError struct {
	Stage string
	Code  string // one of the Code constants, or empty when not derivable
	Err   error
}

func (e *TransportError) Error() string {
	msg := "smtp " + e.Stage + " failed"
	if e.Code != "" {
		msg += " (" + e.Code + ")"
	}
	return msg + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsVerify reports whether err is a failed transport verification.
func IsVerify(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Stage == StageVerify
}

// ErrorCode returns the transport code carried by err, or "".
func ErrorCode(err error) string {
	var te *TransportError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

// dialCode classifies a failure to reach the server.
func dialCode(err error) string {
	if isTimeout(err) {
		return CodeTimeout
	}
	return CodeConnection
}

// ioCode classifies a failure after the session was established.
func ioCode(err error) string {
	if isTimeout(err) {
		return CodeTimeout
	}
	return ""
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

package client

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a request failure
type Kind string

const (
	// KindUnauthenticated means auth was required but no token is stored;
	// the request was rejected locally without a network call.
	KindUnauthenticated Kind = "unauthenticated"
	// KindUnauthorized means the server answered 401; the session has been
	// cleared as a side effect.
	KindUnauthorized Kind = "unauthorized"
	// KindForbidden means the server answered 403 (insufficient role)
	KindForbidden Kind = "forbidden"
	// KindHTTP covers any other non-2xx status
	KindHTTP Kind = "http-error"
	// KindNetwork covers transport-level failures (connection refused, DNS, ...)
	KindNetwork Kind = "network-failure"
)

// Error is the typed failure raised by the request gateway
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Kind, e.Status)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same kind, so callers can test against the
// kind sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Kind sentinels for errors.Is checks
var (
	ErrNotAuthenticated = &Error{Kind: KindUnauthenticated, Message: "not authenticated. Please run 'cedula login' first"}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized, Message: "unauthorized. Please login again"}
	ErrForbidden        = &Error{Kind: KindForbidden, Message: "access forbidden: insufficient permissions"}
)

// serverMessage extracts a human-readable message from an error response
// body. Bodies are optimistically parsed as JSON with message/error fields;
// anything unparseable falls back to the given default. It never fails.
func serverMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fallback
}

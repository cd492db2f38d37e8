// Package apierr classifies failed ByteBoard requests into a small, mutually
// exclusive taxonomy consumed by the session and cache layers.
package apierr

import (
	"errors"
	"fmt"
)

// Kind is the failure category of one request.
type Kind int

const (
	// KindTransport covers requests that never produced an HTTP response:
	// connection refused, timeout, DNS failure.
	KindTransport Kind = iota
	// KindUnauthorized is the dedicated "unauthenticated/expired credential"
	// status. It is intercepted centrally before reaching callers.
	KindUnauthorized
	// KindForbidden is an authenticated request rejected by ownership or
	// role checks.
	KindForbidden
	// KindValidation is a request rejected for malformed or missing fields.
	KindValidation
	// KindNotFound means the target entity does not exist.
	KindNotFound
	// KindConflict is a state conflict, e.g. a username already taken.
	KindConflict
	// KindServer is any remaining server-side failure.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Error is the failure of a single ByteBoard request. Status is zero for
// transport failures.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("byteboard: %s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("byteboard: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("byteboard: %s (status %d)", e.Kind, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FromStatus maps an HTTP status to its failure kind.
func FromStatus(status int) Kind {
	switch status {
	case 401:
		return KindUnauthorized
	case 403:
		return KindForbidden
	case 400, 422:
		return KindValidation
	case 404:
		return KindNotFound
	case 409:
		return KindConflict
	default:
		return KindServer
	}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}

// IsUnauthorized reports whether err is a credential failure.
func IsUnauthorized(err error) bool { return IsKind(err, KindUnauthorized) }

// IsTransport reports whether err is a transport-level failure.
func IsTransport(err error) bool { return IsKind(err, KindTransport) }

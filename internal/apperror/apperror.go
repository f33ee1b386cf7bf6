package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindUnauthenticated
	KindNotFound
	KindConflict
	KindDataStore
	KindUpstreamUnavailable
	KindSchemaMismatch
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindDataStore:
		return "datastore"
	case KindUpstreamUnavailable:
		return "upstream_unavailable"
	case KindSchemaMismatch:
		return "schema_mismatch"
	default:
		return "unknown"
	}
}

// Error carries a kind plus a human-readable message.
type Error struct {
	ErrKind Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, wrapped error) *Error {
	return &Error{ErrKind: kind, Message: msg, Err: wrapped}
}

func InvalidArgument(msg string) error { return newError(KindInvalidArgument, msg, nil) }

func Unauthenticated(msg string) error { return newError(KindUnauthenticated, msg, nil) }

func NotFound(msg string) error { return newError(KindNotFound, msg, nil) }

func Conflict(msg string) error { return newError(KindConflict, msg, nil) }

func DataStore(msg string, err error) error { return newError(KindDataStore, msg, err) }

func UpstreamUnavailable(msg string, err error) error {
	return newError(KindUpstreamUnavailable, msg, err)
}

func SchemaMismatch(msg string, err error) error { return newError(KindSchemaMismatch, msg, err) }

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.ErrKind
	}
	return KindUnknown
}

// HTTPStatus maps an error kind to the status code reported at the API boundary.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindSchemaMismatch:
		return http.StatusBadGateway
	case KindUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

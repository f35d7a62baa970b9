package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the response layer can pick the right
// catalog message and HTTP status without inspecting error text.
type Kind int

const (
	Unexpected Kind = iota
	Validation
	NotFound
	Persistence
	Storage
)

// String returns the log-facing name of the kind.
func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Persistence:
		return "persistence"
	case Storage:
		return "storage"
	default:
		return "unexpected"
	}
}

// Error carries a failure kind, the operation that produced it, and the
// underlying cause. The cause is for the log sink only and must never be
// rendered into a client response.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with a kind and operation name.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf wraps a formatted message as an Error.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf reports the kind of err, or Unexpected when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unexpected
}

// OpOf reports the operation recorded on err, or empty.
func OpOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// IsKind reports whether err is classified as k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

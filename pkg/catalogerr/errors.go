package catalogerr

import (
	"errors"
	"fmt"
)

// Kind is one of the seven error kinds named in spec.md §7.
type Kind string

const (
	KindCoerce             Kind = "coerce"
	KindSchema             Kind = "schema"
	KindNotFound           Kind = "not_found"
	KindStorage            Kind = "storage"
	KindTransactionAborted Kind = "transaction_aborted"
	KindWireFormat         Kind = "wire_format"
	KindInvariant          Kind = "invariant"
)

// Error is a typed error carrying one of the seven kinds plus an optional
// wrapped cause. It satisfies errors.Is against another *Error with the same
// Kind, and errors.As for callers that want the kind and cause directly.
type Error struct {
	Kind    Kind
	Op      string // short operation name, e.g. "Aspect.Write", "DAO.SaveCatalog"
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same Kind, so callers can
// write errors.Is(err, catalogerr.New(catalogerr.KindNotFound, "", "")).
func (e *Error) Is(target error) bool {
	var te *Error
	if !errors.As(target, &te) {
		return false
	}
	return e.Kind == te.Kind
}

// New constructs an *Error.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap constructs an *Error around a cause.
func Wrap(kind Kind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// CoerceError is raised by pkg/value when a value cannot be converted to
// the target PropertyType. FromType/ToType are PropertyType codes (e.g.
// "STR", "INT"); Cause, when present, is the underlying parse error.
type CoerceError struct {
	FromType string
	ToType   string
	Cause    error
}

func (e *CoerceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot coerce %s to %s: %v", e.FromType, e.ToType, e.Cause)
	}
	return fmt.Sprintf("cannot coerce %s to %s", e.FromType, e.ToType)
}

func (e *CoerceError) Unwrap() error { return e.Cause }

// AsKind reports whether err (or something it wraps) is a *Error of kind k.
func AsKind(err error, k Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == k
	}
	return false
}

package usecase

import (
	"errors"
	"fmt"

	"hospital-booking/pkg/database"
)

// Kind classifies every error a service returns.
type Kind int

const (
	KindFatal Kind = iota
	KindValidation
	KindInvalidPayment
	KindFeeMismatch
	KindSlotUnavailable
	KindNotFound
	KindForbidden
	KindConflict
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindInvalidPayment:
		return "invalid_payment"
	case KindFeeMismatch:
		return "fee_mismatch"
	case KindSlotUnavailable:
		return "slot_unavailable"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindTransient:
		return "transient"
	default:
		return "internal_error"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Fields holds per-field validation messages, keyed by JSON path.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(fields map[string]string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// KindOf returns the kind of err; unclassified errors are fatal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindFatal
}

// classify turns a repository or driver error into a typed error.
// Errors that already carry a kind pass through unchanged.
func classify(err error, message string) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	if database.IsTransient(err) {
		return &Error{Kind: KindTransient, Message: "service temporarily unavailable, retry", Err: err}
	}
	return &Error{Kind: KindFatal, Message: message, Err: err}
}

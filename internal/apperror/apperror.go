// Package apperror defines the error kinds returned by splitogram's core
// operations. Every error carries a stable machine-readable Kind plus a
// human-readable detail.
package apperror

import (
	"errors"
	"fmt"
)

// Kind is the machine-readable error category.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindNotMember         Kind = "not_member"
	KindNotInvolved       Kind = "not_involved"
	KindInvalidStatus     Kind = "invalid_status"
	KindNotDebtor         Kind = "not_debtor"
	KindNotCreditor       Kind = "not_creditor"
	KindNoOutstandingDebt Kind = "no_outstanding_debt"
	KindValidation        Kind = "validation_error"
	KindOracleUnavailable Kind = "oracle_unavailable"
	KindInternal          Kind = "internal"
)

// Error is a categorized error.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind, so callers can compare against
// the sentinel values below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Detail == "" && t.Err == nil
}

// Sentinels for errors.Is.
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrNotMember         = &Error{Kind: KindNotMember}
	ErrNotInvolved       = &Error{Kind: KindNotInvolved}
	ErrInvalidStatus     = &Error{Kind: KindInvalidStatus}
	ErrNotDebtor         = &Error{Kind: KindNotDebtor}
	ErrNotCreditor       = &Error{Kind: KindNotCreditor}
	ErrNoOutstandingDebt = &Error{Kind: KindNoOutstandingDebt}
	ErrValidation        = &Error{Kind: KindValidation}
)

// New creates an error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...), Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, format, args...)
}

func NotMember(format string, args ...any) *Error {
	return New(KindNotMember, format, args...)
}

func NotInvolved(format string, args ...any) *Error {
	return New(KindNotInvolved, format, args...)
}

func InvalidStatus(format string, args ...any) *Error {
	return New(KindInvalidStatus, format, args...)
}

func NotDebtor(format string, args ...any) *Error {
	return New(KindNotDebtor, format, args...)
}

func NotCreditor(format string, args ...any) *Error {
	return New(KindNotCreditor, format, args...)
}

func NoOutstandingDebt(format string, args ...any) *Error {
	return New(KindNoOutstandingDebt, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// KindOf returns the Kind of err, or KindInternal for uncategorized errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// DetailOf returns the human-readable detail of err.
func DetailOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Detail != "" {
		return appErr.Detail
	}
	return "internal error"
}

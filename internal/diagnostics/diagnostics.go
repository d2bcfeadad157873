// Package diagnostics defines the typed error taxonomy shared by every
// stage of the pipeline (parsing, elaboration, type inference, lowering,
// and the VM). Every user-visible error is a *DiagnosticError carrying one
// of the ErrorCode values below; spec.md §6.4 waives source-location
// information, so DiagnosticError carries none.
package diagnostics

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorCode names one category from the error taxonomy (spec.md §7).
type ErrorCode string

const (
	ErrSyntax             ErrorCode = "SyntaxError"
	ErrForm               ErrorCode = "FormError"
	ErrReservedIdentifier ErrorCode = "ReservedIdentifier"
	ErrUnbound            ErrorCode = "Unbound"
	ErrRedefined          ErrorCode = "Redefined"
	ErrKindMismatch       ErrorCode = "KindMismatch"
	ErrKindError          ErrorCode = "KindError"
	ErrOccursCheck        ErrorCode = "OccursCheck"
	ErrMismatch           ErrorCode = "Mismatch"
	ErrMissingField       ErrorCode = "MissingField"
	ErrUnknownSignature   ErrorCode = "UnknownSignature"
	ErrGeneralizationLost ErrorCode = "GeneralizationLost"
	ErrNotCallable        ErrorCode = "NotCallable"
)

// DiagnosticError is the concrete error type returned by every package in
// the pipeline. Session, when set by internal/session, holds a fresh
// random id attached to an error returned from Exec or Check.
type DiagnosticError struct {
	Code    ErrorCode
	Message string
	Session string
}

func (e *DiagnosticError) Error() string {
	if e.Session != "" {
		return fmt.Sprintf("%s: %s [%s]", e.Code, e.Message, e.Session)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New builds a DiagnosticError with no session correlation id attached.
// Tag attaches one later; internal/session calls it on every error its
// Exec and Check return.
func New(code ErrorCode, format string, args ...any) *DiagnosticError {
	return &DiagnosticError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Tag returns a copy of err with a fresh session-correlation id, if err is
// a *DiagnosticError. Non-diagnostic errors pass through unchanged.
func Tag(err error) error {
	de, ok := err.(*DiagnosticError)
	if !ok || err == nil {
		return err
	}
	tagged := *de
	tagged.Session = uuid.NewString()
	return &tagged
}

// Is reports whether err is a DiagnosticError of the given code.
func Is(err error, code ErrorCode) bool {
	de, ok := err.(*DiagnosticError)
	return ok && de.Code == code
}

package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Aborter is an error that already knows the HTTP response it should produce.
type Aborter interface {
	error
	Status() int
	Reason() string
	Headers() http.Header
}

// Debuggable is an error that can describe itself to a developer.
// The description is only shown to clients outside release mode.
type Debuggable interface {
	error
	DebugReason() string
}

// AbortError is the default Aborter implementation
type AbortError struct {
	code   int
	reason string
	header http.Header
}

// Abort creates an abort error for the given status and reason.
// An empty reason falls back to the standard status text.
func Abort(status int, reason string) *AbortError {
	if reason == "" {
		reason = http.StatusText(status)
	}
	return &AbortError{code: status, reason: reason}
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("abort %d: %s", e.code, e.reason)
}

// Status returns the HTTP status code carried by the error.
func (e *AbortError) Status() int { return e.code }

// Reason returns the client-facing reason.
func (e *AbortError) Reason() string { return e.reason }

// Headers returns a copy of the headers to send with the response.
func (e *AbortError) Headers() http.Header {
	if e.header == nil {
		return http.Header{}
	}
	return e.header.Clone()
}

// Is matches abort errors with the same status and reason, so copies made by
// WithHeader still match the predefined errors below.
func (e *AbortError) Is(target error) bool {
	t, ok := target.(*AbortError)
	return ok && t.code == e.code && t.reason == e.reason
}

// WithHeader returns a copy of the error with an extra response header.
func (e *AbortError) WithHeader(key, value string) *AbortError {
	cp := &AbortError{code: e.code, reason: e.reason, header: e.Headers()}
	cp.header.Add(key, value)
	return cp
}

// Predefined abort errors
var (
	// ErrNotFound - no route or resource matched (404)
	ErrNotFound = Abort(http.StatusNotFound, "")

	// ErrForbidden - caller may not access the resource (403)
	ErrForbidden = Abort(http.StatusForbidden, "")

	// ErrMethodNotAllowed - route exists but not for this method (405)
	ErrMethodNotAllowed = Abort(http.StatusMethodNotAllowed, "")
)

// ValidationError represents a request that failed input validation.
// Its message is considered safe to show to clients.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Reason returns the client-facing validation message.
func (e *ValidationError) Reason() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// InternalError represents an unexpected server failure.
// Its details are only exposed outside release mode.
type InternalError struct {
	Message string
	Err     error
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal error: %s - %v", e.Message, e.Err)
	}
	return fmt.Sprintf("internal error: %s", e.Message)
}

// DebugReason implements Debuggable.
func (e *InternalError) DebugReason() string {
	return e.Error()
}

func (e *InternalError) Unwrap() error { return e.Err }

// IsValidation checks if an error is a validation failure of either kind.
func IsValidation(err error) bool {
	_, ok := validationReason(err)
	return ok
}

// validationReason extracts a client-facing message from a validation failure.
func validationReason(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason(), true
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s: failed '%s' validation", fe.Field(), fe.Tag()))
		}
		return strings.Join(msgs, "; "), true
	}

	return "", false
}

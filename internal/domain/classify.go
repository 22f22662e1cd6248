package domain

import (
	"errors"
	"net/http"
	"strconv"
)

// GenericReason is shown for errors whose details must not reach the client.
const GenericReason = "Something went wrong."

// Category is the closed set of error kinds the error pages distinguish.
type Category int

const (
	CategoryOpaque Category = iota
	CategoryAbort
	CategoryValidation
	CategoryDebuggable
)

func (c Category) String() string {
	switch c {
	case CategoryAbort:
		return "abort"
	case CategoryValidation:
		return "validation"
	case CategoryDebuggable:
		return "debuggable"
	default:
		return "opaque"
	}
}

// Categorize reports the highest-priority capability err exposes.
// Priority: abort, validation, debuggable, opaque.
func Categorize(err error) Category {
	if err == nil {
		return CategoryOpaque
	}

	var abort Aborter
	if errors.As(err, &abort) {
		return CategoryAbort
	}
	if IsValidation(err) {
		return CategoryValidation
	}
	var dbg Debuggable
	if errors.As(err, &dbg) {
		return CategoryDebuggable
	}
	return CategoryOpaque
}

// ClassifiedError is the response-shaped view of a failed request.
type ClassifiedError struct {
	Status  int
	Reason  string
	Headers http.Header
}

// Text renders the plain-text fallback body.
func (c ClassifiedError) Text() string {
	return strconv.Itoa(c.Status) + "\n\n" + c.Reason
}

// Classify maps err to a status, reason and header set.
// In release mode debuggable errors are reported with GenericReason.
func Classify(err error, release bool) ClassifiedError {
	switch Categorize(err) {
	case CategoryAbort:
		var abort Aborter
		errors.As(err, &abort)
		status := abort.Status()
		if status < 100 || status > 599 {
			status = http.StatusInternalServerError
		}
		headers := abort.Headers()
		if headers == nil {
			headers = http.Header{}
		} else {
			headers = headers.Clone()
		}
		return ClassifiedError{Status: status, Reason: abort.Reason(), Headers: headers}

	case CategoryValidation:
		reason, _ := validationReason(err)
		return ClassifiedError{Status: http.StatusBadRequest, Reason: reason, Headers: http.Header{}}

	case CategoryDebuggable:
		if !release {
			var dbg Debuggable
			errors.As(err, &dbg)
			return ClassifiedError{Status: http.StatusInternalServerError, Reason: dbg.DebugReason(), Headers: http.Header{}}
		}
	}

	return ClassifiedError{Status: http.StatusInternalServerError, Reason: GenericReason, Headers: http.Header{}}
}

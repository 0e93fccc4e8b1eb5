package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoSuchElement is returned by a backend when a find-one query matches nothing.
var ErrNoSuchElement = errors.New("no such element")

// ErrAmbiguousMatch is returned by backends that enforce singularity on find-one queries.
var ErrAmbiguousMatch = errors.New("more than one element matches")

// ErrStaleElement is returned when an element handle is no longer attached to the document.
// It is the only transient condition: the execution envelope retries it.
var ErrStaleElement = errors.New("stale element reference")

// ErrInvalidSelector is returned when a backend cannot evaluate a locator expression.
var ErrInvalidSelector = errors.New("invalid selector")

// ErrInvalidArgument is returned when a locator is built from an illegal combination.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrUnsupportedOperation is returned when an operation is not allowed for the receiver.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// ErrNoElements is returned when a single-element operation runs against an empty element set.
var ErrNoElements = errors.New("no elements in focus")

// ErrRecordingSealed is returned when a chain keeps recording after its log was handed to playback.
var ErrRecordingSealed = errors.New("recording is sealed")

// AssertionError reports a failed sanity check on an element set.
// It is never retried.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// TagMismatch builds the assertion failure raised when an element carries an unexpected tag.
func TagMismatch(expected, actual string) *AssertionError {
	return &AssertionError{
		Message: fmt.Sprintf("tag was incorrect: expected '%s' but was '%s'", expected, actual),
	}
}

// ExecutionStopped is the single error value surfaced for any fatal chain step.
type ExecutionStopped struct {
	// Message is "<classification> during invocation of: <description>".
	Message string
	Cause   error
	Retries int
	Elapsed time.Duration
}

func (e *ExecutionStopped) Error() string {
	if e.Retries > 0 {
		return fmt.Sprintf("%d retries over %d millis; %s", e.Retries, e.Elapsed.Milliseconds(), e.Message)
	}
	return e.Message
}

func (e *ExecutionStopped) Unwrap() error {
	return e.Cause
}

// Classification labels used in ExecutionStopped messages.
const (
	ClassAssertion   = "AssertionError"
	ClassStale       = "StaleElementReference"
	ClassNotFound    = "NoSuchElement"
	ClassNoElements  = "NoElements"
	ClassSelector    = "InvalidSelector"
	ClassArgument    = "InvalidArgument"
	ClassUnsupported = "UnsupportedOperation"
	ClassCanceled    = "Canceled"
	ClassBackend     = "BackendError"
)

// Classified can be implemented by backend errors that carry their own label.
type Classified interface {
	Classification() string
}

// Classify maps an error to the label used in ExecutionStopped messages.
// Not-found and ambiguous matches collapse into one classification.
func Classify(err error) string {
	var assertion *AssertionError
	var classified Classified
	switch {
	case errors.As(err, &assertion):
		return ClassAssertion
	case errors.Is(err, ErrStaleElement):
		return ClassStale
	case errors.Is(err, ErrNoSuchElement), errors.Is(err, ErrAmbiguousMatch):
		return ClassNotFound
	case errors.Is(err, ErrNoElements):
		return ClassNoElements
	case errors.Is(err, ErrInvalidSelector):
		return ClassSelector
	case errors.Is(err, ErrInvalidArgument):
		return ClassArgument
	case errors.Is(err, ErrUnsupportedOperation):
		return ClassUnsupported
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ClassCanceled
	case errors.As(err, &classified):
		return classified.Classification()
	}
	return ClassBackend
}

// IsTransient reports whether err is worth another attempt.
func IsTransient(err error) bool {
	var assertion *AssertionError
	if errors.As(err, &assertion) {
		return false
	}
	return errors.Is(err, ErrStaleElement)
}

// Stopped builds the terminal error for a step.
func Stopped(description string, cause error, retries int, elapsed time.Duration) *ExecutionStopped {
	var b strings.Builder
	b.WriteString(Classify(cause))
	b.WriteString(" during invocation of: ")
	b.WriteString(description)
	return &ExecutionStopped{
		Message: b.String(),
		Cause:   cause,
		Retries: retries,
		Elapsed: elapsed,
	}
}

package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
)

// Error codes carried in the "error" field of failed responses.
const (
	CodeNoSuchElement = "no such element"
	CodeStale         = "stale element reference"
	CodeSelector      = "invalid selector"
	CodeArgument      = "invalid argument"
	CodeUnsupported   = "unsupported operation"
	CodeNoElements    = "no elements"
	CodeCanceled      = "canceled"
	CodeUnknown       = "unknown error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var codes = []struct {
	code     string
	sentinel error
	status   int
}{
	{CodeStale, domain.ErrStaleElement, http.StatusNotFound},
	{CodeNoSuchElement, domain.ErrNoSuchElement, http.StatusNotFound},
	{CodeNoSuchElement, domain.ErrAmbiguousMatch, http.StatusNotFound},
	{CodeSelector, domain.ErrInvalidSelector, http.StatusBadRequest},
	{CodeArgument, domain.ErrInvalidArgument, http.StatusBadRequest},
	{CodeUnsupported, domain.ErrUnsupportedOperation, http.StatusMethodNotAllowed},
	{CodeNoElements, domain.ErrNoElements, http.StatusBadRequest},
	{CodeCanceled, context.Canceled, http.StatusRequestTimeout},
	{CodeCanceled, context.DeadlineExceeded, http.StatusRequestTimeout},
}

// encodeError picks the code and status for err.
func encodeError(err error) (ErrorResponse, int) {
	for _, c := range codes {
		if errors.Is(err, c.sentinel) {
			return ErrorResponse{Error: c.code, Message: err.Error()}, c.status
		}
	}
	return ErrorResponse{Error: CodeUnknown, Message: err.Error()}, http.StatusInternalServerError
}

// RemoteError is a failure reported by the server. It unwraps to the
// matching domain sentinel so classification and retries work as they do locally.
type RemoteError struct {
	Code    string
	Message string
	Status  int
}

func (e *RemoteError) Error() string {
	return e.Message
}

func (e *RemoteError) Unwrap() error {
	for _, c := range codes {
		if c.code == e.Code {
			return c.sentinel
		}
	}
	return nil
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rodrigues2k/fluent-selenium"
	"github.com/rodrigues2k/fluent-selenium/internal/script"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
)

// RunRequest is the body of POST /run.
type RunRequest struct {
	Script string `json:"script"`
	Mode   string `json:"mode"`
}

// WithRunner enables POST /run, which executes a YAML chain script server-side
// against the served driver. chainOpts apply to every chain it runs.
func WithRunner(chainOpts ...fluent.Option) ServerOption {
	return func(s *Server) {
		s.runner = true
		s.chainOpts = append(s.chainOpts, chainOpts...)
	}
}

// Run handles POST /run. A stopped chain still answers 200 with the report;
// the report's error field carries the message.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.fail(w, r, fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidArgument))
		return
	}
	mode, err := script.ParseMode(body.Mode)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	steps, err := script.Parse([]byte(body.Script))
	if err != nil {
		s.fail(w, r, fmt.Errorf("%v: %w", err, domain.ErrInvalidArgument))
		return
	}

	opts := append([]fluent.Option{fluent.WithContext(r.Context()), fluent.WithLogger(s.logger)}, s.chainOpts...)
	report, err := script.Execute(s.driver, steps, script.Options{Mode: mode, Chain: opts})
	var stopped *domain.ExecutionStopped
	if err != nil && !errors.As(err, &stopped) {
		s.fail(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, report)
}

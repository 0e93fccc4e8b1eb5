package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
)

// Envelope wraps every live chain step with retry, assertions and error translation.
// One envelope may be shared by all chain values descending from the same root.
type Envelope struct {
	policy domain.RetryPolicy
	hooks  domain.Hooks
	logger *slog.Logger
	now    func() time.Time
	sleep  func(time.Duration)
}

// EnvelopeOption configures an Envelope.
type EnvelopeOption func(*Envelope)

// WithPolicy sets the retry policy.
func WithPolicy(p domain.RetryPolicy) EnvelopeOption {
	return func(e *Envelope) {
		e.policy = p
	}
}

// WithHooks registers observability callbacks.
func WithHooks(h domain.Hooks) EnvelopeOption {
	return func(e *Envelope) {
		e.hooks = e.hooks.Merge(h)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EnvelopeOption {
	return func(e *Envelope) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock replaces the wall clock and the back-off sleep.
func WithClock(now func() time.Time, sleep func(time.Duration)) EnvelopeOption {
	return func(e *Envelope) {
		e.now = now
		e.sleep = sleep
	}
}

// NewEnvelope creates an envelope with the default retry policy.
func NewEnvelope(opts ...EnvelopeOption) *Envelope {
	e := &Envelope{
		policy: domain.DefaultRetryPolicy(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
		sleep:  time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the retry policy in effect.
func (e *Envelope) Policy() domain.RetryPolicy {
	return e.policy
}

// Step identifies the unit of work for diagnostics.
type Step struct {
	Method      string
	Description string
}

type phase int

const (
	pending phase = iota
	attempting
	retrying
	succeeded
	failedFatal
)

// Execute runs action, then every check against its result.
// Transient failures are retried while the policy allows; anything else, and a
// retry budget running out, ends in a *domain.ExecutionStopped.
func Execute[T any](ctx context.Context, e *Envelope, step Step, action func(context.Context) (T, error), checks ...func(context.Context, T) error) (T, error) {
	var (
		result   T
		err      error
		attempt  int
		retries  int
		elapsed  time.Duration
		start    = e.now()
		schedule = e.schedule()
		state    = pending
	)

	for {
		switch state {
		case pending:
			state = attempting

		case attempting:
			attempt++
			result, err = try(ctx, action, checks)
			elapsed = e.now().Sub(start)
			switch {
			case err == nil:
				state = succeeded
			case ctx.Err() != nil || !domain.IsTransient(err) || attempt >= e.policy.Attempts():
				state = failedFatal
			default:
				state = retrying
			}

		case retrying:
			delay := schedule.NextBackOff()
			if e.policy.MaxElapsed > 0 && elapsed+delay > e.policy.MaxElapsed {
				state = failedFatal
				continue
			}
			retries++
			event := e.event(step, attempt, retries, elapsed, err)
			e.logger.DebugContext(ctx, "retrying step", "description", step.Description, "retries", retries, "delay", delay, "error", err)
			if e.hooks.OnRetry != nil {
				e.hooks.OnRetry(ctx, event)
			}
			e.sleep(delay)
			state = attempting

		case succeeded:
			if e.hooks.OnSuccess != nil {
				e.hooks.OnSuccess(ctx, e.event(step, attempt, retries, elapsed, nil))
			}
			return result, nil

		case failedFatal:
			stopped := domain.Stopped(step.Description, err, retries, elapsed)
			e.logger.WarnContext(ctx, "step stopped", "description", step.Description, "retries", retries, "elapsed", elapsed, "error", err)
			if e.hooks.OnStopped != nil {
				e.hooks.OnStopped(ctx, e.event(step, attempt, retries, elapsed, stopped))
			}
			var zero T
			return zero, stopped
		}
	}
}

func try[T any](ctx context.Context, action func(context.Context) (T, error), checks []func(context.Context, T) error) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	result, err := action(ctx)
	if err != nil {
		return result, err
	}
	for _, check := range checks {
		if err := check(ctx, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (e *Envelope) schedule() *backoff.ExponentialBackOff {
	multiplier := e.policy.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	ceiling := e.policy.MaxBackoff
	if ceiling < e.policy.InitialBackoff {
		ceiling = e.policy.InitialBackoff
	}
	b := &backoff.ExponentialBackOff{
		InitialInterval:     e.policy.InitialBackoff,
		RandomizationFactor: 0,
		Multiplier:          multiplier,
		MaxInterval:         ceiling,
	}
	b.Reset()
	return b
}

func (e *Envelope) event(step Step, attempt, retries int, elapsed time.Duration, err error) *domain.StepEvent {
	return &domain.StepEvent{
		Timestamp:   e.now(),
		Description: step.Description,
		Method:      step.Method,
		Attempt:     attempt,
		Retries:     retries,
		Elapsed:     elapsed,
		Err:         err,
	}
}

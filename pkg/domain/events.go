package domain

import (
	"context"
	"time"
)

// StepEvent describes one chain step as seen by the execution envelope.
type StepEvent struct {
	Timestamp   time.Time     `json:"timestamp"`
	Description string        `json:"description"`
	Method      string        `json:"method"`
	Attempt     int           `json:"attempt"`
	Retries     int           `json:"retries"`
	Elapsed     time.Duration `json:"elapsed"`
	Err         error         `json:"-"`
}

// Hooks defines callbacks for envelope observability.
// Nil callbacks are skipped.
type Hooks struct {
	OnRetry   func(context.Context, *StepEvent)
	OnSuccess func(context.Context, *StepEvent)
	OnStopped func(context.Context, *StepEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnRetry:   chain(h.OnRetry, other.OnRetry),
		OnSuccess: chain(h.OnSuccess, other.OnSuccess),
		OnStopped: chain(h.OnStopped, other.OnStopped),
	}
}

func chain(a, b func(context.Context, *StepEvent)) func(context.Context, *StepEvent) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *StepEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

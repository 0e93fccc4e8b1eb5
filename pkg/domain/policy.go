package domain

import "time"

// RetryPolicy bounds how long the execution envelope keeps retrying transient failures.
type RetryPolicy struct {
	// MaxAttempts counts the first attempt. Values below 1 mean a single attempt.
	MaxAttempts int `yaml:"max_attempts" json:"max_attempts"`
	// MaxElapsed is the overall time budget for one step. Zero disables the budget.
	MaxElapsed time.Duration `yaml:"max_elapsed" json:"max_elapsed"`
	// InitialBackoff is the first sleep between attempts.
	InitialBackoff time.Duration `yaml:"initial_backoff" json:"initial_backoff"`
	// MaxBackoff caps a single sleep.
	MaxBackoff time.Duration `yaml:"max_backoff" json:"max_backoff"`
	// Multiplier grows the sleep after each retry.
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

// DefaultRetryPolicy retries stale elements for up to five attempts within five seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    5,
		MaxElapsed:     5 * time.Second,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     time.Second,
		Multiplier:     2,
	}
}

// NoRetry makes every failure fatal on the first attempt.
func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// Attempts returns the effective attempt limit.
func (p RetryPolicy) Attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

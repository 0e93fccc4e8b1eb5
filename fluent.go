package fluent

import (
	"context"
	"log/slog"

	"github.com/rodrigues2k/fluent-selenium/internal/logging"
	"github.com/rodrigues2k/fluent-selenium/internal/runtime"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"github.com/rodrigues2k/fluent-selenium/pkg/recording"
)

type settings struct {
	ctx      context.Context
	logger   *slog.Logger
	policy   domain.RetryPolicy
	hooks    domain.Hooks
	envelope []runtime.EnvelopeOption
}

// Option configures chains created by New and recorders created by NewRecorder.
type Option func(*settings)

// WithContext sets the context handed to every backend call.
// Cancelling it stops the chain between attempts.
func WithContext(ctx context.Context) Option {
	return func(s *settings) {
		s.ctx = ctx
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRetryPolicy replaces domain.DefaultRetryPolicy.
func WithRetryPolicy(p domain.RetryPolicy) Option {
	return func(s *settings) {
		s.policy = p
	}
}

// WithHooks registers observability hooks. Repeated calls add up.
func WithHooks(h domain.Hooks) Option {
	return func(s *settings) {
		s.hooks = s.hooks.Merge(h)
	}
}

// WithEnvelopeOptions passes low-level options (such as a fake clock) to the execution envelope.
func WithEnvelopeOptions(opts ...runtime.EnvelopeOption) Option {
	return func(s *settings) {
		s.envelope = append(s.envelope, opts...)
	}
}

func configure(opts []Option) *settings {
	s := &settings{
		ctx:    context.Background(),
		logger: logging.NewNop(),
		policy: domain.DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New returns a root chain that runs every step against driver as soon as it is called.
func New(driver ports.Driver, opts ...Option) ports.Chain {
	s := configure(opts)
	envOpts := append([]runtime.EnvelopeOption{
		runtime.WithPolicy(s.policy),
		runtime.WithHooks(s.hooks),
		runtime.WithLogger(s.logger),
	}, s.envelope...)
	return runtime.NewOngoing(s.ctx, driver, runtime.NewEnvelope(envOpts...))
}

// NewRecorder returns a recorder whose chains touch no backend.
func NewRecorder(opts ...Option) *recording.Recorder {
	s := configure(opts)
	return recording.NewRecorder(recording.WithLogger(s.logger))
}

// Replay plays rec back against a fresh chain on driver.
func Replay(rec *recording.Recording, driver ports.Driver, opts ...Option) error {
	return rec.Playback(New(driver, opts...))
}

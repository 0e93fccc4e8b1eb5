package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rodrigues2k/fluent-selenium"
	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/journal"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
)

// Mode selects how a script is executed.
type Mode string

const (
	// ModeImmediate runs every step as it is applied.
	ModeImmediate Mode = "immediate"
	// ModePlayback records the chain steps first and replays them afterwards.
	ModePlayback Mode = "playback"
)

// ParseMode accepts "immediate", "playback" or an empty string (immediate).
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeImmediate:
		return ModeImmediate, nil
	case ModePlayback:
		return ModePlayback, nil
	}
	return "", fmt.Errorf("unknown mode %q: %w", s, domain.ErrInvalidArgument)
}

// Report is the outcome of Execute.
type Report struct {
	Mode    Mode     `json:"mode"`
	Journal []string `json:"journal"`
	Results []Result `json:"results"`
	Error   string   `json:"error,omitempty"`
}

// Options tunes Execute.
type Options struct {
	Mode Mode
	// Journal also receives every journal line, e.g. a Redis sink.
	Journal io.Writer
	// Chain is applied to the live chain.
	Chain []fluent.Option
}

// Execute runs s against a journaled driver. A failing chain is reported in
// Report.Error and returned as the error; the journal up to the failure is kept.
func Execute(driver ports.Driver, s *Script, opts Options) (*Report, error) {
	var buf bytes.Buffer
	var sink io.Writer = &buf
	if opts.Journal != nil {
		sink = io.MultiWriter(&buf, opts.Journal)
	}
	journaled := journal.New(driver, sink)
	live := fluent.New(journaled, opts.Chain...)

	report := &Report{Mode: opts.Mode}
	var err error
	switch opts.Mode {
	case "", ModeImmediate:
		report.Mode = ModeImmediate
		report.Results, err = Run(live, s.Steps)
	case ModePlayback:
		report.Results, err = playback(live, s.Steps, opts.Chain)
	default:
		return nil, fmt.Errorf("unknown mode %q: %w", opts.Mode, domain.ErrInvalidArgument)
	}

	if jerr := journaled.Err(); jerr != nil {
		err = errors.Join(err, jerr)
	}
	report.Journal = splitLines(buf.String())
	if report.Results == nil {
		report.Results = []Result{}
	}
	if err != nil {
		report.Error = err.Error()
	}
	return report, err
}

func playback(live ports.Chain, steps []Step, opts []fluent.Option) ([]Result, error) {
	chain, trailing, err := Split(steps)
	if err != nil {
		return nil, err
	}
	rec := fluent.NewRecorder(opts...)
	if _, err := Run(rec.Chain(), chain); err != nil {
		return nil, err
	}
	last, err := rec.Recording().PlaybackChain(live)
	if err != nil {
		return nil, err
	}
	return Run(last, trailing)
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}

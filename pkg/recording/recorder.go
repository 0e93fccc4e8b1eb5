package recording

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/rodrigues2k/fluent-selenium/internal/runtime"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"github.com/rodrigues2k/fluent-selenium/pkg/tags"
)

// Option configures a Recorder.
type Option func(*Recorder)

// WithLogger sets the logger used during playback.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Recorder owns one append-only invocation log.
type Recorder struct {
	logger *slog.Logger

	mu     sync.Mutex
	log    []Invocation
	seq    int
	sealed bool
}

// NewRecorder returns an empty recorder.
func NewRecorder(opts ...Option) *Recorder {
	r := &Recorder{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Chain returns the root placeholder. Every chain handed out by the same
// recorder appends to the same log.
func (r *Recorder) Chain() ports.Chain {
	return &placeholder{rec: r, id: runtime.RootContext}
}

// Recording seals the log and returns it. Chains that keep recording after
// this fail with domain.ErrRecordingSealed.
func (r *Recorder) Recording() *Recording {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
	steps := make([]Invocation, len(r.log))
	copy(steps, r.log)
	return &Recording{steps: steps, logger: r.logger}
}

// append records inv and returns the placeholder for its result.
func (r *Recorder) append(inv Invocation) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return "", fmt.Errorf("%s: %w", inv, domain.ErrRecordingSealed)
	}
	inv.Result = inv.Target
	if inv.locates() {
		r.seq++
		inv.Result = "we" + strconv.Itoa(r.seq)
	}
	r.log = append(r.log, inv)
	return inv.Result, nil
}

// placeholder stands in for an element set that does not exist yet.
// Its id is the lineage label the live chain will carry at the same position.
type placeholder struct {
	rec *Recorder
	id  string
	err error
}

var _ ports.Chain = (*placeholder)(nil)

func (p *placeholder) Context() string { return p.id }

func (p *placeholder) Err() error { return p.err }

func (p *placeholder) record(inv Invocation) ports.Chain {
	if p.err != nil {
		return p
	}
	inv.Target = p.id
	id, err := p.rec.append(inv)
	if err != nil {
		return &placeholder{rec: p.rec, id: p.id, err: err}
	}
	return &placeholder{rec: p.rec, id: id}
}

func (p *placeholder) Find(tag tags.Tag, locator ...by.By) ports.Chain {
	return p.record(Invocation{Op: OpFind, Method: tag.Method(false), Tag: tag, Locator: first(locator)})
}

func (p *placeholder) FindAll(tag tags.Tag, locator ...by.By) ports.Chain {
	return p.record(Invocation{Op: OpFindAll, Method: tag.Method(true), Tag: tag, Locator: first(locator)})
}

func (p *placeholder) Element(locator by.By) ports.Chain {
	return p.record(Invocation{Op: OpElement, Method: "element", Locator: locator})
}

func (p *placeholder) Elements(locator by.By) ports.Chain {
	return p.record(Invocation{Op: OpElements, Method: "elements", Locator: locator})
}

func (p *placeholder) Click() ports.Chain {
	return p.record(Invocation{Op: OpClick, Method: "click"})
}

func (p *placeholder) ClearField() ports.Chain {
	return p.record(Invocation{Op: OpClearField, Method: "clearField"})
}

func (p *placeholder) Submit() ports.Chain {
	return p.record(Invocation{Op: OpSubmit, Method: "submit"})
}

func (p *placeholder) SendKeys(keys ...string) ports.Chain {
	return p.record(Invocation{Op: OpSendKeys, Method: "sendKeys", Keys: append([]string(nil), keys...)})
}

func (p *placeholder) Assert(description string, check ports.Check) ports.Chain {
	return p.record(Invocation{Op: OpAssert, Method: "assert", Description: description, Check: check})
}

func (p *placeholder) TagName() (string, error) {
	return "", p.unreadable("getTagName")
}

func (p *placeholder) Text() (string, error) {
	return "", p.unreadable("getText")
}

func (p *placeholder) Attribute(name string) (string, error) {
	return "", p.unreadable("getAttribute")
}

func (p *placeholder) CSSValue(property string) (string, error) {
	return "", p.unreadable("getCssValue")
}

func (p *placeholder) Location() (domain.Point, error) {
	return domain.Point{}, p.unreadable("getLocation")
}

func (p *placeholder) Size() (domain.Dimension, error) {
	return domain.Dimension{}, p.unreadable("getSize")
}

func (p *placeholder) IsSelected() (bool, error) {
	return false, p.unreadable("isSelected")
}

func (p *placeholder) IsEnabled() (bool, error) {
	return false, p.unreadable("isEnabled")
}

func (p *placeholder) IsDisplayed() (bool, error) {
	return false, p.unreadable("isDisplayed")
}

// unreadable fails value accessors; there is nothing to read until playback.
func (p *placeholder) unreadable(method string) error {
	if p.err != nil {
		return p.err
	}
	return fmt.Errorf("%s cannot be read while recording: %w", runtime.Describe(p.id, method), domain.ErrUnsupportedOperation)
}

func first(locator []by.By) by.By {
	if len(locator) == 0 {
		return by.By{}
	}
	return locator[0]
}

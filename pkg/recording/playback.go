package recording

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/rodrigues2k/fluent-selenium/internal/runtime"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
)

// Recording is a sealed, read-only invocation log.
// One recording may be played back any number of times, against any number of targets.
type Recording struct {
	steps  []Invocation
	logger *slog.Logger
}

// Len returns the number of recorded steps.
func (r *Recording) Len() int { return len(r.steps) }

// Invocations returns a copy of the log in recorded order.
func (r *Recording) Invocations() []Invocation {
	out := make([]Invocation, len(r.steps))
	for i, inv := range r.steps {
		out[i] = inv
		out[i].Keys = slices.Clone(inv.Keys)
	}
	return out
}

// Playback replays every step against target, which stands in for the
// recorder's root chain. The first failing step aborts playback and its error
// is returned unchanged.
func (r *Recording) Playback(target ports.Chain) error {
	_, err := r.PlaybackChain(target)
	return err
}

// PlaybackChain is Playback that also returns the live chain standing in for
// the result of the last recorded step, so values can be read from it.
func (r *Recording) PlaybackChain(target ports.Chain) (ports.Chain, error) {
	live := map[string]ports.Chain{runtime.RootContext: target}
	last := target
	for i, inv := range r.steps {
		chain, ok := live[inv.Target]
		if !ok {
			return nil, fmt.Errorf("step %d (%s) targets unknown placeholder %q", i, inv, inv.Target)
		}
		r.logger.Debug("replaying step", "index", i, "step", inv.String())
		next := apply(chain, inv)
		if err := next.Err(); err != nil {
			return next, err
		}
		live[inv.Result] = next
		last = next
	}
	return last, nil
}

var dispatch = map[Op]func(ports.Chain, Invocation) ports.Chain{
	OpFind: func(c ports.Chain, inv Invocation) ports.Chain {
		return c.Find(inv.Tag, locators(inv)...)
	},
	OpFindAll: func(c ports.Chain, inv Invocation) ports.Chain {
		return c.FindAll(inv.Tag, locators(inv)...)
	},
	OpElement:    func(c ports.Chain, inv Invocation) ports.Chain { return c.Element(inv.Locator) },
	OpElements:   func(c ports.Chain, inv Invocation) ports.Chain { return c.Elements(inv.Locator) },
	OpClick:      func(c ports.Chain, _ Invocation) ports.Chain { return c.Click() },
	OpClearField: func(c ports.Chain, _ Invocation) ports.Chain { return c.ClearField() },
	OpSubmit:     func(c ports.Chain, _ Invocation) ports.Chain { return c.Submit() },
	OpSendKeys:   func(c ports.Chain, inv Invocation) ports.Chain { return c.SendKeys(inv.Keys...) },
	OpAssert: func(c ports.Chain, inv Invocation) ports.Chain {
		return c.Assert(inv.Description, inv.Check)
	},
}

func apply(c ports.Chain, inv Invocation) ports.Chain {
	return dispatch[inv.Op](c, inv)
}

func locators(inv Invocation) []by.By {
	if inv.Locator.IsZero() {
		return nil
	}
	return []by.By{inv.Locator}
}

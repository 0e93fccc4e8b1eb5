// Package testutils holds test doubles shared across package tests.
package testutils

import (
	"context"
	"strings"
	"sync"

	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
)

// StubDriver is a scripted backend with no document behind it.
//
// Found elements take their tag name from the locator: By.tagName and
// ".//<tag>[...]" XPath give that tag, link-text locators give the link text
// itself, anything else inherits the tag of the element searched from.
// FindElements always returns Many elements.
type StubDriver struct {
	// RootTag is inherited by elements found straight from the driver.
	RootTag string
	// Many is the size of every FindElements result.
	Many int
	// Selected gives the isSelected state of the i-th element of each FindElements result.
	Selected []bool

	mu    sync.Mutex
	fails []error
	calls int
}

var _ ports.Driver = (*StubDriver)(nil)

// NewStubDriver returns a stub producing two elements per FindElements call.
func NewStubDriver() *StubDriver {
	return &StubDriver{RootTag: "html", Many: 2}
}

// FailNext makes the next len(errs) backend calls fail with errs, in order.
func (s *StubDriver) FailNext(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails = append(s.fails, errs...)
}

// Calls returns how many backend calls were made.
func (s *StubDriver) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *StubDriver) call() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.fails) == 0 {
		return nil
	}
	err := s.fails[0]
	s.fails = s.fails[1:]
	return err
}

func (s *StubDriver) FindElement(ctx context.Context, locator by.By) (ports.Element, error) {
	return s.findOne(s.RootTag, locator)
}

func (s *StubDriver) FindElements(ctx context.Context, locator by.By) ([]ports.Element, error) {
	return s.findAll(s.RootTag, locator)
}

func (s *StubDriver) findOne(parent string, locator by.By) (ports.Element, error) {
	if err := s.call(); err != nil {
		return nil, err
	}
	return &stubElement{driver: s, tag: tagFor(parent, locator)}, nil
}

func (s *StubDriver) findAll(parent string, locator by.By) ([]ports.Element, error) {
	if err := s.call(); err != nil {
		return nil, err
	}
	out := make([]ports.Element, s.Many)
	for i := range out {
		e := &stubElement{driver: s, tag: tagFor(parent, locator)}
		if i < len(s.Selected) {
			e.selected = s.Selected[i]
		}
		out[i] = e
	}
	return out, nil
}

func tagFor(parent string, locator by.By) string {
	value := locator.Value()
	switch locator.Strategy() {
	case by.StrategyTagName, by.StrategyLinkText, by.StrategyPartialLinkText:
		return value
	case by.StrategyXPath:
		if rest, ok := strings.CutPrefix(value, ".//"); ok {
			name, _, _ := strings.Cut(rest, "[")
			if name != "*" && name != "" {
				return name
			}
		}
	}
	return parent
}

type stubElement struct {
	driver   *StubDriver
	tag      string
	selected bool
	value    string
}

func (e *stubElement) FindElement(ctx context.Context, locator by.By) (ports.Element, error) {
	return e.driver.findOne(e.tag, locator)
}

func (e *stubElement) FindElements(ctx context.Context, locator by.By) ([]ports.Element, error) {
	return e.driver.findAll(e.tag, locator)
}

func (e *stubElement) Click(ctx context.Context) error {
	if err := e.driver.call(); err != nil {
		return err
	}
	e.selected = !e.selected
	return nil
}

func (e *stubElement) Clear(ctx context.Context) error {
	if err := e.driver.call(); err != nil {
		return err
	}
	e.value = ""
	return nil
}

func (e *stubElement) Submit(ctx context.Context) error {
	return e.driver.call()
}

func (e *stubElement) SendKeys(ctx context.Context, keys ...string) error {
	if err := e.driver.call(); err != nil {
		return err
	}
	e.value += strings.Join(keys, "")
	return nil
}

func (e *stubElement) TagName(ctx context.Context) (string, error) {
	return e.tag, e.driver.call()
}

func (e *stubElement) Attribute(ctx context.Context, name string) (string, error) {
	if name == "value" {
		return e.value, e.driver.call()
	}
	return name + "-value", e.driver.call()
}

func (e *stubElement) Text(ctx context.Context) (string, error) {
	return e.tag + " text", e.driver.call()
}

func (e *stubElement) CSSValue(ctx context.Context, property string) (string, error) {
	return property + "-value", e.driver.call()
}

func (e *stubElement) Location(ctx context.Context) (domain.Point, error) {
	return domain.Point{X: 1, Y: 2}, e.driver.call()
}

func (e *stubElement) Size(ctx context.Context) (domain.Dimension, error) {
	return domain.Dimension{Width: 3, Height: 4}, e.driver.call()
}

func (e *stubElement) IsSelected(ctx context.Context) (bool, error) {
	return e.selected, e.driver.call()
}

func (e *stubElement) IsEnabled(ctx context.Context) (bool, error) {
	return true, e.driver.call()
}

func (e *stubElement) IsDisplayed(ctx context.Context) (bool, error) {
	return true, e.driver.call()
}

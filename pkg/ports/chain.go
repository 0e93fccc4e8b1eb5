package ports

import (
	"context"

	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/tags"
)

// Check is a caller-supplied predicate evaluated against every element in focus.
type Check func(ctx context.Context, e Element) (bool, error)

// Chain is the fluent surface shared by immediate execution and recording.
//
// Steps return the next chain value. Once a step fails, every later step is
// skipped and Err reports the *domain.ExecutionStopped. Accessors return the
// sticky error instead of touching the backend.
type Chain interface {
	// Find locates one element with the given tag, optionally refined by a locator,
	// and asserts its tag name.
	Find(tag tags.Tag, locator ...by.By) Chain
	// FindAll locates every element with the given tag and asserts each tag name.
	FindAll(tag tags.Tag, locator ...by.By) Chain
	// Element locates one element without a tag assertion.
	Element(locator by.By) Chain
	// Elements locates every match without a tag assertion.
	Elements(locator by.By) Chain

	Click() Chain
	ClearField() Chain
	Submit() Chain
	SendKeys(keys ...string) Chain
	Assert(description string, check Check) Chain

	TagName() (string, error)
	Text() (string, error)
	Attribute(name string) (string, error)
	CSSValue(property string) (string, error)
	Location() (domain.Point, error)
	Size() (domain.Dimension, error)
	IsSelected() (bool, error)
	IsEnabled() (bool, error)
	IsDisplayed() (bool, error)

	// Context is the lineage label of this chain value ("?" for a root).
	Context() string
	Err() error
}

package ports

import (
	"context"

	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
)

// SearchContext is anything elements can be located from.
type SearchContext interface {
	// FindElement returns the first element matching the locator.
	// Returns domain.ErrNoSuchElement when nothing matches.
	FindElement(ctx context.Context, locator by.By) (Element, error)

	// FindElements returns every match in document order. No match is not an error.
	FindElements(ctx context.Context, locator by.By) ([]Element, error)
}

// Driver is the document backend the fluent chain runs against.
type Driver interface {
	SearchContext
}

// Element is a handle to one node of the document.
// Operations on a handle whose node left the document return domain.ErrStaleElement.
type Element interface {
	SearchContext

	Click(ctx context.Context) error
	Clear(ctx context.Context) error
	Submit(ctx context.Context) error
	SendKeys(ctx context.Context, keys ...string) error

	TagName(ctx context.Context) (string, error)
	Attribute(ctx context.Context, name string) (string, error)
	Text(ctx context.Context) (string, error)
	CSSValue(ctx context.Context, property string) (string, error)
	Location(ctx context.Context) (domain.Point, error)
	Size(ctx context.Context) (domain.Dimension, error)

	IsSelected(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsDisplayed(ctx context.Context) (bool, error)
}

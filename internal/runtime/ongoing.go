package runtime

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"github.com/rodrigues2k/fluent-selenium/pkg/tags"
)

// RootContext labels a chain that has not produced an element set yet.
const RootContext = "?"

// lineage mints context labels for every element set produced from one root.
type lineage struct {
	n int
}

func (l *lineage) next() string {
	l.n++
	return "we" + strconv.Itoa(l.n)
}

// Ongoing is the immediate-mode chain. Every step runs through the envelope
// as soon as it is called. Values are never mutated after construction.
type Ongoing struct {
	ctx     context.Context
	env     *Envelope
	driver  ports.Driver
	root    bool
	elems   []ports.Element
	label   string
	lineage *lineage
	err     error
}

var _ ports.Chain = (*Ongoing)(nil)

// NewOngoing returns a root chain bound to driver.
func NewOngoing(ctx context.Context, driver ports.Driver, env *Envelope) *Ongoing {
	if ctx == nil {
		ctx = context.Background()
	}
	if env == nil {
		env = NewEnvelope()
	}
	return &Ongoing{
		ctx:     ctx,
		env:     env,
		driver:  driver,
		root:    true,
		label:   RootContext,
		lineage: &lineage{},
	}
}

// Context returns the lineage label.
func (c *Ongoing) Context() string { return c.label }

// Err returns the error of the first failed step, if any.
func (c *Ongoing) Err() error { return c.err }

// Len returns the number of elements in focus.
func (c *Ongoing) Len() int { return len(c.elems) }

func (c *Ongoing) Find(tag tags.Tag, locator ...by.By) ports.Chain {
	return c.locate(tag.Method(false), tag.Name, optional(locator), false)
}

func (c *Ongoing) FindAll(tag tags.Tag, locator ...by.By) ports.Chain {
	return c.locate(tag.Method(true), tag.Name, optional(locator), true)
}

func (c *Ongoing) Element(locator by.By) ports.Chain {
	return c.locate("element", "", locator, false)
}

func (c *Ongoing) Elements(locator by.By) ports.Chain {
	return c.locate("elements", "", locator, true)
}

func (c *Ongoing) locate(method, tag string, locator by.By, many bool) ports.Chain {
	if c.err != nil {
		return c
	}
	step := c.step(method, locator)
	search := locator
	if tag != "" {
		search = by.Refine(tag, locator)
	}

	action := func(ctx context.Context) ([]ports.Element, error) {
		if search.IsZero() {
			return nil, fmt.Errorf("%s needs a locator: %w", method, domain.ErrInvalidArgument)
		}
		sc, err := c.searchContext()
		if err != nil {
			return nil, err
		}
		if many {
			return sc.FindElements(ctx, search)
		}
		found, err := sc.FindElement(ctx, search)
		if err != nil {
			return nil, err
		}
		return []ports.Element{found}, nil
	}

	var checks []func(context.Context, []ports.Element) error
	if tag != "" {
		checks = append(checks, tagIs(tag))
	}

	elems, err := Execute(c.ctx, c.env, step, action, checks...)
	if err != nil {
		return c.fail(err)
	}
	next := *c
	next.root = false
	next.elems = elems
	next.label = c.lineage.next()
	return &next
}

// Click clicks every element in focus.
func (c *Ongoing) Click() ports.Chain {
	return c.each("click", nil, func(ctx context.Context, e ports.Element) error {
		return e.Click(ctx)
	})
}

// ClearField clears every element in focus.
func (c *Ongoing) ClearField() ports.Chain {
	return c.each("clearField", nil, func(ctx context.Context, e ports.Element) error {
		return e.Clear(ctx)
	})
}

// Submit submits the form owning the first element in focus.
func (c *Ongoing) Submit() ports.Chain {
	return c.first("submit", nil, func(ctx context.Context, e ports.Element) error {
		return e.Submit(ctx)
	})
}

// SendKeys types into the first element in focus.
func (c *Ongoing) SendKeys(keys ...string) ports.Chain {
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	return c.first("sendKeys", args, func(ctx context.Context, e ports.Element) error {
		return e.SendKeys(ctx, keys...)
	})
}

// Assert fails the chain unless check holds for every element in focus.
func (c *Ongoing) Assert(description string, check ports.Check) ports.Chain {
	return c.each("assert", []any{description}, func(ctx context.Context, e ports.Element) error {
		ok, err := check(ctx, e)
		if err != nil {
			return err
		}
		if !ok {
			return &domain.AssertionError{Message: fmt.Sprintf("assertion '%s' was false", description)}
		}
		return nil
	})
}

func (c *Ongoing) TagName() (string, error) {
	return firstValue(c, "getTagName", nil, ports.Element.TagName)
}

func (c *Ongoing) Text() (string, error) {
	return firstValue(c, "getText", nil, ports.Element.Text)
}

func (c *Ongoing) Attribute(name string) (string, error) {
	return firstValue(c, "getAttribute", []any{name}, func(e ports.Element, ctx context.Context) (string, error) {
		return e.Attribute(ctx, name)
	})
}

func (c *Ongoing) CSSValue(property string) (string, error) {
	return firstValue(c, "getCssValue", []any{property}, func(e ports.Element, ctx context.Context) (string, error) {
		return e.CSSValue(ctx, property)
	})
}

func (c *Ongoing) Location() (domain.Point, error) {
	return firstValue(c, "getLocation", nil, ports.Element.Location)
}

func (c *Ongoing) Size() (domain.Dimension, error) {
	return firstValue(c, "getSize", nil, ports.Element.Size)
}

// IsSelected is true only if every element in focus is selected.
func (c *Ongoing) IsSelected() (bool, error) {
	return c.all("isSelected", ports.Element.IsSelected)
}

// IsEnabled is true only if every element in focus is enabled.
func (c *Ongoing) IsEnabled() (bool, error) {
	return c.all("isEnabled", ports.Element.IsEnabled)
}

// IsDisplayed is true only if every element in focus is displayed.
func (c *Ongoing) IsDisplayed() (bool, error) {
	return c.all("isDisplayed", ports.Element.IsDisplayed)
}

func (c *Ongoing) each(method string, args []any, act func(context.Context, ports.Element) error) ports.Chain {
	if c.err != nil {
		return c
	}
	_, err := Execute(c.ctx, c.env, c.step(method, args...), func(ctx context.Context) (struct{}, error) {
		if c.root {
			return struct{}{}, domain.ErrNoElements
		}
		for _, e := range c.elems {
			if err := act(ctx, e); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return c.fail(err)
	}
	return c
}

func (c *Ongoing) first(method string, args []any, act func(context.Context, ports.Element) error) ports.Chain {
	if c.err != nil {
		return c
	}
	_, err := Execute(c.ctx, c.env, c.step(method, args...), func(ctx context.Context) (struct{}, error) {
		if len(c.elems) == 0 {
			return struct{}{}, domain.ErrNoElements
		}
		return struct{}{}, act(ctx, c.elems[0])
	})
	if err != nil {
		return c.fail(err)
	}
	return c
}

func (c *Ongoing) all(method string, get func(ports.Element, context.Context) (bool, error)) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	return Execute(c.ctx, c.env, c.step(method), func(ctx context.Context) (bool, error) {
		if c.root {
			return false, domain.ErrNoElements
		}
		result := true
		for _, e := range c.elems {
			v, err := get(e, ctx)
			if err != nil {
				return false, err
			}
			result = result && v
		}
		return result, nil
	})
}

func firstValue[T any](c *Ongoing, method string, args []any, get func(ports.Element, context.Context) (T, error)) (T, error) {
	if c.err != nil {
		var zero T
		return zero, c.err
	}
	return Execute(c.ctx, c.env, c.step(method, args...), func(ctx context.Context) (T, error) {
		if len(c.elems) == 0 {
			var zero T
			return zero, domain.ErrNoElements
		}
		return get(c.elems[0], ctx)
	})
}

func (c *Ongoing) searchContext() (ports.SearchContext, error) {
	if c.root {
		return c.driver, nil
	}
	if len(c.elems) == 0 {
		return nil, domain.ErrNoElements
	}
	return c.elems[0], nil
}

func (c *Ongoing) fail(err error) *Ongoing {
	next := *c
	next.err = err
	return &next
}

func (c *Ongoing) step(method string, args ...any) Step {
	return Step{Method: method, Description: Describe(c.label, method, args...)}
}

// Describe renders "<context>.<method>(<args>)". Locators print as themselves,
// other arguments are single-quoted.
func Describe(context, method string, args ...any) string {
	rendered := make([]string, 0, len(args))
	for _, a := range args {
		switch v := a.(type) {
		case by.By:
			if !v.IsZero() {
				rendered = append(rendered, v.String())
			}
		default:
			rendered = append(rendered, "'"+fmt.Sprint(v)+"'")
		}
	}
	return context + "." + method + "(" + strings.Join(rendered, ", ") + ")"
}

func tagIs(tag string) func(context.Context, []ports.Element) error {
	return func(ctx context.Context, elems []ports.Element) error {
		for _, e := range elems {
			actual, err := e.TagName(ctx)
			if err != nil {
				return err
			}
			if !strings.EqualFold(actual, tag) {
				return domain.TagMismatch(tag, actual)
			}
		}
		return nil
	}
}

func optional(locator []by.By) by.By {
	if len(locator) == 0 {
		return by.By{}
	}
	return locator[0]
}

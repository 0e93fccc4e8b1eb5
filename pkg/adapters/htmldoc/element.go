package htmldoc

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"golang.org/x/net/html"
)

type element struct {
	doc  *Document
	node *html.Node
}

var _ ports.Element = (*element)(nil)

// read runs fn under the read lock once the node is known to be attached.
func (e *element) read(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.doc.mu.RLock()
	defer e.doc.mu.RUnlock()
	if !e.doc.attached(e.node) {
		return fmt.Errorf("<%s> is no longer attached to the document: %w", e.node.Data, domain.ErrStaleElement)
	}
	return fn()
}

// write is read under the write lock.
func (e *element) write(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.doc.mu.Lock()
	defer e.doc.mu.Unlock()
	if !e.doc.attached(e.node) {
		return fmt.Errorf("<%s> is no longer attached to the document: %w", e.node.Data, domain.ErrStaleElement)
	}
	return fn()
}

func (e *element) FindElement(ctx context.Context, locator by.By) (ports.Element, error) {
	var found ports.Element
	err := e.read(ctx, func() (err error) {
		found, err = e.doc.findOne(ctx, e.node, locator)
		return err
	})
	return found, err
}

func (e *element) FindElements(ctx context.Context, locator by.By) ([]ports.Element, error) {
	var found []ports.Element
	err := e.read(ctx, func() (err error) {
		found, err = e.doc.findAll(ctx, e.node, locator)
		return err
	})
	return found, err
}

// Click toggles checkboxes, selects radios and options. Other elements are unaffected.
func (e *element) Click(ctx context.Context) error {
	return e.write(ctx, func() error {
		n := e.node
		if hasAttr(n, "disabled") {
			return nil
		}
		switch {
		case n.Data == "input" && strings.EqualFold(attr(n, "type"), "checkbox"):
			if hasAttr(n, "checked") {
				removeAttr(n, "checked")
			} else {
				setAttr(n, "checked", "checked")
			}
		case n.Data == "input" && strings.EqualFold(attr(n, "type"), "radio"):
			group := attr(n, "name")
			for _, other := range descendants(e.doc.root, func(c *html.Node) bool {
				return c.Data == "input" && strings.EqualFold(attr(c, "type"), "radio") && attr(c, "name") == group
			}) {
				removeAttr(other, "checked")
			}
			setAttr(n, "checked", "checked")
		case n.Data == "option":
			if sel := ancestor(n, "select"); sel != nil && !hasAttr(sel, "multiple") {
				for _, other := range descendants(sel, func(c *html.Node) bool { return c.Data == "option" }) {
					removeAttr(other, "selected")
				}
			}
			setAttr(n, "selected", "selected")
		}
		return nil
	})
}

func (e *element) Clear(ctx context.Context) error {
	return e.write(ctx, func() error {
		n := e.node
		if n.Data == "textarea" {
			for c := n.FirstChild; c != nil; c = n.FirstChild {
				n.RemoveChild(c)
			}
			return nil
		}
		setAttr(n, "value", "")
		return nil
	})
}

func (e *element) Submit(ctx context.Context) error {
	return e.write(ctx, func() error {
		form := e.node
		if form.Data != "form" {
			form = ancestor(form, "form")
		}
		if form == nil {
			return fmt.Errorf("<%s> is not inside a form: %w", e.node.Data, domain.ErrNoSuchElement)
		}
		count, _ := strconv.Atoi(attr(form, "data-submitted"))
		setAttr(form, "data-submitted", strconv.Itoa(count+1))
		return nil
	})
}

// SendKeys appends to the value of inputs and to the text of text areas.
func (e *element) SendKeys(ctx context.Context, keys ...string) error {
	return e.write(ctx, func() error {
		n := e.node
		typed := strings.Join(keys, "")
		switch n.Data {
		case "input":
			setAttr(n, "value", attr(n, "value")+typed)
		case "textarea":
			n.AppendChild(&html.Node{Type: html.TextNode, Data: typed})
		default:
			return fmt.Errorf("<%s> does not accept keys: %w", n.Data, domain.ErrUnsupportedOperation)
		}
		return nil
	})
}

func (e *element) TagName(ctx context.Context) (string, error) {
	var name string
	err := e.read(ctx, func() error {
		name = strings.ToLower(e.node.Data)
		return nil
	})
	return name, err
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	var value string
	err := e.read(ctx, func() error {
		value = attr(e.node, name)
		return nil
	})
	return value, err
}

func (e *element) Text(ctx context.Context) (string, error) {
	var value string
	err := e.read(ctx, func() error {
		value = text(e.node)
		return nil
	})
	return value, err
}

// CSSValue reads a property from the inline style attribute.
func (e *element) CSSValue(ctx context.Context, property string) (string, error) {
	var value string
	err := e.read(ctx, func() error {
		value = styleProperty(e.node, property)
		return nil
	})
	return value, err
}

// Location has no layout engine behind it; it reads data-x and data-y.
func (e *element) Location(ctx context.Context) (domain.Point, error) {
	var p domain.Point
	err := e.read(ctx, func() error {
		p = domain.Point{X: intAttr(e.node, "data-x"), Y: intAttr(e.node, "data-y")}
		return nil
	})
	return p, err
}

// Size reads data-width and data-height.
func (e *element) Size(ctx context.Context) (domain.Dimension, error) {
	var d domain.Dimension
	err := e.read(ctx, func() error {
		d = domain.Dimension{Width: intAttr(e.node, "data-width"), Height: intAttr(e.node, "data-height")}
		return nil
	})
	return d, err
}

func (e *element) IsSelected(ctx context.Context) (bool, error) {
	var selected bool
	err := e.read(ctx, func() error {
		selected = hasAttr(e.node, "checked") || hasAttr(e.node, "selected")
		return nil
	})
	return selected, err
}

func (e *element) IsEnabled(ctx context.Context) (bool, error) {
	var enabled bool
	err := e.read(ctx, func() error {
		enabled = !hasAttr(e.node, "disabled")
		return nil
	})
	return enabled, err
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	var shown bool
	err := e.read(ctx, func() error {
		shown = displayed(e.node)
		return nil
	})
	return shown, err
}

func displayed(n *html.Node) bool {
	if n.Data == "input" && strings.EqualFold(attr(n, "type"), "hidden") {
		return false
	}
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if hasAttr(p, "hidden") || styleProperty(p, "display") == "none" {
			return false
		}
	}
	return true
}

func ancestor(n *html.Node, tag string) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == tag {
			return p
		}
	}
	return nil
}

func styleProperty(n *html.Node, property string) string {
	for _, decl := range strings.Split(attr(n, "style"), ";") {
		name, value, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), property) {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func intAttr(n *html.Node, key string) int {
	v, _ := strconv.Atoi(attr(n, key))
	return v
}

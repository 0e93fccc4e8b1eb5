package htmldoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/antchfx/htmlquery"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"golang.org/x/net/html"
)

// Document implements ports.Driver over an in-memory HTML tree.
// Safe for concurrent use.
type Document struct {
	mu   sync.RWMutex
	root *html.Node
}

var _ ports.Driver = (*Document)(nil)

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Reload replaces the whole tree. Every element handed out before goes stale.
func (d *Document) Reload(r io.Reader) error {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = root
	return nil
}

// Remove detaches every node matching the XPath expression and returns how many went.
// Handles to removed nodes (and their descendants) go stale.
func (d *Document) Remove(expr string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	nodes, err := htmlquery.QueryAll(d.root, expr)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrInvalidSelector, err)
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return len(nodes), nil
}

// HTML renders the current tree.
func (d *Document) HTML() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var buf bytes.Buffer
	if err := html.Render(&buf, d.root); err != nil {
		return ""
	}
	return buf.String()
}

// FindElement returns the first match below the document root.
func (d *Document) FindElement(ctx context.Context, locator by.By) (ports.Element, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.findOne(ctx, d.root, locator)
}

// FindElements returns every match below the document root.
func (d *Document) FindElements(ctx context.Context, locator by.By) ([]ports.Element, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.findAll(ctx, d.root, locator)
}

func (d *Document) findOne(ctx context.Context, from *html.Node, locator by.By) (ports.Element, error) {
	nodes, err := d.query(ctx, from, locator)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("unable to locate %s: %w", locator, domain.ErrNoSuchElement)
	}
	return &element{doc: d, node: nodes[0]}, nil
}

func (d *Document) findAll(ctx context.Context, from *html.Node, locator by.By) ([]ports.Element, error) {
	nodes, err := d.query(ctx, from, locator)
	if err != nil {
		return nil, err
	}
	elems := make([]ports.Element, 0, len(nodes))
	for _, n := range nodes {
		elems = append(elems, &element{doc: d, node: n})
	}
	return elems, nil
}

// query must be called with d.mu held.
func (d *Document) query(ctx context.Context, from *html.Node, locator by.By) ([]*html.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value := locator.Value()
	switch locator.Strategy() {
	case by.StrategyXPath:
		nodes, err := htmlquery.QueryAll(from, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSelector, locator, err)
		}
		return elementsOnly(nodes), nil
	case by.StrategyCSS:
		sel, err := cascadia.Compile(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSelector, locator, err)
		}
		return goquery.NewDocumentFromNode(from).FindMatcher(sel).Nodes, nil
	case by.StrategyTagName:
		name := strings.ToLower(value)
		return descendants(from, func(n *html.Node) bool { return n.Data == name }), nil
	case by.StrategyID:
		return descendants(from, func(n *html.Node) bool { return attr(n, "id") == value }), nil
	case by.StrategyName:
		return descendants(from, func(n *html.Node) bool { return attr(n, "name") == value }), nil
	case by.StrategyClassName:
		return descendants(from, func(n *html.Node) bool { return hasToken(attr(n, "class"), value) }), nil
	case by.StrategyLinkText:
		return descendants(from, func(n *html.Node) bool { return n.Data == "a" && text(n) == value }), nil
	case by.StrategyPartialLinkText:
		return descendants(from, func(n *html.Node) bool { return n.Data == "a" && strings.Contains(text(n), value) }), nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidSelector, locator.Strategy())
}

// attached must be called with d.mu held.
func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

func descendants(from *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(from)
	return out
}

func elementsOnly(nodes []*html.Node) []*html.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, n)
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	return htmlquery.SelectAttr(n, key)
}

func hasAttr(n *html.Node, key string) bool {
	return htmlquery.ExistsAttr(n, key)
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func hasToken(list, token string) bool {
	for _, f := range strings.Fields(list) {
		if f == token {
			return true
		}
	}
	return false
}

func text(n *html.Node) string {
	return strings.Join(strings.Fields(htmlquery.InnerText(n)), " ")
}

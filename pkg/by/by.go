package by

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
)

// Strategy names the search mechanism a backend uses for a locator.
type Strategy string

const (
	StrategyTagName         Strategy = "tagName"
	StrategyID              Strategy = "id"
	StrategyName            Strategy = "name"
	StrategyClassName       Strategy = "className"
	StrategyCSS             Strategy = "selector"
	StrategyXPath           Strategy = "xpath"
	StrategyLinkText        Strategy = "linkText"
	StrategyPartialLinkText Strategy = "partialLinkText"
)

type kind int

const (
	kindPlain kind = iota
	kindAttribute
	kindLast
)

// By is an immutable locator expression handed to a backend's find operations.
// The zero value means "no refinement" when passed to a chain step.
type By struct {
	strategy Strategy
	value    string

	// Set for expressions built by the algebra; value is then derived from them.
	kind      kind
	scope     string
	predicate string
}

func plain(s Strategy, value string) By {
	return By{strategy: s, value: value}
}

// TagName locates elements by tag name.
func TagName(name string) By { return plain(StrategyTagName, name) }

// ID locates elements by their id attribute.
func ID(id string) By { return plain(StrategyID, id) }

// Name locates elements by their name attribute.
func Name(name string) By { return plain(StrategyName, name) }

// ClassName locates elements carrying the given class token.
func ClassName(name string) By { return plain(StrategyClassName, name) }

// CSS locates elements with a CSS selector.
func CSS(selector string) By { return plain(StrategyCSS, selector) }

// XPath locates elements with an XPath expression.
func XPath(expr string) By { return plain(StrategyXPath, expr) }

// LinkText locates anchors whose visible text equals text.
func LinkText(text string) By { return plain(StrategyLinkText, text) }

// PartialLinkText locates anchors whose visible text contains text.
func PartialLinkText(text string) By { return plain(StrategyPartialLinkText, text) }

// Parse rebuilds a plain locator from its strategy name and value, as sent over the wire.
// Algebra results travel as their resolved XPath.
func Parse(strategy, value string) (By, error) {
	switch s := Strategy(strategy); s {
	case StrategyTagName, StrategyID, StrategyName, StrategyClassName,
		StrategyCSS, StrategyXPath, StrategyLinkText, StrategyPartialLinkText:
		return plain(s, value), nil
	}
	return By{}, fmt.Errorf("unknown locator strategy %q: %w", strategy, domain.ErrInvalidSelector)
}

// StrictClassName is ClassName that refuses compound class names,
// which would otherwise silently match a subset of a multi-valued class list.
func StrictClassName(name string) (By, error) {
	if name == "" {
		return By{}, fmt.Errorf("cannot find elements when the class name is empty: %w", domain.ErrInvalidArgument)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return By{}, fmt.Errorf("compound class name %q is not supported, search for one class and filter the results: %w",
			name, domain.ErrInvalidArgument)
	}
	return ClassName(name), nil
}

// Attribute locates elements carrying the named attribute, whatever its value.
func Attribute(name string) (By, error) {
	if err := validAttributeName(name); err != nil {
		return By{}, err
	}
	return attribute("*", "@"+name), nil
}

// AttributeValue locates elements whose named attribute equals value.
func AttributeValue(name, value string) (By, error) {
	if err := validAttributeName(name); err != nil {
		return By{}, err
	}
	return attribute("*", "@"+name+" = "+Literal(value)), nil
}

// Composite narrows a tag-name locator with a class or attribute locator.
// Any other pairing is rejected.
func Composite(tag, refinement By) (By, error) {
	if tag.strategy != StrategyTagName || tag.kind != kindPlain {
		return By{}, fmt.Errorf("composite needs By.tagName first, got %s: %w", tag, domain.ErrInvalidArgument)
	}
	switch {
	case refinement.kind == kindAttribute && refinement.scope == "*":
		return attribute(tag.value, refinement.predicate), nil
	case refinement.strategy == StrategyClassName && refinement.kind == kindPlain:
		return attribute(tag.value, ContainsWord("class", refinement.value)), nil
	}
	return By{}, fmt.Errorf("composite needs By.className or an attribute locator second, got %s: %w",
		refinement, domain.ErrInvalidArgument)
}

// Last keeps only the last match of an attribute-based locator.
func Last(b By) (By, error) {
	if b.kind != kindAttribute {
		return By{}, fmt.Errorf("last() not allowed for %s: %w", b, domain.ErrUnsupportedOperation)
	}
	return last(b.scope, b.predicate), nil
}

// LastAny matches the last element of any kind.
func LastAny() By {
	return last("*", "")
}

// Must panics if err is non-nil. It is meant for locators built from literals.
func Must(b By, err error) By {
	if err != nil {
		panic(err)
	}
	return b
}

func attribute(scope, predicate string) By {
	return By{
		strategy:  StrategyXPath,
		value:     ".//" + scope + "[" + predicate + "]",
		kind:      kindAttribute,
		scope:     scope,
		predicate: predicate,
	}
}

func last(scope, predicate string) By {
	// The position test goes first: antchfx/xpath drops every match when it follows another predicate.
	p := "position() = last()"
	if predicate != "" {
		p += " and " + predicate
	}
	return By{
		strategy:  StrategyXPath,
		value:     ".//" + scope + "[" + p + "]",
		kind:      kindLast,
		scope:     scope,
		predicate: predicate,
	}
}

// Refine folds a tag constraint into a locator passed to a tag-specific chain step.
// Locators that cannot carry the tag are returned unchanged; the tag is then
// enforced by the step's tag-name assertion.
func Refine(tag string, b By) By {
	switch {
	case b.IsZero():
		return TagName(tag)
	case b.kind == kindAttribute && b.scope == "*":
		return attribute(tag, b.predicate)
	case b.kind == kindLast && b.scope == "*":
		return last(tag, b.predicate)
	case b.kind != kindPlain:
		return b
	case b.strategy == StrategyXPath:
		return XPath(".//" + tag + "[" + b.value + "]")
	case b.strategy == StrategyClassName:
		return attribute(tag, ContainsWord("class", b.value))
	}
	return b
}

// Strategy returns the search mechanism.
func (b By) Strategy() Strategy { return b.strategy }

// Value returns the raw argument, or the resolved XPath for algebra results.
func (b By) Value() string { return b.value }

// IsZero reports whether b is the zero locator.
func (b By) IsZero() bool { return b.strategy == "" }

// AttributeBased reports whether Last can be applied to b.
func (b By) AttributeBased() bool { return b.kind == kindAttribute }

// String renders the locator as "By.<strategy>: <value>".
func (b By) String() string {
	if b.IsZero() {
		return ""
	}
	return "By." + string(b.strategy) + ": " + b.value
}

// ContainsWord is the XPath predicate matching attr values that hold word as a whole
// whitespace-separated token.
func ContainsWord(attr, word string) string {
	return "contains(concat(' ', normalize-space(@" + attr + "), ' '), " + Literal(" "+word+" ") + ")"
}

// Literal quotes s as an XPath string literal.
func Literal(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ", ") + ")"
}

func validAttributeName(name string) error {
	if name == "" {
		return fmt.Errorf("cannot find elements when the attribute name is empty: %w", domain.ErrInvalidArgument)
	}
	for i, r := range name {
		if !nameChar(r, i == 0) {
			return fmt.Errorf("illegal attribute name %q: %w", name, domain.ErrInvalidArgument)
		}
	}
	return nil
}

// nameChar follows the XML NCName production: no colons, and no digit,
// hyphen or dot in first position.
func nameChar(r rune, first bool) bool {
	switch {
	case r == '_' || unicode.IsLetter(r):
		return true
	case first:
		return false
	case r == '-' || r == '.' || r == '\u00B7' || unicode.IsDigit(r):
		return true
	}
	return unicode.In(r, unicode.Mn, unicode.Mc)
}

// Package journal decorates a driver so every backend call is written as one
// human-readable line:
//
//	wd0.findElement(By.tagName: span) -> we1
//	we1.getTagName() -> 'span'
//	we3.findElements(By.tagName: span) -> [we4, we5]
//	we2.click()
//	we2.findElement(By.id: missing) -> !NoSuchElement
//
// Ids are minted sequentially per journal, starting at wd0 for the driver.
package journal

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
)

// RootID is the id of the wrapped driver.
const RootID = "wd0"

// Driver wraps a ports.Driver and journals every call to w.
type Driver struct {
	next ports.Driver
	w    io.Writer

	mu  sync.Mutex
	seq int
	err error
}

var _ ports.Driver = (*Driver)(nil)

// New wraps driver. Lines are written to w one Write call per line.
func New(driver ports.Driver, w io.Writer) *Driver {
	return &Driver{next: driver, w: w}
}

// Err returns the first error w returned. Backend calls are not failed by a
// broken sink; callers check Err once the chain is done.
func (d *Driver) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

func (d *Driver) FindElement(ctx context.Context, locator by.By) (ports.Element, error) {
	return d.findOne(ctx, RootID, d.next, locator)
}

func (d *Driver) FindElements(ctx context.Context, locator by.By) ([]ports.Element, error) {
	return d.findAll(ctx, RootID, d.next, locator)
}

func (d *Driver) findOne(ctx context.Context, id string, sc ports.SearchContext, locator by.By) (ports.Element, error) {
	found, err := sc.FindElement(ctx, locator)
	if err != nil {
		d.line(id, "findElement", locator.String(), failure(err))
		return nil, err
	}
	e := d.wrap(found)
	d.line(id, "findElement", locator.String(), e.id)
	return e, nil
}

func (d *Driver) findAll(ctx context.Context, id string, sc ports.SearchContext, locator by.By) ([]ports.Element, error) {
	found, err := sc.FindElements(ctx, locator)
	if err != nil {
		d.line(id, "findElements", locator.String(), failure(err))
		return nil, err
	}
	wrapped := make([]ports.Element, len(found))
	ids := make([]string, len(found))
	for i, f := range found {
		e := d.wrap(f)
		wrapped[i] = e
		ids[i] = e.id
	}
	d.line(id, "findElements", locator.String(), "["+strings.Join(ids, ", ")+"]")
	return wrapped, nil
}

func (d *Driver) wrap(next ports.Element) *element {
	d.mu.Lock()
	d.seq++
	id := "we" + strconv.Itoa(d.seq)
	d.mu.Unlock()
	return &element{journal: d, id: id, next: next}
}

func (d *Driver) line(id, op, args, result string) {
	var b strings.Builder
	b.WriteString(id)
	b.WriteByte('.')
	b.WriteString(op)
	b.WriteByte('(')
	b.WriteString(args)
	b.WriteByte(')')
	if result != "" {
		b.WriteString(" -> ")
		b.WriteString(result)
	}
	b.WriteByte('\n')

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, err := io.WriteString(d.w, b.String()); err != nil && d.err == nil {
		d.err = fmt.Errorf("failed to write journal line: %w", err)
	}
}

func failure(err error) string {
	return "!" + domain.Classify(err)
}

func quote(v any) string {
	return "'" + fmt.Sprint(v) + "'"
}

func quoteAll(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return strings.Join(quoted, ", ")
}

type element struct {
	journal *Driver
	id      string
	next    ports.Element
}

func (e *element) FindElement(ctx context.Context, locator by.By) (ports.Element, error) {
	return e.journal.findOne(ctx, e.id, e.next, locator)
}

func (e *element) FindElements(ctx context.Context, locator by.By) ([]ports.Element, error) {
	return e.journal.findAll(ctx, e.id, e.next, locator)
}

func (e *element) Click(ctx context.Context) error {
	return e.void("click", "", e.next.Click(ctx))
}

func (e *element) Clear(ctx context.Context) error {
	return e.void("clear", "", e.next.Clear(ctx))
}

func (e *element) Submit(ctx context.Context) error {
	return e.void("submit", "", e.next.Submit(ctx))
}

func (e *element) SendKeys(ctx context.Context, keys ...string) error {
	return e.void("sendKeys", quoteAll(keys), e.next.SendKeys(ctx, keys...))
}

func (e *element) TagName(ctx context.Context) (string, error) {
	v, err := e.next.TagName(ctx)
	return v, e.value("getTagName", "", v, err)
}

func (e *element) Attribute(ctx context.Context, name string) (string, error) {
	v, err := e.next.Attribute(ctx, name)
	return v, e.value("getAttribute", quote(name), v, err)
}

func (e *element) Text(ctx context.Context) (string, error) {
	v, err := e.next.Text(ctx)
	return v, e.value("getText", "", v, err)
}

func (e *element) CSSValue(ctx context.Context, property string) (string, error) {
	v, err := e.next.CSSValue(ctx, property)
	return v, e.value("getCssValue", quote(property), v, err)
}

func (e *element) Location(ctx context.Context) (domain.Point, error) {
	v, err := e.next.Location(ctx)
	return v, e.value("getLocation", "", v, err)
}

func (e *element) Size(ctx context.Context) (domain.Dimension, error) {
	v, err := e.next.Size(ctx)
	return v, e.value("getSize", "", v, err)
}

func (e *element) IsSelected(ctx context.Context) (bool, error) {
	v, err := e.next.IsSelected(ctx)
	return v, e.value("isSelected", "", v, err)
}

func (e *element) IsEnabled(ctx context.Context) (bool, error) {
	v, err := e.next.IsEnabled(ctx)
	return v, e.value("isEnabled", "", v, err)
}

func (e *element) IsDisplayed(ctx context.Context) (bool, error) {
	v, err := e.next.IsDisplayed(ctx)
	return v, e.value("isDisplayed", "", v, err)
}

func (e *element) void(op, args string, err error) error {
	result := ""
	if err != nil {
		result = failure(err)
	}
	e.journal.line(e.id, op, args, result)
	return err
}

func (e *element) value(op, args string, v any, err error) error {
	result := quote(v)
	if err != nil {
		result = failure(err)
	}
	e.journal.line(e.id, op, args, result)
	return err
}

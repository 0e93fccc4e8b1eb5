package journal_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/htmldoc"
	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/journal"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver_Contract(t *testing.T) {
	ports.RunDriverContract(t, func(t *testing.T, doc string) ports.Driver {
		d, err := htmldoc.ParseString(doc)
		require.NoError(t, err)
		var buf bytes.Buffer
		return journal.New(d, &buf)
	})
}

type brokenWriter struct {
	writes int
}

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("sink unavailable")
}

func TestDriver_KeepsFirstWriteError(t *testing.T) {
	doc, err := htmldoc.ParseString(`<p>hi</p>`)
	require.NoError(t, err)
	sink := &brokenWriter{}
	d := journal.New(doc, sink)
	ctx := context.Background()
	require.NoError(t, d.Err())

	p, err := d.FindElement(ctx, by.TagName("p"))
	require.NoError(t, err, "a broken sink does not fail backend calls")
	_, err = p.Text(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, sink.writes)
	require.Error(t, d.Err())
	assert.Equal(t, "failed to write journal line: sink unavailable", d.Err().Error())
}

func TestDriver_Lines(t *testing.T) {
	doc, err := htmldoc.ParseString(`<form><input name="q" value="x"><p>hi</p></form>`)
	require.NoError(t, err)
	var buf bytes.Buffer
	d := journal.New(doc, &buf)
	ctx := context.Background()

	form, err := d.FindElement(ctx, by.TagName("form"))
	require.NoError(t, err)
	input, err := form.FindElement(ctx, by.Name("q"))
	require.NoError(t, err)

	require.NoError(t, input.Clear(ctx))
	require.NoError(t, input.SendKeys(ctx, "a", "b"))
	_, err = input.Attribute(ctx, "value")
	require.NoError(t, err)
	_, err = input.IsEnabled(ctx)
	require.NoError(t, err)
	_, err = input.Size(ctx)
	require.NoError(t, err)

	_, err = form.FindElement(ctx, by.ID("missing"))
	require.ErrorIs(t, err, domain.ErrNoSuchElement)

	p, err := form.FindElements(ctx, by.TagName("p"))
	require.NoError(t, err)
	require.Len(t, p, 1)
	require.ErrorIs(t, p[0].SendKeys(ctx, "z"), domain.ErrUnsupportedOperation)

	want := strings.Join([]string{
		"wd0.findElement(By.tagName: form) -> we1",
		"we1.findElement(By.name: q) -> we2",
		"we2.clear()",
		"we2.sendKeys('a', 'b')",
		"we2.getAttribute('value') -> 'ab'",
		"we2.isEnabled() -> 'true'",
		"we2.getSize() -> '(0, 0)'",
		"we1.findElement(By.id: missing) -> !NoSuchElement",
		"we1.findElements(By.tagName: p) -> [we3]",
		"we3.sendKeys('z') -> !UnsupportedOperation",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestDriver_IdsArePerJournal(t *testing.T) {
	doc, err := htmldoc.ParseString(`<span>a</span>`)
	require.NoError(t, err)

	var a, b bytes.Buffer
	_, err = journal.New(doc, &a).FindElement(context.Background(), by.TagName("span"))
	require.NoError(t, err)
	_, err = journal.New(doc, &b).FindElement(context.Background(), by.TagName("span"))
	require.NoError(t, err)

	assert.Equal(t, a.String(), b.String())
}

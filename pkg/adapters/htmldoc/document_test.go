package htmldoc_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/htmldoc"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func open(t *testing.T, doc string) ports.Driver {
	t.Helper()
	d, err := htmldoc.ParseString(doc)
	require.NoError(t, err)
	return d
}

func TestDocument_Contract(t *testing.T) {
	ports.RunDriverContract(t, open)
}

func TestDocument_CompositeClassMatchesWholeWord(t *testing.T) {
	d := open(t, `<div class="item">a</div><div class="items">b</div><div class="x item y">c</div><div class="olditem">d</div>`)
	ctx := context.Background()

	found, err := d.FindElements(ctx, by.Must(by.Composite(by.TagName("div"), by.ClassName("item"))))
	require.NoError(t, err)
	require.Len(t, found, 2)

	var texts []string
	for _, e := range found {
		text, err := e.Text(ctx)
		require.NoError(t, err)
		texts = append(texts, text)
	}
	assert.Equal(t, []string{"a", "c"}, texts)
}

func TestDocument_LastAttribute(t *testing.T) {
	d := open(t, `<ul><li data-k="1">one</li><li>two</li><li data-k="1">three</li></ul>`)
	ctx := context.Background()

	e, err := d.FindElement(ctx, by.Must(by.Last(by.Must(by.Attribute("data-k")))))
	require.NoError(t, err)
	text, err := e.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "three", text)
}

func TestDocument_LastRefinedToTag(t *testing.T) {
	d := open(t, `<ul><li data-k="1">one</li><li>two</li><li data-k="1">three</li></ul><p data-k="1">after</p>`)
	ctx := context.Background()

	tests := []struct {
		name    string
		locator by.By
		want    []string
	}{
		{"LastAny", by.Refine("li", by.LastAny()), []string{"three"}},
		{"LastAttribute", by.Refine("li", by.Must(by.Last(by.Must(by.Attribute("data-k"))))), []string{"three"}},
		{"LastAttributeValue", by.Refine("li", by.Must(by.Last(by.Must(by.AttributeValue("data-k", "1"))))), []string{"three"}},
		{"LastWithoutAttribute", by.Refine("li", by.Must(by.Last(by.Must(by.Attribute("title"))))), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := d.FindElements(ctx, tt.locator)
			require.NoError(t, err)
			var texts []string
			for _, e := range found {
				text, err := e.Text(ctx)
				require.NoError(t, err)
				texts = append(texts, text)
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestDocument_RemoveMakesHandlesStale(t *testing.T) {
	d, err := htmldoc.ParseString(`<div id="a"><span>x</span></div><div id="b"></div>`)
	require.NoError(t, err)
	ctx := context.Background()

	span, err := d.FindElement(ctx, by.TagName("span"))
	require.NoError(t, err)

	removed, err := d.Remove(`//div[@id='a']`)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = span.Text(ctx)
	assert.ErrorIs(t, err, domain.ErrStaleElement)
	assert.ErrorIs(t, span.Click(ctx), domain.ErrStaleElement)
	_, err = span.FindElements(ctx, by.TagName("b"))
	assert.ErrorIs(t, err, domain.ErrStaleElement)

	assert.NotContains(t, d.HTML(), "<span>")
}

func TestDocument_ReloadMakesHandlesStale(t *testing.T) {
	d, err := htmldoc.ParseString(`<p>old</p>`)
	require.NoError(t, err)
	ctx := context.Background()

	p, err := d.FindElement(ctx, by.TagName("p"))
	require.NoError(t, err)

	require.NoError(t, d.Reload(strings.NewReader(`<p>new</p>`)))
	_, err = p.TagName(ctx)
	assert.ErrorIs(t, err, domain.ErrStaleElement)

	fresh, err := d.FindElement(ctx, by.TagName("p"))
	require.NoError(t, err)
	text, err := fresh.Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", text)
}

func TestDocument_RadioAndOptionClicks(t *testing.T) {
	d := open(t, `<form>
<input type="radio" name="c" value="r" checked><input type="radio" name="c" value="g">
<select name="s"><option selected>one</option><option>two</option></select>
</form>`)
	ctx := context.Background()

	radios, err := d.FindElements(ctx, by.Name("c"))
	require.NoError(t, err)
	require.Len(t, radios, 2)
	require.NoError(t, radios[1].Click(ctx))

	first, err := radios[0].IsSelected(ctx)
	require.NoError(t, err)
	second, err := radios[1].IsSelected(ctx)
	require.NoError(t, err)
	assert.False(t, first)
	assert.True(t, second)

	options, err := d.FindElements(ctx, by.TagName("option"))
	require.NoError(t, err)
	require.NoError(t, options[1].Click(ctx))
	selected, err := options[0].IsSelected(ctx)
	require.NoError(t, err)
	assert.False(t, selected)
}

func TestDocument_SendKeysToNonEditable(t *testing.T) {
	d := open(t, `<span>x</span>`)
	ctx := context.Background()
	span, err := d.FindElement(ctx, by.TagName("span"))
	require.NoError(t, err)
	assert.ErrorIs(t, span.SendKeys(ctx, "a"), domain.ErrUnsupportedOperation)
}

func TestDocument_InvalidCSS(t *testing.T) {
	d := open(t, `<span>x</span>`)
	_, err := d.FindElements(context.Background(), by.CSS("span[["))
	assert.ErrorIs(t, err, domain.ErrInvalidSelector)
}

func TestDocument_CanceledContext(t *testing.T) {
	d := open(t, `<span>x</span>`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.FindElement(ctx, by.TagName("span"))
	assert.ErrorIs(t, err, context.Canceled)
}

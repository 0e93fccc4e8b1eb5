package ports

import (
	"context"
	"testing"

	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractDocument is the page every backend under RunDriverContract must serve.
const ContractDocument = `<html><head><title>contract</title></head><body>
<div id="main" class="box wide">
  <span class="item first" data-x="10" data-y="20" data-width="100" data-height="30" style="color: red; font-weight: bold">Alpha</span>
  <span class="item-extra">Beta</span>
  <span foo="bar">Gamma</span>
  <a href="/docs">Read the   docs</a>
</div>
<form id="signup" action="/signup">
  <input name="email" type="text" value="a@b.c">
  <input name="agree" type="checkbox">
  <input name="locked" type="text" disabled>
  <input name="token" type="hidden" value="t">
  <textarea name="bio">hello</textarea>
  <button type="submit">Go</button>
</form>
<p hidden>Secret</p>
</body></html>`

// RunDriverContract runs a suite of tests to verify that a Driver implementation
// adheres to the backend contract. open must return a fresh driver serving doc.
func RunDriverContract(t *testing.T, open func(t *testing.T, doc string) Driver) {
	ctx := context.Background()

	find := func(t *testing.T, sc SearchContext, locator by.By) Element {
		t.Helper()
		e, err := sc.FindElement(ctx, locator)
		require.NoError(t, err, "FindElement(%s)", locator)
		return e
	}

	t.Run("Find By Strategy", func(t *testing.T) {
		d := open(t, ContractDocument)
		cases := []struct {
			locator by.By
			text    string
		}{
			{by.TagName("span"), "Alpha"},
			{by.ID("main"), ""},
			{by.ClassName("item"), "Alpha"},
			{by.CSS("span.item-extra"), "Beta"},
			{by.XPath(".//span[@foo = 'bar']"), "Gamma"},
			{by.LinkText("Read the docs"), "Read the docs"},
			{by.PartialLinkText("the do"), "Read the docs"},
			{by.Must(by.AttributeValue("foo", "bar")), "Gamma"},
		}
		for _, tc := range cases {
			e := find(t, d, tc.locator)
			if tc.text == "" {
				continue
			}
			text, err := e.Text(ctx)
			require.NoError(t, err)
			assert.Equal(t, tc.text, text, "text of %s", tc.locator)
		}

		email := find(t, d, by.Name("email"))
		tag, err := email.TagName(ctx)
		require.NoError(t, err)
		assert.Equal(t, "input", tag)
	})

	t.Run("Class Name Matches Whole Tokens", func(t *testing.T) {
		d := open(t, ContractDocument)
		all, err := d.FindElements(ctx, by.ClassName("item"))
		require.NoError(t, err)
		assert.Len(t, all, 1)

		composite, err := d.FindElements(ctx, by.Must(by.Composite(by.TagName("span"), by.ClassName("item"))))
		require.NoError(t, err)
		assert.Len(t, composite, 1)
	})

	t.Run("Not Found", func(t *testing.T) {
		d := open(t, ContractDocument)
		_, err := d.FindElement(ctx, by.ID("missing"))
		assert.ErrorIs(t, err, domain.ErrNoSuchElement)

		none, err := d.FindElements(ctx, by.ID("missing"))
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Invalid Selector", func(t *testing.T) {
		d := open(t, ContractDocument)
		_, err := d.FindElements(ctx, by.XPath(".//["))
		assert.ErrorIs(t, err, domain.ErrInvalidSelector)
	})

	t.Run("Relative Search", func(t *testing.T) {
		d := open(t, ContractDocument)
		form := find(t, d, by.ID("signup"))
		spans, err := form.FindElements(ctx, by.TagName("span"))
		require.NoError(t, err)
		assert.Empty(t, spans)

		inputs, err := form.FindElements(ctx, by.TagName("input"))
		require.NoError(t, err)
		assert.Len(t, inputs, 4)

		main := find(t, d, by.ID("main"))
		last, err := main.FindElement(ctx, by.Refine("span", by.LastAny()))
		require.NoError(t, err)
		text, err := last.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Gamma", text)
	})

	t.Run("Read Accessors", func(t *testing.T) {
		d := open(t, ContractDocument)
		span := find(t, d, by.ClassName("first"))

		css, err := span.CSSValue(ctx, "color")
		require.NoError(t, err)
		assert.Equal(t, "red", css)

		loc, err := span.Location(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Point{X: 10, Y: 20}, loc)

		size, err := span.Size(ctx)
		require.NoError(t, err)
		assert.Equal(t, domain.Dimension{Width: 100, Height: 30}, size)

		link := find(t, d, by.TagName("a"))
		href, err := link.Attribute(ctx, "href")
		require.NoError(t, err)
		assert.Equal(t, "/docs", href)

		missing, err := link.Attribute(ctx, "title")
		require.NoError(t, err)
		assert.Equal(t, "", missing)
	})

	t.Run("Boolean State", func(t *testing.T) {
		d := open(t, ContractDocument)

		enabled, err := find(t, d, by.Name("locked")).IsEnabled(ctx)
		require.NoError(t, err)
		assert.False(t, enabled)

		enabled, err = find(t, d, by.Name("email")).IsEnabled(ctx)
		require.NoError(t, err)
		assert.True(t, enabled)

		shown, err := find(t, d, by.TagName("p")).IsDisplayed(ctx)
		require.NoError(t, err)
		assert.False(t, shown)

		shown, err = find(t, d, by.Name("token")).IsDisplayed(ctx)
		require.NoError(t, err)
		assert.False(t, shown)

		shown, err = find(t, d, by.TagName("span")).IsDisplayed(ctx)
		require.NoError(t, err)
		assert.True(t, shown)
	})

	t.Run("Click Toggles Checkbox", func(t *testing.T) {
		d := open(t, ContractDocument)
		agree := find(t, d, by.Name("agree"))

		selected, err := agree.IsSelected(ctx)
		require.NoError(t, err)
		assert.False(t, selected)

		require.NoError(t, agree.Click(ctx))
		selected, err = agree.IsSelected(ctx)
		require.NoError(t, err)
		assert.True(t, selected)

		require.NoError(t, agree.Click(ctx))
		selected, err = agree.IsSelected(ctx)
		require.NoError(t, err)
		assert.False(t, selected)
	})

	t.Run("Clear And Send Keys", func(t *testing.T) {
		d := open(t, ContractDocument)
		email := find(t, d, by.Name("email"))
		require.NoError(t, email.Clear(ctx))
		value, err := email.Attribute(ctx, "value")
		require.NoError(t, err)
		assert.Equal(t, "", value)

		require.NoError(t, email.SendKeys(ctx, "x@y", ".z"))
		value, err = email.Attribute(ctx, "value")
		require.NoError(t, err)
		assert.Equal(t, "x@y.z", value)

		bio := find(t, d, by.Name("bio"))
		require.NoError(t, bio.Clear(ctx))
		require.NoError(t, bio.SendKeys(ctx, "hi"))
		text, err := bio.Text(ctx)
		require.NoError(t, err)
		assert.Equal(t, "hi", text)
	})

	t.Run("Submit", func(t *testing.T) {
		d := open(t, ContractDocument)
		require.NoError(t, find(t, d, by.TagName("button")).Submit(ctx))

		submitted, err := find(t, d, by.ID("signup")).Attribute(ctx, "data-submitted")
		require.NoError(t, err)
		assert.Equal(t, "1", submitted)

		err = find(t, d, by.TagName("span")).Submit(ctx)
		assert.ErrorIs(t, err, domain.ErrNoSuchElement)
	})
}

package by_test

import (
	"testing"

	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainLocators_String(t *testing.T) {
	assert.Equal(t, "By.tagName: span", by.TagName("span").String())
	assert.Equal(t, "By.name: qux", by.Name("qux").String())
	assert.Equal(t, "By.selector: baz", by.CSS("baz").String())
	assert.Equal(t, "By.linkText: mismatching_tag_name", by.LinkText("mismatching_tag_name").String())
	assert.Equal(t, "By.xpath: @foo = 'bar'", by.XPath("@foo = 'bar'").String())
	assert.Equal(t, "", by.By{}.String())
	assert.True(t, by.By{}.IsZero())
}

func TestAttribute(t *testing.T) {
	present, err := by.Attribute("foo")
	require.NoError(t, err)
	assert.Equal(t, by.StrategyXPath, present.Strategy())
	assert.Equal(t, ".//*[@foo]", present.Value())

	equal, err := by.AttributeValue("foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, "By.xpath: .//*[@foo = 'bar']", equal.String())
	assert.True(t, equal.AttributeBased())

	_, err = by.Attribute("")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = by.AttributeValue("a b", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestAttribute_Names(t *testing.T) {
	valid := []string{"foo", "data-k", "aria-label", "_x", "x.y", "x1", "é"}
	for _, name := range valid {
		_, err := by.Attribute(name)
		assert.NoError(t, err, name)
	}

	invalid := []string{"1x", "-x", ".x", "a/b", "a::b", "ns:attr", "a b", "a[1]", "@a", "a'b", "a=b"}
	for _, name := range invalid {
		_, err := by.Attribute(name)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, name)
		_, err = by.AttributeValue(name, "v")
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, name)
	}
}

func TestComposite(t *testing.T) {
	t.Run("TagAndClass", func(t *testing.T) {
		c, err := by.Composite(by.TagName("div"), by.ClassName("item"))
		require.NoError(t, err)
		assert.Equal(t, ".//div[contains(concat(' ', normalize-space(@class), ' '), ' item ')]", c.Value())
	})

	t.Run("TagAndAttribute", func(t *testing.T) {
		c, err := by.Composite(by.TagName("span"), by.Must(by.AttributeValue("foo", "bar")))
		require.NoError(t, err)
		assert.Equal(t, ".//span[@foo = 'bar']", c.Value())
		assert.True(t, c.AttributeBased())
	})

	t.Run("IllegalPairings", func(t *testing.T) {
		cases := []struct {
			name       string
			tag, other by.By
		}{
			{"IDFirst", by.ID("x"), by.ClassName("item")},
			{"CSSSecond", by.TagName("div"), by.CSS(".item")},
			{"NameSecond", by.TagName("div"), by.Name("q")},
			{"LastSecond", by.TagName("div"), by.LastAny()},
			{"CompositeSecond", by.TagName("div"), by.Must(by.Composite(by.TagName("span"), by.Must(by.Attribute("foo"))))},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := by.Composite(tc.tag, tc.other)
				assert.ErrorIs(t, err, domain.ErrInvalidArgument)
			})
		}
	})
}

func TestLast(t *testing.T) {
	l, err := by.Last(by.Must(by.AttributeValue("foo", "bar")))
	require.NoError(t, err)
	assert.Equal(t, "By.xpath: .//*[position() = last() and @foo = 'bar']", l.String())
	assert.False(t, l.AttributeBased())

	assert.Equal(t, ".//*[position() = last()]", by.LastAny().Value())

	_, err = by.Last(by.TagName("span"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)

	_, err = by.Last(l)
	assert.ErrorIs(t, err, domain.ErrUnsupportedOperation)
}

func TestStrictClassName(t *testing.T) {
	c, err := by.StrictClassName("item")
	require.NoError(t, err)
	assert.Equal(t, "By.className: item", c.String())

	_, err = by.StrictClassName("one two")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = by.StrictClassName("")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestRefine(t *testing.T) {
	assert.Equal(t, "By.tagName: span", by.Refine("span", by.By{}).String())
	assert.Equal(t, "By.xpath: .//span[@foo = 'bar']", by.Refine("span", by.XPath("@foo = 'bar'")).String())
	assert.Equal(t, "By.selector: baz", by.Refine("span", by.CSS("baz")).String())
	assert.Equal(t, "By.name: qux", by.Refine("span", by.Name("qux")).String())
	assert.Equal(t, ".//span[@foo]", by.Refine("span", by.Must(by.Attribute("foo"))).Value())
	assert.Equal(t, ".//li[position() = last()]", by.Refine("li", by.LastAny()).Value())
	assert.Equal(t, ".//li[position() = last() and @x = '1']",
		by.Refine("li", by.Must(by.Last(by.Must(by.AttributeValue("x", "1"))))).Value())
	assert.Equal(t, ".//p[contains(concat(' ', normalize-space(@class), ' '), ' note ')]",
		by.Refine("p", by.ClassName("note")).Value())

	composite := by.Must(by.Composite(by.TagName("div"), by.ClassName("x")))
	assert.Equal(t, composite, by.Refine("span", composite))
}

func TestLiteral(t *testing.T) {
	assert.Equal(t, "'plain'", by.Literal("plain"))
	assert.Equal(t, `"it's"`, by.Literal("it's"))
	assert.Equal(t, `concat('say "hi"', "'", 's')`, by.Literal(`say "hi"'s`))
}

func TestMust_Panics(t *testing.T) {
	assert.Panics(t, func() {
		by.Must(by.Last(by.ID("x")))
	})
}

func TestParse(t *testing.T) {
	b, err := by.Parse("selector", "div > span")
	require.NoError(t, err)
	assert.Equal(t, by.CSS("div > span"), b)

	composite, err := by.Composite(by.TagName("li"), by.ClassName("x"))
	require.NoError(t, err)
	wire, err := by.Parse(string(composite.Strategy()), composite.Value())
	require.NoError(t, err)
	assert.Equal(t, composite.String(), wire.String())

	_, err = by.Parse("jquery", "$")
	assert.ErrorIs(t, err, domain.ErrInvalidSelector)
}

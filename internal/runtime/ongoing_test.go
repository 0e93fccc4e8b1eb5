package runtime_test

import (
	"context"
	"testing"

	"github.com/rodrigues2k/fluent-selenium/internal/runtime"
	"github.com/rodrigues2k/fluent-selenium/internal/testutils"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"github.com/rodrigues2k/fluent-selenium/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChain(stub *testutils.StubDriver) *runtime.Ongoing {
	clock := &fakeClock{}
	return runtime.NewOngoing(context.Background(), stub, newEnvelope(clock, domain.DefaultRetryPolicy()))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "?.span()", runtime.Describe("?", "span"))
	assert.Equal(t, "?.span(By.linkText: x)", runtime.Describe("?", "span", by.LinkText("x")))
	assert.Equal(t, "we2.sendKeys('a', 'b')", runtime.Describe("we2", "sendKeys", "a", "b"))
	assert.Equal(t, "we1.span()", runtime.Describe("we1", "span", by.By{}))
}

func TestOngoing_LineageLabels(t *testing.T) {
	root := newChain(testutils.NewStubDriver())
	assert.Equal(t, "?", root.Context())

	first := root.Find(tags.Span)
	second := first.Find(tags.Span, by.Name("qux"))
	third := second.FindAll(tags.Span)

	require.NoError(t, third.Err())
	assert.Equal(t, "we1", first.Context())
	assert.Equal(t, "we2", second.Context())
	assert.Equal(t, "we3", third.Context())
	assert.Equal(t, "?", root.Context(), "root must not be mutated")

	other := newChain(testutils.NewStubDriver()).Find(tags.Div)
	assert.Equal(t, "we1", other.Context(), "independent roots never share numbering")
}

func TestOngoing_TagMismatch(t *testing.T) {
	stub := testutils.NewStubDriver()
	chain := newChain(stub).Find(tags.Span, by.LinkText("mismatching_tag_name")).ClearField()

	err := chain.Err()
	require.Error(t, err)
	assert.Equal(t, "AssertionError during invocation of: ?.span(By.linkText: mismatching_tag_name)", err.Error())
	assert.Contains(t, err.(*domain.ExecutionStopped).Cause.Error(), "tag was incorrect")

	calls := stub.Calls()
	_, err2 := chain.Text()
	assert.Equal(t, err, err2)
	assert.Equal(t, calls, stub.Calls(), "a stopped chain must not touch the backend")
}

func TestOngoing_RetriesStaleFind(t *testing.T) {
	stub := testutils.NewStubDriver()
	stub.FailNext(domain.ErrStaleElement)

	chain := newChain(stub).Find(tags.Span)
	require.NoError(t, chain.Err())
	assert.Equal(t, "we1", chain.Context())
}

func TestOngoing_StaleExhausted(t *testing.T) {
	stub := testutils.NewStubDriver()
	span := newChain(stub).Find(tags.Span)
	require.NoError(t, span.Err())

	stub.FailNext(domain.ErrStaleElement, domain.ErrStaleElement, domain.ErrStaleElement, domain.ErrStaleElement, domain.ErrStaleElement)
	err := span.Click().Err()

	require.Error(t, err)
	assert.Equal(t, "4 retries over 750 millis; StaleElementReference during invocation of: we1.click()", err.Error())
}

func TestOngoing_NotFound(t *testing.T) {
	stub := testutils.NewStubDriver()
	stub.FailNext(domain.ErrNoSuchElement)

	err := newChain(stub).Find(tags.Div, by.ID("missing")).Err()
	require.Error(t, err)
	assert.Equal(t, "NoSuchElement during invocation of: ?.div(By.id: missing)", err.Error())
}

func TestOngoing_BooleanAggregateIsAnd(t *testing.T) {
	stub := testutils.NewStubDriver()
	stub.Selected = []bool{true, false}

	selected, err := newChain(stub).FindAll(tags.Input).IsSelected()
	require.NoError(t, err)
	assert.False(t, selected)

	stub.Selected = []bool{true, true}
	selected, err = newChain(stub).FindAll(tags.Input).IsSelected()
	require.NoError(t, err)
	assert.True(t, selected)
}

func TestOngoing_RootHasNoElements(t *testing.T) {
	root := newChain(testutils.NewStubDriver())

	err := root.Click().Err()
	require.Error(t, err)
	assert.Equal(t, "NoElements during invocation of: ?.click()", err.Error())

	_, err = root.Text()
	assert.ErrorIs(t, err, domain.ErrNoElements)
}

func TestOngoing_Accessors(t *testing.T) {
	span := newChain(testutils.NewStubDriver()).Find(tags.Span)

	name, err := span.TagName()
	require.NoError(t, err)
	assert.Equal(t, "span", name)

	text, err := span.Text()
	require.NoError(t, err)
	assert.Equal(t, "span text", text)

	attr, err := span.Attribute("title")
	require.NoError(t, err)
	assert.Equal(t, "title-value", attr)

	css, err := span.CSSValue("color")
	require.NoError(t, err)
	assert.Equal(t, "color-value", css)

	loc, err := span.Location()
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 1, Y: 2}, loc)

	size, err := span.Size()
	require.NoError(t, err)
	assert.Equal(t, domain.Dimension{Width: 3, Height: 4}, size)
}

func TestOngoing_SendKeysAndAssert(t *testing.T) {
	input := newChain(testutils.NewStubDriver()).Find(tags.Input)

	typed := input.SendKeys("ab", "c")
	require.NoError(t, typed.Err())
	value, err := typed.Attribute("value")
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	err = typed.Assert("has value", func(ctx context.Context, e ports.Element) (bool, error) {
		v, err := e.Attribute(ctx, "value")
		return v == "", err
	}).Err()
	require.Error(t, err)
	assert.Equal(t, "AssertionError during invocation of: we1.assert('has value')", err.Error())
}

func TestOngoing_ElementWithoutLocator(t *testing.T) {
	err := newChain(testutils.NewStubDriver()).Element(by.By{}).Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

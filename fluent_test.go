package fluent_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rodrigues2k/fluent-selenium"
	"github.com/rodrigues2k/fluent-selenium/internal/runtime"
	"github.com/rodrigues2k/fluent-selenium/internal/testutils"
	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/htmldoc"
	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/journal"
	"github.com/rodrigues2k/fluent-selenium/pkg/by"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/rodrigues2k/fluent-selenium/pkg/ports"
	"github.com/rodrigues2k/fluent-selenium/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario drives the same chain in both execution modes.
type scenario func(ports.Chain) ports.Chain

// immediate runs s directly against a journaled stub.
func immediate(t *testing.T, s scenario) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	err := s(fluent.New(journal.New(testutils.NewStubDriver(), &buf))).Err()
	return buf.String(), err
}

// recorded records s, checks nothing was journaled, then plays it back against a journaled stub.
func recorded(t *testing.T, s scenario) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	driver := journal.New(testutils.NewStubDriver(), &buf)

	rec := fluent.NewRecorder()
	require.NoError(t, s(rec.Chain()).Err())
	require.Empty(t, buf.String(), "recording must not touch the backend")

	err := fluent.Replay(rec.Recording(), driver)
	return buf.String(), err
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func TestJournal_NestedFinds(t *testing.T) {
	for _, tag := range []tags.Tag{tags.Span, tags.TextArea, tags.Div, tags.Button} {
		t.Run(tag.Name, func(t *testing.T) {
			s := func(c ports.Chain) ports.Chain {
				return c.Find(tag).
					Find(tag, by.XPath("@foo = 'bar'")).
					Find(tag, by.CSS("baz")).
					FindAll(tag)
			}
			n := tag.Name
			want := lines(
				"wd0.findElement(By.tagName: "+n+") -> we1",
				"we1.getTagName() -> '"+n+"'",
				"we1.findElement(By.xpath: .//"+n+"[@foo = 'bar']) -> we2",
				"we2.getTagName() -> '"+n+"'",
				"we2.findElement(By.selector: baz) -> we3",
				"we3.getTagName() -> '"+n+"'",
				"we3.findElements(By.tagName: "+n+") -> [we4, we5]",
				"we4.getTagName() -> '"+n+"'",
				"we5.getTagName() -> '"+n+"'",
			)

			direct, err := immediate(t, s)
			require.NoError(t, err)
			assert.Equal(t, want, direct)

			replayed, err := recorded(t, s)
			require.NoError(t, err)
			assert.Equal(t, want, replayed)
		})
	}
}

func TestJournal_FindAllByName(t *testing.T) {
	s := func(c ports.Chain) ports.Chain {
		return c.Find(tags.Span).FindAll(tags.Span, by.Name("qux"))
	}
	want := lines(
		"wd0.findElement(By.tagName: span) -> we1",
		"we1.getTagName() -> 'span'",
		"we1.findElements(By.name: qux) -> [we2, we3]",
		"we2.getTagName() -> 'span'",
		"we3.getTagName() -> 'span'",
	)

	direct, err := immediate(t, s)
	require.NoError(t, err)
	assert.Equal(t, want, direct)

	replayed, err := recorded(t, s)
	require.NoError(t, err)
	assert.Equal(t, want, replayed)
}

func TestJournal_TagMismatchInBothModes(t *testing.T) {
	s := func(c ports.Chain) ports.Chain {
		return c.Find(tags.Span, by.LinkText("mismatching_tag_name")).ClearField()
	}
	const message = "AssertionError during invocation of: ?.span(By.linkText: mismatching_tag_name)"
	want := lines(
		"wd0.findElement(By.linkText: mismatching_tag_name) -> we1",
		"we1.getTagName() -> 'mismatching_tag_name'",
	)

	for name, run := range map[string]func(*testing.T, scenario) (string, error){
		"immediate": immediate,
		"playback":  recorded,
	} {
		t.Run(name, func(t *testing.T) {
			journaled, err := run(t, s)

			var stopped *domain.ExecutionStopped
			require.ErrorAs(t, err, &stopped)
			assert.Equal(t, message, stopped.Error())
			assert.Contains(t, stopped.Cause.Error(), "tag was incorrect")
			assert.Equal(t, want, journaled)
		})
	}
}

func TestReplay_IndependentBackends(t *testing.T) {
	page := `<div id="main"><input type="checkbox" name="agree"></div>`
	first, err := htmldoc.ParseString(page)
	require.NoError(t, err)
	second, err := htmldoc.ParseString(page)
	require.NoError(t, err)

	rec := fluent.NewRecorder()
	rec.Chain().Find(tags.Div, by.ID("main")).Find(tags.Input, by.Name("agree")).Click()
	sealed := rec.Recording()

	require.NoError(t, fluent.Replay(sealed, first))
	require.NoError(t, fluent.Replay(sealed, first))
	require.NoError(t, fluent.Replay(sealed, second))

	selected, err := fluent.New(first).Find(tags.Input).IsSelected()
	require.NoError(t, err)
	assert.False(t, selected, "two clicks toggle the checkbox back")

	selected, err = fluent.New(second).Find(tags.Input).IsSelected()
	require.NoError(t, err)
	assert.True(t, selected)
}

func TestNew_RetriesWithPolicyAndHooks(t *testing.T) {
	stub := testutils.NewStubDriver()
	stub.FailNext(domain.ErrStaleElement, domain.ErrStaleElement)

	var retries int
	var slept time.Duration
	chain := fluent.New(stub,
		fluent.WithRetryPolicy(domain.RetryPolicy{MaxAttempts: 2, InitialBackoff: 10 * time.Millisecond, MaxBackoff: time.Second, Multiplier: 2}),
		fluent.WithHooks(domain.Hooks{OnRetry: func(context.Context, *domain.StepEvent) { retries++ }}),
		fluent.WithEnvelopeOptions(runtime.WithClock(time.Now, func(d time.Duration) { slept += d })),
	)

	err := chain.Find(tags.Span).Err()
	require.Error(t, err)
	assert.Equal(t, 1, retries)
	assert.Equal(t, 10*time.Millisecond, slept)
	assert.ErrorIs(t, err, domain.ErrStaleElement)
	assert.Contains(t, err.Error(), "1 retries over ")
	assert.Contains(t, err.Error(), "StaleElementReference during invocation of: ?.span()")
}

func TestNew_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := testutils.NewStubDriver()
	err := fluent.New(stub, fluent.WithContext(ctx)).Find(tags.Span).Err()

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stub.Calls())
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, strings.TrimSpace(fluent.Version))
}

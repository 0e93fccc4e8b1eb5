package script_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rodrigues2k/fluent-selenium/internal/script"
	"github.com/rodrigues2k/fluent-selenium/internal/testutils"
	"github.com/rodrigues2k/fluent-selenium/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nested = `
steps:
  - do: span
  - do: span
    by: {xpath: "@foo = 'bar'"}
  - do: span
    by: {css: baz}
  - do: spans
  - do: tagName
`

func TestExecute_ModesProduceTheSameJournal(t *testing.T) {
	s, err := script.Parse([]byte(nested))
	require.NoError(t, err)

	immediate, err := script.Execute(testutils.NewStubDriver(), s, script.Options{Mode: script.ModeImmediate})
	require.NoError(t, err)
	playback, err := script.Execute(testutils.NewStubDriver(), s, script.Options{Mode: script.ModePlayback})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"wd0.findElement(By.tagName: span) -> we1",
		"we1.getTagName() -> 'span'",
		"we1.findElement(By.xpath: .//span[@foo = 'bar']) -> we2",
		"we2.getTagName() -> 'span'",
		"we2.findElement(By.selector: baz) -> we3",
		"we3.getTagName() -> 'span'",
		"we3.findElements(By.tagName: span) -> [we4, we5]",
		"we4.getTagName() -> 'span'",
		"we5.getTagName() -> 'span'",
		"we4.getTagName() -> 'span'",
	}, immediate.Journal)
	assert.Equal(t, immediate.Journal, playback.Journal)
	assert.Equal(t, immediate.Results, playback.Results)
	assert.Equal(t, script.ModePlayback, playback.Mode)
}

func TestExecute_ReportsFailure(t *testing.T) {
	s, err := script.Parse([]byte(`steps: [{do: span, by: {linkText: mismatching_tag_name}}, {do: clearField}]`))
	require.NoError(t, err)

	var extra bytes.Buffer
	report, err := script.Execute(testutils.NewStubDriver(), s, script.Options{Mode: script.ModePlayback, Journal: &extra})

	require.Error(t, err)
	assert.Equal(t, "AssertionError during invocation of: ?.span(By.linkText: mismatching_tag_name)", report.Error)
	assert.Len(t, report.Journal, 2)
	assert.Equal(t, "wd0.findElement(By.linkText: mismatching_tag_name) -> we1\nwe1.getTagName() -> 'mismatching_tag_name'\n", extra.String())
	assert.Empty(t, report.Results)
}

func TestParseMode(t *testing.T) {
	m, err := script.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, script.ModeImmediate, m)

	m, err = script.ParseMode("playback")
	require.NoError(t, err)
	assert.Equal(t, script.ModePlayback, m)

	_, err = script.ParseMode("later")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

type failingSink struct{}

func (failingSink) Write(p []byte) (int, error) {
	return 0, errors.New("connection refused")
}

func TestExecute_ReportsJournalSinkFailure(t *testing.T) {
	s, err := script.Parse([]byte(`steps: [{do: span}, {do: text}]`))
	require.NoError(t, err)

	for _, mode := range []script.Mode{script.ModeImmediate, script.ModePlayback} {
		report, err := script.Execute(testutils.NewStubDriver(), s, script.Options{Mode: mode, Journal: failingSink{}})
		require.Error(t, err, mode)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Equal(t, err.Error(), report.Error)
		assert.Len(t, report.Journal, 3, "the local journal is still complete")
		assert.Equal(t, []script.Result{{Step: "text", Value: "span text"}}, report.Results)
	}
}

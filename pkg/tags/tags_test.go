package tags_test

import (
	"testing"

	"github.com/rodrigues2k/fluent-selenium/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	tag, many, ok := tags.Lookup("spans")
	require.True(t, ok)
	assert.Equal(t, tags.Span, tag)
	assert.True(t, many)

	tag, many, ok = tags.Lookup("link")
	require.True(t, ok)
	assert.Equal(t, "a", tag.Name)
	assert.False(t, many)

	_, _, ok = tags.Lookup("blink")
	assert.False(t, ok)
}

func TestMethod(t *testing.T) {
	assert.Equal(t, "textarea", tags.TextArea.Method(false))
	assert.Equal(t, "textareas", tags.TextArea.Method(true))
	assert.Equal(t, "links", tags.Link.Method(true))
}

func TestRegister(t *testing.T) {
	custom := tags.Tag{Name: "section", Singular: "section", Plural: "sections"}
	require.NoError(t, tags.Register(custom))
	require.NoError(t, tags.Register(custom), "re-registering the same tag is a no-op")

	tag, many, ok := tags.Lookup("sections")
	require.True(t, ok)
	assert.Equal(t, custom, tag)
	assert.True(t, many)

	err := tags.Register(tags.Tag{Name: "x-span", Singular: "span", Plural: "xspans"})
	assert.Error(t, err)

	assert.Error(t, tags.Register(tags.Tag{Name: "bad", Singular: "bad", Plural: "bad"}))
}

func TestAll(t *testing.T) {
	all := tags.All()
	assert.Contains(t, all, tags.Span)
	assert.Contains(t, all, tags.Link)
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Name, all[i].Name)
	}
}

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractArrayPlainJSON(t *testing.T) {
	arr, err := ExtractArray(`["Tweet one", "Tweet two"]`)
	require.NoError(t, err)
	assert.Equal(t, []any{"Tweet one", "Tweet two"}, arr)
}

func TestExtractArrayWrappedInProse(t *testing.T) {
	arr, err := ExtractArray(`Here is your thread: ["Tweet one", "Tweet two"]`)
	require.NoError(t, err)
	assert.Equal(t, []any{"Tweet one", "Tweet two"}, arr)
}

func TestExtractArrayNoJSON(t *testing.T) {
	_, err := ExtractArray("I cannot comply")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "no valid JSON found in model response", parseErr.Reason)
}

func TestExtractArrayBrokenPayload(t *testing.T) {
	_, err := ExtractArray(`here you go: ["one", "two",]`)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "failed to parse extracted JSON", parseErr.Reason)
}

func TestExtractObjectWrappedInProse(t *testing.T) {
	obj, err := ExtractObject("Sure! Here is the analysis you asked for:\n{\"pattern\": \"listicle\"}\nLet me know if you need more.")
	require.NoError(t, err)
	assert.Equal(t, "listicle", obj["pattern"])
}

func TestExtractObjectNoJSON(t *testing.T) {
	_, err := ExtractObject("nope")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestExtractObjectNested(t *testing.T) {
	obj, err := ExtractObject(`{"analysis": {"hookType": "story"}, "remixedThread": ["a", "b"]}`)
	require.NoError(t, err)
	analysis, ok := obj["analysis"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "story", analysis["hookType"])
}

func TestStringsOrPlaceholder(t *testing.T) {
	got := stringsOrPlaceholder([]any{"fine", 42.0, "also fine", nil})
	assert.Equal(t, []string{"fine", placeholderTweet, "also fine", placeholderTweet}, got)
}

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLHeadingAndParagraph(t *testing.T) {
	out, err := HTML("# Title\n\nFirst paragraph.")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1>Title</h1>")
	assert.Contains(t, out, "<p>First paragraph.</p>")
}

func TestHTMLPlainText(t *testing.T) {
	out, err := HTML("just a line of text")
	require.NoError(t, err)
	assert.Equal(t, "<p>just a line of text</p>\n", out)
}

func TestHTMLEmptyInput(t *testing.T) {
	out, err := HTML("")
	require.NoError(t, err)
	assert.Empty(t, out)
}

// Package render converts repurposed Markdown bodies to HTML for preview.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// HTML renders a Markdown document to an HTML fragment.
func HTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

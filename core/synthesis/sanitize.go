package synthesis

import "strings"

// StripCodeFences removes the Markdown fence markers models sometimes wrap
// around HTML output, then trims surrounding whitespace.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```html", "")
	s = strings.ReplaceAll(s, "```HTML", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

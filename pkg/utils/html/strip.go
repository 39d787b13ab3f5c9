// ABOUTME: HTML utilities for stripping tags from feed summaries
// ABOUTME: Tokenizes with x/net/html so entities decode and script/style bodies are dropped

package html

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// StripHTML returns the visible text of an HTML snippet with whitespace collapsed
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var sb strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; keep whatever text was read
			return collapseSpace(sb.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if isHidden(string(name)) {
				skip++
			}
			sb.WriteByte(' ')
		case html.EndTagToken:
			name, _ := z.TagName()
			if isHidden(string(name)) && skip > 0 {
				skip--
			}
			sb.WriteByte(' ')
		case html.SelfClosingTagToken:
			sb.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

// Excerpt strips tags and truncates the text to at most maxRunes runes,
// appending an ellipsis when it cut anything. maxRunes <= 0 yields "".
func Excerpt(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	text := StripHTML(s)
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes])) + "…"
}

func isHidden(tag string) bool {
	return tag == "script" || tag == "style"
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

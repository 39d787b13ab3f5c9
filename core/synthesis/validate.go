// ABOUTME: Structural checks on the synthesized HTML fragment
// ABOUTME: Required classes must be present and page-level or executable markup is rejected

package synthesis

import (
	"fmt"
	"strings"

	apperrors "market-radar/core/errors"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var disallowedTags = map[string]bool{
	"script": true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"style":  true,
	"html":   true,
	"head":   true,
	"body":   true,
}

// ValidateFragment returns a *errors.FragmentError listing every structural
// problem in the fragment, or nil when it is usable as-is.
func ValidateFragment(fragment string) error {
	if strings.TrimSpace(fragment) == "" {
		return &apperrors.FragmentError{Issues: []string{"fragment is empty"}}
	}

	var issues []string

	// goquery normalizes into html/head/body, so look at the raw tokens
	for _, tag := range findDisallowedTags(fragment) {
		issues = append(issues, fmt.Sprintf("disallowed <%s> element", tag))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return &apperrors.FragmentError{Issues: append(issues, "unparseable HTML: "+err.Error())}
	}

	if doc.Find("h2." + ClassSectionTitle).Length() == 0 {
		issues = append(issues, fmt.Sprintf("no <h2 class=%q> section header", ClassSectionTitle))
	}

	if strings.Contains(doc.Text(), "**") {
		issues = append(issues, "markdown bold (**) in text")
	}

	doc.Find("." + ClassStockCard).Each(func(i int, card *goquery.Selection) {
		ticker := card.ChildrenFiltered("." + ClassTicker)
		if ticker.Length() == 0 {
			issues = append(issues, fmt.Sprintf("stock card %d has no .%s child", i+1, ClassTicker))
			return
		}
		if ticker.Find("blockquote, ."+ClassQuoteEN+", ."+ClassQuoteZH).Length() > 0 {
			issues = append(issues, fmt.Sprintf("stock card %d mixes a quote into its .%s", i+1, ClassTicker))
		}
	})

	doc.Find("blockquote." + ClassQuote).Each(func(i int, q *goquery.Selection) {
		if q.Find("."+ClassQuoteEN).Length() == 0 {
			issues = append(issues, fmt.Sprintf("quote %d has no .%s", i+1, ClassQuoteEN))
		}
		if q.Find("."+ClassQuoteZH).Length() == 0 {
			issues = append(issues, fmt.Sprintf("quote %d has no .%s translation", i+1, ClassQuoteZH))
		}
	})

	if len(issues) > 0 {
		return &apperrors.FragmentError{Issues: issues}
	}
	return nil
}

// findDisallowedTags returns each disallowed tag name once, in order of appearance
func findDisallowedTags(fragment string) []string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	seen := make(map[string]bool)
	var found []string

	for {
		switch z.Next() {
		case html.ErrorToken:
			return found
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if disallowedTags[tag] && !seen[tag] {
				seen[tag] = true
				found = append(found, tag)
			}
		}
	}
}

// ABOUTME: Feed domain model for the discussion sources aggregated each run
// ABOUTME: Captures per-source outcomes so failed feeds stay observable

package domain

import (
	"errors"
	"net/url"
	"strings"
)

// FeedSource is one named syndication feed in the aggregation order
type FeedSource struct {
	// Label is the human-readable source tag prefixed to every line
	Label string `yaml:"label"`

	// URL is the RSS/Atom URL
	URL string `yaml:"url"`
}

// Validate checks that the source has a label and an absolute URL
func (s FeedSource) Validate() error {
	if strings.TrimSpace(s.Label) == "" {
		return errors.New("feed label cannot be empty")
	}
	if s.URL == "" {
		return errors.New("feed URL cannot be empty")
	}
	u, err := url.Parse(s.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("invalid feed URL format")
	}
	return nil
}

// FeedEntry is a single parsed feed item reduced to what the prompt needs
type FeedEntry struct {
	Source  string
	Title   string
	Excerpt string
}

// Line renders the entry as one line of aggregate text, without the newline
func (e FeedEntry) Line() string {
	if e.Excerpt == "" {
		return "[" + e.Source + "] " + e.Title
	}
	return "[" + e.Source + "] " + e.Title + " | " + e.Excerpt
}

// SourceResult is the outcome of fetching one feed: entries on success,
// Err on failure. A failed source contributes no entries.
type SourceResult struct {
	Label   string
	URL     string
	Entries []FeedEntry
	Err     error
}

// Failed reports whether the source could not be fetched or parsed
func (r SourceResult) Failed() bool {
	return r.Err != nil
}

// AggregateReport collects every source result in declaration order
type AggregateReport struct {
	Results []SourceResult
}

// Text flattens all entries into the aggregate text, one line per entry,
// in feed-then-entry order.
func (a *AggregateReport) Text() string {
	if a == nil {
		return ""
	}
	var sb strings.Builder
	for _, r := range a.Results {
		for _, e := range r.Entries {
			sb.WriteString(e.Line())
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// LineCount returns the number of lines Text would produce
func (a *AggregateReport) LineCount() int {
	if a == nil {
		return 0
	}
	n := 0
	for _, r := range a.Results {
		n += len(r.Entries)
	}
	return n
}

// Failures returns the sources that failed, in declaration order
func (a *AggregateReport) Failures() []SourceResult {
	if a == nil {
		return nil
	}
	var failed []SourceResult
	for _, r := range a.Results {
		if r.Failed() {
			failed = append(failed, r)
		}
	}
	return failed
}

package domain

import (
	"errors"
	"testing"
)

func TestFeedSource_Validate(t *testing.T) {
	tests := []struct {
		name    string
		source  FeedSource
		wantErr bool
	}{
		{
			name:   "valid source",
			source: FeedSource{Label: "WSB", URL: "https://www.reddit.com/r/wallstreetbets/.rss"},
		},
		{
			name:    "empty label",
			source:  FeedSource{Label: "  ", URL: "https://example.com/feed"},
			wantErr: true,
		},
		{
			name:    "empty url",
			source:  FeedSource{Label: "WSB"},
			wantErr: true,
		},
		{
			name:    "relative url",
			source:  FeedSource{Label: "WSB", URL: "/r/wallstreetbets/.rss"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.source.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFeedEntry_Line(t *testing.T) {
	tests := []struct {
		name  string
		entry FeedEntry
		want  string
	}{
		{
			name:  "title only",
			entry: FeedEntry{Source: "WSB", Title: "NVDA to the moon"},
			want:  "[WSB] NVDA to the moon",
		},
		{
			name:  "title with excerpt",
			entry: FeedEntry{Source: "Stocks", Title: "AMD earnings", Excerpt: "beat on revenue"},
			want:  "[Stocks] AMD earnings | beat on revenue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Line(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAggregateReport_TextKeepsOrder(t *testing.T) {
	report := &AggregateReport{
		Results: []SourceResult{
			{Label: "A", Entries: []FeedEntry{{Source: "A", Title: "a1"}, {Source: "A", Title: "a2"}}},
			{Label: "B", Err: errors.New("timeout")},
			{Label: "C", Entries: []FeedEntry{{Source: "C", Title: "c1"}}},
		},
	}

	want := "[A] a1\n[A] a2\n[C] c1\n"
	if got := report.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
	if got := report.LineCount(); got != 3 {
		t.Errorf("LineCount() = %d, want 3", got)
	}

	failures := report.Failures()
	if len(failures) != 1 || failures[0].Label != "B" {
		t.Errorf("Failures() = %+v, want only B", failures)
	}
}

func TestAggregateReport_Nil(t *testing.T) {
	var report *AggregateReport

	if report.Text() != "" {
		t.Error("nil report should produce empty text")
	}
	if report.LineCount() != 0 {
		t.Error("nil report should have zero lines")
	}
	if report.Failures() != nil {
		t.Error("nil report should have no failures")
	}
}

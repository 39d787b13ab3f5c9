// ABOUTME: Service interfaces for the pipeline stages
// ABOUTME: Lets the report pipeline be assembled from real services or test doubles

package interfaces

import (
	"context"

	"market-radar/core/domain"
)

// SentimentFetcher reads the market mood index. It never fails; an
// unavailable index yields the neutral reading.
type SentimentFetcher interface {
	Fetch(ctx context.Context) domain.SentimentReading
}

// FeedAggregator collects the discussion feeds into one report
type FeedAggregator interface {
	Aggregate(ctx context.Context) *domain.AggregateReport
}

// Synthesizer turns aggregate text into the report fragment
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, reading domain.SentimentReading) (domain.ReportFragment, error)
}

// PageRenderer produces the final HTML document
type PageRenderer interface {
	Render(fragment domain.ReportFragment, reading domain.SentimentReading) ([]byte, error)
}

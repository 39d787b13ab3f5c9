// ABOUTME: Report domain model for the synthesized fragment and run outcome
// ABOUTME: The fragment is trusted HTML produced by the synthesis service

package domain

import "time"

// ReportFragment is the HTML returned by synthesis, embedded verbatim
type ReportFragment string

// RunSummary describes what a single pipeline run produced
type RunSummary struct {
	Sentiment     SentimentReading
	Sources       int
	FailedSources int
	Lines         int
	FragmentBytes int
	PageBytes     int
	OutputPath    string
	Duration      time.Duration
}

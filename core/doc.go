// Package core contains the report pipeline's business logic. It does not
// depend on any concrete transport, model SDK or filesystem; those arrive
// through the interfaces package.
//
// The core package is organized into several sub-packages:
//
// - domain: Run-scoped models (FeedEntry, SourceResult, SentimentReading, ReportFragment)
// - sentiment: Fear & greed index fetch with a neutral fallback
// - feed: Sequential feed aggregation with per-source failure isolation
// - synthesis: Prompt construction, model call with retry, fragment checks
// - render: HTML page template and gauge color bands
// - report: The pipeline that runs every stage in order
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (HTTP, logger, text generator, page writer)
//
// # Usage Example
//
//	import (
//	    "market-radar/core/feed"
//	    "market-radar/core/interfaces"
//	)
//
//	deps := interfaces.Dependencies{
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	feeds := feed.NewFeedService(deps, feed.Options{
//	    Sources:          config.DefaultFeeds(),
//	    EntriesPerSource: 25,
//	})
//
//	report := feeds.Aggregate(ctx)
//	fmt.Print(report.Text())
package core

// ABOUTME: Feed service fetches the configured discussion feeds in order
// ABOUTME: Reduces each feed to bounded entries and isolates per-feed failures

package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"market-radar/core/domain"
	apperrors "market-radar/core/errors"
	"market-radar/core/interfaces"
	"market-radar/pkg/featureflags"
	htmlutil "market-radar/pkg/utils/html"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

const (
	maxFeedBytes            = 10 << 20
	acceptHeader            = "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8"
	defaultEntriesPerSource = 25
)

// Options configures the aggregation
type Options struct {
	// Sources are fetched sequentially in this order
	Sources []domain.FeedSource

	// EntriesPerSource is the number of leading entries kept per feed
	EntriesPerSource int

	// ExcerptRunes bounds each excerpt; 0 disables excerpts
	ExcerptRunes int

	// RatePerSecond spaces requests to the same host; <= 0 disables pacing
	RatePerSecond float64
}

// FeedService aggregates the configured feeds into one report
type FeedService struct {
	deps     interfaces.Dependencies
	opts     Options
	limiters map[string]*rate.Limiter
}

// NewFeedService creates a new feed service instance
func NewFeedService(deps interfaces.Dependencies, opts Options) *FeedService {
	if opts.EntriesPerSource <= 0 {
		opts.EntriesPerSource = defaultEntriesPerSource
	}
	return &FeedService{
		deps:     deps,
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Sources returns the configured feed order
func (s *FeedService) Sources() []domain.FeedSource {
	return s.opts.Sources
}

// Aggregate fetches every source one after another. It never fails: a
// source that cannot be fetched or parsed is recorded with its error and
// contributes no entries.
func (s *FeedService) Aggregate(ctx context.Context) *domain.AggregateReport {
	report := &domain.AggregateReport{
		Results: make([]domain.SourceResult, 0, len(s.opts.Sources)),
	}

	excerpts := s.opts.ExcerptRunes > 0 && featureflags.IsEnabled(ctx, featureflags.FeedExcerpts)

	for _, src := range s.opts.Sources {
		start := time.Now()
		result := s.fetchSource(ctx, src, excerpts)

		if result.Failed() {
			s.log().Warn("Feed failed, skipping", map[string]interface{}{
				"label": src.Label,
				"url":   src.URL,
				"error": result.Err.Error(),
			})
		} else {
			s.log().Info("Fetched feed", map[string]interface{}{
				"label":    src.Label,
				"entries":  len(result.Entries),
				"duration": time.Since(start).String(),
			})
		}

		report.Results = append(report.Results, result)
	}

	s.log().Info("Feed aggregation complete", map[string]interface{}{
		"sources": len(report.Results),
		"failed":  len(report.Failures()),
		"lines":   report.LineCount(),
	})

	return report
}

// fetchSource fetches and parses a single feed. Panics from parsing are
// converted into the source's error so one bad feed cannot end the run.
func (s *FeedService) fetchSource(ctx context.Context, src domain.FeedSource, excerpts bool) (result domain.SourceResult) {
	result = domain.SourceResult{Label: src.Label, URL: src.URL}

	defer func() {
		if r := recover(); r != nil {
			result.Entries = nil
			result.Err = fmt.Errorf("panic while processing feed: %v", r)
		}
	}()

	parsed, err := s.fetchFeed(ctx, src.URL)
	if err != nil {
		result.Err = err
		return result
	}

	result.Entries = s.toEntries(src.Label, parsed.Items, excerpts)
	return result
}

// fetchFeed performs the paced GET and parses the body with gofeed
func (s *FeedService) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	if s.deps.HTTPClient == nil {
		return nil, errors.New("HTTP client not configured")
	}

	if err := s.wait(ctx, feedURL); err != nil {
		return nil, err
	}

	resp, err := s.deps.HTTPClient.Get(ctx, feedURL, map[string]string{"Accept": acceptHeader})
	if err != nil {
		return nil, err
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, &apperrors.ExternalAPIError{
			API:        feedURL,
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New("empty feed content")
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return parsed, nil
}

// toEntries keeps the first EntriesPerSource items; items without a title are dropped
func (s *FeedService) toEntries(label string, items []*gofeed.Item, excerpts bool) []domain.FeedEntry {
	if len(items) > s.opts.EntriesPerSource {
		items = items[:s.opts.EntriesPerSource]
	}

	entries := make([]domain.FeedEntry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		title := strings.Join(strings.Fields(item.Title), " ")
		if title == "" {
			continue
		}

		entry := domain.FeedEntry{Source: label, Title: title}
		if excerpts {
			summary := item.Description
			if summary == "" {
				summary = item.Content
			}
			entry.Excerpt = htmlutil.Excerpt(summary, s.opts.ExcerptRunes)
		}
		entries = append(entries, entry)
	}
	return entries
}

// wait blocks on the limiter for the feed's host
func (s *FeedService) wait(ctx context.Context, feedURL string) error {
	if s.opts.RatePerSecond <= 0 {
		return ctx.Err()
	}

	host := feedURL
	if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
		host = u.Host
	}

	limiter, ok := s.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(s.opts.RatePerSecond), 1)
		s.limiters[host] = limiter
	}
	return limiter.Wait(ctx)
}

func (s *FeedService) log() interfaces.Logger {
	if s.deps.Logger != nil {
		return s.deps.Logger
	}
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

// ABOUTME: Sentiment service fetches the fear & greed index reading
// ABOUTME: Never fails; any upstream problem degrades to the neutral default

package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"market-radar/core/domain"
	apperrors "market-radar/core/errors"
	"market-radar/core/interfaces"
)

const maxBodyBytes = 2 << 20

// Options configures the sentiment endpoint
type Options struct {
	// URL is the index endpoint
	URL string

	// Referer is required by the upstream to avoid rejecting the request
	Referer string

	// Timeout bounds the whole fetch, including reading the body
	Timeout time.Duration
}

// Service fetches the current sentiment reading
type Service struct {
	deps interfaces.Dependencies
	opts Options
}

// NewService creates a new sentiment service instance
func NewService(deps interfaces.Dependencies, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Service{deps: deps, opts: opts}
}

// indexPayload mirrors the part of the upstream body we read
type indexPayload struct {
	FearAndGreed *struct {
		Score  *float64 `json:"score"`
		Rating *string  `json:"rating"`
	} `json:"fear_and_greed"`
}

// Fetch returns the current reading, or domain.NeutralReading() on any failure
func (s *Service) Fetch(ctx context.Context) domain.SentimentReading {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	reading, err := s.fetch(ctx)
	if err != nil {
		s.warn("Sentiment index unavailable, using neutral default", map[string]interface{}{
			"url":   s.opts.URL,
			"error": err.Error(),
		})
		return domain.NeutralReading()
	}

	s.info("Fetched sentiment index", map[string]interface{}{
		"score":  reading.Score,
		"rating": string(reading.Rating),
	})
	return reading
}

func (s *Service) fetch(ctx context.Context) (domain.SentimentReading, error) {
	if s.deps.HTTPClient == nil {
		return domain.SentimentReading{}, errors.New("HTTP client not configured")
	}

	headers := map[string]string{"Accept": "application/json"}
	if s.opts.Referer != "" {
		headers["Referer"] = s.opts.Referer
	}

	resp, err := s.deps.HTTPClient.Get(ctx, s.opts.URL, headers)
	if err != nil {
		return domain.SentimentReading{}, err
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		return domain.SentimentReading{}, &apperrors.ExternalAPIError{
			API:        "sentiment",
			StatusCode: resp.StatusCode(),
			Message:    http.StatusText(resp.StatusCode()),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxBodyBytes))
	if err != nil {
		return domain.SentimentReading{}, fmt.Errorf("read body: %w", err)
	}

	return parseReading(body)
}

// parseReading decodes the index body into a validated reading
func parseReading(body []byte) (domain.SentimentReading, error) {
	var payload indexPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.SentimentReading{}, fmt.Errorf("decode body: %w", err)
	}

	fg := payload.FearAndGreed
	if fg == nil || fg.Score == nil || fg.Rating == nil {
		return domain.SentimentReading{}, errors.New("missing fear_and_greed score or rating")
	}

	if math.IsNaN(*fg.Score) || math.IsInf(*fg.Score, 0) {
		return domain.SentimentReading{}, errors.New("score is not finite")
	}

	rating, ok := domain.ParseRating(*fg.Rating)
	if !ok {
		return domain.SentimentReading{}, fmt.Errorf("unknown rating %q", *fg.Rating)
	}

	return domain.NewSentimentReading(int(math.Round(*fg.Score)), rating), nil
}

func (s *Service) info(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Info(msg, fields)
	}
}

func (s *Service) warn(msg string, fields map[string]interface{}) {
	if s.deps.Logger != nil {
		s.deps.Logger.Warn(msg, fields)
	}
}

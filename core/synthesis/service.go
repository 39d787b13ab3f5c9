// ABOUTME: Synthesis service turns the aggregate feed text into the report fragment
// ABOUTME: One prompt per attempt with a per-attempt timeout and a bounded retry

package synthesis

import (
	"context"
	"errors"
	"time"

	"market-radar/core/domain"
	apperrors "market-radar/core/errors"
	"market-radar/core/interfaces"
	"market-radar/pkg/featureflags"
)

const (
	defaultTimeout = 120 * time.Second
	defaultBackoff = 2 * time.Second
)

// Options configures the synthesis call
type Options struct {
	// Timeout bounds each attempt
	Timeout time.Duration

	// Retries is the number of extra attempts after the first one fails
	Retries int

	// Backoff is the wait before the first retry; it doubles after that
	Backoff time.Duration

	// Location is the zone used for the prompt date
	Location *time.Location

	// Now is the clock; defaults to time.Now
	Now func() time.Time
}

// Service sends the prompt to a text generator and post-processes the reply
type Service struct {
	generator interfaces.TextGenerator
	deps      interfaces.Dependencies
	opts      Options
}

// NewService creates a synthesis service around a configured generator
func NewService(generator interfaces.TextGenerator, deps interfaces.Dependencies, opts Options) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Backoff < 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		generator: generator,
		deps:      deps,
		opts:      opts,
	}
}

// Prompt builds the instruction document for today's date
func (s *Service) Prompt(text string, reading domain.SentimentReading) (string, error) {
	return BuildPrompt(s.opts.Now().In(s.opts.Location), reading, text)
}

// Synthesize produces the report fragment. Exhausted attempts return a
// *errors.SynthesisError. Structural problems return a *errors.FragmentError
// when strict fragments are enabled and are only logged otherwise.
func (s *Service) Synthesize(ctx context.Context, text string, reading domain.SentimentReading) (domain.ReportFragment, error) {
	if s.generator == nil {
		return "", &apperrors.SynthesisError{Provider: "none", Err: errors.New("text generator not configured")}
	}

	prompt, err := s.Prompt(text, reading)
	if err != nil {
		return "", apperrors.WrapError(err, "build prompt")
	}

	s.log().Info("Requesting synthesis", map[string]interface{}{
		"provider":     s.generator.Name(),
		"prompt_bytes": len(prompt),
	})

	fragment, err := s.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := ValidateFragment(fragment); err != nil {
		if featureflags.IsEnabled(ctx, featureflags.StrictFragment) {
			return "", err
		}
		s.log().Warn("Fragment failed validation, keeping it", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return domain.ReportFragment(fragment), nil
}

// generate runs the attempt loop and returns the fence-stripped reply
func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	maxAttempts := s.opts.Retries + 1
	backoff := s.opts.Backoff

	var lastErr error
	attempts := 0

	for attempts < maxAttempts {
		if attempts > 0 {
			s.log().Warn("Synthesis attempt failed, retrying", map[string]interface{}{
				"attempt": attempts,
				"backoff": backoff.String(),
				"error":   lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return "", s.failure(attempts, ctx.Err())
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		attempts++
		start := time.Now()

		out, err := s.attempt(ctx, prompt)
		if err == nil {
			fragment := StripCodeFences(out)
			if fragment != "" {
				s.log().Info("Synthesis complete", map[string]interface{}{
					"attempt":        attempts,
					"fragment_bytes": len(fragment),
					"duration":       time.Since(start).String(),
				})
				return fragment, nil
			}
			err = errors.New("empty response")
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}

	return "", s.failure(attempts, lastErr)
}

func (s *Service) attempt(ctx context.Context, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()
	return s.generator.Generate(attemptCtx, prompt)
}

func (s *Service) failure(attempts int, err error) error {
	return &apperrors.SynthesisError{
		Provider: s.generator.Name(),
		Attempts: attempts,
		Err:      err,
	}
}

func (s *Service) log() interfaces.Logger {
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

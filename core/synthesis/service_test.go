package synthesis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"market-radar/core/domain"
	apperrors "market-radar/core/errors"
	"market-radar/core/interfaces"
	"market-radar/pkg/featureflags"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 19, 1, 0, 0, 0, time.UTC) }

func newTestService(gen interfaces.TextGenerator, logger interfaces.Logger, retries int) *Service {
	shanghai, _ := time.LoadLocation("Asia/Shanghai")
	return NewService(gen, interfaces.Dependencies{Logger: logger}, Options{
		Timeout:  time.Second,
		Retries:  retries,
		Backoff:  time.Millisecond,
		Location: shanghai,
		Now:      fixedNow,
	})
}

func lenient() context.Context {
	return featureflags.WithManager(context.Background(), featureflags.NewStaticManager(map[featureflags.FeatureFlag]bool{
		featureflags.StrictFragment: false,
	}))
}

func TestSynthesize_StripsFences(t *testing.T) {
	gen := replyWith("```html\n" + validFragment + "\n```")
	svc := newTestService(gen, nil, 1)

	got, err := svc.Synthesize(context.Background(), "[WSB] NVDA\n", domain.NeutralReading())

	require.NoError(t, err)
	assert.Equal(t, domain.ReportFragment(validFragment), got)
	assert.NotContains(t, string(got), "```")
	assert.Equal(t, 1, gen.calls)
}

func TestSynthesize_PromptUsesReportZone(t *testing.T) {
	gen := replyWith(validFragment)
	svc := newTestService(gen, nil, 0)

	_, err := svc.Synthesize(context.Background(), "[WSB] NVDA\n", domain.NeutralReading())
	require.NoError(t, err)

	require.Len(t, gen.prompts, 1)
	// 01:00 UTC is already 09:00 in Shanghai, same day
	assert.Contains(t, gen.prompts[0], "2026-10-19")
	assert.True(t, strings.HasSuffix(gen.prompts[0], "[WSB] NVDA\n"))
}

func TestSynthesize_EmptyAggregateStillCallsGenerator(t *testing.T) {
	gen := replyWith(validFragment)
	svc := newTestService(gen, nil, 0)

	got, err := svc.Synthesize(context.Background(), "", domain.NeutralReading())

	require.NoError(t, err)
	assert.NotEmpty(t, got)
	assert.Equal(t, 1, gen.calls)
}

func TestSynthesize_RetriesOnce(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
			if call == 1 {
				return "", errors.New("503 model overloaded")
			}
			return validFragment, nil
		},
	}
	logger := &recordingLogger{}
	svc := newTestService(gen, logger, 1)

	got, err := svc.Synthesize(context.Background(), "x", domain.NeutralReading())

	require.NoError(t, err)
	assert.Equal(t, domain.ReportFragment(validFragment), got)
	assert.Equal(t, 2, gen.calls)
	assert.Len(t, logger.warnings, 1)
}

func TestSynthesize_ExhaustionIsSynthesisError(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
			return "", errors.New("quota exceeded")
		},
	}
	svc := newTestService(gen, nil, 1)

	_, err := svc.Synthesize(context.Background(), "x", domain.NeutralReading())

	var se *apperrors.SynthesisError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "mock", se.Provider)
	assert.Equal(t, 2, se.Attempts)
	assert.Contains(t, se.Error(), "quota exceeded")
	assert.Equal(t, 2, gen.calls)
}

func TestSynthesize_EmptyReplyCountsAsFailure(t *testing.T) {
	gen := replyWith("```html\n```")
	svc := newTestService(gen, nil, 1)

	_, err := svc.Synthesize(context.Background(), "x", domain.NeutralReading())

	assert.True(t, apperrors.IsSynthesis(err))
	assert.Contains(t, err.Error(), "empty response")
	assert.Equal(t, 2, gen.calls)
}

func TestSynthesize_PerAttemptTimeout(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
	svc := NewService(gen, interfaces.Dependencies{}, Options{
		Timeout: 20 * time.Millisecond,
		Retries: 1,
		Backoff: time.Millisecond,
	})

	start := time.Now()
	_, err := svc.Synthesize(context.Background(), "x", domain.NeutralReading())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, gen.calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSynthesize_CancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &mockGenerator{
		generateFunc: func(ctx context.Context, call int, prompt string) (string, error) {
			cancel()
			return "", ctx.Err()
		},
	}
	svc := newTestService(gen, nil, 3)

	_, err := svc.Synthesize(ctx, "x", domain.NeutralReading())

	assert.True(t, apperrors.IsSynthesis(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, gen.calls)
}

func TestSynthesize_NilGenerator(t *testing.T) {
	svc := NewService(nil, interfaces.Dependencies{}, Options{})

	_, err := svc.Synthesize(context.Background(), "x", domain.NeutralReading())

	assert.True(t, apperrors.IsSynthesis(err))
}

func TestSynthesize_FragmentStrictness(t *testing.T) {
	bad := `<p>**NVDA** calls</p>`

	t.Run("strict by default", func(t *testing.T) {
		svc := newTestService(replyWith(bad), nil, 0)

		got, err := svc.Synthesize(context.Background(), "x", domain.NeutralReading())

		assert.True(t, apperrors.IsFragment(err))
		assert.Empty(t, got)
	})

	t.Run("lenient keeps fragment", func(t *testing.T) {
		logger := &recordingLogger{}
		svc := newTestService(replyWith(bad), logger, 0)

		got, err := svc.Synthesize(lenient(), "x", domain.NeutralReading())

		require.NoError(t, err)
		assert.Equal(t, domain.ReportFragment(bad), got)
		assert.Len(t, logger.warnings, 1)
	})

	t.Run("violations are not retried", func(t *testing.T) {
		gen := replyWith(bad)
		svc := newTestService(gen, nil, 2)

		_, err := svc.Synthesize(context.Background(), "x", domain.NeutralReading())

		assert.Error(t, err)
		assert.Equal(t, 1, gen.calls)
	})
}

// ABOUTME: Report pipeline runs one sentiment, feeds, synthesis, render and write pass
// ABOUTME: Sentiment and feed failures degrade the report; later stages abort the run

package report

import (
	"context"
	"errors"
	"time"

	"market-radar/core/domain"
	apperrors "market-radar/core/errors"
	"market-radar/core/interfaces"
)

// Stages are the collaborators a run is assembled from
type Stages struct {
	Sentiment   interfaces.SentimentFetcher
	Feeds       interfaces.FeedAggregator
	Synthesizer interfaces.Synthesizer
	Renderer    interfaces.PageRenderer
	Writer      interfaces.PageWriter
}

// Pipeline executes the stages strictly in sequence
type Pipeline struct {
	stages     Stages
	outputPath string
	logger     interfaces.Logger
}

// NewPipeline creates a pipeline writing to outputPath
func NewPipeline(stages Stages, outputPath string, logger interfaces.Logger) *Pipeline {
	return &Pipeline{
		stages:     stages,
		outputPath: outputPath,
		logger:     logger,
	}
}

// Run performs one complete pass. The page is written last, so any error
// leaves the previously published page untouched.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunSummary, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	summary := &domain.RunSummary{OutputPath: p.outputPath}

	p.info("Fetching sentiment index", nil)
	reading := p.stages.Sentiment.Fetch(ctx)
	summary.Sentiment = reading
	p.info("Sentiment reading", map[string]interface{}{
		"score":  reading.Score,
		"rating": string(reading.Rating),
	})

	p.info("Aggregating feeds", nil)
	aggregate := p.stages.Feeds.Aggregate(ctx)
	summary.Sources = len(aggregate.Results)
	summary.FailedSources = len(aggregate.Failures())
	summary.Lines = aggregate.LineCount()
	if summary.Lines == 0 {
		p.warn("Aggregate text is empty, synthesizing anyway", map[string]interface{}{
			"sources": summary.Sources,
			"failed":  summary.FailedSources,
		})
	}

	fragment, err := p.stages.Synthesizer.Synthesize(ctx, aggregate.Text(), reading)
	if err != nil {
		return summary, apperrors.WrapError(err, "synthesize report")
	}
	summary.FragmentBytes = len(fragment)

	page, err := p.stages.Renderer.Render(fragment, reading)
	if err != nil {
		return summary, apperrors.WrapError(err, "render page")
	}
	summary.PageBytes = len(page)

	// a cancelled run must not publish
	if err := ctx.Err(); err != nil {
		return summary, apperrors.WrapError(err, "run cancelled before write")
	}

	if err := p.stages.Writer.Write(p.outputPath, page); err != nil {
		return summary, apperrors.WrapError(err, "write page")
	}

	summary.Duration = time.Since(start)
	p.info("Report written", map[string]interface{}{
		"path":     p.outputPath,
		"bytes":    summary.PageBytes,
		"lines":    summary.Lines,
		"failed":   summary.FailedSources,
		"duration": summary.Duration.String(),
	})

	return summary, nil
}

func (p *Pipeline) validate() error {
	switch {
	case p.stages.Sentiment == nil:
		return errors.New("sentiment stage not configured")
	case p.stages.Feeds == nil:
		return errors.New("feed stage not configured")
	case p.stages.Synthesizer == nil:
		return errors.New("synthesis stage not configured")
	case p.stages.Renderer == nil:
		return errors.New("render stage not configured")
	case p.stages.Writer == nil:
		return errors.New("page writer not configured")
	case p.outputPath == "":
		return errors.New("output path not configured")
	}
	return nil
}

func (p *Pipeline) info(msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.Info(msg, fields)
	}
}

func (p *Pipeline) warn(msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.Warn(msg, fields)
	}
}

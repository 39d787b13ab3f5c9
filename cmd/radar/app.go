// ABOUTME: Command definitions and component wiring for the radar CLI
// ABOUTME: Flags override configuration loaded from the environment and .env

package main

import (
	"fmt"
	"strings"
	"time"

	"market-radar/core/feed"
	"market-radar/core/interfaces"
	"market-radar/core/render"
	"market-radar/core/report"
	"market-radar/core/sentiment"
	"market-radar/core/synthesis"
	stdhttp "market-radar/infrastructure/http/standard"
	"market-radar/infrastructure/llm"
	"market-radar/infrastructure/logger/structured"
	"market-radar/infrastructure/storage/file"
	"market-radar/pkg/config"
	"market-radar/pkg/featureflags"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	feedFlags := []cli.Flag{
		&cli.IntFlag{Name: "entries", Aliases: []string{"n"}, Usage: "entries taken from the top of each feed (overrides FEED_ENTRIES_PER_SOURCE)"},
		&cli.BoolFlag{Name: "no-excerpts", Usage: "send titles only, without summary excerpts"},
	}

	runFlags := append([]cli.Flag{
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "page to overwrite (overrides OUTPUT_PATH)"},
		&cli.StringFlag{Name: "provider", Usage: "gemini, openai or anthropic (overrides SYNTHESIS_PROVIDER)"},
		&cli.StringFlag{Name: "model", Usage: "model name (overrides SYNTHESIS_MODEL)"},
		&cli.BoolFlag{Name: "lenient", Usage: "keep a fragment that fails structural validation"},
	}, feedFlags...)

	return &cli.App{
		Name:  "radar",
		Usage: "build the market sentiment radar page from Reddit feeds and the fear & greed index",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before the environment is read"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides LOG_LEVEL)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "discard progress logs"},
		}, runFlags...),
		Action: runAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "fetch, synthesize and write the report page",
				Flags:  runFlags,
				Action: runAction,
			},
			{
				Name:   "prompt",
				Usage:  "print the prompt that would be sent, without calling the model",
				Flags:  feedFlags,
				Action: promptAction,
			},
			{
				Name:   "feeds",
				Usage:  "list the configured feeds in aggregation order",
				Action: feedsAction,
			},
		},
	}
}

// env is everything a command needs after configuration is resolved
type env struct {
	cfg    *config.Config
	logger interfaces.Logger
	flags  featureflags.Manager
	loc    *time.Location
}

// setup loads .env and the environment, applies flag overrides and validates
func setup(c *cli.Context) (*env, error) {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return nil, err
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	applyFlags(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Output.Timezone)
	if err != nil {
		return nil, err
	}

	flags := featureflags.NewEnvManager("FEATURE_")
	if c.Bool("no-excerpts") {
		flags.SetEnabled(featureflags.FeedExcerpts, false)
	}
	if c.Bool("lenient") {
		flags.SetEnabled(featureflags.StrictFragment, false)
	}

	var logger interfaces.Logger = structured.NewLoggerWithOutput(c.App.ErrWriter, cfg.Log.Level, cfg.Log.Format)
	if c.Bool("quiet") {
		logger = structured.Nop{}
	}

	return &env{
		cfg:    cfg,
		logger: logger,
		flags:  flags,
		loc:    loc,
	}, nil
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("output") {
		cfg.Output.Path = c.String("output")
	}
	if c.IsSet("entries") {
		cfg.Feeds.EntriesPerSource = c.Int("entries")
	}
	if c.IsSet("provider") {
		cfg.Synthesis.Provider = strings.ToLower(c.String("provider"))
	}
	if c.IsSet("model") {
		cfg.Synthesis.Model = c.String("model")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
}

func (e *env) sentimentService() *sentiment.Service {
	client := stdhttp.NewStandardHTTPClient(e.cfg.Sentiment.Timeout, stdhttp.WithRetries(0))
	return sentiment.NewService(interfaces.Dependencies{HTTPClient: client, Logger: e.logger}, sentiment.Options{
		URL:     e.cfg.Sentiment.URL,
		Referer: e.cfg.Sentiment.Referer,
		Timeout: e.cfg.Sentiment.Timeout,
	})
}

func (e *env) feedService() *feed.FeedService {
	client := stdhttp.NewStandardHTTPClient(e.cfg.Feeds.Timeout, stdhttp.WithRetries(e.cfg.Feeds.Retries))
	return feed.NewFeedService(interfaces.Dependencies{HTTPClient: client, Logger: e.logger}, feed.Options{
		Sources:          e.cfg.Feeds.Sources,
		EntriesPerSource: e.cfg.Feeds.EntriesPerSource,
		ExcerptRunes:     e.cfg.Feeds.ExcerptRunes,
		RatePerSecond:    e.cfg.Feeds.RatePerSecond,
	})
}

func (e *env) synthesisService(generator interfaces.TextGenerator) *synthesis.Service {
	return synthesis.NewService(generator, interfaces.Dependencies{Logger: e.logger}, synthesis.Options{
		Timeout:  e.cfg.Synthesis.Timeout,
		Retries:  e.cfg.Synthesis.Retries,
		Backoff:  e.cfg.Synthesis.Backoff,
		Location: e.loc,
	})
}

func runAction(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	if err := e.cfg.ValidateSynthesis(); err != nil {
		return err
	}

	generator, err := llm.New(llm.Settings{
		Provider: e.cfg.Synthesis.Provider,
		Model:    e.cfg.Synthesis.Model,
		APIKey:   e.cfg.Synthesis.APIKey(),
	})
	if err != nil {
		return err
	}

	renderer, err := render.NewRenderer(render.Options{Location: e.loc})
	if err != nil {
		return err
	}

	e.logger.Info("Starting report run", map[string]interface{}{
		"output":   e.cfg.Output.Path,
		"provider": generator.Name(),
		"feeds":    len(e.cfg.Feeds.Sources),
		"entries":  e.cfg.Feeds.EntriesPerSource,
		"flags":    e.flags.GetAllFlags(),
	})

	pipeline := report.NewPipeline(report.Stages{
		Sentiment:   e.sentimentService(),
		Feeds:       e.feedService(),
		Synthesizer: e.synthesisService(generator),
		Renderer:    renderer,
		Writer:      file.NewWriter(),
	}, e.cfg.Output.Path, e.logger)

	ctx := featureflags.WithManager(c.Context, e.flags)
	summary, err := pipeline.Run(ctx)
	if err != nil {
		e.logger.Error("Report run failed", map[string]interface{}{"error": err.Error()})
		return err
	}

	fmt.Fprintf(c.App.Writer, "wrote %s (%d bytes, sentiment %d %s, %d lines from %d/%d feeds) in %s\n",
		summary.OutputPath, summary.PageBytes,
		summary.Sentiment.Score, summary.Sentiment.Rating.Label(),
		summary.Lines, summary.Sources-summary.FailedSources, summary.Sources,
		summary.Duration.Round(time.Millisecond))
	return nil
}

func promptAction(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	ctx := featureflags.WithManager(c.Context, e.flags)
	reading := e.sentimentService().Fetch(ctx)
	aggregate := e.feedService().Aggregate(ctx)

	prompt, err := e.synthesisService(nil).Prompt(aggregate.Text(), reading)
	if err != nil {
		return err
	}

	fmt.Fprint(c.App.Writer, prompt)
	return nil
}

func feedsAction(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	for i, src := range e.cfg.Feeds.Sources {
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", i+1, src.Label, src.URL)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/api/openai"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/logging"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/metrics"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/pipeline"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/pkg/config"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/policy"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/storage"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/telemetry"
)

// app holds everything one invocation needs. Close flushes metrics and
// releases the journal and tracer.
type app struct {
	cfg         *config.Config
	logger      *slog.Logger
	metrics     *metrics.Metrics
	store       ports.RunStore
	executor    *pipeline.Executor
	metricsFile string
	shutdown    func(context.Context) error
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.New(level, cfg.Log.Format, cmd.ErrOrStderr()), nil
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics.New(),
		metricsFile: cfg.Metrics.Textfile,
	}
	if f, _ := cmd.Flags().GetString("metrics-file"); f != "" {
		a.metricsFile = f
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(cfg.Telemetry.ServiceName, logger, cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tracer: %w", err)
		}
		a.shutdown = shutdown
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		a.release(cmd.Context())
		return nil, err
	}
	a.store = store

	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.LLM.Timeout,
	}
	client := openai.NewClient(cfg.LLM.APIKey,
		openai.WithBaseURL(cfg.LLM.BaseURL),
		openai.WithHTTPClient(httpClient),
	)
	reviewer := policy.NewReviewer(client, policy.ReviewerConfig{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.Timeout,
	})

	opts := []pipeline.Option{
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(a.metrics),
	}
	if store != nil {
		opts = append(opts, pipeline.WithStore(store))
	}

	a.executor, err = pipeline.NewExecutorFromConfig(cfg, reviewer, opts...)
	if err != nil {
		a.release(cmd.Context())
		return nil, err
	}

	logger.Debug("pipeline ready",
		slog.String("model", reviewer.Model()),
		slog.String("base_url", client.BaseURL()),
		slog.String("storage", cfg.Storage.Type),
		slog.Any("stages", a.executor.StageNames()))

	return a, nil
}

// Close writes the metrics textfile and releases resources. Failures are
// logged; the run result stands.
func (a *app) Close(ctx context.Context) {
	if a.metricsFile != "" {
		if err := a.metrics.WriteTextfile(a.metricsFile); err != nil {
			a.logger.Error("failed to write metrics", slog.String("error", err.Error()))
		}
	}
	a.release(ctx)
}

// release closes the journal and tracer without touching the metrics
// textfile, so a failed startup leaves the previous scrape in place.
func (a *app) release(ctx context.Context) {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("failed to close journal", slog.String("error", err.Error()))
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(ctx); err != nil {
			a.logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}
}

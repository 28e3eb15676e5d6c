package pipeline

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/domain"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/core/ports"
	"github.com/tjfontaine/support-inquiry-pipeline/internal/metrics"
)

// Stage names, in execution order.
const (
	StageIntake     = "intake"
	StageEvaluation = "evaluation"
	StageScheduling = "scheduling"
	StageCRMUpdate  = "crm_update"
)

const tracerName = "github.com/tjfontaine/support-inquiry-pipeline/internal/pipeline"

// Clock returns the current wall-clock time.
type Clock func() time.Time

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithMetrics records run and stage metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) {
		e.metrics = m
	}
}

// WithStore journals every completed run. Journal failures are logged only.
func WithStore(store ports.RunStore) Option {
	return func(e *Executor) {
		e.store = store
	}
}

// WithClock overrides the wall clock.
func WithClock(now Clock) Option {
	return func(e *Executor) {
		e.now = now
	}
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Executor) {
		e.tracer = tp.Tracer(tracerName)
	}
}

// Executor applies an ordered list of stages to one inquiry at a time.
// Each Run owns its record, so concurrent runs share no state.
type Executor struct {
	stages  []ports.Stage
	logger  *slog.Logger
	metrics *metrics.Metrics
	store   ports.RunStore
	tracer  trace.Tracer
	now     Clock
}

// NewExecutor creates an executor that runs stages left to right.
func NewExecutor(stages []ports.Stage, opts ...Option) *Executor {
	e := newExecutor(opts...)
	e.stages = stages
	return e
}

func newExecutor(opts ...Option) *Executor {
	e := &Executor{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StageNames returns the stage names in execution order.
func (e *Executor) StageNames() []string {
	names := make([]string, len(e.stages))
	for i, s := range e.stages {
		names[i] = s.Name()
	}
	return names
}

// Run creates a fresh inquiry, executes every stage and returns the final record.
func (e *Executor) Run(ctx context.Context, name, email, details string) *domain.Inquiry {
	inq := domain.NewInquiry(name, email, details)
	inq.ID = uuid.NewString()
	inq.CreatedAt = e.now()

	ctx, span := e.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("inquiry.id", inq.ID),
	))
	defer span.End()

	e.Execute(ctx, inq)
	inq.CompletedAt = e.now()

	span.SetAttributes(
		attribute.Bool("inquiry.approved", inq.IsApproved),
		attribute.Int("inquiry.activity_entries", len(inq.ActivityLog)),
	)

	e.metrics.ObserveInquiry(inq.IsApproved)
	e.record(ctx, inq)

	e.logger.InfoContext(ctx, "inquiry processed",
		slog.String("inquiry_id", inq.ID),
		slog.String("status", inq.Status()),
		slog.Duration("duration", inq.CompletedAt.Sub(inq.CreatedAt)))

	return inq
}

// Execute applies every stage to inq in order and returns it.
func (e *Executor) Execute(ctx context.Context, inq *domain.Inquiry) *domain.Inquiry {
	for _, stage := range e.stages {
		stageCtx, span := e.tracer.Start(ctx, "pipeline."+stage.Name())

		start := time.Now()
		stage.Process(stageCtx, inq)
		e.metrics.ObserveStage(stage.Name(), time.Since(start))

		span.End()
	}
	return inq
}

func (e *Executor) record(ctx context.Context, inq *domain.Inquiry) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveRun(ctx, inq); err != nil {
		e.logger.ErrorContext(ctx, "failed to journal run",
			slog.String("inquiry_id", inq.ID),
			slog.String("error", err.Error()))
	}
}

// Ensure Executor implements the interface.
var _ ports.PipelineRunner = (*Executor)(nil)

package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/sort-bench/pkg/model"
)

const instrumentationName = "github.com/sort-bench"

// Attribute keys shared by benchmark spans.
const (
	AttrRunID    = attribute.Key("sortbench.run_id")
	AttrStrategy = attribute.Key("sortbench.strategy")
	AttrSize     = attribute.Key("sortbench.size")
	AttrWorkers  = attribute.Key("sortbench.workers")
	AttrRounds   = attribute.Key("sortbench.rounds")
	AttrRepeat   = attribute.Key("sortbench.repeat")
)

// Tracer returns the tracer used for benchmark spans.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartRun opens the root span of a benchmark run.
func StartRun(ctx context.Context, runID string, size, workers int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "sortbench.run", trace.WithAttributes(
		AttrRunID.String(runID),
		AttrSize.Int(size),
		AttrWorkers.Int(workers),
	))
}

// StartSort opens a span around one sort call.
func StartSort(ctx context.Context, strategy model.StrategyType, repeat int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "sortbench.sort", trace.WithAttributes(
		AttrStrategy.String(strategy.String()),
		AttrRepeat.Int(repeat),
	))
}

// EndSort records the outcome of a sort call and ends its span.
func EndSort(span trace.Span, stats model.RunStats, err error) {
	span.SetAttributes(
		AttrSize.Int(stats.Size),
		AttrWorkers.Int(stats.Workers),
		AttrRounds.Int(stats.Rounds),
		attribute.Int("sortbench.padded", stats.Padded),
		attribute.Bool("sortbench.fallback", stats.Fallback),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

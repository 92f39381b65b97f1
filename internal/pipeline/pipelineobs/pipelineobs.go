package pipelineobs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"market-advisor/internal/interfaces"
	"market-advisor/internal/logger"
	"market-advisor/internal/trace"
	"market-advisor/internal/types"
)

// observablePipeline wraps a Pipeline with observability (logging & tracing)
type observablePipeline struct {
	pipeline interfaces.Pipeline
}

var _ interfaces.Pipeline = (*observablePipeline)(nil)

// Wrap wraps a pipeline with observability middleware
func Wrap(p interfaces.Pipeline) interfaces.Pipeline {
	return &observablePipeline{pipeline: p}
}

func (o *observablePipeline) Run(ctx context.Context, symbol string) (*types.RunResult, error) {
	ctx, span := trace.StartSpan(ctx, "pipeline.Run")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	logger.InfoSkip(ctx, 1, "Starting advisory run", "symbol", symbol)

	res, err := o.pipeline.Run(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Advisory run aborted", err, "symbol", symbol)
		return res, err
	}

	span.SetAttributes(
		attribute.String("state", string(res.State)),
		attribute.String("outcome", string(res.Outcome)),
	)
	logger.InfoSkip(ctx, 1, "Advisory run finished",
		"symbol", res.Symbol,
		"state", string(res.State),
		"outcome", string(res.Outcome),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

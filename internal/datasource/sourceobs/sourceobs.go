package sourceobs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/trace"
	"equity-advisor/internal/types"
)

// observablePrices wraps a PriceSource with observability (logging & tracing)
type observablePrices struct {
	source interfaces.PriceSource
}

var _ interfaces.PriceSource = (*observablePrices)(nil)

// WrapPrices wraps a price source with observability middleware
func WrapPrices(source interfaces.PriceSource) interfaces.PriceSource {
	return &observablePrices{source: source}
}

func (o *observablePrices) Name() string { return o.source.Name() }

func (o *observablePrices) FetchPrices(ctx context.Context, symbol string) ([]types.Bar, error) {
	ctx, span := trace.StartSpan(ctx, "datasource.FetchPrices", attrs(o.source.Name(), symbol))
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching prices", "provider", o.source.Name(), "symbol", symbol)

	bars, err := o.source.FetchPrices(ctx, symbol)
	if err != nil {
		// The chain decides how loud a provider failure is.
		logger.DebugSkip(ctx, 1, "Price fetch failed", "provider", o.source.Name(), "symbol", symbol, "error", err)
		span.RecordError(err)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Prices fetched", "provider", o.source.Name(), "symbol", symbol, "bars", len(bars))
	return bars, nil
}

// observableFundamentals wraps a FundamentalsSource with observability
type observableFundamentals struct {
	source interfaces.FundamentalsSource
}

var _ interfaces.FundamentalsSource = (*observableFundamentals)(nil)

// WrapFundamentals wraps a fundamentals source with observability middleware
func WrapFundamentals(source interfaces.FundamentalsSource) interfaces.FundamentalsSource {
	return &observableFundamentals{source: source}
}

func (o *observableFundamentals) Name() string { return o.source.Name() }

func (o *observableFundamentals) FetchFundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	ctx, span := trace.StartSpan(ctx, "datasource.FetchFundamentals", attrs(o.source.Name(), symbol))
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching fundamentals", "provider", o.source.Name(), "symbol", symbol)

	f, err := o.source.FetchFundamentals(ctx, symbol)
	if err != nil {
		logger.DebugSkip(ctx, 1, "Fundamentals fetch failed", "provider", o.source.Name(), "symbol", symbol, "error", err)
		span.RecordError(err)
		return f, err
	}

	logger.DebugSkip(ctx, 1, "Fundamentals fetched", "provider", o.source.Name(), "symbol", symbol, "metrics", len(f.Metrics))
	return f, nil
}

func attrs(provider, symbol string) oteltrace.SpanStartOption {
	return oteltrace.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("symbol", symbol),
	)
}

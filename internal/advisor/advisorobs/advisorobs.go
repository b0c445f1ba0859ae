package advisorobs

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/trace"
	"equity-advisor/internal/types"
)

type observableAdvisor struct {
	advisor interfaces.Advisor
}

var _ interfaces.Advisor = (*observableAdvisor)(nil)

// Wrap gives every request a span and a request_id that all log lines below
// it carry.
func Wrap(advisor interfaces.Advisor) interfaces.Advisor {
	return &observableAdvisor{advisor: advisor}
}

func begin(ctx context.Context, op, arg string) (context.Context, oteltrace.Span, time.Time) {
	id := uuid.NewString()
	ctx = logger.WithRequestID(ctx, id)
	ctx, span := trace.StartSpan(ctx, op, oteltrace.WithAttributes(
		attribute.String("request_id", id),
		attribute.String("arg", arg),
	))
	return ctx, span, time.Now()
}

func (o *observableAdvisor) Report(ctx context.Context, ticker string) (*types.StockReport, error) {
	ctx, span, start := begin(ctx, "advisor.Report", ticker)
	defer span.End()

	logger.InfoSkip(ctx, 1, "Building stock report", "ticker", ticker)

	report, err := o.advisor.Report(ctx, ticker)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Stock report failed", err,
			"ticker", ticker,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return report, err
	}

	logger.InfoSkip(ctx, 1, "Stock report built",
		"ticker", ticker,
		"price_source", report.PriceSource,
		"bars", len(report.Prices),
		"score", report.Analysis.TotalScore,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

func (o *observableAdvisor) Predict(ctx context.Context, ticker string) (*types.Prediction, error) {
	ctx, span, start := begin(ctx, "advisor.Predict", ticker)
	defer span.End()

	logger.InfoSkip(ctx, 1, "Predicting", "ticker", ticker)

	pred, err := o.advisor.Predict(ctx, ticker)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Prediction failed", err,
			"ticker", ticker,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return pred, err
	}

	logger.InfoSkip(ctx, 1, "Prediction completed",
		"ticker", ticker,
		"basic", pred.Basic.Recommendation,
		"ai", pred.AI.Recommendation,
		"confidence", pred.AI.Confidence,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return pred, nil
}

func (o *observableAdvisor) Search(ctx context.Context, query string) ([]types.SymbolMatch, error) {
	ctx, span, start := begin(ctx, "advisor.Search", query)
	defer span.End()

	matches, err := o.advisor.Search(ctx, query)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Symbol search failed", err, "query", query)
		return matches, err
	}

	logger.DebugSkip(ctx, 1, "Symbol search completed",
		"query", query,
		"matches", len(matches),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return matches, nil
}

func (o *observableAdvisor) News(ctx context.Context, ticker string) (*types.NewsReport, error) {
	ctx, span, start := begin(ctx, "advisor.News", ticker)
	defer span.End()

	report, err := o.advisor.News(ctx, ticker)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "News lookup failed", err, "ticker", ticker)
		return report, err
	}

	logger.InfoSkip(ctx, 1, "News fetched",
		"ticker", ticker,
		"company", report.CompanyName,
		"articles", len(report.Articles),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return report, nil
}

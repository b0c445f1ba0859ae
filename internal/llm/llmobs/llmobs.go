package llmobs

import (
	"context"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/trace"
	"equity-advisor/internal/types"
)

// observableJudge wraps a Judge with observability (logging & tracing)
type observableJudge struct {
	judge interfaces.Judge
}

// Compile-time interface check
var _ interfaces.Judge = (*observableJudge)(nil)

// Wrap wraps a judge with observability middleware
func Wrap(judge interfaces.Judge) interfaces.Judge {
	return &observableJudge{
		judge: judge,
	}
}

// Judge requests a verdict with observability
func (oj *observableJudge) Judge(ctx context.Context, payload types.JudgmentPayload) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "llm.Judge")
	defer span.End()

	// Use DebugSkip(1) to report the actual caller, not this middleware wrapper
	logger.DebugSkip(ctx, 1, "Requesting verdict",
		"symbol", payload.Symbol,
		"bars", len(payload.PriceWindow),
		"headlines", len(payload.News),
		"market_regime", payload.MarketRegime,
	)

	rec, err := oj.judge.Judge(ctx, payload)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get verdict", err,
			"symbol", payload.Symbol,
		)
		return types.Recommendation{}, err
	}

	logger.InfoSkip(ctx, 1, "Verdict received",
		"symbol", payload.Symbol,
		"recommendation", rec.Recommendation,
		"confidence", rec.Confidence,
	)

	return rec, nil
}

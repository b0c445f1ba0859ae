package recommend

import (
	"context"
	"errors"
	"fmt"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/types"
)

// DefaultConfidence is reported when the judge could not be consulted.
const DefaultConfidence = 0.5

// Resolver turns a payload into a verdict. A judge failure never escapes:
// it is replaced by a Hold carrying the reason.
type Resolver struct {
	judge interfaces.Judge
}

func NewResolver(judge interfaces.Judge) *Resolver {
	return &Resolver{judge: judge}
}

func (r *Resolver) Resolve(ctx context.Context, payload types.JudgmentPayload) types.Recommendation {
	rec, err := r.ask(ctx, payload)
	if err != nil {
		logger.Warn(ctx, "Judge failed, defaulting to Hold", "symbol", payload.Symbol, "error", err)
		rec = Fallback(err)
	}

	logger.Verdict(ctx, payload.Symbol, string(rec.Recommendation), rec.Confidence, rec.Reasoning,
		"market_regime", payload.MarketRegime,
	)
	return rec
}

// ask calls the judge, turning a panic into an error.
func (r *Resolver) ask(ctx context.Context, payload types.JudgmentPayload) (rec types.Recommendation, err error) {
	if r.judge == nil {
		return rec, errors.New("no judge configured")
	}
	defer func() {
		if p := recover(); p != nil {
			rec, err = types.Recommendation{}, fmt.Errorf("judge panicked: %v", p)
		}
	}()
	return r.judge.Judge(ctx, payload)
}

// Fallback is the verdict substituted for a failed judgment.
func Fallback(err error) types.Recommendation {
	return types.Recommendation{
		Recommendation: types.Hold,
		Confidence:     DefaultConfidence,
		Reasoning:      fmt.Sprintf("AI analysis failed due to an error: %v. Defaulting to 'Hold'.", err),
	}
}

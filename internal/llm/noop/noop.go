package noop

import (
	"context"
	"errors"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/types"
)

// ErrNoJudge is what the noop judge always answers.
var ErrNoJudge = errors.New("no judgment provider configured")

// NoopJudge is used when no model is configured. It always fails, so the
// resolver falls back to its Hold verdict.
type NoopJudge struct{}

var _ interfaces.Judge = (*NoopJudge)(nil)

func NewNoopJudge() *NoopJudge {
	return &NoopJudge{}
}

func (j *NoopJudge) Judge(ctx context.Context, payload types.JudgmentPayload) (types.Recommendation, error) {
	logger.Debug(ctx, "Noop judge called - always fails", "symbol", payload.Symbol)
	return types.Recommendation{}, ErrNoJudge
}

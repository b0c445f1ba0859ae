package interfaces

import (
	"context"

	"equity-advisor/internal/types"
)

type Judge interface {
	Judge(ctx context.Context, payload types.JudgmentPayload) (types.Recommendation, error)
}

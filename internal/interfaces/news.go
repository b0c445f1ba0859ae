package interfaces

import (
	"context"

	"equity-advisor/internal/types"
)

// NewsProvider returns recent articles labelled with sentiment. Callers treat
// it as optional: failures never block price or fundamentals analysis.
type NewsProvider interface {
	Headlines(ctx context.Context, symbol, companyName string) ([]types.NewsArticle, error)
}

package interfaces

import (
	"context"

	"equity-advisor/internal/types"
)

type Advisor interface {
	Report(ctx context.Context, ticker string) (*types.StockReport, error)
	Predict(ctx context.Context, ticker string) (*types.Prediction, error)
	Search(ctx context.Context, query string) ([]types.SymbolMatch, error)
	News(ctx context.Context, ticker string) (*types.NewsReport, error)
}

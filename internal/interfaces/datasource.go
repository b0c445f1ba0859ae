package interfaces

import (
	"context"

	"equity-advisor/internal/types"
)

// PriceSource fetches daily bars for one canonical symbol (e.g. "TCS.NSE").
// No data is (nil, nil); errors are reserved for transport, auth and rate limits.
type PriceSource interface {
	Name() string
	FetchPrices(ctx context.Context, symbol string) ([]types.Bar, error)
}

// FundamentalsSource fetches a partial fundamentals snapshot for one canonical symbol.
type FundamentalsSource interface {
	Name() string
	FetchFundamentals(ctx context.Context, symbol string) (types.Fundamentals, error)
}

type SymbolSearcher interface {
	SearchSymbols(ctx context.Context, keywords string) ([]types.SymbolMatch, error)
}

// Package fallback runs ordered chains of data sources. Sources are tried one
// at a time, each under its own timeout; a failing source is logged and the
// chain moves on.
package fallback

import (
	"context"
	"fmt"
	"time"

	"equity-advisor/internal/fundamentals"
	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/trace"
	"equity-advisor/internal/types"
)

const DefaultTimeout = 30 * time.Second

// PriceResult is the first non-empty series a chain found.
type PriceResult struct {
	Bars   []types.Bar
	Source string
	Symbol string
}

func (r PriceResult) Empty() bool { return len(r.Bars) == 0 }

// PriceChain stops at the first source that returns bars. Series from
// different sources are never mixed.
type PriceChain struct {
	sources []interfaces.PriceSource
	timeout time.Duration
}

func NewPriceChain(timeout time.Duration, sources ...interfaces.PriceSource) *PriceChain {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PriceChain{sources: sources, timeout: timeout}
}

// Fetch tries every candidate symbol against a source before moving to the
// next source.
func (c *PriceChain) Fetch(ctx context.Context, candidates []string) PriceResult {
	ctx, span := trace.StartSpan(ctx, "fallback.Prices")
	defer span.End()

	for _, src := range c.sources {
		for _, sym := range candidates {
			var bars []types.Bar
			err := bounded(ctx, c.timeout, func(ctx context.Context) (err error) {
				bars, err = src.FetchPrices(ctx, sym)
				return err
			})
			if err != nil {
				logger.Warn(ctx, "Price source failed", "provider", src.Name(), "symbol", sym, "error", err)
				continue
			}
			if len(bars) > 0 {
				logger.Debug(ctx, "Prices resolved", "provider", src.Name(), "symbol", sym, "bars", len(bars))
				return PriceResult{Bars: bars, Source: src.Name(), Symbol: sym}
			}
		}
	}
	return PriceResult{}
}

// FundamentalsResult is the merged snapshot and the sources that added to it.
type FundamentalsResult struct {
	Fundamentals types.Fundamentals
	Sources      []string
}

// FundamentalsChain merges every source fill-missing-only, stopping once no
// key metric is missing.
type FundamentalsChain struct {
	sources []interfaces.FundamentalsSource
	timeout time.Duration
}

func NewFundamentalsChain(timeout time.Duration, sources ...interfaces.FundamentalsSource) *FundamentalsChain {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &FundamentalsChain{sources: sources, timeout: timeout}
}

// Fetch consults sources in order. Within a source the first candidate that
// yields anything is used.
func (c *FundamentalsChain) Fetch(ctx context.Context, candidates []string) FundamentalsResult {
	ctx, span := trace.StartSpan(ctx, "fallback.Fundamentals")
	defer span.End()

	res := FundamentalsResult{Fundamentals: types.NewFundamentals()}
	for _, src := range c.sources {
		if len(fundamentals.MissingKeyMetrics(res.Fundamentals)) == 0 {
			break
		}
		for _, sym := range candidates {
			var f types.Fundamentals
			err := bounded(ctx, c.timeout, func(ctx context.Context) (err error) {
				f, err = src.FetchFundamentals(ctx, sym)
				return err
			})
			if err != nil {
				logger.Warn(ctx, "Fundamentals source failed", "provider", src.Name(), "symbol", sym, "error", err)
				continue
			}
			if f.IsEmpty() {
				continue
			}
			res.Fundamentals = fundamentals.Merge(res.Fundamentals, f)
			res.Sources = append(res.Sources, src.Name())
			break
		}
	}
	return res
}

// bounded runs fn under a per-source deadline and turns a panic into an
// error so one broken source cannot take the chain down.
func bounded(ctx context.Context, timeout time.Duration, fn func(context.Context) error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source panicked: %v", r)
		}
	}()
	return fn(ctx)
}

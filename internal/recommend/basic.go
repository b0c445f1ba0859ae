package recommend

import (
	"github.com/guregu/null/v6"

	"equity-advisor/internal/ta"
	"equity-advisor/internal/types"
)

const (
	oversold   = 30
	overbought = 70

	smaShortWindow = 20
	smaLongWindow  = 50
)

// Basic classifies the latest RSI of a newest-first series. Overbought reads
// as Sell and oversold as Buy; SMAs are reported but do not vote.
func Basic(symbol string, bars []types.Bar) types.BasicVerdict {
	rsi := ta.RSIOf(bars)
	return types.BasicVerdict{
		Symbol:         symbol,
		Recommendation: classifyRSI(rsi),
		RSI:            rsi,
		SMAShort:       ta.SMAOf(bars, smaShortWindow),
		SMALong:        ta.SMAOf(bars, smaLongWindow),
	}
}

func classifyRSI(rsi null.Float) types.Verdict {
	switch {
	case !rsi.Valid:
		return types.Hold
	case rsi.Float64 < oversold:
		return types.Buy
	case rsi.Float64 > overbought:
		return types.Sell
	default:
		return types.Hold
	}
}

// MarketRegime reads the trend from SMA50 against SMA200.
func MarketRegime(ind types.IndicatorSet) types.Regime {
	if !ind.SMA50.Valid || !ind.SMA200.Valid {
		return types.RegimeSideways
	}
	if ind.SMA50.Float64 > ind.SMA200.Float64 {
		return types.RegimeBull
	}
	return types.RegimeBear
}

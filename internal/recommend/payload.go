package recommend

import (
	"equity-advisor/internal/fundamentals"
	"equity-advisor/internal/types"
)

const (
	PriceWindow  = 30
	MaxHeadlines = 5
)

// BuildPayload assembles what the judge sees. bars is newest-first and only
// the most recent PriceWindow of them are kept.
func BuildPayload(symbol string, bars []types.Bar, ind types.IndicatorSet, fund types.Fundamentals, news []types.NewsArticle) types.JudgmentPayload {
	window := bars
	if len(window) > PriceWindow {
		window = window[:PriceWindow]
	}
	window = append([]types.Bar(nil), window...)

	n := min(len(news), MaxHeadlines)
	headlines := make([]types.Headline, 0, n)
	for _, a := range news[:n] {
		headlines = append(headlines, types.Headline{Headline: a.Title, Sentiment: a.Sentiment})
	}

	return types.JudgmentPayload{
		Symbol:       symbol,
		PriceWindow:  window,
		Indicators:   ind,
		Fundamentals: fundamentals.PayloadFields(fund),
		News:         headlines,
		MarketRegime: MarketRegime(ind),
	}
}

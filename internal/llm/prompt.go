package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"equity-advisor/internal/types"
)

// SystemPrompt frames the judge as a decisive analyst and fixes the reply
// schema.
const SystemPrompt = `EDUCATIONAL PURPOSE ONLY: this analysis is a simulation for educational purposes.

You are a decisive financial analysis engine. Give a clear recommendation for one stock based on the weight of evidence.

Decision logic:
1. Do not default to "Hold" because signals conflict. Resolve the conflict.
2. Trend priority: when the medium-term trend (SMA50, MACD) is strong, follow it.
3. Fundamentals adjust the confidence score and do not block the trade. A strong uptrend with weak fundamentals is a low-confidence "Buy"; a strong downtrend with strong fundamentals is still a "Sell".
4. Recommend "Hold" only when the market is ranging (ADX below 20, flat SMAs) with no directional bias.

Scoring guide:
- Strong Buy: bullish trend, bullish fundamentals and positive news.
- Buy: bullish trend even with mixed fundamentals.
- Sell: bearish trend even with mixed fundamentals.
- Strong Sell: bearish trend, bearish fundamentals and negative news.
- Hold: neutral or sideways market.

Reply with strict JSON only:
{"recommendation": "Strong Buy" | "Buy" | "Hold" | "Sell" | "Strong Sell", "confidence": 0.0 to 1.0, "reasoning": "why; if signals conflict, explain why the trend won"}`

// BuildPrompt renders the payload as the user turn.
func BuildPrompt(p types.JudgmentPayload) (string, error) {
	sections := []struct {
		title string
		value any
	}{
		{"Price history (newest first)", p.PriceWindow},
		{"Technical indicators", p.Indicators},
		{"Fundamentals", p.Fundamentals},
		{"News and sentiment", p.News},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s\n\n", p.Symbol)
	for _, s := range sections {
		raw, err := json.Marshal(s.value)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", strings.ToLower(s.title), err)
		}
		fmt.Fprintf(&b, "%s: %s\n", s.title, raw)
	}
	fmt.Fprintf(&b, "Context: sector trend \"Neutral\", market regime %q\n\n", p.MarketRegime)
	b.WriteString("Return only the JSON object.")
	return b.String(), nil
}

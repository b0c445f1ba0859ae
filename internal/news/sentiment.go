package news

import (
	"strings"
	"unicode"

	"equity-advisor/internal/types"
)

// Headline vocabulary. Kept small and market-specific: the labels feed the
// judge as a hint, not a score.
var (
	positiveWords = wordSet(
		"gain", "gains", "gained", "rise", "rises", "rising", "rose", "surge", "surges", "surged",
		"jump", "jumps", "jumped", "rally", "rallies", "rallied", "soar", "soars", "soared",
		"beat", "beats", "record", "profit", "profits", "growth", "grows", "upgrade", "upgraded",
		"outperform", "strong", "bullish", "buy", "expansion", "wins", "win", "dividend",
		"approval", "approved", "boost", "boosts", "high", "higher", "positive", "recovery",
	)
	negativeWords = wordSet(
		"fall", "falls", "fell", "drop", "drops", "dropped", "decline", "declines", "declined",
		"slump", "slumps", "plunge", "plunges", "plunged", "crash", "tumble", "tumbles", "slide",
		"loss", "losses", "miss", "misses", "missed", "downgrade", "downgraded", "weak", "bearish",
		"sell", "probe", "fraud", "penalty", "fine", "lawsuit", "default", "debt", "cut", "cuts",
		"low", "lower", "negative", "concern", "concerns", "warning", "resigns", "layoffs",
	)
)

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Label classifies text by counting positive and negative vocabulary.
func Label(text string) types.Sentiment {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	score := 0
	for _, w := range words {
		switch {
		case positiveWords[w]:
			score++
		case negativeWords[w]:
			score--
		}
	}
	switch {
	case score > 0:
		return types.SentimentPositive
	case score < 0:
		return types.SentimentNegative
	default:
		return types.SentimentNeutral
	}
}

// LabelArticles sets the sentiment of every article that has none.
func LabelArticles(articles []types.NewsArticle) {
	for i := range articles {
		if articles[i].Sentiment == "" {
			articles[i].Sentiment = Label(articles[i].Title + " " + articles[i].Description)
		}
	}
}

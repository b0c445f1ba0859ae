package types

import (
	"encoding/json"
	"time"

	"github.com/guregu/null/v6"
)

const DateLayout = "2006-01-02"

// Bar is one trading day. Close is always set; the other prices are best-effort.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

func (b Bar) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume int64   `json:"volume"`
	}{b.Date.Format(DateLayout), b.Open, b.High, b.Low, b.Close, b.Volume})
}

type VolumeTrend string

const (
	VolumeLow     VolumeTrend = "Low"
	VolumeNeutral VolumeTrend = "Neutral"
	VolumeHigh    VolumeTrend = "High"
)

type MACD struct {
	Line   float64 `json:"line"`
	Signal float64 `json:"signal"`
	Hist   float64 `json:"hist"`
}

type BollingerBands struct {
	Upper  float64 `json:"upper"`
	Middle float64 `json:"middle"`
	Lower  float64 `json:"lower"`
}

// IndicatorSet is computed once per series. Invalid fields and nil pointers mean
// the series was too short (or a denominator was zero), never zero.
type IndicatorSet struct {
	SMA20       null.Float      `json:"SMA_20"`
	SMA50       null.Float      `json:"SMA_50"`
	SMA200      null.Float      `json:"SMA_200"`
	RSI         null.Float      `json:"RSI"`
	MACD        *MACD           `json:"MACD"`
	Bollinger   *BollingerBands `json:"Bollinger"`
	ADX         null.Float      `json:"ADX"`
	VolumeTrend VolumeTrend     `json:"Volume_Trend"`
}

type Verdict string

const (
	StrongBuy  Verdict = "Strong Buy"
	Buy        Verdict = "Buy"
	Hold       Verdict = "Hold"
	Sell       Verdict = "Sell"
	StrongSell Verdict = "Strong Sell"
)

// Recommendation is the judged verdict.
type Recommendation struct {
	Recommendation Verdict `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
}

// BasicVerdict is the RSI-only technical call. Only Buy, Sell and Hold occur.
type BasicVerdict struct {
	Symbol         string     `json:"symbol"`
	Recommendation Verdict    `json:"recommendation"`
	RSI            null.Float `json:"rsi"`
	SMAShort       null.Float `json:"sma_short"`
	SMALong        null.Float `json:"sma_long"`
}

type Regime string

const (
	RegimeBull     Regime = "Bull"
	RegimeBear     Regime = "Bear"
	RegimeSideways Regime = "Sideways"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

type NewsArticle struct {
	Symbol      string    `json:"symbol,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt string    `json:"publishedAt,omitempty"`
	Sentiment   Sentiment `json:"sentiment,omitempty"`
}

type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Region   string `json:"region,omitempty"`
	Currency string `json:"currency,omitempty"`
}

package types

import "github.com/guregu/null/v6"

// PayloadFundamentals is the subset of a snapshot handed to the judge.
type PayloadFundamentals struct {
	PE            null.Float `json:"PE"`
	PB            null.Float `json:"PB"`
	ROE           null.Float `json:"ROE"`
	ROA           null.Float `json:"ROA"`
	EPSGrowth     null.Float `json:"EPS_Growth"`
	DebtToEquity  null.Float `json:"Debt_to_Equity"`
	RevenueGrowth null.Float `json:"Revenue_Growth"`
	ProfitMargins null.Float `json:"Profit_Margins"`
}

type Headline struct {
	Headline  string    `json:"headline"`
	Sentiment Sentiment `json:"sentiment"`
}

// JudgmentPayload is everything the judge sees for one symbol.
type JudgmentPayload struct {
	Symbol       string              `json:"symbol"`
	PriceWindow  []Bar               `json:"price_data"`
	Indicators   IndicatorSet        `json:"technical_indicators"`
	Fundamentals PayloadFundamentals `json:"fundamentals"`
	News         []Headline          `json:"news"`
	MarketRegime Regime              `json:"market_regime"`
}

type StockReport struct {
	Symbol       string       `json:"symbol"`
	CompanyName  string       `json:"company_name,omitempty"`
	Price        null.Float   `json:"price"`
	PriceSource  string       `json:"price_source,omitempty"`
	Fundamentals Fundamentals `json:"fundamentals"`
	Analysis     ScoreCard    `json:"fundamental_analysis"`
	Indicators   IndicatorSet `json:"technical_indicators"`
	Prices       []Bar        `json:"prices"`
	Error        string       `json:"error,omitempty"`
}

type Prediction struct {
	Symbol       string         `json:"symbol"`
	Basic        BasicVerdict   `json:"basic_recommendation"`
	AI           Recommendation `json:"ai_recommendation"`
	MarketRegime Regime         `json:"market_regime"`
	News         []NewsArticle  `json:"news,omitempty"`
}

type NewsReport struct {
	Symbol      string        `json:"symbol"`
	CompanyName string        `json:"company_name,omitempty"`
	Articles    []NewsArticle `json:"articles"`
}

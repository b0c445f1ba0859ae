package types

import (
	"encoding/json"

	"github.com/guregu/null/v6"
)

type MetricKey string

const (
	PERatio                    MetricKey = "pe_ratio"
	EPS                        MetricKey = "eps"
	MarketCap                  MetricKey = "market_cap"
	PriceToBook                MetricKey = "price_to_book"
	ReturnOnEquity             MetricKey = "return_on_equity"
	ReturnOnAssets             MetricKey = "return_on_assets"
	DebtToEquity               MetricKey = "debt_to_equity"
	DividendYield              MetricKey = "dividend_yield"
	ProfitMargin               MetricKey = "profit_margin"
	OperatingMargin            MetricKey = "operating_margin"
	EVToEBITDA                 MetricKey = "ev_to_ebitda"
	QuarterlyEarningsGrowthYoY MetricKey = "quarterly_earnings_growth_yoy"
	QuarterlyRevenueGrowthYoY  MetricKey = "quarterly_revenue_growth_yoy"
	Beta                       MetricKey = "beta"
	High52W                    MetricKey = "high_52w"
	Low52W                     MetricKey = "low_52w"
	IndustryPE                 MetricKey = "industry_pe"
	BookValue                  MetricKey = "book_value"
	FaceValue                  MetricKey = "face_value"
)

// MetricKeys lists every numeric snapshot key in report order. The company
// name is carried separately in Fundamentals.Name.
var MetricKeys = []MetricKey{
	PERatio, EPS, MarketCap, PriceToBook, ReturnOnEquity, ReturnOnAssets,
	DebtToEquity, DividendYield, ProfitMargin, OperatingMargin, EVToEBITDA,
	QuarterlyEarningsGrowthYoY, QuarterlyRevenueGrowthYoY, Beta, High52W,
	Low52W, IndustryPE, BookValue, FaceValue,
}

// Fundamentals is a partial snapshot. A key absent from Metrics is unknown.
type Fundamentals struct {
	Metrics map[MetricKey]float64
	Name    null.String
}

func NewFundamentals() Fundamentals {
	return Fundamentals{Metrics: make(map[MetricKey]float64)}
}

func (f Fundamentals) Get(k MetricKey) null.Float {
	v, ok := f.Metrics[k]
	if !ok {
		return null.Float{}
	}
	return null.FloatFrom(v)
}

func (f Fundamentals) Has(k MetricKey) bool {
	_, ok := f.Metrics[k]
	return ok
}

func (f *Fundamentals) Set(k MetricKey, v float64) {
	if f.Metrics == nil {
		f.Metrics = make(map[MetricKey]float64)
	}
	f.Metrics[k] = v
}

// SetOptional stores v only when it is valid.
func (f *Fundamentals) SetOptional(k MetricKey, v null.Float) {
	if v.Valid {
		f.Set(k, v.Float64)
	}
}

func (f Fundamentals) IsEmpty() bool {
	return len(f.Metrics) == 0 && !f.Name.Valid
}

func (f Fundamentals) Clone() Fundamentals {
	out := Fundamentals{Metrics: make(map[MetricKey]float64, len(f.Metrics)), Name: f.Name}
	for k, v := range f.Metrics {
		out.Metrics[k] = v
	}
	return out
}

// MarshalJSON always emits every key, unknown ones as null.
func (f Fundamentals) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(MetricKeys)+1)
	for _, k := range MetricKeys {
		m[string(k)] = f.Get(k)
	}
	m["name"] = f.Name
	return json.Marshal(m)
}

type Classification string

const (
	Strong   Classification = "STRONG"
	Moderate Classification = "MODERATE"
	Weak     Classification = "WEAK"
)

// ScoreCard holds seven 0-2 sub-scores keyed by metric name.
type ScoreCard struct {
	Scores         map[string]int `json:"scores"`
	TotalScore     int            `json:"total_score"`
	Classification Classification `json:"classification"`
	Explanation    string         `json:"explanation"`
}

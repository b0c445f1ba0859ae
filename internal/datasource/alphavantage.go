package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/guregu/null/v6"

	"equity-advisor/internal/api"
	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/normalize"
	"equity-advisor/internal/types"
)

const alphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantage reads daily series, company overviews and symbol search from
// Alpha Vantage. Without an API key every call yields no data.
type AlphaVantage struct {
	client *api.Client
	apiKey string
}

var (
	_ interfaces.PriceSource        = (*AlphaVantage)(nil)
	_ interfaces.FundamentalsSource = (*AlphaVantage)(nil)
	_ interfaces.SymbolSearcher     = (*AlphaVantage)(nil)
)

func NewAlphaVantage(apiKey string, opts ...Option) *AlphaVantage {
	o := buildOptions(alphaVantageBaseURL, opts)
	return &AlphaVantage{client: o.client(), apiKey: apiKey}
}

func (a *AlphaVantage) Name() string { return AlphaVantageName }

func (a *AlphaVantage) query(ctx context.Context, params url.Values) (map[string]json.RawMessage, error) {
	params.Set("apikey", a.apiKey)
	resp, err := a.client.GETQuery(ctx, "/query", params)
	if err != nil {
		return nil, unavailable(AlphaVantageName, err)
	}

	var body map[string]json.RawMessage
	if err := resp.ParseJSON(&body); err != nil {
		return nil, unavailable(AlphaVantageName, err)
	}

	// Rate limits, premium endpoints and bad calls all arrive with HTTP 200.
	for _, key := range []string{"Information", "Note", "Error Message"} {
		if raw, ok := body[key]; ok {
			var msg string
			_ = json.Unmarshal(raw, &msg)
			return nil, unavailablef(AlphaVantageName, "%s", msg)
		}
	}
	return body, nil
}

func (a *AlphaVantage) FetchPrices(ctx context.Context, symbol string) ([]types.Bar, error) {
	if a.apiKey == "" {
		return nil, nil
	}
	body, err := a.query(ctx, url.Values{
		"function":   {"TIME_SERIES_DAILY"},
		"symbol":     {symbol},
		"outputsize": {"compact"},
	})
	if err != nil {
		return nil, err
	}

	raw, ok := findSeries(body)
	if !ok {
		return nil, nil
	}
	var series map[string]map[string]string
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, unavailable(AlphaVantageName, fmt.Errorf("decode time series: %w", err))
	}

	rows := make([]normalize.RawRow, 0, len(series))
	for date, values := range series {
		rows = append(rows, normalize.AlphaVantageRow{Date: date, Values: values})
	}
	return normalize.Series(rows), nil
}

// findSeries locates the daily series, whose key has varied across API
// versions ("Time Series (Daily)", "Time Series Daily").
func findSeries(body map[string]json.RawMessage) (json.RawMessage, bool) {
	if raw, ok := body["Time Series (Daily)"]; ok {
		return raw, true
	}
	for k, raw := range body {
		lk := strings.ToLower(k)
		if strings.Contains(lk, "time series") && strings.Contains(lk, "daily") {
			return raw, true
		}
	}
	return nil, false
}

// overviewFields maps OVERVIEW keys to snapshot keys. Earlier entries for
// the same metric win.
var overviewFields = []struct {
	field string
	key   types.MetricKey
}{
	{"PERatio", types.PERatio},
	{"EPS", types.EPS},
	{"MarketCapitalization", types.MarketCap},
	{"52WeekHigh", types.High52W},
	{"52WeekLow", types.Low52W},
	{"PriceToBookRatio", types.PriceToBook},
	{"ReturnOnEquityTTM", types.ReturnOnEquity},
	{"ReturnOnAssetsTTM", types.ReturnOnAssets},
	{"ProfitMargin", types.ProfitMargin},
	{"OperatingMarginTTM", types.OperatingMargin},
	{"DebtToEquityRatio", types.DebtToEquity},
	{"DebtToEquity", types.DebtToEquity},
	{"DividendYield", types.DividendYield},
	{"EVToEBITDA", types.EVToEBITDA},
	{"QuarterlyEarningsGrowthYOY", types.QuarterlyEarningsGrowthYoY},
	{"QuarterlyRevenueGrowthYOY", types.QuarterlyRevenueGrowthYoY},
	{"Beta", types.Beta},
	{"IndustryPE", types.IndustryPE},
	{"BookValue", types.BookValue},
	{"FaceValue", types.FaceValue},
}

func (a *AlphaVantage) FetchFundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	out := types.NewFundamentals()
	if a.apiKey == "" {
		return out, nil
	}
	body, err := a.query(ctx, url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {symbol},
	})
	if err != nil {
		return out, err
	}

	// An unknown symbol comes back as "{}".
	if _, ok := body["Symbol"]; !ok {
		return out, nil
	}

	overview := make(map[string]any, len(body))
	for k, raw := range body {
		var v any
		if json.Unmarshal(raw, &v) == nil {
			overview[k] = v
		}
	}

	for _, f := range overviewFields {
		if out.Has(f.key) {
			continue
		}
		out.SetOptional(f.key, normalize.ParseOptionalFloat(overview[f.field]))
	}
	if name, ok := overview["Name"].(string); ok && name != "" {
		out.Name = null.StringFrom(name)
	}
	return out, nil
}

// SearchSymbols returns SYMBOL_SEARCH matches whose symbol or name starts
// with keywords.
func (a *AlphaVantage) SearchSymbols(ctx context.Context, keywords string) ([]types.SymbolMatch, error) {
	kw := strings.ToLower(strings.TrimSpace(keywords))
	if a.apiKey == "" || kw == "" {
		return nil, nil
	}
	body, err := a.query(ctx, url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {keywords},
	})
	if err != nil {
		return nil, err
	}

	var matches []map[string]string
	if raw, ok := body["bestMatches"]; ok {
		if err := json.Unmarshal(raw, &matches); err != nil {
			return nil, unavailable(AlphaVantageName, fmt.Errorf("decode matches: %w", err))
		}
	}

	out := make([]types.SymbolMatch, 0, len(matches))
	for _, m := range matches {
		sym, name := m["1. symbol"], m["2. name"]
		if !strings.HasPrefix(strings.ToLower(sym), kw) && !strings.HasPrefix(strings.ToLower(name), kw) {
			continue
		}
		out = append(out, types.SymbolMatch{
			Symbol:   sym,
			Name:     name,
			Type:     m["3. type"],
			Region:   m["4. region"],
			Currency: m["8. currency"],
		})
	}
	return out, nil
}

package datasource

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/guregu/null/v6"

	"equity-advisor/internal/api"
	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/normalize"
	"equity-advisor/internal/symbols"
	"equity-advisor/internal/types"
)

const yahooBaseURL = "https://query2.finance.yahoo.com"

// Yahoo reads the v8 chart and v10 quoteSummary endpoints.
type Yahoo struct {
	client      *api.Client
	historyDays int
}

var (
	_ interfaces.PriceSource        = (*Yahoo)(nil)
	_ interfaces.FundamentalsSource = (*Yahoo)(nil)
)

func NewYahoo(opts ...Option) *Yahoo {
	o := buildOptions(yahooBaseURL, opts)
	return &Yahoo{
		client:      o.client(api.WithHeaders(api.YahooFinanceHeaders())),
		historyDays: o.historyDays,
	}
}

func (y *Yahoo) Name() string { return YahooName }

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

func (y *Yahoo) FetchPrices(ctx context.Context, symbol string) ([]types.Bar, error) {
	ticker := symbols.YahooTicker(symbol)
	resp, err := y.client.GETQuery(ctx, "/v8/finance/chart/"+url.PathEscape(ticker), url.Values{
		"range":    {strconv.Itoa(y.historyDays) + "d"},
		"interval": {"1d"},
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, unavailable(YahooName, err)
	}

	var body yahooChartResponse
	if err := resp.ParseJSON(&body); err != nil {
		return nil, unavailable(YahooName, err)
	}
	if e := body.Chart.Error; e != nil && e.Code != "Not Found" {
		return nil, unavailablef(YahooName, "%s: %s", e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 || len(body.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	r := body.Chart.Result[0]
	q := r.Indicators.Quote[0]
	chart := normalize.YahooChart{
		Timestamps: r.Timestamp,
		Open:       q.Open,
		High:       q.High,
		Low:        q.Low,
		Close:      q.Close,
		Volume:     q.Volume,
	}
	return normalize.Series(chart.Rows()), nil
}

const yahooModules = "price,summaryDetail,defaultKeyStatistics,financialData"

type yahooSummaryResponse struct {
	QuoteSummary struct {
		Result []map[string]map[string]json.RawMessage `json:"result"`
		Error  *yahooError                            `json:"error"`
	} `json:"quoteSummary"`
}

// yahooModule is one quoteSummary module. Numbers arrive as {"raw": x, "fmt": "..."}
// or as an empty object when Yahoo has nothing.
type yahooModule map[string]json.RawMessage

func (m yahooModule) number(key string) null.Float {
	raw, ok := m[key]
	if !ok {
		return null.Float{}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return null.Float{}
	}
	if obj, ok := v.(map[string]any); ok {
		return normalize.ParseOptionalFloat(obj["raw"])
	}
	return normalize.ParseOptionalFloat(v)
}

func (m yahooModule) text(key string) string {
	var s string
	if raw, ok := m[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}

func (y *Yahoo) FetchFundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	out := types.NewFundamentals()
	ticker := symbols.YahooTicker(symbol)
	resp, err := y.client.GETQuery(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(ticker), url.Values{
		"modules": {yahooModules},
	})
	if err != nil {
		if isNotFound(err) {
			return out, nil
		}
		return out, unavailable(YahooName, err)
	}

	var body yahooSummaryResponse
	if err := resp.ParseJSON(&body); err != nil {
		return out, unavailable(YahooName, err)
	}
	if len(body.QuoteSummary.Result) == 0 {
		return out, nil
	}

	res := body.QuoteSummary.Result[0]
	price := yahooModule(res["price"])
	detail := yahooModule(res["summaryDetail"])
	stats := yahooModule(res["defaultKeyStatistics"])
	fin := yahooModule(res["financialData"])

	out.SetOptional(types.PERatio, detail.number("trailingPE"))
	out.SetOptional(types.EPS, stats.number("trailingEps"))
	out.SetOptional(types.ReturnOnEquity, fin.number("returnOnEquity"))
	out.SetOptional(types.ReturnOnAssets, fin.number("returnOnAssets"))
	out.SetOptional(types.ProfitMargin, firstValid(fin.number("profitMargins"), stats.number("profitMargins")))
	out.SetOptional(types.OperatingMargin, fin.number("operatingMargins"))
	out.SetOptional(types.DividendYield, dividendYield(detail, fin))
	out.SetOptional(types.DebtToEquity, fin.number("debtToEquity"))
	out.SetOptional(types.PriceToBook, stats.number("priceToBook"))
	out.SetOptional(types.EVToEBITDA, stats.number("enterpriseToEbitda"))
	out.SetOptional(types.QuarterlyEarningsGrowthYoY, stats.number("earningsQuarterlyGrowth"))
	out.SetOptional(types.QuarterlyRevenueGrowthYoY, fin.number("revenueGrowth"))
	out.SetOptional(types.Beta, detail.number("beta"))
	out.SetOptional(types.MarketCap, firstValid(detail.number("marketCap"), price.number("marketCap")))
	out.SetOptional(types.High52W, detail.number("fiftyTwoWeekHigh"))
	out.SetOptional(types.Low52W, detail.number("fiftyTwoWeekLow"))
	out.SetOptional(types.BookValue, stats.number("bookValue"))

	if name := firstNonEmpty(price.text("longName"), price.text("shortName")); name != "" {
		out.Name = null.StringFrom(name)
	}
	return out, nil
}

// dividendYield prefers rate over price since Yahoo's own yield field has
// switched between fraction and percent.
func dividendYield(detail, fin yahooModule) null.Float {
	rate := detail.number("dividendRate")
	if rate.Valid {
		for _, p := range []null.Float{fin.number("currentPrice"), detail.number("previousClose")} {
			if p.Valid && p.Float64 > 0 {
				return null.FloatFrom(rate.Float64 / p.Float64)
			}
		}
	}
	return detail.number("dividendYield")
}

func firstValid(vals ...null.Float) null.Float {
	for _, v := range vals {
		if v.Valid {
			return v
		}
	}
	return null.Float{}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
	"github.com/zerodha/gokiteconnect/v4/models"

	"equity-advisor/internal/types"
)

func serve(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestAlphaVantagePrices(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		assert.Equal(t, "TCS.BSE", r.URL.Query().Get("symbol"))
		assert.Equal(t, "k", r.URL.Query().Get("apikey"))
		w.Write([]byte(`{
			"Meta Data": {"2. Symbol": "TCS.BSE"},
			"Time Series (Daily)": {
				"2024-03-01": {"1. open": "10", "2. high": "12", "3. low": "9", "4. close": "11", "5. volume": "100"},
				"2024-03-04": {"1. open": "11", "2. high": "13", "3. low": "10", "4. close": "12.5", "5. volume": "200"},
				"2024-03-05": {"1. open": "x", "4. close": "None", "5. volume": "1"}
			}
		}`))
	})

	bars, err := NewAlphaVantage("k", WithBaseURL(srv.URL)).FetchPrices(context.Background(), "TCS.BSE")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, "2024-03-04", bars[0].Date.Format(types.DateLayout))
	assert.Equal(t, 12.5, bars[0].Close)
	assert.Equal(t, int64(200), bars[0].Volume)
}

func TestAlphaVantageRateLimitIsUnavailable(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Information": "We have detected your API key and our standard API rate limit is 25 requests per day."}`))
	})

	_, err := NewAlphaVantage("k", WithBaseURL(srv.URL)).FetchPrices(context.Background(), "TCS.BSE")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
	assert.Contains(t, err.Error(), "25 requests per day")
}

func TestAlphaVantageWithoutKeyMakesNoCall(t *testing.T) {
	called := false
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	av := NewAlphaVantage("", WithBaseURL(srv.URL))
	bars, err := av.FetchPrices(context.Background(), "TCS.BSE")
	require.NoError(t, err)
	assert.Empty(t, bars)

	f, err := av.FetchFundamentals(context.Background(), "TCS.BSE")
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
	assert.False(t, called)
}

func TestAlphaVantageOverview(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"Symbol": "TCS.BSE", "Name": "Tata Consultancy Services",
			"PERatio": "29.4", "EPS": "126.9", "MarketCapitalization": "13500000000000",
			"ReturnOnEquityTTM": "0.51", "DebtToEquity": "8.2", "DividendYield": "None",
			"Beta": "-"
		}`))
	})

	f, err := NewAlphaVantage("k", WithBaseURL(srv.URL)).FetchFundamentals(context.Background(), "TCS.BSE")
	require.NoError(t, err)
	assert.Equal(t, "Tata Consultancy Services", f.Name.String)
	assert.Equal(t, 29.4, f.Get(types.PERatio).Float64)
	assert.Equal(t, 1.35e13, f.Get(types.MarketCap).Float64)
	assert.Equal(t, 8.2, f.Get(types.DebtToEquity).Float64)
	assert.False(t, f.Has(types.DividendYield))
	assert.False(t, f.Has(types.Beta))
}

func TestAlphaVantageOverviewUnknownSymbol(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{}`)) })

	f, err := NewAlphaVantage("k", WithBaseURL(srv.URL)).FetchFundamentals(context.Background(), "NOPE.BSE")
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
}

func TestAlphaVantageSearchFiltersByPrefix(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "SYMBOL_SEARCH", r.URL.Query().Get("function"))
		w.Write([]byte(`{"bestMatches": [
			{"1. symbol": "TATAPOWER.BSE", "2. name": "Tata Power", "3. type": "Equity", "4. region": "India/Bombay", "8. currency": "INR"},
			{"1. symbol": "TTM", "2. name": "Tata Motors ADR", "3. type": "Equity", "4. region": "United States", "8. currency": "USD"},
			{"1. symbol": "XYZ", "2. name": "Something Tata", "3. type": "Equity", "4. region": "India", "8. currency": "INR"}
		]}`))
	})

	got, err := NewAlphaVantage("k", WithBaseURL(srv.URL)).SearchSymbols(context.Background(), "tata")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "TATAPOWER.BSE", got[0].Symbol)
	assert.Equal(t, "INR", got[0].Currency)
	assert.Equal(t, "TTM", got[1].Symbol)
}

func TestYahooChart(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/RELIANCE.NS", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		// 2024-03-04 and 2024-03-05 09:15 IST
		w.Write([]byte(`{"chart": {"result": [{
			"timestamp": [1709523900, 1709610300],
			"indicators": {"quote": [{
				"open": [2900.5, null], "high": [2950, null], "low": [2890, null],
				"close": [2940.25, null], "volume": [1200000, null]
			}]}
		}], "error": null}}`))
	})

	bars, err := NewYahoo(WithBaseURL(srv.URL)).FetchPrices(context.Background(), "RELIANCE.NSE")
	require.NoError(t, err)
	require.Len(t, bars, 1, "halted session with a null close is dropped")
	assert.Equal(t, "2024-03-04", bars[0].Date.Format(types.DateLayout))
	assert.Equal(t, 2940.25, bars[0].Close)
}

func TestYahooNotFoundIsNoData(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
	})

	bars, err := NewYahoo(WithBaseURL(srv.URL)).FetchPrices(context.Background(), "NOPE.BSE")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestYahooServerErrorIsUnavailable(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := NewYahoo(WithBaseURL(srv.URL)).FetchPrices(context.Background(), "TCS.BSE")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestYahooQuoteSummary(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/TCS.BO", r.URL.Path)
		w.Write([]byte(`{"quoteSummary": {"result": [{
			"price": {"longName": "Tata Consultancy Services Limited", "shortName": "TCS", "marketCap": {"raw": 1.4e13}},
			"summaryDetail": {"trailingPE": {"raw": 30.1, "fmt": "30.10"}, "dividendRate": {"raw": 73}, "previousClose": {"raw": 3650},
				"beta": {}, "fiftyTwoWeekHigh": {"raw": 4254.75}, "fiftyTwoWeekLow": {"raw": 3311}},
			"defaultKeyStatistics": {"trailingEps": {"raw": 126.88}, "priceToBook": {"raw": 15.2}, "earningsQuarterlyGrowth": {"raw": 0.05}},
			"financialData": {"returnOnEquity": {"raw": 0.51}, "currentPrice": {"raw": 3650}, "debtToEquity": {"raw": 9.1}, "revenueGrowth": {"raw": 0.04}}
		}], "error": null}}`))
	})

	f, err := NewYahoo(WithBaseURL(srv.URL)).FetchFundamentals(context.Background(), "TCS.BSE")
	require.NoError(t, err)
	assert.Equal(t, "Tata Consultancy Services Limited", f.Name.String)
	assert.Equal(t, 30.1, f.Get(types.PERatio).Float64)
	assert.Equal(t, 126.88, f.Get(types.EPS).Float64)
	assert.InDelta(t, 0.02, f.Get(types.DividendYield).Float64, 1e-9)
	assert.Equal(t, 1.4e13, f.Get(types.MarketCap).Float64)
	assert.Equal(t, 0.04, f.Get(types.QuarterlyRevenueGrowthYoY).Float64)
	assert.False(t, f.Has(types.Beta))
}

func nseServer(t *testing.T, api http.HandlerFunc) *httptest.Server {
	return serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.SetCookie(w, &http.Cookie{Name: "nsit", Value: "session"})
			return
		}
		if _, err := r.Cookie("nsit"); err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		api(w, r)
	})
}

func TestNSEPricesWarmsSession(t *testing.T) {
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	srv := nseServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/historical/cm/equity", r.URL.Path)
		assert.Equal(t, "INFY", r.URL.Query().Get("symbol"))
		assert.Equal(t, "06-03-2024", r.URL.Query().Get("to"))
		assert.Equal(t, "05-03-2024", r.URL.Query().Get("from"))
		w.Write([]byte(`{"data": [
			{"mTIMESTAMP": "04-Mar-2024", "CH_OPENING_PRICE": 1600, "CH_TRADE_HIGH_PRICE": 1620, "CH_TRADE_LOW_PRICE": 1590, "CH_CLOSING_PRICE": 1610.5, "CH_TOT_TRADED_QTY": 5000},
			{"mTIMESTAMP": "05-Mar-2024", "CH_OPENING_PRICE": 1610, "CH_TRADE_HIGH_PRICE": 1630, "CH_TRADE_LOW_PRICE": 1600, "CH_CLOSING_PRICE": 1625, "CH_TOT_TRADED_QTY": 6000}
		]}`))
	})

	n := NewNSE(WithBaseURL(srv.URL), WithHistoryDays(1), withClock(func() time.Time { return now }))
	bars, err := n.FetchPrices(context.Background(), "INFY.NSE")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 1625.0, bars[0].Close)
}

func TestNSESkipsBSESymbols(t *testing.T) {
	called := false
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	n := NewNSE(WithBaseURL(srv.URL))
	bars, err := n.FetchPrices(context.Background(), "INFY.BSE")
	require.NoError(t, err)
	assert.Empty(t, bars)
	f, err := n.FetchFundamentals(context.Background(), "INFY.BSE")
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
	assert.False(t, called)
}

func TestNSEQuote(t *testing.T) {
	srv := nseServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/quote-equity", r.URL.Path)
		w.Write([]byte(`{
			"info": {"symbol": "INFY", "companyName": "Infosys Limited"},
			"metadata": {"pdSymbolPe": 24.3, "pdSectorPe": "28.1"},
			"securityInfo": {"issuedSize": 4000000000, "faceValue": 5},
			"priceInfo": {"lastPrice": 1600, "weekHighLow": {"min": 1350, "max": 1730}}
		}`))
	})

	f, err := NewNSE(WithBaseURL(srv.URL)).FetchFundamentals(context.Background(), "INFY.NSE")
	require.NoError(t, err)
	assert.Equal(t, "Infosys Limited", f.Name.String)
	assert.Equal(t, 24.3, f.Get(types.PERatio).Float64)
	assert.Equal(t, 28.1, f.Get(types.IndustryPE).Float64)
	assert.Equal(t, 6.4e12, f.Get(types.MarketCap).Float64)
	assert.Equal(t, 1730.0, f.Get(types.High52W).Float64)
	assert.Equal(t, 5.0, f.Get(types.FaceValue).Float64)
}

func TestNSEWarmupFailureIsUnavailable(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := NewNSE(WithBaseURL(srv.URL)).FetchPrices(context.Background(), "INFY.NSE")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

const screenerPage = `<html><body>
<h1 class="margin-0">Tata Consultancy Services Ltd</h1>
<ul id="top-ratios">
  <li><span class="name">Market Cap</span><span class="nowrap value">₹ <span class="number">13,50,000</span> Cr.</span></li>
  <li><span class="name">Current Price</span><span class="nowrap value">₹ <span class="number">3,650</span></span></li>
  <li><span class="name">High / Low</span><span class="nowrap value">₹ <span class="number">4,255</span> / <span class="number">3,311</span></span></li>
  <li><span class="name">Stock P/E</span><span class="nowrap value"><span class="number">29.4</span></span></li>
  <li><span class="name">Book Value</span><span class="nowrap value">₹ <span class="number">251</span></span></li>
  <li><span class="name">Dividend Yield</span><span class="nowrap value"><span class="number">2.00</span> %</span></li>
  <li><span class="name">ROE</span><span class="nowrap value"><span class="number">51.5</span> %</span></li>
  <li><span class="name">Face Value</span><span class="nowrap value">₹ <span class="number">1.00</span></span></li>
</ul></body></html>`

func TestScreenerRatios(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/company/TCS/", r.URL.Path)
		w.Write([]byte(screenerPage))
	})

	f, err := NewScreener(WithBaseURL(srv.URL)).FetchFundamentals(context.Background(), "TCS.NSE")
	require.NoError(t, err)
	assert.Equal(t, "Tata Consultancy Services Ltd", f.Name.String)
	assert.Equal(t, 1.35e13, f.Get(types.MarketCap).Float64)
	assert.Equal(t, 29.4, f.Get(types.PERatio).Float64)
	assert.Equal(t, 4255.0, f.Get(types.High52W).Float64)
	assert.Equal(t, 3311.0, f.Get(types.Low52W).Float64)
	assert.InDelta(t, 0.02, f.Get(types.DividendYield).Float64, 1e-12)
	assert.InDelta(t, 0.515, f.Get(types.ReturnOnEquity).Float64, 1e-12)
	assert.Equal(t, 1.0, f.Get(types.FaceValue).Float64)
}

func TestScreenerMissingCompany(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) })

	f, err := NewScreener(WithBaseURL(srv.URL)).FetchFundamentals(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.True(t, f.IsEmpty())
}

type stubKite struct {
	instruments kiteconnect.Instruments
	candles     []kiteconnect.HistoricalData
	token       int
}

func (s *stubKite) GetInstrumentsByExchange(exchange string) (kiteconnect.Instruments, error) {
	return s.instruments, nil
}

func (s *stubKite) GetHistoricalData(token int, interval string, from, to time.Time, continuous, oi bool) ([]kiteconnect.HistoricalData, error) {
	s.token = token
	return s.candles, nil
}

func TestKiteCandles(t *testing.T) {
	day := func(d int) models.Time {
		return models.Time{Time: time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)}
	}
	stub := &stubKite{
		instruments: kiteconnect.Instruments{
			{InstrumentToken: 111, Tradingsymbol: "TCS"},
			{InstrumentToken: 408065, Tradingsymbol: "INFY"},
		},
		candles: []kiteconnect.HistoricalData{
			{Date: day(4), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
			{Date: day(5), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 20},
		},
	}
	k := &Kite{kc: stub, historyDays: 30, now: time.Now}

	bars, err := k.FetchPrices(context.Background(), "INFY.NSE")
	require.NoError(t, err)
	assert.Equal(t, 408065, stub.token)
	require.Len(t, bars, 2)
	assert.Equal(t, 2.0, bars[0].Close)
	assert.Equal(t, int64(20), bars[0].Volume)

	bars, err = k.FetchPrices(context.Background(), "WIPRO.NSE")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

func TestKiteWithoutCredentials(t *testing.T) {
	k := NewKite("", "")
	assert.False(t, k.Enabled())
	bars, err := k.FetchPrices(context.Background(), "INFY.NSE")
	require.NoError(t, err)
	assert.Empty(t, bars)
}

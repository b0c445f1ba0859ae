package datasource

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/guregu/null/v6"

	"equity-advisor/internal/api"
	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/normalize"
	"equity-advisor/internal/symbols"
	"equity-advisor/internal/types"
)

const (
	nseBaseURL    = "https://www.nseindia.com"
	nseDateLayout = "02-01-2006"
)

// NSE reads NSE India's public JSON API. It only answers for .NSE symbols.
// The API refuses requests without the session cookies its home page sets,
// so every call opens a fresh session.
type NSE struct {
	opts options
}

var (
	_ interfaces.PriceSource        = (*NSE)(nil)
	_ interfaces.FundamentalsSource = (*NSE)(nil)
)

func NewNSE(opts ...Option) *NSE {
	return &NSE{opts: buildOptions(nseBaseURL, opts)}
}

func (n *NSE) Name() string { return NSEName }

func (n *NSE) session(ctx context.Context) (*api.Client, error) {
	c := n.opts.client(api.WithHeaders(api.NSEHeaders()), api.WithCookieJar())
	if _, err := c.GET(ctx, "/", api.BrowserHeaders()); err != nil {
		return nil, unavailable(NSEName, err)
	}
	return c, nil
}

func nseSymbol(symbol string) (string, bool) {
	base, exch, ok := symbols.Split(symbol)
	if !ok || exch != symbols.NSE {
		return "", false
	}
	return base, true
}

func (n *NSE) FetchPrices(ctx context.Context, symbol string) ([]types.Bar, error) {
	base, ok := nseSymbol(symbol)
	if !ok {
		return nil, nil
	}
	c, err := n.session(ctx)
	if err != nil {
		return nil, err
	}

	to := n.opts.now().In(normalize.IST)
	from := to.AddDate(0, 0, -n.opts.historyDays)
	resp, err := c.GETQuery(ctx, "/api/historical/cm/equity", url.Values{
		"symbol": {base},
		"series": {`["EQ"]`},
		"from":   {from.Format(nseDateLayout)},
		"to":     {to.Format(nseDateLayout)},
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, unavailable(NSEName, err)
	}

	var body struct {
		Data []normalize.NSERow `json:"data"`
	}
	if err := resp.ParseJSON(&body); err != nil {
		return nil, unavailable(NSEName, err)
	}

	rows := make([]normalize.RawRow, 0, len(body.Data))
	for _, r := range body.Data {
		rows = append(rows, r)
	}
	return normalize.Series(rows), nil
}

type nseQuote struct {
	Info struct {
		Symbol      string `json:"symbol"`
		CompanyName string `json:"companyName"`
	} `json:"info"`
	Metadata struct {
		SymbolPE any `json:"pdSymbolPe"`
		SectorPE any `json:"pdSectorPe"`
	} `json:"metadata"`
	SecurityInfo struct {
		IssuedSize any `json:"issuedSize"`
		FaceValue  any `json:"faceValue"`
	} `json:"securityInfo"`
	PriceInfo struct {
		LastPrice   any `json:"lastPrice"`
		WeekHighLow struct {
			Min any `json:"min"`
			Max any `json:"max"`
		} `json:"weekHighLow"`
	} `json:"priceInfo"`
}

func (n *NSE) FetchFundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	out := types.NewFundamentals()
	base, ok := nseSymbol(symbol)
	if !ok {
		return out, nil
	}
	c, err := n.session(ctx)
	if err != nil {
		return out, err
	}

	resp, err := c.GETQuery(ctx, "/api/quote-equity", url.Values{"symbol": {base}})
	if err != nil {
		if isNotFound(err) {
			return out, nil
		}
		return out, unavailable(NSEName, err)
	}

	var q nseQuote
	if err := json.Unmarshal(resp.Body, &q); err != nil {
		return out, unavailable(NSEName, err)
	}
	if q.Info.Symbol == "" && q.Info.CompanyName == "" {
		return out, nil
	}

	out.SetOptional(types.PERatio, normalize.ParseOptionalFloat(q.Metadata.SymbolPE))
	out.SetOptional(types.IndustryPE, normalize.ParseOptionalFloat(q.Metadata.SectorPE))
	out.SetOptional(types.High52W, normalize.ParseOptionalFloat(q.PriceInfo.WeekHighLow.Max))
	out.SetOptional(types.Low52W, normalize.ParseOptionalFloat(q.PriceInfo.WeekHighLow.Min))
	out.SetOptional(types.FaceValue, normalize.ParseOptionalFloat(q.SecurityInfo.FaceValue))

	issued := normalize.ParseOptionalFloat(q.SecurityInfo.IssuedSize)
	last := normalize.ParseOptionalFloat(q.PriceInfo.LastPrice)
	if issued.Valid && last.Valid {
		out.Set(types.MarketCap, issued.Float64*last.Float64)
	}

	if q.Info.CompanyName != "" {
		out.Name = null.StringFrom(q.Info.CompanyName)
	}
	return out, nil
}

package datasource

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/guregu/null/v6"

	"equity-advisor/internal/api"
	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/normalize"
	"equity-advisor/internal/symbols"
	"equity-advisor/internal/types"
)

const (
	screenerBaseURL = "https://www.screener.in"
	crore           = 1e7
)

// Screener scrapes the headline ratios of a screener.in company page.
// Both exchanges resolve to the same page.
type Screener struct {
	client *api.Client
}

var _ interfaces.FundamentalsSource = (*Screener)(nil)

func NewScreener(opts ...Option) *Screener {
	o := buildOptions(screenerBaseURL, opts)
	return &Screener{client: o.client(api.WithHeaders(api.BrowserHeaders()))}
}

func (s *Screener) Name() string { return ScreenerName }

func (s *Screener) FetchFundamentals(ctx context.Context, symbol string) (types.Fundamentals, error) {
	out := types.NewFundamentals()
	base := symbols.Base(symbol)
	if base == "" {
		return out, nil
	}

	resp, err := s.client.GET(ctx, "/company/"+url.PathEscape(base)+"/")
	if err != nil {
		if isNotFound(err) {
			return out, nil
		}
		return out, unavailable(ScreenerName, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return out, unavailable(ScreenerName, fmt.Errorf("parse page: %w", err))
	}
	return parseScreenerRatios(doc), nil
}

// parseScreenerRatios reads the "#top-ratios" list. Amounts are in crore and
// percentages are converted to fractions to match the other sources.
func parseScreenerRatios(doc *goquery.Document) types.Fundamentals {
	out := types.NewFundamentals()

	doc.Find("#top-ratios li").Each(func(_ int, li *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(li.Find(".name").Text()))
		nums := li.Find(".number").Map(func(_ int, n *goquery.Selection) string {
			return strings.TrimSpace(n.Text())
		})
		if len(nums) == 0 {
			return
		}
		first := normalize.ParseOptionalFloat(nums[0])

		switch label {
		case "market cap":
			if first.Valid {
				out.Set(types.MarketCap, first.Float64*crore)
			}
		case "stock p/e":
			out.SetOptional(types.PERatio, first)
		case "book value":
			out.SetOptional(types.BookValue, first)
		case "dividend yield":
			out.SetOptional(types.DividendYield, percent(first))
		case "roe":
			out.SetOptional(types.ReturnOnEquity, percent(first))
		case "face value":
			out.SetOptional(types.FaceValue, first)
		case "high / low":
			out.SetOptional(types.High52W, first)
			if len(nums) > 1 {
				out.SetOptional(types.Low52W, normalize.ParseOptionalFloat(nums[1]))
			}
		}
	})

	if name := strings.TrimSpace(doc.Find("h1").First().Text()); name != "" && !out.IsEmpty() {
		out.Name = null.StringFrom(name)
	}
	return out
}

func percent(v null.Float) null.Float {
	if !v.Valid {
		return v
	}
	return null.FloatFrom(v.Float64 / 100)
}

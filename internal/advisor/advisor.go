// Package advisor runs the request pipeline: resolve a ticker into exchange
// variants, gather prices and fundamentals through the fallback chains,
// derive indicators and scores, and ask the judge for a verdict.
package advisor

import (
	"context"
	"errors"
	"strings"

	"equity-advisor/internal/fallback"
	"equity-advisor/internal/fundamentals"
	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/recommend"
	"equity-advisor/internal/store"
	"equity-advisor/internal/symbols"
	"equity-advisor/internal/ta"
	"equity-advisor/internal/types"
)

// ErrNoDataFound is the one failure a caller sees when every source came
// back empty for both prices and fundamentals.
var ErrNoDataFound = errors.New("Data is temporarily unavailable for this ticker. Try again later or use a different stock symbol.")

// Deps are the collaborators a Service is built from. News, Searcher and
// Directory may be nil.
type Deps struct {
	Prices       *fallback.PriceChain
	Fundamentals *fallback.FundamentalsChain
	Resolver     *recommend.Resolver
	News         interfaces.NewsProvider
	Searcher     interfaces.SymbolSearcher
	Directory    *symbols.Directory
}

type Service struct {
	cfg  *store.Config
	deps Deps
}

var _ interfaces.Advisor = (*Service)(nil)

func NewService(cfg *store.Config, deps Deps) *Service {
	if deps.Resolver == nil {
		deps.Resolver = recommend.NewResolver(nil)
	}
	return &Service{cfg: cfg, deps: deps}
}

// gathered is everything the chains found for one ticker.
type gathered struct {
	symbol   string
	prices   fallback.PriceResult
	fund     fallback.FundamentalsResult
	hasFund  bool
	hasPrice bool
}

func (g gathered) empty() bool { return !g.hasPrice && !g.hasFund }

// gather runs the price chain and then the fundamentals chain over the
// ticker's exchange variants. Adapter calls within a request never overlap.
func (s *Service) gather(ctx context.Context, ticker string) gathered {
	g := gathered{symbol: strings.ToUpper(strings.TrimSpace(ticker))}
	candidates := symbols.ResolveCanonicalSymbols(ticker)
	if len(candidates) == 0 {
		return g
	}

	g.prices = s.deps.Prices.Fetch(ctx, candidates)
	g.fund = s.deps.Fundamentals.Fetch(ctx, candidates)

	g.hasPrice = !g.prices.Empty()
	g.hasFund = len(fundamentals.MissingKeyMetrics(g.fund.Fundamentals)) < len(fundamentals.KeyMetrics)

	logger.Debug(ctx, "Data gathered",
		"symbol", g.symbol,
		"candidates", candidates,
		"price_source", g.prices.Source,
		"bars", len(g.prices.Bars),
		"fundamentals_sources", g.fund.Sources,
	)
	return g
}

// companyName prefers what a fundamentals source reported over the local
// directory.
func (s *Service) companyName(symbol string, f types.Fundamentals) string {
	if f.Name.Valid && f.Name.String != "" {
		return f.Name.String
	}
	name, _ := s.deps.Directory.Name(symbol)
	return name
}

// Report builds the stock report. When nothing at all was found the report
// still comes back, carrying the message, alongside ErrNoDataFound.
func (s *Service) Report(ctx context.Context, ticker string) (*types.StockReport, error) {
	g := s.gather(ctx, ticker)

	report := &types.StockReport{
		Symbol:       g.symbol,
		CompanyName:  s.companyName(g.symbol, g.fund.Fundamentals),
		PriceSource:  g.prices.Source,
		Fundamentals: g.fund.Fundamentals,
		Analysis:     fundamentals.Score(g.fund.Fundamentals),
		Indicators:   ta.ComputeIndicators(g.prices.Bars),
		Prices:       g.prices.Bars,
	}
	if report.Prices == nil {
		report.Prices = []types.Bar{}
	}
	if g.hasPrice {
		report.Price.SetValid(g.prices.Bars[0].Close)
	}

	if g.empty() {
		report.Error = ErrNoDataFound.Error()
		return report, ErrNoDataFound
	}
	return report, nil
}

// Predict needs a price series; fundamentals and news only enrich the
// judge's payload.
func (s *Service) Predict(ctx context.Context, ticker string) (*types.Prediction, error) {
	g := s.gather(ctx, ticker)
	if !g.hasPrice {
		return nil, ErrNoDataFound
	}

	bars := g.prices.Bars
	ind := ta.ComputeIndicators(bars)
	articles := s.headlines(ctx, g.symbol, s.companyName(g.symbol, g.fund.Fundamentals))

	payload := recommend.BuildPayload(g.symbol, bars, ind, g.fund.Fundamentals, articles)
	return &types.Prediction{
		Symbol:       g.symbol,
		Basic:        recommend.Basic(g.symbol, bars),
		AI:           s.deps.Resolver.Resolve(ctx, payload),
		MarketRegime: payload.MarketRegime,
		News:         articles,
	}, nil
}

// headlines is best-effort: any failure yields no articles.
func (s *Service) headlines(ctx context.Context, symbol, company string) []types.NewsArticle {
	if s.deps.News == nil {
		return nil
	}
	articles, err := s.deps.News.Headlines(ctx, symbol, company)
	if err != nil {
		logger.Warn(ctx, "News unavailable, continuing without it", "symbol", symbol, "error", err)
		return nil
	}
	return articles
}

// Search answers from the local directory and tops up from the remote
// searcher when the directory has fewer than search.min_local_hits matches.
// Local entries come first; remote duplicates are dropped.
func (s *Service) Search(ctx context.Context, query string) ([]types.SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []types.SymbolMatch{}, nil
	}

	local := s.deps.Directory.Search(query)
	if len(local) >= s.cfg.Search.MinLocalHits || s.deps.Searcher == nil {
		return orEmpty(local), nil
	}

	remote, err := s.deps.Searcher.SearchSymbols(ctx, query)
	if err != nil {
		logger.Warn(ctx, "Remote symbol search failed", "query", query, "error", err)
		remote = nil
	}

	seen := make(map[string]bool, len(local)+len(remote))
	out := make([]types.SymbolMatch, 0, len(local)+len(remote))
	for _, m := range append(local, remote...) {
		if seen[m.Symbol] {
			continue
		}
		seen[m.Symbol] = true
		out = append(out, m)
	}
	return out, nil
}

func orEmpty(m []types.SymbolMatch) []types.SymbolMatch {
	if m == nil {
		return []types.SymbolMatch{}
	}
	return m
}

// News resolves the company name through the fundamentals chain first,
// since it sharpens the search.
func (s *Service) News(ctx context.Context, ticker string) (*types.NewsReport, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	report := &types.NewsReport{Symbol: symbol, Articles: []types.NewsArticle{}}
	if symbol == "" {
		return report, ErrNoDataFound
	}

	f := s.deps.Fundamentals.Fetch(ctx, symbols.ResolveCanonicalSymbols(symbol))
	name := s.companyName(symbol, f.Fundamentals)
	report.CompanyName = name

	if s.deps.News == nil {
		return report, nil
	}
	articles, err := s.deps.News.Headlines(ctx, symbol, name)
	if err != nil {
		return report, err
	}
	if articles != nil {
		report.Articles = articles
	}
	return report, nil
}

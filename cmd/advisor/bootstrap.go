package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"equity-advisor/internal/advisor"
	"equity-advisor/internal/advisor/advisorobs"
	"equity-advisor/internal/datasource"
	"equity-advisor/internal/datasource/sourceobs"
	"equity-advisor/internal/fallback"
	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/llm/claude"
	"equity-advisor/internal/llm/gemini"
	"equity-advisor/internal/llm/llmobs"
	"equity-advisor/internal/llm/noop"
	"equity-advisor/internal/llm/openai"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/news"
	"equity-advisor/internal/news/newsobs"
	"equity-advisor/internal/recommend"
	"equity-advisor/internal/store"
	"equity-advisor/internal/symbols"
	"equity-advisor/internal/trace"
)

// initializeSystem loads .env and sets up logging and tracing.
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(version); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// loadConfig reads path when it exists; a missing default file means
// defaults.
func loadConfig(ctx context.Context, path string, explicit bool) (*store.Config, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// sourceSet holds one instance of every adapter so the same Alpha Vantage
// client serves prices, fundamentals and search.
type sourceSet struct {
	av       *datasource.AlphaVantage
	yahoo    *datasource.Yahoo
	nse      *datasource.NSE
	screener *datasource.Screener
	kite     *datasource.Kite
}

func newSourceSet(ctx context.Context, cfg *store.Config) sourceSet {
	opts := []datasource.Option{
		datasource.WithTimeout(cfg.Sources.Timeout),
		datasource.WithHistoryDays(cfg.Sources.HistoryDays),
	}
	s := sourceSet{
		av:       datasource.NewAlphaVantage(os.Getenv("ALPHA_VANTAGE_KEY"), opts...),
		yahoo:    datasource.NewYahoo(opts...),
		nse:      datasource.NewNSE(opts...),
		screener: datasource.NewScreener(opts...),
		kite:     datasource.NewKite(os.Getenv("KITE_API_KEY"), os.Getenv("KITE_ACCESS_TOKEN"), opts...),
	}
	if os.Getenv("ALPHA_VANTAGE_KEY") == "" {
		logger.Warn(ctx, "ALPHA_VANTAGE_KEY not set - Alpha Vantage will return no data")
	}
	if !s.kite.Enabled() {
		logger.Debug(ctx, "Kite credentials not set - kite price source disabled")
	}
	return s
}

func (s sourceSet) prices(names []string) []interfaces.PriceSource {
	out := make([]interfaces.PriceSource, 0, len(names))
	for _, n := range names {
		var src interfaces.PriceSource
		switch n {
		case datasource.AlphaVantageName:
			src = s.av
		case datasource.YahooName:
			src = s.yahoo
		case datasource.NSEName:
			src = s.nse
		case datasource.KiteName:
			src = s.kite
		default:
			continue
		}
		out = append(out, sourceobs.WrapPrices(src))
	}
	return out
}

func (s sourceSet) fundamentals(names []string) []interfaces.FundamentalsSource {
	out := make([]interfaces.FundamentalsSource, 0, len(names))
	for _, n := range names {
		var src interfaces.FundamentalsSource
		switch n {
		case datasource.AlphaVantageName:
			src = s.av
		case datasource.YahooName:
			src = s.yahoo
		case datasource.NSEName:
			src = s.nse
		case datasource.ScreenerName:
			src = s.screener
		default:
			continue
		}
		out = append(out, sourceobs.WrapFundamentals(src))
	}
	return out
}

// initializeJudge picks the configured provider. A provider without its API
// key degrades to the noop judge, which makes every verdict the Hold default.
func initializeJudge(ctx context.Context, cfg *store.Config) interfaces.Judge {
	var (
		judge interfaces.Judge
		err   error
	)

	switch cfg.Judge.Provider {
	case "gemini":
		judge, err = asJudge(gemini.NewGeminiJudge(ctx, cfg, os.Getenv("GEMINI_API_KEY")))
	case "claude":
		judge, err = asJudge(claude.NewClaudeJudge(cfg, os.Getenv("CLAUDE_API_KEY")))
	case "openai":
		judge, err = asJudge(openai.NewOpenAIJudge(cfg, os.Getenv("OPENAI_API_KEY")))
	}

	if judge == nil || err != nil {
		if err != nil {
			logger.Warn(ctx, "Judge unavailable - using Noop judge (always Hold)", "provider", cfg.Judge.Provider, "error", err)
		}
		judge = noop.NewNoopJudge()
	}
	return llmobs.Wrap(judge)
}

// asJudge drops the concrete type so a typed nil never reaches the caller.
func asJudge[J interfaces.Judge](j J, err error) (interfaces.Judge, error) {
	if err != nil {
		return nil, err
	}
	return j, nil
}

func initializeNews(cfg *store.Config) interfaces.NewsProvider {
	svc := news.NewService(cfg,
		news.NewNewsAPI(os.Getenv("NEWS_API_KEY"), "", cfg.News.Timeout),
		news.NewScraper(cfg.News.Timeout),
	)
	return newsobs.Wrap(svc)
}

// initializeDirectory loads the local symbol table. Search still works
// without it through Alpha Vantage.
func initializeDirectory(ctx context.Context, cfg *store.Config) *symbols.Directory {
	dir, err := symbols.LoadDirectory(cfg.Search.Directory)
	if err != nil {
		logger.Warn(ctx, "Symbol directory unavailable", "path", cfg.Search.Directory, "error", err)
		return nil
	}
	logger.Debug(ctx, "Symbol directory loaded", "path", cfg.Search.Directory, "entries", dir.Len())
	return dir
}

// initializeAdvisor wires every collaborator and wraps the result with
// observability.
func initializeAdvisor(ctx context.Context, cfg *store.Config) interfaces.Advisor {
	sources := newSourceSet(ctx, cfg)

	svc := advisor.NewService(cfg, advisor.Deps{
		Prices:       fallback.NewPriceChain(cfg.Sources.Timeout, sources.prices(cfg.Sources.Prices)...),
		Fundamentals: fallback.NewFundamentalsChain(cfg.Sources.Timeout, sources.fundamentals(cfg.Sources.Fundamentals)...),
		Resolver:     recommend.NewResolver(initializeJudge(ctx, cfg)),
		News:         initializeNews(cfg),
		Searcher:     sources.av,
		Directory:    initializeDirectory(ctx, cfg),
	})
	return advisorobs.Wrap(svc)
}

func shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = trace.Shutdown(ctx)
}

package news

import (
	"context"
	"errors"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/store"
	"equity-advisor/internal/types"
)

// Service combines NewsAPI with the scraper fallback and labels sentiment.
type Service struct {
	api     *NewsAPI
	scraper *Scraper
	cfg     *store.Config
}

var _ interfaces.NewsProvider = (*Service)(nil)

// NewService builds the news service. A nil scraper disables the fallback
// regardless of configuration.
func NewService(cfg *store.Config, newsAPI *NewsAPI, scraper *Scraper) *Service {
	if !cfg.News.ScraperFallback {
		scraper = nil
	}
	return &Service{api: newsAPI, scraper: scraper, cfg: cfg}
}

// Headlines returns up to news.max_articles relevant articles for symbol.
// NewsAPI is asked first; the scraper runs when NewsAPI fails or finds
// nothing. The NewsAPI error is returned only when the fallback also comes
// back empty.
func (s *Service) Headlines(ctx context.Context, symbol, companyName string) ([]types.NewsArticle, error) {
	if !s.cfg.News.Enabled {
		return nil, nil
	}
	limit := s.cfg.News.MaxArticles

	var apiErr error
	var articles []types.NewsArticle
	if s.api != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.News.Timeout)
		articles, apiErr = s.api.Search(callCtx, symbol, companyName, limit)
		cancel()
		if apiErr != nil && !errors.Is(apiErr, ErrNoAPIKey) {
			logger.Warn(ctx, "NewsAPI lookup failed", "symbol", symbol, "error", apiErr)
		}
	} else {
		apiErr = ErrNoAPIKey
	}

	if len(articles) == 0 && s.scraper != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.News.Timeout)
		articles = s.scraper.Scrape(callCtx, symbol, companyName, limit)
		cancel()
	}

	if len(articles) == 0 && apiErr != nil {
		return nil, apiErr
	}
	LabelArticles(articles)
	return articles, nil
}

package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"equity-advisor/internal/api"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/types"
)

// Scraper reads article listings from financial news sites.
type Scraper struct {
	sources []Site
	timeout time.Duration
}

// Site describes one listing page and how to pick articles out of it.
type Site struct {
	Name       string
	BaseURL    string
	SearchPath string // "{symbol}" is replaced with the lower-case ticker
	Selectors  ArticleSelectors
}

// ArticleSelectors are CSS selectors relative to the article container.
type ArticleSelectors struct {
	ArticleContainer string
	Title            string
	URL              string
	Summary          string
	PublishedAt      string
}

// NewScraper uses DefaultSites when no sites are given.
func NewScraper(timeout time.Duration, sites ...Site) *Scraper {
	if len(sites) == 0 {
		sites = DefaultSites()
	}
	return &Scraper{sources: sites, timeout: timeout}
}

// DefaultSites are the Indian financial news sites consulted when NewsAPI
// cannot be used.
func DefaultSites() []Site {
	return []Site{
		{
			Name:       "MoneyControl",
			BaseURL:    "https://www.moneycontrol.com",
			SearchPath: "/news/tags/{symbol}.html",
			Selectors: ArticleSelectors{
				ArticleContainer: "li.clearfix",
				Title:            "h2 a, h3 a",
				URL:              "h2 a, h3 a",
				Summary:          "p",
				PublishedAt:      "span.ago",
			},
		},
		{
			Name:       "EconomicTimes",
			BaseURL:    "https://economictimes.indiatimes.com",
			SearchPath: "/topic/{symbol}",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.story-box",
				Title:            "a",
				URL:              "a",
				Summary:          "p",
				PublishedAt:      "time",
			},
		},
		{
			Name:       "BusinessStandard",
			BaseURL:    "https://www.business-standard.com",
			SearchPath: "/search?q={symbol}",
			Selectors: ArticleSelectors{
				ArticleContainer: "div.listing-txt",
				Title:            "a.Hdng",
				URL:              "a.Hdng",
				Summary:          "p",
				PublishedAt:      "span.listing-date",
			},
		},
	}
}

// Scrape collects up to maxArticles articles across all sites. A site that
// fails is logged and skipped.
func (s *Scraper) Scrape(ctx context.Context, symbol, companyName string, maxArticles int) []types.NewsArticle {
	if maxArticles <= 0 {
		maxArticles = 20
	}
	perSite := maxArticles / len(s.sources)
	if perSite < 1 {
		perSite = 1
	}

	rel := newRelevance(symbol, companyName)
	var all []types.NewsArticle
	for _, site := range s.sources {
		if ctx.Err() != nil {
			break
		}
		articles, err := s.scrapeSite(ctx, site, symbol, perSite)
		if err != nil {
			logger.Warn(ctx, "News site scrape failed", "site", site.Name, "symbol", symbol, "error", err)
			continue
		}
		for _, a := range articles {
			if rel.match(a.Title, a.Description) {
				all = append(all, a)
			}
		}
		if len(all) >= maxArticles {
			all = all[:maxArticles]
			break
		}
	}

	logger.Debug(ctx, "News scraping completed", "symbol", symbol, "articles", len(all))
	return all
}

func (s *Scraper) scrapeSite(ctx context.Context, site Site, symbol string, limit int) ([]types.NewsArticle, error) {
	var articles []types.NewsArticle

	c := colly.NewCollector(
		colly.AllowedDomains(hostname(site.BaseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		for k, v := range api.BrowserHeaders() {
			r.Headers.Set(k, v)
		}
	})

	sel := site.Selectors
	c.OnHTML(sel.ArticleContainer, func(e *colly.HTMLElement) {
		if len(articles) >= limit {
			return
		}
		title := strings.TrimSpace(e.ChildText(sel.Title))
		link := e.ChildAttr(sel.URL, "href")
		if title == "" || link == "" {
			return
		}
		articles = append(articles, types.NewsArticle{
			Symbol:      BaseSymbol(symbol),
			Title:       title,
			Description: strings.TrimSpace(e.ChildText(sel.Summary)),
			URL:         e.Request.AbsoluteURL(link),
			Source:      site.Name,
			PublishedAt: strings.TrimSpace(e.ChildText(sel.PublishedAt)),
		})
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		visitErr = fmt.Errorf("%s: HTTP %d: %w", r.Request.URL, r.StatusCode, err)
	})

	target := site.BaseURL + strings.ReplaceAll(site.SearchPath, "{symbol}", url.PathEscape(strings.ToLower(BaseSymbol(symbol))))
	if err := c.Visit(target); err != nil {
		return nil, fmt.Errorf("visit %s: %w", target, err)
	}
	c.Wait()

	if visitErr != nil {
		return nil, visitErr
	}
	return articles, nil
}

func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equity-advisor/internal/store"
	"equity-advisor/internal/types"
)

const newsAPIBody = `{
  "status": "ok",
  "totalResults": 3,
  "articles": [
    {"source": {"name": "Mint"}, "title": "Wipro shares surge on strong deal wins", "description": "IT major", "url": "https://x/1", "publishedAt": "2024-05-02T10:00:00Z"},
    {"source": {"name": "Mint"}, "title": "Sensex closes flat", "description": "Broad market", "url": "https://x/2", "publishedAt": "2024-05-02T09:00:00Z"},
    {"source": {"name": "ET"}, "title": "", "description": "Wipro untitled", "url": "https://x/3", "publishedAt": "2024-05-02T08:00:00Z"},
    {"source": {"name": "ET"}, "title": "WIPRO falls after weak guidance", "description": null, "url": "https://x/4", "publishedAt": "2024-05-01T08:00:00Z"}
  ]
}`

func newsAPIServer(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/everything", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, `("wipro" OR WIPRO) AND stock`, r.URL.Query().Get("q"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

const listingPage = `<html><body><ul>
<li class="clearfix"><h2><a href="/news/wipro-profit-jumps.html">Wipro profit jumps 10%</a></h2><p>Quarterly results beat estimates</p><span class="ago">2 hours ago</span></li>
<li class="clearfix"><h2><a href="/news/other.html">Gold prices steady</a></h2><p>Commodities</p></li>
<li class="clearfix"><h2></h2></li>
</ul></body></html>`

func scraperServer(t *testing.T) (*httptest.Server, Site) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/news/tags/wipro.html", r.URL.Path)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(listingPage))
	}))
	t.Cleanup(srv.Close)
	site := Site{
		Name:       "MoneyControl",
		BaseURL:    srv.URL,
		SearchPath: "/news/tags/{symbol}.html",
		Selectors: ArticleSelectors{
			ArticleContainer: "li.clearfix",
			Title:            "h2 a",
			URL:              "h2 a",
			Summary:          "p",
			PublishedAt:      "span.ago",
		},
	}
	return srv, site
}

func newsConfig(fallback bool) *store.Config {
	cfg := store.Default()
	cfg.News.Enabled = true
	cfg.News.ScraperFallback = fallback
	cfg.News.Timeout = 5 * time.Second
	return cfg
}

func TestNewsAPISearchFiltersAndLabels(t *testing.T) {
	srv := newsAPIServer(t, http.StatusOK, newsAPIBody)
	svc := NewService(newsConfig(false), NewNewsAPI("key", srv.URL, 5*time.Second), nil)

	articles, err := svc.Headlines(context.Background(), "WIPRO.BSE", "Wipro Limited")
	require.NoError(t, err)
	require.Len(t, articles, 2)

	assert.Equal(t, "Wipro shares surge on strong deal wins", articles[0].Title)
	assert.Equal(t, "Mint", articles[0].Source)
	assert.Equal(t, "WIPRO", articles[0].Symbol)
	assert.Equal(t, types.SentimentPositive, articles[0].Sentiment)

	assert.Equal(t, "https://x/4", articles[1].URL)
	assert.Equal(t, types.SentimentNegative, articles[1].Sentiment)
}

func TestNewsAPISearchRespectsLimit(t *testing.T) {
	srv := newsAPIServer(t, http.StatusOK, newsAPIBody)
	n := NewNewsAPI("key", srv.URL, 5*time.Second)

	articles, err := n.Search(context.Background(), "WIPRO", "Wipro Limited", 1)
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestNewsAPIErrorStatus(t *testing.T) {
	srv := newsAPIServer(t, http.StatusOK, `{"status":"error","code":"rateLimited","message":"too many requests"}`)
	svc := NewService(newsConfig(false), NewNewsAPI("key", srv.URL, 5*time.Second), nil)

	_, err := svc.Headlines(context.Background(), "WIPRO", "Wipro Limited")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many requests")
}

func TestNewsAPIWithoutKey(t *testing.T) {
	svc := NewService(newsConfig(false), NewNewsAPI("", "http://127.0.0.1:1", time.Second), nil)

	_, err := svc.Headlines(context.Background(), "WIPRO", "")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestScraperFallbackWhenNewsAPIFails(t *testing.T) {
	api := newsAPIServer(t, http.StatusUnauthorized, `{"status":"error","message":"bad key"}`)
	_, site := scraperServer(t)

	svc := NewService(newsConfig(true), NewNewsAPI("key", api.URL, 5*time.Second), NewScraper(5*time.Second, site))

	articles, err := svc.Headlines(context.Background(), "WIPRO.NSE", "Wipro Limited")
	require.NoError(t, err)
	require.Len(t, articles, 1)

	a := articles[0]
	assert.Equal(t, "Wipro profit jumps 10%", a.Title)
	assert.Equal(t, "Quarterly results beat estimates", a.Description)
	assert.Equal(t, site.BaseURL+"/news/wipro-profit-jumps.html", a.URL)
	assert.Equal(t, "2 hours ago", a.PublishedAt)
	assert.Equal(t, "MoneyControl", a.Source)
	assert.Equal(t, types.SentimentPositive, a.Sentiment)
}

func TestScraperFallbackDisabledByConfig(t *testing.T) {
	_, site := scraperServer(t)
	svc := NewService(newsConfig(false), NewNewsAPI("", "", time.Second), NewScraper(time.Second, site))

	_, err := svc.Headlines(context.Background(), "WIPRO", "Wipro Limited")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestScraperSkipsFailingSite(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(broken.Close)
	_, good := scraperServer(t)
	bad := good
	bad.Name = "Broken"
	bad.BaseURL = broken.URL

	articles := NewScraper(5*time.Second, bad, good).Scrape(context.Background(), "WIPRO", "Wipro", 10)
	require.Len(t, articles, 1)
	assert.Equal(t, "MoneyControl", articles[0].Source)
}

func TestDisabledNewsReturnsNothing(t *testing.T) {
	cfg := newsConfig(true)
	cfg.News.Enabled = false
	svc := NewService(cfg, nil, nil)

	articles, err := svc.Headlines(context.Background(), "WIPRO", "")
	assert.NoError(t, err)
	assert.Empty(t, articles)
}

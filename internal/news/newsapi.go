package news

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"equity-advisor/internal/api"
	"equity-advisor/internal/types"
)

const (
	newsAPIBaseURL = "https://newsapi.org"
	// Fetch more than needed so the relevance filter has room to work.
	newsAPIPageSize = 50
)

// ErrNoAPIKey is returned when NewsAPI is called without a key.
var ErrNoAPIKey = errors.New("NewsAPI key not set")

// NewsAPI queries the newsapi.org "everything" endpoint.
type NewsAPI struct {
	client *api.Client
	apiKey string
}

func NewNewsAPI(apiKey, baseURL string, timeout time.Duration) *NewsAPI {
	if baseURL == "" {
		baseURL = newsAPIBaseURL
	}
	return &NewsAPI{
		client: api.NewClient(
			api.WithBaseURL(baseURL),
			api.WithTimeout(timeout),
			api.WithHeader("X-Api-Key", apiKey),
			api.WithLogging(true),
		),
		apiKey: apiKey,
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search returns up to limit relevant articles, newest first.
func (n *NewsAPI) Search(ctx context.Context, symbol, companyName string, limit int) ([]types.NewsArticle, error) {
	if n.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	resp, err := n.client.GETQuery(ctx, "/v2/everything", url.Values{
		"q":        {Query(symbol, companyName)},
		"language": {"en"},
		"sortBy":   {"publishedAt"},
		"pageSize": {fmt.Sprint(newsAPIPageSize)},
	})
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}

	var body newsAPIResponse
	if err := resp.ParseJSON(&body); err != nil {
		return nil, fmt.Errorf("newsapi response: %w", err)
	}
	if body.Status == "error" {
		msg := body.Message
		if msg == "" {
			msg = "Unknown error from NewsAPI"
		}
		return nil, fmt.Errorf("NewsAPI error: %s", msg)
	}

	rel := newRelevance(symbol, companyName)
	var out []types.NewsArticle
	for _, a := range body.Articles {
		if a.Title == "" || a.URL == "" || !rel.match(a.Title, a.Description) {
			continue
		}
		out = append(out, types.NewsArticle{
			Symbol:      BaseSymbol(symbol),
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

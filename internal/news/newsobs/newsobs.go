package newsobs

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"equity-advisor/internal/interfaces"
	"equity-advisor/internal/logger"
	"equity-advisor/internal/trace"
	"equity-advisor/internal/types"
)

type observableNews struct {
	news interfaces.NewsProvider
}

var _ interfaces.NewsProvider = (*observableNews)(nil)

// Wrap wraps a news provider with observability middleware
func Wrap(news interfaces.NewsProvider) interfaces.NewsProvider {
	return &observableNews{news: news}
}

func (o *observableNews) Headlines(ctx context.Context, symbol, companyName string) ([]types.NewsArticle, error) {
	ctx, span := trace.StartSpan(ctx, "news.Headlines", oteltrace.WithAttributes(
		attribute.String("symbol", symbol),
		attribute.String("company", companyName),
	))
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching news", "symbol", symbol, "company", companyName)

	articles, err := o.news.Headlines(ctx, symbol, companyName)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch news", err, "symbol", symbol)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "News fetched", "symbol", symbol, "articles", len(articles))
	return articles, nil
}

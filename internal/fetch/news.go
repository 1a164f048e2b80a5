// Package fetch pulls the external signal the pipeline runs on: news
// articles and market quotes. Fetch failures are non-fatal by design; a
// cycle proceeds with whatever partial data exists.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

// NewsSource returns recent articles mentioning a company. An empty slice
// means no news, never partial items.
type NewsSource interface {
	FetchNews(ctx context.Context, companyName string) ([]domain.NewsItem, error)
}

// MarketSource returns the latest quote for a ticker, or nil when the market
// has no data for it.
type MarketSource interface {
	FetchMarket(ctx context.Context, ticker string) (*domain.MarketSnapshot, error)
}

const newsPageSize = 5

// NewsAPISource queries newsapi.org for headlines naming the company.
type NewsAPISource struct {
	log        *logger.Logger
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewNewsAPISource(apiKey, baseURL string, timeout time.Duration, log *logger.Logger) *NewsAPISource {
	if baseURL == "" {
		baseURL = "https://newsapi.org"
	}
	return &NewsAPISource{
		log:        log.With("source", "NewsAPI"),
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
	} `json:"articles"`
}

func (s *NewsAPISource) FetchNews(ctx context.Context, companyName string) ([]domain.NewsItem, error) {
	q := url.Values{}
	q.Set("qInTitle", companyName)
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", fmt.Sprintf("%d", newsPageSize))
	q.Set("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v2/everything?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: build request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi: status %d", resp.StatusCode)
	}

	var out newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("newsapi: decode response: %w", err)
	}

	items := make([]domain.NewsItem, 0, len(out.Articles))
	for _, a := range out.Articles {
		content := a.Description
		if content == "" {
			content = a.Content
		}
		items = append(items, domain.NewsItem{
			Source:  a.Source.Name,
			Title:   a.Title,
			Content: content,
		})
	}
	return items, nil
}

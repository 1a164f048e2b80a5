package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

// RSSNewsSource pulls headlines from the Google News RSS search feed. It is
// the keyless fallback used when no NEWS_API_KEY is configured.
type RSSNewsSource struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
	parser     *gofeed.Parser
}

func NewRSSNewsSource(baseURL string, timeout time.Duration, log *logger.Logger) *RSSNewsSource {
	if baseURL == "" {
		baseURL = "https://news.google.com"
	}
	return &RSSNewsSource{
		log:        log.With("source", "RSSNews"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		parser:     gofeed.NewParser(),
	}
}

func (s *RSSNewsSource) FetchNews(ctx context.Context, companyName string) ([]domain.NewsItem, error) {
	feedURL := fmt.Sprintf("%s/rss/search?q=%s&hl=en-US", s.baseURL, url.QueryEscape(companyName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("rss: build request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rss: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rss: status %d", resp.StatusCode)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("rss: parse feed: %w", err)
	}

	items := make([]domain.NewsItem, 0, newsPageSize)
	for _, it := range feed.Items {
		if len(items) >= newsPageSize {
			break
		}
		source := feed.Title
		if it.Author != nil && it.Author.Name != "" {
			source = it.Author.Name
		}
		items = append(items, domain.NewsItem{
			Source:  source,
			Title:   it.Title,
			Content: it.Description,
		})
	}
	return items, nil
}

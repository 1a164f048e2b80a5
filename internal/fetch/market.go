package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

// YahooMarketSource reads the latest daily candle from the Yahoo Finance
// chart API. The 24h change is computed against the day's open, matching
// how the risk heuristic was calibrated.
type YahooMarketSource struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewYahooMarketSource(baseURL string, timeout time.Duration, log *logger.Logger) *YahooMarketSource {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &YahooMarketSource{
		log:        log.With("source", "YahooMarket"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (s *YahooMarketSource) FetchMarket(ctx context.Context, ticker string) (*domain.MarketSnapshot, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", s.baseURL, url.PathEscape(ticker))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("market: build request: %w", err)
	}
	req.Header.Set("User-Agent", "riskgraph-backend/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market: status %d", resp.StatusCode)
	}

	var out chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("market: decode response: %w", err)
	}
	if out.Chart.Error != nil {
		return nil, fmt.Errorf("market: %s", out.Chart.Error.Description)
	}
	if len(out.Chart.Result) == 0 || len(out.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	quote := out.Chart.Result[0].Indicators.Quote[0]
	open := lastValue(quote.Open)
	last := lastValue(quote.Close)
	if open == nil || last == nil || *open == 0 {
		return nil, nil
	}

	change := *last - *open
	percent := change / *open * 100
	return &domain.MarketSnapshot{
		CurrentPrice:     round2(*last),
		PriceChange24h:   round2(change),
		ChangePercent24h: fmt.Sprintf("%.2f%%", percent),
	}, nil
}

func lastValue(vals []*float64) *float64 {
	for i := len(vals) - 1; i >= 0; i-- {
		if vals[i] != nil {
			return vals[i]
		}
	}
	return nil
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

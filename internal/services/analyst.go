// Package services holds the model-facing logic: the analyst prompt that
// yields the pipeline's raw input, and the advisor endpoints for condition
// analysis and scenario simulation.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/platform/gemini"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

// Analyst asks the model to extract structured financial relationships and a
// condition summary from a company's news and market data. Its output is
// opaque text; the extractor downstream recovers the object from it.
type Analyst struct {
	model gemini.Client
	log   *logger.Logger
}

func NewAnalyst(model gemini.Client, log *logger.Logger) *Analyst {
	return &Analyst{model: model, log: log.With("service", "Analyst")}
}

const analystPromptFormat = `You are a financial analysis AI. Your sole job is to return a single, clean JSON object with no extra text, explanations, or markdown.

Analyze the provided data for %s and populate the following JSON schema.
The "relationships" list should contain any financial connections found in the news. If none are found, return an empty list [].

JSON SCHEMA:
{
    "analysis": {
        "company_name": %q,
        "ticker": %q,
        "summary": "A concise one to two-sentence summary of the most critical news.",
        "news_sentiment": {
            "direct_impact": "Analyze the direct impact of the news on the company.",
            "indirect_impact": "Analyze any indirect or broader market impacts."
        },
        "market_data_summary": "A brief summary of the provided market data."
    },
    "relationships": [
        {
            "source_entity": "The company initiating an action",
            "target_entity": "The company being acted upon",
            "relationship_type": "The type of relationship (e.g., acquired, invested in)"
        }
    ],
    "market_impact_score": "A numerical score from 1 (low impact) to 10 (high impact) based on the news."
}

---
DATA TO ANALYZE:
%s
---`

// Analyze builds the master prompt and returns the model's raw text.
func (a *Analyst) Analyze(ctx context.Context, companyName, ticker string, news []domain.NewsItem, market *domain.MarketSnapshot) (string, error) {
	payload, err := json.MarshalIndent(map[string]any{
		"company_name":  companyName,
		"ticker":        ticker,
		"news_articles": news,
		"market_data":   market,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("analyst: marshal payload: %w", err)
	}

	prompt := fmt.Sprintf(analystPromptFormat, companyName, companyName, ticker, payload)

	text, err := a.model.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("analyst: model call: %w", err)
	}
	return text, nil
}

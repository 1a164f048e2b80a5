package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/extract"
	"github.com/finsignal/riskgraph-backend/internal/platform/gemini"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

// Advisor answers the model-backed boundary requests: company condition
// analysis and what-if scenario simulation.
type Advisor struct {
	model gemini.Client
	log   *logger.Logger
}

func NewAdvisor(model gemini.Client, log *logger.Logger) *Advisor {
	return &Advisor{model: model, log: log.With("service", "Advisor")}
}

const conditionPromptFormat = `You are a financial risk AI. Analyze the following company information and
give a concise JSON object with:

- overall_condition: "Good", "Stable", "At Risk", "Critical"
- impact_analysis: Explain how current news and market data affect the company
- recommendations: What actions could be taken

Company data:
%s`

func (a *Advisor) AnalyzeCondition(ctx context.Context, companyName string, news []domain.NewsItem, market *domain.MarketSnapshot) (domain.ConditionReport, error) {
	payload := companyPayload(companyName, news, market)

	text, err := a.model.GenerateText(ctx, fmt.Sprintf(conditionPromptFormat, payload))
	if err != nil {
		return domain.ConditionReport{}, fmt.Errorf("advisor: condition model call: %w", err)
	}

	obj, err := extract.Object(text)
	if err != nil {
		return domain.ConditionReport{}, fmt.Errorf("advisor: parse condition response: %w", err)
	}

	return domain.ConditionReport{
		OverallCondition: stringKey(obj, "overall_condition"),
		ImpactAnalysis:   stringKey(obj, "impact_analysis"),
		Recommendations:  stringKey(obj, "recommendations"),
	}, nil
}

const scenarioPromptFormat = `You are a financial risk AI. A scenario is being simulated for %s:

Scenario: %s

Using current market trends and historical data, provide a JSON object:
- predicted_risk_score: 1-10
- potential_impact: Concise description of likely effects
- suggested_actions: Recommendations to mitigate risk`

// SimulateScenario requires a non-empty scenario; the handler rejects empty
// input before this is ever reached.
func (a *Advisor) SimulateScenario(ctx context.Context, companyName, scenario string) (domain.ScenarioResult, error) {
	if strings.TrimSpace(scenario) == "" {
		return domain.ScenarioResult{}, fmt.Errorf("advisor: scenario required")
	}

	text, err := a.model.GenerateText(ctx, fmt.Sprintf(scenarioPromptFormat, companyName, scenario))
	if err != nil {
		return domain.ScenarioResult{}, fmt.Errorf("advisor: scenario model call: %w", err)
	}

	obj, err := extract.Object(text)
	if err != nil {
		return domain.ScenarioResult{}, fmt.Errorf("advisor: parse scenario response: %w", err)
	}

	score := intKey(obj, "predicted_risk_score")
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	return domain.ScenarioResult{
		PredictedRiskScore: score,
		PotentialImpact:    stringKey(obj, "potential_impact"),
		SuggestedActions:   stringKey(obj, "suggested_actions"),
	}, nil
}

func companyPayload(companyName string, news []domain.NewsItem, market *domain.MarketSnapshot) string {
	var sb strings.Builder
	sb.WriteString("Company: " + companyName + "\n")
	if market != nil {
		fmt.Fprintf(&sb, "Market: price %.2f, change %.2f (%s)\n",
			market.CurrentPrice, market.PriceChange24h, market.ChangePercent24h)
	}
	for _, item := range news {
		fmt.Fprintf(&sb, "News [%s]: %s: %s\n", item.Source, item.Title, item.Content)
	}
	return sb.String()
}

func stringKey(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func intKey(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

type fakeModel struct {
	prompt string
	text   string
	err    error
	calls  int
}

func (f *fakeModel) GenerateText(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.text, f.err
}

func TestAnalyst_PromptCarriesSignal(t *testing.T) {
	model := &fakeModel{text: `{"analysis": {"company_name": "Acme"}}`}
	analyst := NewAnalyst(model, logger.NewNop())

	news := []domain.NewsItem{{Source: "wire", Title: "Acme acquires Beta", Content: "details"}}
	market := &domain.MarketSnapshot{CurrentPrice: 101.5, PriceChange24h: -1.5, ChangePercent24h: "-1.46%"}

	raw, err := analyst.Analyze(context.Background(), "Acme", "ACME", news, market)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if raw != model.text {
		t.Fatalf("analyze must return the raw model text")
	}

	for _, want := range []string{
		"Acme acquires Beta",
		"-1.46%",
		"source_entity",
		"relationship_type",
		"market_impact_score",
	} {
		if !strings.Contains(model.prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestAdvisor_ScenarioRequiresText(t *testing.T) {
	model := &fakeModel{text: `{"predicted_risk_score": 5}`}
	advisor := NewAdvisor(model, logger.NewNop())

	if _, err := advisor.SimulateScenario(context.Background(), "Acme", "  "); err == nil {
		t.Fatalf("expected error for empty scenario")
	}
	if model.calls != 0 {
		t.Fatalf("model must not be called for empty scenario")
	}
}

func TestAdvisor_ScenarioClampsScore(t *testing.T) {
	model := &fakeModel{text: `{"predicted_risk_score": 14, "potential_impact": "x", "suggested_actions": "y"}`}
	advisor := NewAdvisor(model, logger.NewNop())

	result, err := advisor.SimulateScenario(context.Background(), "Acme", "rates spike")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if result.PredictedRiskScore != 10 {
		t.Fatalf("expected clamp to 10, got %d", result.PredictedRiskScore)
	}
}

func TestAdvisor_ConditionParsesFencedOutput(t *testing.T) {
	model := &fakeModel{text: "Sure!\n```json\n{\"overall_condition\": \"At Risk\", \"impact_analysis\": \"a\", \"recommendations\": \"b\"}\n```"}
	advisor := NewAdvisor(model, logger.NewNop())

	report, err := advisor.AnalyzeCondition(context.Background(), "Acme", nil, nil)
	if err != nil {
		t.Fatalf("condition: %v", err)
	}
	if report.OverallCondition != "At Risk" {
		t.Fatalf("unexpected report %+v", report)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/graph"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
	"github.com/finsignal/riskgraph-backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeNews struct {
	items []domain.NewsItem
	err   error
}

func (f *fakeNews) FetchNews(context.Context, string) ([]domain.NewsItem, error) {
	return f.items, f.err
}

type fakeMarket struct {
	snap *domain.MarketSnapshot
	err  error
}

func (f *fakeMarket) FetchMarket(context.Context, string) (*domain.MarketSnapshot, error) {
	return f.snap, f.err
}

type fakeModel struct {
	text  string
	err   error
	calls int
}

func (f *fakeModel) GenerateText(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestGetGraphData(t *testing.T) {
	store := graph.NewMemoryStore()
	sync := graph.NewSync(store, logger.NewNop())
	if err := sync.Ingest(context.Background(), domain.AnalysisRecord{
		CompanyName: "A",
		Relationships: []domain.Relationship{
			{Source: "A", Target: "B", Type: "INVESTED_IN"},
		},
	}); err != nil {
		t.Fatalf("seed graph: %v", err)
	}

	router := gin.New()
	router.GET("/api/graph_data", NewGraphHandler(sync, logger.NewNop()).GetGraphData)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/graph_data", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snap domain.GraphSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(snap.Nodes) != 2 || len(snap.Edges) != 1 {
		t.Fatalf("expected 2 nodes / 1 edge, got %d/%d", len(snap.Nodes), len(snap.Edges))
	}
	if snap.Edges[0].Label != "INVESTED_IN" {
		t.Fatalf("unexpected edge label %q", snap.Edges[0].Label)
	}
}

func TestGetRiskAlerts_NoDataIs404(t *testing.T) {
	router := gin.New()
	h := NewRiskHandler(&fakeNews{}, &fakeMarket{}, logger.NewNop())
	router.GET("/api/risk_alerts/:company", h.GetRiskAlerts)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/risk_alerts/Acme", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetRiskAlerts_ScoresHeadline(t *testing.T) {
	router := gin.New()
	h := NewRiskHandler(&fakeNews{items: []domain.NewsItem{{Title: "Acme faces lawsuit over fraud"}}}, &fakeMarket{}, logger.NewNop())
	router.GET("/api/risk_alerts/:company", h.GetRiskAlerts)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/risk_alerts/Acme", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Company    string            `json:"company"`
		RiskReport domain.RiskReport `json:"risk_report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.RiskReport.RiskScore != 8 {
		t.Fatalf("expected risk_score 8, got %d", body.RiskReport.RiskScore)
	}
	if !strings.Contains(body.RiskReport.Summary, "High risk") {
		t.Fatalf("unexpected summary %q", body.RiskReport.Summary)
	}
}

func TestSimulate_EmptyScenarioRejectedBeforeModel(t *testing.T) {
	model := &fakeModel{text: `{"predicted_risk_score": 5}`}
	advisor := services.NewAdvisor(model, logger.NewNop())

	router := gin.New()
	router.POST("/api/simulate/:company", NewSimulateHandler(advisor, logger.NewNop()).Simulate)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/simulate/Acme", strings.NewReader(`{"scenario": "   "}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if model.calls != 0 {
		t.Fatalf("model must not be called for an empty scenario")
	}
}

func TestSimulate_ReturnsSimulation(t *testing.T) {
	model := &fakeModel{text: `{"predicted_risk_score": 7, "potential_impact": "severe", "suggested_actions": "hedge"}`}
	advisor := services.NewAdvisor(model, logger.NewNop())

	router := gin.New()
	router.POST("/api/simulate/:company", NewSimulateHandler(advisor, logger.NewNop()).Simulate)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/simulate/Acme", strings.NewReader(`{"scenario": "rates spike 200bps"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Company    string                `json:"company"`
		Scenario   string                `json:"scenario"`
		Simulation domain.ScenarioResult `json:"simulation"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Simulation.PredictedRiskScore != 7 || body.Simulation.PotentialImpact != "severe" {
		t.Fatalf("unexpected simulation %+v", body.Simulation)
	}
	if body.Company != "Acme" || body.Scenario != "rates spike 200bps" {
		t.Fatalf("echo fields wrong: %+v", body)
	}
}

func TestGetCompanyCondition_NoDataIs404(t *testing.T) {
	model := &fakeModel{}
	advisor := services.NewAdvisor(model, logger.NewNop())

	router := gin.New()
	h := NewConditionHandler(&fakeNews{err: fmt.Errorf("down")}, &fakeMarket{}, advisor, logger.NewNop())
	router.GET("/api/company_condition/:company", h.GetCompanyCondition)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/company_condition/Acme", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if model.calls != 0 {
		t.Fatalf("model must not be called with no data")
	}
}

func TestGetCompanyCondition_ReturnsReport(t *testing.T) {
	model := &fakeModel{text: "```json\n{\"overall_condition\": \"Stable\", \"impact_analysis\": \"fine\", \"recommendations\": \"none\"}\n```"}
	advisor := services.NewAdvisor(model, logger.NewNop())

	router := gin.New()
	h := NewConditionHandler(&fakeNews{items: []domain.NewsItem{{Title: "t"}}}, &fakeMarket{}, advisor, logger.NewNop())
	router.GET("/api/company_condition/:company", h.GetCompanyCondition)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/company_condition/Acme", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Report domain.ConditionReport `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Report.OverallCondition != "Stable" {
		t.Fatalf("unexpected report %+v", body.Report)
	}
}

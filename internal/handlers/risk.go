package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finsignal/riskgraph-backend/internal/analysis"
	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/fetch"
	"github.com/finsignal/riskgraph-backend/internal/platform/apierr"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

// RiskHandler answers risk-alert queries against the latest available
// signal. The path parameter doubles as the market ticker, as the upstream
// dashboard queries by symbol.
type RiskHandler struct {
	news   fetch.NewsSource
	market fetch.MarketSource
	log    *logger.Logger
}

func NewRiskHandler(news fetch.NewsSource, market fetch.MarketSource, log *logger.Logger) *RiskHandler {
	return &RiskHandler{news: news, market: market, log: log.With("handler", "Risk")}
}

type riskResponse struct {
	Company    string            `json:"company"`
	RiskReport domain.RiskReport `json:"risk_report"`
}

func (h *RiskHandler) GetRiskAlerts(c *gin.Context) {
	company := c.Param("company")
	ctx := c.Request.Context()

	news, err := h.news.FetchNews(ctx, company)
	if err != nil {
		h.log.Warn("news fetch failed", "company", company, "error", err)
		news = nil
	}
	market, err := h.market.FetchMarket(ctx, company)
	if err != nil {
		h.log.Warn("market fetch failed", "company", company, "error", err)
		market = nil
	}

	if len(news) == 0 && market == nil {
		respondError(c, apierr.New(http.StatusNotFound, "no_data", fmt.Errorf("no data available for this company")))
		return
	}

	report := analysis.Score(domain.AnalysisRecord{
		CompanyName: company,
		News:        news,
		Market:      market,
	})
	c.JSON(http.StatusOK, riskResponse{Company: company, RiskReport: report})
}

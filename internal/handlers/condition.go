package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/fetch"
	"github.com/finsignal/riskgraph-backend/internal/platform/apierr"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
	"github.com/finsignal/riskgraph-backend/internal/services"
)

// ConditionHandler serves the model-generated company condition report.
type ConditionHandler struct {
	news    fetch.NewsSource
	market  fetch.MarketSource
	advisor *services.Advisor
	log     *logger.Logger
}

func NewConditionHandler(news fetch.NewsSource, market fetch.MarketSource, advisor *services.Advisor, log *logger.Logger) *ConditionHandler {
	return &ConditionHandler{news: news, market: market, advisor: advisor, log: log.With("handler", "Condition")}
}

type conditionResponse struct {
	Company    string                 `json:"company"`
	Report     domain.ConditionReport `json:"report"`
	News       []domain.NewsItem      `json:"news"`
	MarketData *domain.MarketSnapshot `json:"market_data"`
}

func (h *ConditionHandler) GetCompanyCondition(c *gin.Context) {
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

	report, err := h.advisor.AnalyzeCondition(ctx, company, news, market)
	if err != nil {
		h.log.Error("condition analysis failed", "company", company, "error", err)
		respondError(c, apierr.New(http.StatusBadGateway, "model_failure", err))
		return
	}

	c.JSON(http.StatusOK, conditionResponse{
		Company:    company,
		Report:     report,
		News:       news,
		MarketData: market,
	})
}

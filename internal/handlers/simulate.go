package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/platform/apierr"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
	"github.com/finsignal/riskgraph-backend/internal/services"
)

// SimulateHandler runs what-if scenarios through the advisor.
type SimulateHandler struct {
	advisor *services.Advisor
	log     *logger.Logger
}

func NewSimulateHandler(advisor *services.Advisor, log *logger.Logger) *SimulateHandler {
	return &SimulateHandler{advisor: advisor, log: log.With("handler", "Simulate")}
}

type scenarioRequest struct {
	Scenario string `json:"scenario"`
}

type scenarioResponse struct {
	Company    string                `json:"company"`
	Scenario   string                `json:"scenario"`
	Simulation domain.ScenarioResult `json:"simulation"`
}

func (h *SimulateHandler) Simulate(c *gin.Context) {
	company := c.Param("company")

	var req scenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.New(http.StatusBadRequest, "invalid_body", err))
		return
	}
	// An empty scenario is a client error; it never reaches the model.
	if strings.TrimSpace(req.Scenario) == "" {
		respondError(c, apierr.New(http.StatusBadRequest, "scenario_required", fmt.Errorf("scenario description is required")))
		return
	}

	result, err := h.advisor.SimulateScenario(c.Request.Context(), company, req.Scenario)
	if err != nil {
		h.log.Error("scenario simulation failed", "company", company, "error", err)
		respondError(c, apierr.New(http.StatusBadGateway, "model_failure", err))
		return
	}

	c.JSON(http.StatusOK, scenarioResponse{
		Company:    company,
		Scenario:   req.Scenario,
		Simulation: result,
	})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finsignal/riskgraph-backend/internal/graph"
	"github.com/finsignal/riskgraph-backend/internal/platform/apierr"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

// GraphHandler serves the full-graph read query for visualization.
type GraphHandler struct {
	sync *graph.Sync
	log  *logger.Logger
}

func NewGraphHandler(sync *graph.Sync, log *logger.Logger) *GraphHandler {
	return &GraphHandler{sync: sync, log: log.With("handler", "Graph")}
}

func (h *GraphHandler) GetGraphData(c *gin.Context) {
	snap, err := h.sync.Snapshot(c.Request.Context())
	if err != nil {
		h.log.Error("graph snapshot failed", "error", err)
		respondError(c, apierr.New(http.StatusServiceUnavailable, "graph_unavailable", err))
		return
	}
	c.JSON(http.StatusOK, snap)
}

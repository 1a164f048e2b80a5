package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/finsignal/riskgraph-backend/internal/handlers"
)

type RouterConfig struct {
	GraphHandler     *handlers.GraphHandler
	RiskHandler      *handlers.RiskHandler
	ConditionHandler *handlers.ConditionHandler
	SimulateHandler  *handlers.SimulateHandler
	MetricsRegistry  *prometheus.Registry
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// The graph frontend is served separately; allow it from anywhere.
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With"},
		AllowCredentials: false,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.MetricsRegistry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.MetricsRegistry, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/graph_data", cfg.GraphHandler.GetGraphData)
		api.GET("/risk_alerts/:company", cfg.RiskHandler.GetRiskAlerts)
		api.GET("/company_condition/:company", cfg.ConditionHandler.GetCompanyCondition)
		api.POST("/simulate/:company", cfg.SimulateHandler.Simulate)
	}

	return router
}

// Package app wires configuration, clients, services, and the router into a
// runnable process.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/finsignal/riskgraph-backend/internal/fetch"
	"github.com/finsignal/riskgraph-backend/internal/graph"
	"github.com/finsignal/riskgraph-backend/internal/handlers"
	"github.com/finsignal/riskgraph-backend/internal/observability"
	"github.com/finsignal/riskgraph-backend/internal/platform/gemini"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
	"github.com/finsignal/riskgraph-backend/internal/platform/neo4jdb"
	"github.com/finsignal/riskgraph-backend/internal/render"
	"github.com/finsignal/riskgraph-backend/internal/server"
	"github.com/finsignal/riskgraph-backend/internal/services"
	"github.com/finsignal/riskgraph-backend/internal/watcher"
)

type App struct {
	Config  Config
	Router  *gin.Engine
	Watcher *watcher.Watcher

	log         *logger.Logger
	neo4jClient *neo4jdb.Client
	fetchCache  *fetch.Cache
}

// New loads config and constructs every component. Configuration errors
// (missing model key, missing graph store credentials) fail here, before the
// loop or the server ever start.
func New(log *logger.Logger) (*App, error) {
	cfg := LoadConfig(log)

	a := &App{Config: cfg, log: log}

	store, err := a.wireStore(log)
	if err != nil {
		return nil, err
	}

	modelClient, err := gemini.NewClient(log)
	if err != nil {
		return nil, fmt.Errorf("init model client: %w", err)
	}

	cache, err := fetch.NewCacheFromEnv(log)
	if err != nil {
		return nil, fmt.Errorf("init fetch cache: %w", err)
	}
	a.fetchCache = cache

	var newsSource fetch.NewsSource
	if cfg.NewsAPIKey != "" {
		newsSource = fetch.NewNewsAPISource(cfg.NewsAPIKey, "", cfg.FetchTimeout, log)
	} else {
		log.Info("NEWS_API_KEY not set, falling back to RSS news source")
		newsSource = fetch.NewRSSNewsSource("", cfg.FetchTimeout, log)
	}
	newsSource = fetch.NewCachedNewsSource(newsSource, cache)

	var marketSource fetch.MarketSource = fetch.NewYahooMarketSource("", cfg.FetchTimeout, log)
	marketSource = fetch.NewCachedMarketSource(marketSource, cache)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetrics(registry)

	graphSync := graph.NewSync(store, log)
	analyst := services.NewAnalyst(modelClient, log)
	advisor := services.NewAdvisor(modelClient, log)

	a.Watcher = watcher.New(watcher.Config{
		CompanyName:  cfg.CompanyName,
		Ticker:       cfg.Ticker,
		Interval:     cfg.PollInterval,
		EmptyBackoff: cfg.EmptyBackoff,
		CallTimeout:  cfg.CallTimeout,
	}, newsSource, marketSource, analyst, graphSync, render.NewConsole(os.Stdout), metrics, log)

	a.Router = server.NewRouter(server.RouterConfig{
		GraphHandler:     handlers.NewGraphHandler(graphSync, log),
		RiskHandler:      handlers.NewRiskHandler(newsSource, marketSource, log),
		ConditionHandler: handlers.NewConditionHandler(newsSource, marketSource, advisor, log),
		SimulateHandler:  handlers.NewSimulateHandler(advisor, log),
		MetricsRegistry:  registry,
	})

	return a, nil
}

func (a *App) wireStore(log *logger.Logger) (graph.Store, error) {
	switch a.Config.GraphStore {
	case "memory":
		log.Warn("using in-memory graph store; data will not survive restarts")
		return graph.NewMemoryStore(), nil
	case "neo4j":
		client, err := neo4jdb.NewFromEnv(log)
		if err != nil {
			return nil, fmt.Errorf("init neo4j: %w", err)
		}
		if client == nil {
			return nil, fmt.Errorf("init neo4j: NEO4J_URI is required when GRAPH_STORE=neo4j")
		}
		a.neo4jClient = client
		return graph.NewNeo4jStore(client, log)
	default:
		return nil, fmt.Errorf("unknown GRAPH_STORE %q", a.Config.GraphStore)
	}
}

// Close releases the long-lived store and cache connections. Called once on
// shutdown, after the watcher's in-flight cycle has completed.
func (a *App) Close(ctx context.Context) {
	if err := a.neo4jClient.Close(ctx); err != nil {
		a.log.Warn("neo4j close failed", "error", err)
	}
	if err := a.fetchCache.Close(); err != nil {
		a.log.Warn("fetch cache close failed", "error", err)
	}
}

package app

import (
	"time"

	"github.com/finsignal/riskgraph-backend/internal/platform/envutil"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

type Config struct {
	CompanyName string
	Ticker      string

	HTTPAddr string

	// GraphStore selects the backend: "neo4j" (default, requires
	// NEO4J_URI) or "memory" for local development.
	GraphStore string

	NewsAPIKey string

	PollInterval time.Duration
	EmptyBackoff time.Duration
	CallTimeout  time.Duration
	FetchTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	return Config{
		CompanyName:  envutil.GetEnv("WATCH_COMPANY", "JPMorgan Chase", log),
		Ticker:       envutil.GetEnv("WATCH_TICKER", "JPM", log),
		HTTPAddr:     envutil.GetEnv("HTTP_ADDR", ":8000", log),
		GraphStore:   envutil.GetEnv("GRAPH_STORE", "neo4j", log),
		NewsAPIKey:   envutil.GetEnv("NEWS_API_KEY", "", nil),
		PollInterval: envutil.GetEnvAsDuration("POLL_INTERVAL", 30*time.Second, log),
		EmptyBackoff: envutil.GetEnvAsDuration("EMPTY_BACKOFF", 10*time.Second, log),
		CallTimeout:  envutil.GetEnvAsDuration("CALL_TIMEOUT", 30*time.Second, log),
		FetchTimeout: envutil.GetEnvAsDuration("FETCH_TIMEOUT", 15*time.Second, log),
	}
}

// Package watcher runs the cooperative polling loop that drives the
// pipeline: fetch, extract, normalize, fan out to graph sync and risk
// scoring, render, sleep. One cycle at a time; a bad cycle is logged and the
// loop moves on.
package watcher

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/finsignal/riskgraph-backend/internal/analysis"
	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/extract"
	"github.com/finsignal/riskgraph-backend/internal/fetch"
	"github.com/finsignal/riskgraph-backend/internal/graph"
	"github.com/finsignal/riskgraph-backend/internal/observability"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
	"github.com/finsignal/riskgraph-backend/internal/render"
)

// AnalysisSource produces the raw model text for a company's current signal.
type AnalysisSource interface {
	Analyze(ctx context.Context, companyName, ticker string, news []domain.NewsItem, market *domain.MarketSnapshot) (string, error)
}

type Config struct {
	CompanyName string
	Ticker      string
	// Interval is the sleep between completed cycles; EmptyBackoff is the
	// shorter wait after a cycle skipped for lack of input.
	Interval     time.Duration
	EmptyBackoff time.Duration
	// CallTimeout bounds each external call within a cycle.
	CallTimeout time.Duration
}

type Watcher struct {
	cfg     Config
	news    fetch.NewsSource
	market  fetch.MarketSource
	analyst AnalysisSource
	sync    *graph.Sync
	sink    render.Sink
	metrics *observability.Metrics
	log     *logger.Logger
}

func New(cfg Config, news fetch.NewsSource, market fetch.MarketSource, analyst AnalysisSource, sync *graph.Sync, sink render.Sink, metrics *observability.Metrics, log *logger.Logger) *Watcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.EmptyBackoff <= 0 || cfg.EmptyBackoff > cfg.Interval {
		cfg.EmptyBackoff = cfg.Interval / 3
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 30 * time.Second
	}
	return &Watcher{
		cfg:     cfg,
		news:    news,
		market:  market,
		analyst: analyst,
		sync:    sync,
		sink:    sink,
		metrics: metrics,
		log:     log.With("service", "Watcher", "company", cfg.CompanyName),
	}
}

// Run loops until ctx is cancelled. Cancellation is cooperative: it is
// checked between cycles, so an in-flight cycle always completes.
func (w *Watcher) Run(ctx context.Context) {
	w.log.Info("watcher started", "interval", w.cfg.Interval, "ticker", w.cfg.Ticker)
	for {
		skipped := w.RunCycle(ctx)

		wait := w.cfg.Interval
		if skipped {
			wait = w.cfg.EmptyBackoff
		}
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return
		case <-time.After(wait):
		}
	}
}

// RunCycle executes one full cycle and reports whether it was skipped for
// lack of usable input. Stage failures are logged and absorbed here; no
// cycle error ever propagates to the loop.
func (w *Watcher) RunCycle(ctx context.Context) (skipped bool) {
	cycleLog := w.log.With("cycle_id", uuid.NewString()[:8])
	w.metrics.CyclesTotal.Inc()

	news, market := w.fetchInputs(ctx, cycleLog)
	if len(news) == 0 && market == nil {
		cycleLog.Debug("no news or market data, skipping cycle")
		w.metrics.CyclesSkipped.Inc()
		return true
	}

	callCtx, cancel := context.WithTimeout(ctx, w.cfg.CallTimeout)
	raw, err := w.analyst.Analyze(callCtx, w.cfg.CompanyName, w.cfg.Ticker, news, market)
	cancel()
	w.metrics.ModelCallsTotal.Inc()
	if err != nil {
		w.metrics.ModelCallFailures.Inc()
		w.metrics.CycleFailures.WithLabelValues("model").Inc()
		cycleLog.Warn("model call failed", "error", err)
		return false
	}

	obj, err := extract.Object(raw)
	if err != nil {
		w.metrics.CycleFailures.WithLabelValues("extract").Inc()
		if errors.Is(err, extract.ErrNoObjectFound) {
			cycleLog.Warn("no analysis available in model output")
		} else {
			cycleLog.Warn("model output not parseable", "error", err)
		}
		w.sink.RenderRaw(w.cfg.CompanyName, raw)
		return false
	}

	rec, err := analysis.Normalize(obj)
	if err != nil {
		w.metrics.CycleFailures.WithLabelValues("normalize").Inc()
		cycleLog.Warn("analysis record rejected", "error", err)
		return false
	}
	rec.News = news
	rec.Market = market

	ingestCtx, cancel := context.WithTimeout(ctx, w.cfg.CallTimeout)
	err = w.sync.Ingest(ingestCtx, rec)
	cancel()
	if err != nil {
		// Upserts are idempotent; the next cycle retries from scratch.
		w.metrics.GraphWriteErrors.Inc()
		w.metrics.CycleFailures.WithLabelValues("graph").Inc()
		cycleLog.Warn("graph ingest incomplete", "error", err)
	} else {
		w.metrics.GraphWritesTotal.Inc()
	}

	report := analysis.Score(rec)
	w.sink.Render(rec, report)
	cycleLog.Info("cycle complete", "risk_score", report.RiskScore, "relationships", len(rec.Relationships))
	return false
}

// fetchInputs gathers whatever external signal is available. Either source
// failing is non-fatal; the cycle proceeds with partial data.
func (w *Watcher) fetchInputs(ctx context.Context, cycleLog *logger.Logger) ([]domain.NewsItem, *domain.MarketSnapshot) {
	newsCtx, cancel := context.WithTimeout(ctx, w.cfg.CallTimeout)
	news, err := w.news.FetchNews(newsCtx, w.cfg.CompanyName)
	cancel()
	if err != nil {
		w.metrics.CycleFailures.WithLabelValues("fetch_news").Inc()
		cycleLog.Warn("news fetch failed", "error", err)
		news = nil
	}

	marketCtx, cancel := context.WithTimeout(ctx, w.cfg.CallTimeout)
	market, err := w.market.FetchMarket(marketCtx, w.cfg.Ticker)
	cancel()
	if err != nil {
		w.metrics.CycleFailures.WithLabelValues("fetch_market").Inc()
		cycleLog.Warn("market fetch failed", "error", err)
		market = nil
	}

	return news, market
}

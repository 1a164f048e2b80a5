// Package observability exposes process metrics for the polling loop and its
// collaborators via Prometheus.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CyclesTotal       prometheus.Counter
	CyclesSkipped     prometheus.Counter
	CycleFailures     *prometheus.CounterVec
	GraphWritesTotal  prometheus.Counter
	GraphWriteErrors  prometheus.Counter
	ModelCallsTotal   prometheus.Counter
	ModelCallFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		CyclesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskgraph_watcher_cycles_total",
			Help: "Completed orchestration cycles, including failed ones.",
		}),
		CyclesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskgraph_watcher_cycles_skipped_total",
			Help: "Cycles skipped because no news or market data was available.",
		}),
		CycleFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "riskgraph_watcher_cycle_failures_total",
			Help: "Cycle failures by pipeline stage.",
		}, []string{"stage"}),
		GraphWritesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskgraph_graph_writes_total",
			Help: "Successful graph ingest operations.",
		}),
		GraphWriteErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskgraph_graph_write_errors_total",
			Help: "Graph ingest operations that reported a write error.",
		}),
		ModelCallsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskgraph_model_calls_total",
			Help: "Generative model invocations.",
		}),
		ModelCallFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "riskgraph_model_call_failures_total",
			Help: "Generative model invocations that returned an error.",
		}),
	}
}

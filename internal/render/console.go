// Package render writes cycle results for operators. It is a side-effect
// only sink; pipeline state never depends on it.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/finsignal/riskgraph-backend/internal/domain"
)

// Sink receives each cycle's record and derived risk report.
type Sink interface {
	Render(rec domain.AnalysisRecord, report domain.RiskReport)
	// RenderRaw surfaces unparseable model output for operator visibility.
	RenderRaw(companyName, raw string)
}

// Console renders a metric/value table per cycle.
type Console struct {
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Render(rec domain.AnalysisRecord, report domain.RiskReport) {
	w := tabwriter.NewWriter(c.out, 2, 4, 2, ' ', 0)

	fmt.Fprintf(c.out, "=== Analysis Report: %s (%s) ===\n", rec.CompanyName, rec.Ticker)
	row(w, "Summary", rec.Summary)
	row(w, "Direct impact", rec.DirectImpact)
	row(w, "Indirect impact", rec.IndirectImpact)
	row(w, "Market summary", rec.MarketDataSummary)
	row(w, "Market impact score", fmt.Sprintf("%d", rec.MarketImpactScore))
	if rec.Market != nil {
		row(w, "Price", fmt.Sprintf("%.2f (%s)", rec.Market.CurrentPrice, rec.Market.ChangePercent24h))
	}
	if len(rec.News) > 0 {
		row(w, "Latest headline", rec.News[0].Title)
	}
	for _, rel := range rec.Relationships {
		row(w, "Relationship", fmt.Sprintf("%s -[%s]-> %s", rel.Source, rel.Type, rel.Target))
	}
	_ = w.Flush()

	fmt.Fprintf(c.out, "%s risk %d/10: %s\n\n", riskLabel(report.RiskScore), report.RiskScore, report.Summary)
}

func (c *Console) RenderRaw(companyName, raw string) {
	fmt.Fprintf(c.out, "=== %s: no analysis available ===\n", companyName)
	raw = strings.TrimSpace(raw)
	if raw != "" {
		fmt.Fprintf(c.out, "raw model output:\n%s\n\n", raw)
	}
}

func row(w io.Writer, metric, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s\t%s\n", metric, value)
}

func riskLabel(score int) string {
	switch {
	case score >= 8:
		return "HIGH"
	case score >= 5:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

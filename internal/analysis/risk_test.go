package analysis

import (
	"reflect"
	"strings"
	"testing"

	"github.com/finsignal/riskgraph-backend/internal/domain"
)

func recordWith(headline string, percent string) domain.AnalysisRecord {
	rec := domain.AnalysisRecord{CompanyName: "Company X"}
	if headline != "" {
		rec.News = []domain.NewsItem{{Source: "wire", Title: headline}}
	}
	if percent != "" {
		rec.Market = &domain.MarketSnapshot{ChangePercent24h: percent}
	}
	return rec
}

func TestScore_HighRiskHeadlineNoMarketData(t *testing.T) {
	report := Score(recordWith("Company X faces lawsuit over fraud", ""))
	if report.RiskScore != 8 {
		t.Fatalf("expected score 8, got %d", report.RiskScore)
	}
	if !strings.Contains(report.Summary, "High risk") {
		t.Fatalf("expected High risk summary, got %q", report.Summary)
	}
	if report.Company != "Company X" {
		t.Fatalf("expected company carried through, got %q", report.Company)
	}
}

func TestScore_NeutralHeadlineSharpDropOverrides(t *testing.T) {
	report := Score(recordWith("Quarterly results announced", "-6.2%"))
	if report.RiskScore != 9 {
		t.Fatalf("expected base 2 overridden to 9, got %d", report.RiskScore)
	}
	if !strings.Contains(report.Summary, "Low risk") {
		t.Fatalf("market step must append, not replace: %q", report.Summary)
	}
	if !strings.Contains(report.Summary, "significant downward movement") {
		t.Fatalf("expected market suffix in %q", report.Summary)
	}
}

func TestScore_NoNewsNoMarket(t *testing.T) {
	report := Score(recordWith("", ""))
	if report.RiskScore != 0 {
		t.Fatalf("expected score 0, got %d", report.RiskScore)
	}
	if report.Summary != "No significant risk detected." {
		t.Fatalf("unexpected summary %q", report.Summary)
	}
}

func TestScore_Tiers(t *testing.T) {
	cases := []struct {
		headline string
		want     int
	}{
		{"Massive crash wipes out gains", 8},
		{"Scandal engulfs the board", 8},
		{"Shares drop on weak guidance", 5},
		{"Analysts issue warning", 5},
		{"Company opens new office", 2},
	}
	for _, tc := range cases {
		report := Score(recordWith(tc.headline, ""))
		if report.RiskScore != tc.want {
			t.Fatalf("%q: expected %d, got %d", tc.headline, tc.want, report.RiskScore)
		}
	}
}

func TestScore_HighTierCheckedBeforeMedium(t *testing.T) {
	// Headline matches both tiers; high wins.
	report := Score(recordWith("Lawsuit blamed for share drop", ""))
	if report.RiskScore != 8 {
		t.Fatalf("expected high tier 8, got %d", report.RiskScore)
	}
}

func TestScore_MarketStepNeverLowers(t *testing.T) {
	// High base with only a moderate decline: max(8, 6) keeps 8.
	report := Score(recordWith("Company X faces lawsuit over fraud", "-3.0%"))
	if report.RiskScore != 8 {
		t.Fatalf("market step lowered score to %d", report.RiskScore)
	}
	if !strings.Contains(report.Summary, "moderate decline") {
		t.Fatalf("summary suffix still expected: %q", report.Summary)
	}
}

func TestScore_MonotoneInMarketDecline(t *testing.T) {
	percents := []string{"1.0%", "-1.0%", "-2.5%", "-4.9%", "-5.1%", "-20%"}
	prev := -1
	for _, p := range percents {
		report := Score(recordWith("Quarterly results announced", p))
		if report.RiskScore < prev {
			t.Fatalf("score decreased to %d at %s", report.RiskScore, p)
		}
		prev = report.RiskScore
	}
}

func TestScore_UnparseablePercentIgnored(t *testing.T) {
	report := Score(recordWith("Quarterly results announced", "n/a"))
	if report.RiskScore != 2 {
		t.Fatalf("expected base 2, got %d", report.RiskScore)
	}
	if strings.Contains(report.Summary, "Market") {
		t.Fatalf("no market suffix expected: %q", report.Summary)
	}
}

func TestScore_Deterministic(t *testing.T) {
	rec := recordWith("Shares decline amid warning signs", "-2.7%")
	first := Score(rec)
	second := Score(rec)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("score not deterministic: %+v vs %+v", first, second)
	}
}

func TestScore_BoundsRespected(t *testing.T) {
	cases := []domain.AnalysisRecord{
		recordWith("", ""),
		recordWith("crash downfall lawsuit scandal loss", "-99%"),
		recordWith("calm day", "5%"),
	}
	for _, rec := range cases {
		report := Score(rec)
		if report.RiskScore < 0 || report.RiskScore > 10 {
			t.Fatalf("score %d out of [0,10]", report.RiskScore)
		}
	}
}

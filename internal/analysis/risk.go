package analysis

import (
	"strconv"
	"strings"

	"github.com/finsignal/riskgraph-backend/internal/domain"
)

var (
	highRiskWords   = []string{"crash", "downfall", "lawsuit", "scandal", "loss"}
	mediumRiskWords = []string{"drop", "decline", "warning"}
)

// Score derives a 0-10 risk score and summary from a record. Pure and
// deterministic: the headline tier sets the base score, then a sharp market
// decline can only raise it, appending to the summary rather than replacing
// it.
func Score(rec domain.AnalysisRecord) domain.RiskReport {
	score := 0
	summary := "No significant risk detected."

	if len(rec.News) > 0 {
		headline := strings.ToLower(rec.News[0].Title)
		switch {
		case containsAny(headline, highRiskWords):
			score = 8
			summary = "High risk detected due to headline: " + headline
		case containsAny(headline, mediumRiskWords):
			score = 5
			summary = "Medium risk detected due to headline: " + headline
		default:
			score = 2
			summary = "Low risk. Latest news headline: " + headline
		}
	}

	if rec.Market != nil {
		if percent, ok := parsePercent(rec.Market.ChangePercent24h); ok {
			if percent < -5 {
				score = max(score, 9)
				summary += " Market shows significant downward movement."
			} else if percent < -2 {
				score = max(score, 6)
				summary += " Market shows moderate decline."
			}
		}
	}

	return domain.RiskReport{
		Company:   rec.CompanyName,
		RiskScore: score,
		Summary:   summary,
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// parsePercent accepts values like "-6.2%" or "-6.2"; unparseable strings
// are treated as absent, not as errors.
func parsePercent(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

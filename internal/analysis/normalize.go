// Package analysis turns raw extracted model objects into canonical
// AnalysisRecords and derives heuristic risk reports from them.
package analysis

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/finsignal/riskgraph-backend/internal/domain"
)

// SchemaError reports a record whose company identity fields are entirely
// absent. Anything less severe is repaired with defaults instead.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("analysis schema error: %s", e.Reason)
}

// Normalize coerces the raw decoded object into an AnalysisRecord. The model
// is prompted to nest identity and summary fields under "analysis", but
// older prompts emitted them flat; both shapes are accepted. All optional
// fields get explicit defaults, and relationship entries missing any of
// source, target, or type are dropped individually without failing the
// record.
func Normalize(raw map[string]any) (domain.AnalysisRecord, error) {
	fields := raw
	if nested, ok := raw["analysis"].(map[string]any); ok {
		fields = nested
	}

	rec := domain.AnalysisRecord{
		CompanyName:       stringField(fields, "company_name"),
		Ticker:            stringField(fields, "ticker"),
		Summary:           stringField(fields, "summary"),
		MarketDataSummary: stringField(fields, "market_data_summary"),
		MarketImpactScore: intField(raw, "market_impact_score"),
		Relationships:     []domain.Relationship{},
	}

	if sentiment, ok := fields["news_sentiment"].(map[string]any); ok {
		rec.DirectImpact = firstStringField(sentiment, "direct_impact")
		rec.IndirectImpact = firstStringField(sentiment, "indirect_impact")
	} else {
		rec.DirectImpact = stringField(fields, "direct_impact")
		rec.IndirectImpact = stringField(fields, "indirect_impact")
	}

	if rec.CompanyName == "" && rec.Ticker == "" {
		return domain.AnalysisRecord{}, &SchemaError{Reason: "company_name and ticker both missing"}
	}

	entries, _ := raw["relationships"].([]any)
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		rel := domain.Relationship{
			Source: firstOf(m, "source_entity", "source"),
			Target: firstOf(m, "target_entity", "target"),
			Type:   firstOf(m, "relationship_type", "type"),
		}
		if rel.Source == "" || rel.Target == "" || rel.Type == "" {
			continue
		}
		rec.Relationships = append(rec.Relationships, rel)
	}

	return rec, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// firstStringField matches keys by prefix so prompt variants like
// "direct_impact_on_jpm" still land in the right field.
func firstStringField(m map[string]any, prefix string) string {
	if s := stringField(m, prefix); s != "" {
		return s
	}
	for k, v := range m {
		if strings.HasPrefix(k, prefix) {
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func firstOf(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(m, key); s != "" {
			return s
		}
	}
	return ""
}

// intField tolerates the model returning scores as numbers or strings.
func intField(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

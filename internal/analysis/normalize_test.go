package analysis

import (
	"errors"
	"testing"
)

func TestNormalize_NestedAnalysisShape(t *testing.T) {
	raw := map[string]any{
		"analysis": map[string]any{
			"company_name": "JPMorgan Chase",
			"ticker":       "JPM",
			"summary":      "Quiet quarter.",
			"news_sentiment": map[string]any{
				"direct_impact":   "Minimal.",
				"indirect_impact": "Sector-wide optimism.",
			},
			"market_data_summary": "Flat.",
		},
		"market_impact_score": float64(4),
		"relationships": []any{
			map[string]any{"source_entity": "JPMorgan Chase", "target_entity": "Acme Corp", "relationship_type": "invested in"},
		},
	}

	rec, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.CompanyName != "JPMorgan Chase" || rec.Ticker != "JPM" {
		t.Fatalf("identity fields wrong: %q / %q", rec.CompanyName, rec.Ticker)
	}
	if rec.DirectImpact != "Minimal." || rec.IndirectImpact != "Sector-wide optimism." {
		t.Fatalf("sentiment fields wrong: %q / %q", rec.DirectImpact, rec.IndirectImpact)
	}
	if rec.MarketImpactScore != 4 {
		t.Fatalf("expected market_impact_score=4, got %d", rec.MarketImpactScore)
	}
	if len(rec.Relationships) != 1 {
		t.Fatalf("expected 1 relationship, got %d", len(rec.Relationships))
	}
}

func TestNormalize_MissingIdentityIsSchemaError(t *testing.T) {
	_, err := Normalize(map[string]any{"summary": "something"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
}

func TestNormalize_TickerAloneSatisfiesIdentity(t *testing.T) {
	rec, err := Normalize(map[string]any{"ticker": "JPM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Ticker != "JPM" {
		t.Fatalf("expected ticker, got %q", rec.Ticker)
	}
}

func TestNormalize_DropsIncompleteRelationshipsIndividually(t *testing.T) {
	raw := map[string]any{
		"company_name": "Acme",
		"relationships": []any{
			map[string]any{"source_entity": "Acme", "target_entity": "First", "relationship_type": "acquired"},
			map[string]any{"source_entity": "Acme", "relationship_type": "acquired"}, // no target
			map[string]any{"source_entity": "Acme", "target_entity": "Second", "relationship_type": ""},
			"not even an object",
			map[string]any{"source_entity": "Acme", "target_entity": "Third", "relationship_type": "supplies"},
		},
	}
	rec, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Relationships) != 2 {
		t.Fatalf("expected 2 retained relationships, got %d", len(rec.Relationships))
	}
	// Input order preserved.
	if rec.Relationships[0].Target != "First" || rec.Relationships[1].Target != "Third" {
		t.Fatalf("order not preserved: %+v", rec.Relationships)
	}
}

func TestNormalize_DuplicatesAreKept(t *testing.T) {
	rel := map[string]any{"source_entity": "A", "target_entity": "B", "relationship_type": "owns"}
	rec, err := Normalize(map[string]any{
		"company_name":  "A",
		"relationships": []any{rel, rel},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Relationships) != 2 {
		t.Fatalf("dedup is the store's job, expected 2, got %d", len(rec.Relationships))
	}
}

func TestNormalize_DefaultsAndNeverNilRelationships(t *testing.T) {
	rec, err := Normalize(map[string]any{"company_name": "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Relationships == nil {
		t.Fatalf("relationships must be empty, never nil")
	}
	if rec.Summary != "" || rec.MarketImpactScore != 0 {
		t.Fatalf("expected zero defaults, got %q / %d", rec.Summary, rec.MarketImpactScore)
	}
}

func TestNormalize_ScoreAsString(t *testing.T) {
	rec, err := Normalize(map[string]any{
		"company_name":        "Acme",
		"market_impact_score": "7",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.MarketImpactScore != 7 {
		t.Fatalf("expected 7, got %d", rec.MarketImpactScore)
	}
}

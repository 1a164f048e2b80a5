package domain

// NewsItem is a single article returned by a news source. Read-only input,
// never persisted.
type NewsItem struct {
	Source  string `json:"source"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// MarketSnapshot holds the latest quote for a ticker. ChangePercent24h keeps
// the upstream string form (e.g. "-6.20%"); consumers parse it leniently.
type MarketSnapshot struct {
	CurrentPrice     float64 `json:"current_price"`
	PriceChange24h   float64 `json:"price_change_24h"`
	ChangePercent24h string  `json:"change_percent_24h"`
}

// Relationship is a directed, typed edge between two institutions. The
// (Source, Target, Type) triple is its identity in the graph store.
type Relationship struct {
	Source string `json:"source_entity"`
	Target string `json:"target_entity"`
	Type   string `json:"relationship_type"`
}

// AnalysisRecord is the canonical structured payload recovered from model
// output. Every field is defaulted at the normalizer boundary; Relationships
// is empty but never nil.
type AnalysisRecord struct {
	CompanyName       string          `json:"company_name"`
	Ticker            string          `json:"ticker"`
	Summary           string          `json:"summary"`
	DirectImpact      string          `json:"direct_impact"`
	IndirectImpact    string          `json:"indirect_impact"`
	MarketDataSummary string          `json:"market_data_summary"`
	MarketImpactScore int             `json:"market_impact_score"`
	Relationships     []Relationship  `json:"relationships"`
	News              []NewsItem      `json:"news_articles,omitempty"`
	Market            *MarketSnapshot `json:"market_snapshot,omitempty"`
}

// RiskReport is the derived score/summary pair for a company at a point in
// time. Recomputed every cycle, never persisted.
type RiskReport struct {
	Company   string `json:"company"`
	RiskScore int    `json:"risk_score"`
	Summary   string `json:"summary"`
}

// GraphNode and GraphEdge form the wire shape of a full-graph snapshot,
// consumed directly by the vis-network frontend.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type GraphEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

type GraphSnapshot struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// ConditionReport is the model-generated assessment of a company's current
// condition.
type ConditionReport struct {
	OverallCondition string `json:"overall_condition"`
	ImpactAnalysis   string `json:"impact_analysis"`
	Recommendations  string `json:"recommendations"`
}

// ScenarioResult is the model-generated outcome of a what-if simulation.
type ScenarioResult struct {
	PredictedRiskScore int    `json:"predicted_risk_score"`
	PotentialImpact    string `json:"potential_impact"`
	SuggestedActions   string `json:"suggested_actions"`
}

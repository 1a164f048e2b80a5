// Package graph projects analysis records into a persistent property graph
// of institutions and typed, directed relationships.
package graph

import (
	"context"
	"fmt"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
)

// Store is the idempotent key-based upsert surface over any graph backend.
// Both upserts are get-or-create: re-submitting an existing key must not
// create a duplicate, and must be atomic relative to that key under
// concurrent calls.
type Store interface {
	UpsertInstitution(ctx context.Context, name string) error
	UpsertRelationship(ctx context.Context, source, target, relType string) error
	Snapshot(ctx context.Context) (domain.GraphSnapshot, error)
}

// WriteError wraps a store failure. Writes are retried on the next
// orchestration cycle, never in-process; idempotent upserts make partial
// progress safe to repeat.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("graph write failed (%s)", e.Op)
	}
	return fmt.Sprintf("graph write failed (%s): %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Sync owns the durable projection of records into a Store.
type Sync struct {
	store Store
	log   *logger.Logger
}

func NewSync(store Store, log *logger.Logger) *Sync {
	return &Sync{store: store, log: log.With("service", "GraphSync")}
}

// Ingest upserts the record's company node first, so a company with zero
// relationships still appears in the graph, then upserts each relationship's
// endpoints and edge. A failed relationship is logged and skipped; the rest
// of the record still lands.
func (s *Sync) Ingest(ctx context.Context, rec domain.AnalysisRecord) error {
	if rec.CompanyName != "" {
		if err := s.store.UpsertInstitution(ctx, rec.CompanyName); err != nil {
			return &WriteError{Op: "upsert company node", Err: err}
		}
	}

	var failed int
	for _, rel := range rec.Relationships {
		if err := s.ingestRelationship(ctx, rel); err != nil {
			failed++
			s.log.Warn("relationship ingest failed, continuing",
				"source", rel.Source, "target", rel.Target, "type", rel.Type, "error", err)
		}
	}

	if failed > 0 {
		return &WriteError{Op: fmt.Sprintf("ingest %d of %d relationships", failed, len(rec.Relationships)), Err: nil}
	}
	return nil
}

// ingestRelationship guarantees both endpoint nodes exist before the edge is
// created, so a store failure never leaves an edge referencing a missing
// node.
func (s *Sync) ingestRelationship(ctx context.Context, rel domain.Relationship) error {
	if err := s.store.UpsertInstitution(ctx, rel.Source); err != nil {
		return fmt.Errorf("upsert source node: %w", err)
	}
	if err := s.store.UpsertInstitution(ctx, rel.Target); err != nil {
		return fmt.Errorf("upsert target node: %w", err)
	}
	if err := s.store.UpsertRelationship(ctx, rel.Source, rel.Target, rel.Type); err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	return nil
}

// Snapshot answers the full-graph read query for visualization.
func (s *Sync) Snapshot(ctx context.Context) (domain.GraphSnapshot, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return domain.GraphSnapshot{}, &WriteError{Op: "snapshot", Err: err}
	}
	return snap, nil
}

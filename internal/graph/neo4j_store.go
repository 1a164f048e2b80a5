package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/finsignal/riskgraph-backend/internal/domain"
	"github.com/finsignal/riskgraph-backend/internal/platform/logger"
	"github.com/finsignal/riskgraph-backend/internal/platform/neo4jdb"
)

// Neo4jStore persists the graph as (:Institution {name}) nodes and directed
// [:RELATIONSHIP {type}] edges. MERGE gives the transactional
// match-or-insert the Store contract requires.
type Neo4jStore struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewNeo4jStore(client *neo4jdb.Client, log *logger.Logger) (*Neo4jStore, error) {
	if client == nil || client.Driver == nil {
		return nil, fmt.Errorf("neo4j store: client required")
	}
	store := &Neo4jStore{client: client, log: log.With("store", "Neo4jGraph")}
	if err := store.ensureSchema(context.Background()); err != nil {
		log.Warn("neo4j schema init failed (continuing)", "error", err)
	}
	return store, nil
}

// ensureSchema installs the uniqueness constraint backing atomic
// get-or-create by name. Best-effort; may fail for restricted users.
func (s *Neo4jStore) ensureSchema(ctx context.Context) error {
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	res, err := session.Run(ctx, `CREATE CONSTRAINT institution_name_unique IF NOT EXISTS FOR (i:Institution) REQUIRE i.name IS UNIQUE`, nil)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}

func (s *Neo4jStore) UpsertInstitution(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("institution name required")
	}
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MERGE (i:Institution {name: $name}) RETURN i.name`, map[string]any{"name": name})
		if err != nil {
			return nil, err
		}
		return nil, consume(ctx, res)
	})
	return err
}

func (s *Neo4jStore) UpsertRelationship(ctx context.Context, source, target, relType string) error {
	if source == "" || target == "" || relType == "" {
		return fmt.Errorf("relationship requires source, target, and type")
	}
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// MATCH, not MERGE, on the endpoints: the edge must never
		// conjure a node that was not upserted first.
		res, err := tx.Run(ctx, `
MATCH (a:Institution {name: $source})
MATCH (b:Institution {name: $target})
MERGE (a)-[r:RELATIONSHIP {type: $type}]->(b)
RETURN count(r) AS created
`, map[string]any{"source": source, "target": target, "type": relType})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		created, _ := rec.Get("created")
		if n, ok := created.(int64); ok && n == 0 {
			return nil, fmt.Errorf("endpoints %q -> %q not found", source, target)
		}
		return nil, nil
	})
	return err
}

func (s *Neo4jStore) Snapshot(ctx context.Context) (domain.GraphSnapshot, error) {
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
MATCH (n:Institution)
OPTIONAL MATCH (n)-[r:RELATIONSHIP]->(m:Institution)
RETURN n.name AS source, m.name AS target, r.type AS type
`, nil)
		if err != nil {
			return nil, err
		}

		snap := domain.GraphSnapshot{Nodes: []domain.GraphNode{}, Edges: []domain.GraphEdge{}}
		seen := map[string]struct{}{}
		addNode := func(name string) {
			if _, ok := seen[name]; ok {
				return
			}
			seen[name] = struct{}{}
			snap.Nodes = append(snap.Nodes, domain.GraphNode{ID: name, Label: name})
		}

		for res.Next(ctx) {
			rec := res.Record()
			source := stringValue(rec, "source")
			if source == "" {
				continue
			}
			addNode(source)

			target := stringValue(rec, "target")
			relType := stringValue(rec, "type")
			if target == "" || relType == "" {
				continue
			}
			// Edge endpoints are always present in Nodes, even when
			// the target row never appeared on its own.
			addNode(target)
			snap.Edges = append(snap.Edges, domain.GraphEdge{From: source, To: target, Label: relType})
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return snap, nil
	})
	if err != nil {
		return domain.GraphSnapshot{}, err
	}
	return out.(domain.GraphSnapshot), nil
}

func consume(ctx context.Context, res neo4j.ResultWithContext) error {
	_, err := res.Consume(ctx)
	return err
}

func stringValue(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

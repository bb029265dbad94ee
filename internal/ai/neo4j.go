package ai

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jSink merges extracted graphs into Neo4j. Entities are keyed by owner
// and name, so saving the same graph twice changes nothing.
type Neo4jSink struct {
	driver   neo4j.DriverWithContext
	database string
}

func NewNeo4jSink(ctx context.Context, uri, user, password string) (*Neo4jSink, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("error creating neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("error connecting to neo4j: %w", err)
	}
	return &Neo4jSink{driver: driver, database: "neo4j"}, nil
}

func (s *Neo4jSink) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

const (
	mergeEntities = `
		UNWIND $entities AS e
		MERGE (n:Entity {owner: $owner, name: e.name})
		SET n.type = e.type`
	mergeRelationships = `
		UNWIND $relationships AS r
		MATCH (a:Entity {owner: $owner, name: r.from})
		MATCH (b:Entity {owner: $owner, name: r.to})
		MERGE (a)-[rel:RELATED {type: r.type}]->(b)`
)

func (s *Neo4jSink) SaveGraph(ctx context.Context, userID string, g *Graph) error {
	entities := make([]any, 0, len(g.Entities))
	for _, e := range g.Entities {
		entities = append(entities, map[string]any{"name": e.Name, "type": e.Type})
	}
	relationships := make([]any, 0, len(g.Relationships))
	for _, r := range g.Relationships {
		relationships = append(relationships, map[string]any{"from": r.From, "to": r.To, "type": r.Type})
	}

	for _, stmt := range []struct {
		query  string
		params map[string]any
	}{
		{mergeEntities, map[string]any{"owner": userID, "entities": entities}},
		{mergeRelationships, map[string]any{"owner": userID, "relationships": relationships}},
	} {
		_, err := neo4j.ExecuteQuery(ctx, s.driver, stmt.query, stmt.params,
			neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(s.database))
		if err != nil {
			return fmt.Errorf("error writing graph: %w", err)
		}
	}
	return nil
}

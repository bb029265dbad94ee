package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
)

var ErrNoGraph = errors.New("model output contains no graph")

const extractPrompt = `Extract the entities and relationships mentioned in the text below.
Return only JSON of the form
{"entities": [{"name": string, "type": string}],
 "relationships": [{"from": string, "to": string, "type": string}]}.
Relationship "from" and "to" must be entity names.

Text:
`

type Entity struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Relationship struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

type Graph struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// GraphSink stores an extracted graph.
type GraphSink interface {
	SaveGraph(ctx context.Context, userID string, g *Graph) error
}

type Extractor struct {
	gen  Generator
	sink GraphSink
	log  *slog.Logger
}

func NewExtractor(gen Generator, sink GraphSink, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{gen: gen, sink: sink, log: logger.With("component", "extractor")}
}

// Extract asks the model for the entities in text and hands the result to
// the sink. A nil sink only returns the graph.
func (e *Extractor) Extract(ctx context.Context, userID, text string) (*Graph, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text is required")
	}
	raw, err := e.gen.Generate(ctx, extractPrompt+text, nil, "")
	if err != nil {
		return nil, err
	}
	graph, err := ParseGraph(raw)
	if err != nil {
		return nil, err
	}
	if e.sink != nil {
		if err := e.sink.SaveGraph(ctx, userID, graph); err != nil {
			return nil, fmt.Errorf("error saving graph: %w", err)
		}
	}
	e.log.Debug("graph extracted", "entities", len(graph.Entities), "relationships", len(graph.Relationships))
	return graph, nil
}

// ParseGraph decodes the model output and drops relationships whose ends
// are not among the entities.
func ParseGraph(raw string) (*Graph, error) {
	body := extractJSON(raw, '{', '}')
	var g Graph
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		if err := json.Unmarshal([]byte(normalizeQuotes(body)), &g); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoGraph, err)
		}
	}

	known := map[string]bool{}
	entities := g.Entities[:0]
	for _, ent := range g.Entities {
		ent.Name = strings.TrimSpace(ent.Name)
		if ent.Name == "" || known[ent.Name] {
			continue
		}
		known[ent.Name] = true
		entities = append(entities, ent)
	}
	g.Entities = entities

	relationships := g.Relationships[:0]
	for _, rel := range g.Relationships {
		rel.From, rel.To = strings.TrimSpace(rel.From), strings.TrimSpace(rel.To)
		if !known[rel.From] || !known[rel.To] {
			continue
		}
		if rel.Type == "" {
			rel.Type = "RELATED_TO"
		}
		relationships = append(relationships, rel)
	}
	g.Relationships = relationships
	return &g, nil
}

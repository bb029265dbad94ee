package ai

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	output string
	err    error
	prompt string
	image  []byte
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, image []byte, _ string) (string, error) {
	g.prompt, g.image = prompt, image
	return g.output, g.err
}

type recordingGraphSink struct {
	owner string
	graph *Graph
}

func (s *recordingGraphSink) SaveGraph(_ context.Context, userID string, g *Graph) error {
	s.owner, s.graph = userID, g
	return nil
}

func TestParseReceiptItems(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		count int
	}{
		{"plain", `[{"category":"Food","amount":12.5,"note":"bread, milk"}]`, 1},
		{"fenced", "```json\n[{\"category\":\"Food\",\"amount\":\"3\",\"note\":\"\"},{\"category\":\"Transport\",\"amount\":2,\"note\":\"bus\"}]\n```", 2},
		{"single quotes", `Here you go: [{'category':'Home','amount':40,'note':'lamp'}]`, 1},
		{"smart quotes", `[{“category”:“Health”,“amount”:9.99,“note”:“pills”}]`, 1},
		{"bad amounts dropped", `[{"category":"Food","amount":"n/a"},{"category":"Food","amount":-1},{"category":"Food","amount":5}]`, 1},
		{"garbage", `I could not read this receipt.`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := ParseReceiptItems(tc.raw)
			assert.NotNil(t, items)
			assert.Len(t, items, tc.count)
		})
	}
}

func TestParseReceiptItemsKeepsExactAmounts(t *testing.T) {
	items := ParseReceiptItems(`[{"category":" ","amount":"12.50","note":" milk "}]`)
	require.Len(t, items, 1)
	assert.Equal(t, "12.5", items[0].Amount.String())
	assert.Equal(t, "Other", items[0].Category)
	assert.Equal(t, "milk", items[0].Note)
}

func TestReceiptParser(t *testing.T) {
	gen := &fakeGenerator{output: `[{"category":"Food","amount":7,"note":"apples"}]`}
	items, err := NewReceiptParser(gen, nil).Parse(context.Background(), []byte{0xFF, 0xD8}, "image/jpeg")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []byte{0xFF, 0xD8}, gen.image)

	gen.err = errors.New("quota exceeded")
	_, err = NewReceiptParser(gen, nil).Parse(context.Background(), nil, "")
	assert.Error(t, err)
}

func TestParseGraph(t *testing.T) {
	raw := "```json\n" + `{
		"entities": [{"name":"Anna","type":"Person"},{"name":"Anna","type":"Person"},{"name":"Belarusbank","type":"Bank"}],
		"relationships": [{"from":"Anna","to":"Belarusbank"},{"from":"Anna","to":"Nobody","type":"KNOWS"}]
	}` + "\n```"

	g, err := ParseGraph(raw)
	require.NoError(t, err)
	assert.Len(t, g.Entities, 2)
	require.Len(t, g.Relationships, 1)
	assert.Equal(t, "RELATED_TO", g.Relationships[0].Type)

	_, err = ParseGraph("nothing here")
	assert.ErrorIs(t, err, ErrNoGraph)
}

func TestExtractorSavesGraph(t *testing.T) {
	gen := &fakeGenerator{output: `{"entities":[{"name":"Rent","type":"Expense"}],"relationships":[]}`}
	sink := &recordingGraphSink{}

	g, err := NewExtractor(gen, sink, nil).Extract(context.Background(), "user-1", "I paid rent")
	require.NoError(t, err)
	assert.Len(t, g.Entities, 1)
	assert.Equal(t, "user-1", sink.owner)
	assert.Contains(t, gen.prompt, "I paid rent")

	_, err = NewExtractor(gen, sink, nil).Extract(context.Background(), "user-1", "  ")
	assert.Error(t, err)
}

func TestNeo4jSink(t *testing.T) {
	uri := os.Getenv("TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("TEST_NEO4J_URI not set")
	}
	ctx := context.Background()
	sink, err := NewNeo4jSink(ctx, uri, os.Getenv("TEST_NEO4J_USER"), os.Getenv("TEST_NEO4J_PASSWORD"))
	require.NoError(t, err)
	defer sink.Close(ctx)

	g := &Graph{
		Entities:      []Entity{{Name: "Anna", Type: "Person"}, {Name: "Salary", Type: "Income"}},
		Relationships: []Relationship{{From: "Anna", To: "Salary", Type: "RECEIVES"}},
	}
	require.NoError(t, sink.SaveGraph(ctx, "test-owner", g))
	require.NoError(t, sink.SaveGraph(ctx, "test-owner", g))
}

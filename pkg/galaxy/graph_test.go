package galaxy

import (
	"math"
	"reflect"
	"testing"

	"github.com/promptdeck/backend/pkg/common"
)

func testPrompts() []common.Prompt {
	return []common.Prompt{
		{ID: "p1", Title: "API Client", Category: "Development", Tags: []string{"go", "api"}, UseCount: 4},
		{ID: "p2", Title: "CLI Tool", Category: "Development", Tags: []string{"go"}, IsFavorite: true},
		{ID: "p3", Title: "Email Campaign", Category: "Marketing", Tags: []string{"email"}, UseCount: 1},
	}
}

func TestBuildGraph(t *testing.T) {
	b := testBuilder(t, nil)
	nodes, edges := b.BuildGraph(testPrompts(), Filter{})

	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3 (isolated prompts stay in the graph)", len(nodes))
	}

	// p1/p2 share a category and half their tags: 0.4 + 0.5*0.5 = 0.65.
	// p3 shares nothing with either.
	if len(edges) != 1 {
		t.Fatalf("got %d edges, want 1: %#v", len(edges), edges)
	}
	e := edges[0]
	if e.From != "p1" || e.To != "p2" {
		t.Errorf("edge connects %s-%s, want p1-p2", e.From, e.To)
	}
	if math.Abs(e.Weight-0.65) > 1e-9 {
		t.Errorf("edge weight = %v, want 0.65", e.Weight)
	}
}

func TestBuildGraphThresholdIsStrict(t *testing.T) {
	prompts := []common.Prompt{
		{ID: "a", Title: "Alpha", Category: "Development"},
		{ID: "b", Title: "Beta", Category: "Development"},
	}

	// The pair scores exactly 0.40; a threshold of 0.40 must not connect it.
	atBoundary := testBuilder(t, func(c *Config) { c.Threshold = 0.40 })
	if _, edges := atBoundary.BuildGraph(prompts, Filter{}); len(edges) != 0 {
		t.Errorf("score equal to threshold produced %d edges, want 0", len(edges))
	}

	below := testBuilder(t, func(c *Config) { c.Threshold = 0.39 })
	if _, edges := below.BuildGraph(prompts, Filter{}); len(edges) != 1 {
		t.Errorf("score above threshold produced %d edges, want 1", len(edges))
	}
}

func TestBuildGraphThresholdOneDisconnectsEverything(t *testing.T) {
	p := common.Prompt{ID: "a", Title: "Same", Category: "Same", Tags: []string{"same"}}
	q := p
	q.ID = "b"

	b := testBuilder(t, func(c *Config) { c.Threshold = 1.0 })
	_, edges := b.BuildGraph([]common.Prompt{p, q}, Filter{})
	if len(edges) != 0 {
		t.Errorf("identical prompts at threshold 1.0 produced %d edges, want 0", len(edges))
	}
}

func TestBuildGraphFilters(t *testing.T) {
	b := testBuilder(t, nil)

	nodes, _ := b.BuildGraph(testPrompts(), Filter{Category: "Development"})
	if len(nodes) != 2 {
		t.Errorf("category filter kept %d nodes, want 2", len(nodes))
	}

	nodes, _ = b.BuildGraph(testPrompts(), Filter{FavoritesOnly: true})
	if len(nodes) != 1 || nodes[0].PromptID != "p2" {
		t.Errorf("favorites filter kept %#v, want only p2", nodes)
	}
}

func TestBuildGraphEmptyAndSingle(t *testing.T) {
	b := testBuilder(t, nil)

	if nodes, edges := b.BuildGraph(nil, Filter{}); len(nodes) != 0 || len(edges) != 0 {
		t.Errorf("empty input produced nodes=%d edges=%d", len(nodes), len(edges))
	}

	nodes, edges := b.BuildGraph(testPrompts()[:1], Filter{})
	if len(nodes) != 1 || len(edges) != 0 {
		t.Errorf("single prompt produced nodes=%d edges=%d, want 1 and 0", len(nodes), len(edges))
	}
}

func TestBuildGraphDeterministicEdgeOrder(t *testing.T) {
	b := testBuilder(t, func(c *Config) { c.Threshold = 0 })
	prompts := []common.Prompt{
		{ID: "a", Title: "X", Category: "C", Tags: []string{"t"}},
		{ID: "b", Title: "X", Category: "C", Tags: []string{"t"}},
		{ID: "c", Title: "X", Category: "C", Tags: []string{"t"}},
		{ID: "d", Title: "X", Category: "C", Tags: []string{"t"}},
	}

	_, first := b.BuildGraph(prompts, Filter{})
	for i := 0; i < 10; i++ {
		if _, again := b.BuildGraph(prompts, Filter{}); !reflect.DeepEqual(first, again) {
			t.Fatalf("edge order varies between runs: %#v vs %#v", first, again)
		}
	}
}

func TestComponents(t *testing.T) {
	b := testBuilder(t, nil)
	nodes, edges := b.BuildGraph(testPrompts(), Filter{})

	got := Components(nodes, edges)
	want := [][]string{{"p1", "p2"}, {"p3"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Components() = %#v, want %#v", got, want)
	}
}

func TestComponentsNoEdges(t *testing.T) {
	nodes := []Node{{PromptID: "b"}, {PromptID: "a"}}
	got := Components(nodes, nil)
	want := [][]string{{"a"}, {"b"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Components() = %#v, want singletons %#v", got, want)
	}
}

func TestComponentsTransitive(t *testing.T) {
	nodes := []Node{{PromptID: "a"}, {PromptID: "b"}, {PromptID: "c"}}
	edges := []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}}

	got := Components(nodes, edges)
	want := [][]string{{"a", "b", "c"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Components() = %#v, want one component %#v", got, want)
	}
}

package galaxy

import (
	"math"
	"reflect"
	"testing"
)

func TestComputeLayoutDeterministicWithSeed(t *testing.T) {
	b := testBuilder(t, func(c *Config) { c.Seed = 1234 })

	first := b.Build(testPrompts(), Filter{})
	second := b.Build(testPrompts(), Filter{})
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two builds with the same seed produced different galaxies")
	}
}

func TestComputeLayoutZTracksUseCount(t *testing.T) {
	b := testBuilder(t, nil)
	galaxy := b.Build(testPrompts(), Filter{})

	z := make(map[string]float64, len(galaxy.Nodes))
	for _, n := range galaxy.Nodes {
		z[n.PromptID] = n.Z
	}

	// Use counts: p2=0, p3=1, p1=4. Higher count, strictly higher z.
	if !(z["p2"] < z["p3"] && z["p3"] < z["p1"]) {
		t.Errorf("z not monotonic in use count: p2=%v p3=%v p1=%v", z["p2"], z["p3"], z["p1"])
	}
}

func TestComputeLayoutSpreadsNodes(t *testing.T) {
	b := testBuilder(t, nil)
	galaxy := b.Build(testPrompts(), Filter{})

	for i := range galaxy.Nodes {
		for j := i + 1; j < len(galaxy.Nodes); j++ {
			a, c := galaxy.Nodes[i], galaxy.Nodes[j]
			if math.Hypot(a.X-c.X, a.Y-c.Y) < 1e-6 {
				t.Errorf("nodes %s and %s landed on the same position", a.PromptID, c.PromptID)
			}
		}
	}
}

func TestNodeSize(t *testing.T) {
	b := testBuilder(t, nil)

	tests := []struct {
		name     string
		favorite bool
		useCount int
		want     float64
	}{
		{name: "base size", favorite: false, useCount: 0, want: 10},
		{name: "usage adds half a unit per use", favorite: false, useCount: 4, want: 12},
		{name: "usage contribution is capped", favorite: false, useCount: 100, want: 20},
		{name: "favorite bonus", favorite: true, useCount: 0, want: 15},
		{name: "favorite plus capped usage", favorite: true, useCount: 100, want: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.nodeSize(tt.favorite, tt.useCount); got != tt.want {
				t.Errorf("nodeSize(%v, %d) = %v, want %v", tt.favorite, tt.useCount, got, tt.want)
			}
		})
	}
}

func TestNodeColor(t *testing.T) {
	if got := nodeColor("Development", true); got != favoriteColor {
		t.Errorf("favorite color = %q, want %q", got, favoriteColor)
	}
	if nodeColor("Development", false) != nodeColor("Development", false) {
		t.Error("same category produced different colors")
	}
	if nodeColor("Development", false) == favoriteColor {
		t.Error("non-favorite must not use the favorite color")
	}
}

func TestSpringLayoutPullsConnectedNodesCloser(t *testing.T) {
	// Two tight pairs with no cross edges: partners should end up closer
	// to each other than to members of the other pair.
	ids := []string{"a1", "a2", "b1", "b2"}
	edges := []Edge{
		{From: "a1", To: "a2", Weight: 1},
		{From: "b1", To: "b2", Weight: 1},
	}

	b := testBuilder(t, func(c *Config) { c.Seed = 7 })
	nodes := make([]Node, len(ids))
	for i, id := range ids {
		nodes[i] = Node{PromptID: id}
	}
	b.ComputeLayout(nodes, edges)

	pos := make(map[string][2]float64, len(nodes))
	for _, n := range nodes {
		pos[n.PromptID] = [2]float64{n.X, n.Y}
	}
	dist := func(p, q string) float64 {
		return math.Hypot(pos[p][0]-pos[q][0], pos[p][1]-pos[q][1])
	}

	if dist("a1", "a2") >= dist("a1", "b1") {
		t.Errorf("connected pair further apart (%v) than unconnected (%v)",
			dist("a1", "a2"), dist("a1", "b1"))
	}
	if dist("b1", "b2") >= dist("b1", "a2") {
		t.Errorf("connected pair further apart (%v) than unconnected (%v)",
			dist("b1", "b2"), dist("b1", "a2"))
	}
}

package galaxy

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	nodes := []Node{
		{PromptID: "p1", Category: "Development"},
		{PromptID: "p2", Category: "Development"},
		{PromptID: "p3", Category: "Marketing"},
	}
	edges := []Edge{
		{From: "p1", To: "p2", Weight: 0.65},
		{From: "p1", To: "p3", Weight: 0.15},
	}
	components := [][]string{{"p1", "p2", "p3"}}

	got := Summarize(nodes, edges, components)

	if got.TotalPrompts != 3 || got.EdgeCount != 2 || got.ComponentCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 3/2/1",
			got.TotalPrompts, got.EdgeCount, got.ComponentCount)
	}
	if math.Abs(got.AverageSimilarity-0.40) > 1e-9 {
		t.Errorf("AverageSimilarity = %v, want 0.40", got.AverageSimilarity)
	}
	// Development touches three edge endpoints, Marketing one.
	if got.MostConnectedCategory != "Development" {
		t.Errorf("MostConnectedCategory = %q, want Development", got.MostConnectedCategory)
	}
}

func TestSummarizeNoEdges(t *testing.T) {
	nodes := []Node{{PromptID: "p1", Category: "General"}}
	got := Summarize(nodes, nil, [][]string{{"p1"}})

	if got.AverageSimilarity != 0 {
		t.Errorf("AverageSimilarity = %v, want exactly 0 when no edges exist", got.AverageSimilarity)
	}
	if got.MostConnectedCategory != "" {
		t.Errorf("MostConnectedCategory = %q, want empty", got.MostConnectedCategory)
	}
}

func TestSummarizeDegreeTieBreaksLexicographically(t *testing.T) {
	nodes := []Node{
		{PromptID: "w1", Category: "Writing"},
		{PromptID: "w2", Category: "Writing"},
		{PromptID: "d1", Category: "Development"},
		{PromptID: "d2", Category: "Development"},
	}
	edges := []Edge{
		{From: "w1", To: "w2", Weight: 0.5},
		{From: "d1", To: "d2", Weight: 0.5},
	}

	got := Summarize(nodes, edges, [][]string{{"d1", "d2"}, {"w1", "w2"}})
	if got.MostConnectedCategory != "Development" {
		t.Errorf("MostConnectedCategory = %q, want Development on a degree tie", got.MostConnectedCategory)
	}
}

func TestSummarizeEmptyGraph(t *testing.T) {
	got := Summarize(nil, nil, nil)
	want := Stats{}
	if got != want {
		t.Errorf("Summarize(nil) = %#v, want zero value", got)
	}
}

package galaxy

// Stats summarizes a built galaxy for the sidebar of the visualization.
// JSON keys match the export format the web UI already consumes.
type Stats struct {
	TotalPrompts          int     `json:"total_prompts"`
	EdgeCount             int     `json:"total_connections"`
	ComponentCount        int     `json:"cluster_count"`
	AverageSimilarity     float64 `json:"avg_similarity"`
	MostConnectedCategory string  `json:"most_connected_category"`
}

// Summarize derives the headline numbers of a graph. With no edges the
// average similarity is 0 and the most connected category is empty; ties
// on degree resolve to the lexicographically smaller category name so the
// result is stable.
func Summarize(nodes []Node, edges []Edge, components [][]string) Stats {
	stats := Stats{
		TotalPrompts:   len(nodes),
		EdgeCount:      len(edges),
		ComponentCount: len(components),
	}
	if len(edges) == 0 {
		return stats
	}

	total := 0.0
	for _, e := range edges {
		total += e.Weight
	}
	stats.AverageSimilarity = total / float64(len(edges))

	categoryByID := make(map[string]string, len(nodes))
	for _, n := range nodes {
		categoryByID[n.PromptID] = n.Category
	}
	degree := make(map[string]int)
	for _, e := range edges {
		degree[categoryByID[e.From]]++
		degree[categoryByID[e.To]]++
	}
	for category, d := range degree {
		best := degree[stats.MostConnectedCategory]
		if stats.MostConnectedCategory == "" || d > best ||
			(d == best && category < stats.MostConnectedCategory) {
			stats.MostConnectedCategory = category
		}
	}
	return stats
}

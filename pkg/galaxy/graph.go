package galaxy

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/promptdeck/backend/pkg/common"
)

// BuildGraph scores every prompt pair and returns the nodes plus the edges
// whose similarity strictly exceeds the configured threshold. Prompts with
// no connections stay in the node list as isolated stars. Positions are not
// assigned here; see ComputeLayout.
//
// The pairwise pass is O(n²); rows are scored in parallel, bounded by the
// configured parallelism, and reassembled in input order so the edge list
// is deterministic for a given prompt ordering.
func (b *Builder) BuildGraph(prompts []common.Prompt, filter Filter) ([]Node, []Edge) {
	filtered := applyFilter(prompts, filter)

	nodes := make([]Node, len(filtered))
	for i, p := range filtered {
		nodes[i] = Node{
			PromptID:   p.ID,
			Label:      p.Title,
			Category:   p.Category,
			Tags:       p.Tags,
			IsFavorite: p.IsFavorite,
			UseCount:   p.UseCount,
			Size:       b.nodeSize(p.IsFavorite, p.UseCount),
			Color:      nodeColor(p.Category, p.IsFavorite),
		}
	}

	rows := make([][]Edge, len(filtered))
	var eg errgroup.Group
	eg.SetLimit(b.cfg.Parallelism)
	for i := range filtered {
		eg.Go(func() error {
			for j := i + 1; j < len(filtered); j++ {
				weight := b.Similarity(filtered[i], filtered[j])
				if weight > b.cfg.Threshold {
					rows[i] = append(rows[i], Edge{
						From:   filtered[i].ID,
						To:     filtered[j].ID,
						Weight: weight,
					})
				}
			}
			return nil
		})
	}
	_ = eg.Wait() // workers never return an error

	var edges []Edge
	for _, row := range rows {
		edges = append(edges, row...)
	}
	return nodes, edges
}

func applyFilter(prompts []common.Prompt, filter Filter) []common.Prompt {
	if filter.Category == "" && !filter.FavoritesOnly {
		return prompts
	}
	filtered := make([]common.Prompt, 0, len(prompts))
	for _, p := range prompts {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.FavoritesOnly && !p.IsFavorite {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

// Components partitions the graph into its connected clusters using
// union-find. Every node appears in exactly one component; isolated nodes
// form singletons. Members are sorted by prompt ID and components by their
// first member, so the output is stable regardless of edge order.
func Components(nodes []Node, edges []Edge) [][]string {
	if len(nodes) == 0 {
		return nil
	}

	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.PromptID] = i
	}

	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	for _, e := range edges {
		from, ok := index[e.From]
		if !ok {
			continue
		}
		to, ok := index[e.To]
		if !ok {
			continue
		}
		parent[find(from)] = find(to)
	}

	groups := make(map[int][]string)
	for i, n := range nodes {
		root := find(i)
		groups[root] = append(groups[root], n.PromptID)
	}

	components := make([][]string, 0, len(groups))
	for _, members := range groups {
		sort.Strings(members)
		components = append(components, members)
	}
	sort.Slice(components, func(i, j int) bool {
		return components[i][0] < components[j][0]
	})
	return components
}

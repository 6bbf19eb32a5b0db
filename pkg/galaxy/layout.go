package galaxy

import (
	"math"
	"math/rand"
	"time"
)

// LayoutStrategy produces 2D positions for the galaxy plane. The z axis is
// not part of the strategy; it always encodes use count (see ComputeLayout)
// so height stays meaningful no matter how the plane is embedded.
type LayoutStrategy interface {
	Positions(ids []string, edges []Edge, rng *rand.Rand) map[string][2]float64
}

// Vertical spread per use_count unit and the jitter band around it. The
// spacing must stay larger than the full jitter band so nodes with more
// uses always sit strictly above nodes with fewer.
const (
	zSpacing   = 1.5
	zJitter    = 0.5
	layoutArea = 100.0
)

// ComputeLayout assigns X/Y from the configured layout strategy and Z from
// use count plus a small jitter that keeps co-counted nodes from stacking.
// A fixed Seed makes the whole layout reproducible; seed 0 draws a fresh
// one per call.
func (b *Builder) ComputeLayout(nodes []Node, edges []Edge) {
	if len(nodes) == 0 {
		return
	}

	seed := b.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.PromptID
	}
	positions := b.layout.Positions(ids, edges, rng)

	for i := range nodes {
		pos := positions[nodes[i].PromptID]
		nodes[i].X = pos[0]
		nodes[i].Y = pos[1]
		jitter := (rng.Float64() - 0.5) * zJitter * 2
		nodes[i].Z = float64(nodes[i].UseCount)*zSpacing + jitter
	}
}

// SpringLayout is a Fruchterman-Reingold force-directed embedding: nodes
// repel each other, edges pull their endpoints together proportionally to
// their weight, and a cooling temperature caps displacement per iteration.
type SpringLayout struct {
	Iterations int
	Area       float64
}

// DefaultSpringLayout returns the embedding used when no strategy is
// injected. 50 iterations settles graphs of a few hundred prompts.
func DefaultSpringLayout() *SpringLayout {
	return &SpringLayout{Iterations: 50, Area: layoutArea}
}

func (s *SpringLayout) Positions(ids []string, edges []Edge, rng *rand.Rand) map[string][2]float64 {
	n := len(ids)
	positions := make(map[string][2]float64, n)
	if n == 0 {
		return positions
	}
	side := math.Sqrt(s.Area)
	if n == 1 {
		positions[ids[0]] = [2]float64{0, 0}
		return positions
	}

	x := make([]float64, n)
	y := make([]float64, n)
	for i := range ids {
		x[i] = (rng.Float64() - 0.5) * side
		y[i] = (rng.Float64() - 0.5) * side
	}

	index := make(map[string]int, n)
	for i, id := range ids {
		index[id] = i
	}

	k := math.Sqrt(s.Area / float64(n))
	temperature := side / 10

	dispX := make([]float64, n)
	dispY := make([]float64, n)
	for iter := 0; iter < s.Iterations; iter++ {
		for i := range dispX {
			dispX[i] = 0
			dispY[i] = 0
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := x[i] - x[j]
				dy := y[i] - y[j]
				dist := math.Hypot(dx, dy)
				if dist < 1e-9 {
					// Coincident nodes get a tiny deterministic nudge.
					dx, dy, dist = 1e-4, 1e-4, math.Sqrt2*1e-4
				}
				force := k * k / dist
				dispX[i] += dx / dist * force
				dispY[i] += dy / dist * force
				dispX[j] -= dx / dist * force
				dispY[j] -= dy / dist * force
			}
		}

		for _, e := range edges {
			i, ok := index[e.From]
			if !ok {
				continue
			}
			j, ok := index[e.To]
			if !ok {
				continue
			}
			dx := x[i] - x[j]
			dy := y[i] - y[j]
			dist := math.Hypot(dx, dy)
			if dist < 1e-9 {
				continue
			}
			force := dist * dist / k * e.Weight
			dispX[i] -= dx / dist * force
			dispY[i] -= dy / dist * force
			dispX[j] += dx / dist * force
			dispY[j] += dy / dist * force
		}

		for i := 0; i < n; i++ {
			disp := math.Hypot(dispX[i], dispY[i])
			if disp < 1e-9 {
				continue
			}
			limited := math.Min(disp, temperature)
			x[i] += dispX[i] / disp * limited
			y[i] += dispY[i] / disp * limited
		}

		temperature *= 0.95
	}

	for i, id := range ids {
		positions[id] = [2]float64{x[i], y[i]}
	}
	return positions
}

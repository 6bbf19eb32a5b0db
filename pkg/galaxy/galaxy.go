// Package galaxy builds the prompt similarity graph behind the 3D galaxy
// view. Prompts become nodes, pairs of sufficiently similar prompts become
// weighted edges, connected components become clusters, and a force-directed
// layout assigns render coordinates.
//
// The package is pure: a Builder holds only validated configuration and all
// methods are safe for concurrent use as long as the prompt slice passed in
// is an immutable snapshot per call.
package galaxy

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/promptdeck/backend/pkg/common"
)

// Config carries the tunable constants of the similarity scoring and the
// node sizing formula. The defaults are the documented behavior; they are
// configuration so deployments can tune them without code changes.
type Config struct {
	// Similarity weights, must sum to 1.0.
	CategoryWeight float64
	TagWeight      float64
	TitleWeight    float64

	// Threshold is the strict lower bound a pairwise score must exceed
	// for an edge to be created. Must be in [0,1].
	Threshold float64

	// Node sizing: size = BaseSize + FavoriteBonus (favorites only)
	//            + min(use_count/2, UsageCap).
	BaseSize      float64
	FavoriteBonus float64
	UsageCap      float64

	// Seed drives the layout initialization and the z jitter.
	// Zero selects a random seed per layout; tests pass a fixed one.
	Seed int64

	// Parallelism bounds the worker count of the pairwise scoring pass.
	Parallelism int

	// Layout overrides the spring embedding; nil selects the default.
	Layout LayoutStrategy
}

// DefaultConfig returns the documented defaults: 40/50/10 weighting,
// connection threshold 0.1 and the standard node sizing constants.
func DefaultConfig() Config {
	return Config{
		CategoryWeight: 0.40,
		TagWeight:      0.50,
		TitleWeight:    0.10,
		Threshold:      0.10,
		BaseSize:       10,
		FavoriteBonus:  5,
		UsageCap:       10,
		Parallelism:    4,
	}
}

// Validate fails fast on configuration that would produce nonsensical
// scores.
func (c Config) Validate() error {
	for _, w := range []float64{c.CategoryWeight, c.TagWeight, c.TitleWeight} {
		if w < 0 || w > 1 {
			return fmt.Errorf("similarity weight %v outside [0,1]", w)
		}
	}
	sum := c.CategoryWeight + c.TagWeight + c.TitleWeight
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("similarity weights sum to %v, want 1.0", sum)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold %v outside [0,1]", c.Threshold)
	}
	if c.BaseSize < 0 || c.FavoriteBonus < 0 || c.UsageCap < 0 {
		return fmt.Errorf("node sizing constants must be non-negative")
	}
	return nil
}

// Filter narrows the prompt set before any pairwise scoring happens.
type Filter struct {
	Category      string
	FavoritesOnly bool
}

// Node is a renderable prompt in the galaxy.
type Node struct {
	PromptID   string   `json:"id"`
	Label      string   `json:"label"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	IsFavorite bool     `json:"is_favorite"`
	UseCount   int      `json:"use_count"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Size       float64  `json:"size"`
	Color      string   `json:"color"`
}

// Edge connects two similar prompts. The pair is unordered; From/To follow
// the input ordering of the prompt slice.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
}

// Galaxy is the full build result handed to the presentation layer.
type Galaxy struct {
	Nodes      []Node     `json:"nodes"`
	Edges      []Edge     `json:"edges"`
	Components [][]string `json:"components"`
	Stats      Stats      `json:"stats"`
}

// Builder computes similarity graphs under a fixed, validated Config.
type Builder struct {
	cfg    Config
	layout LayoutStrategy
}

// NewBuilder validates cfg and returns a Builder. Invalid weights or
// thresholds are a configuration error and must abort startup.
func NewBuilder(cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid galaxy config: %w", err)
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 1
	}
	layout := cfg.Layout
	if layout == nil {
		layout = DefaultSpringLayout()
	}
	return &Builder{cfg: cfg, layout: layout}, nil
}

// Config returns a copy of the builder's configuration, for deriving
// per-request builders with tuned thresholds or seeds.
func (b *Builder) Config() Config {
	return b.cfg
}

// Build runs the whole pipeline: filter, pairwise scoring, clustering,
// layout and statistics.
func (b *Builder) Build(prompts []common.Prompt, filter Filter) Galaxy {
	nodes, edges := b.BuildGraph(prompts, filter)
	components := Components(nodes, edges)
	b.ComputeLayout(nodes, edges)
	return Galaxy{
		Nodes:      nodes,
		Edges:      edges,
		Components: components,
		Stats:      Summarize(nodes, edges, components),
	}
}

var palette = []string{
	"#60A5FA", // blue
	"#A78BFA", // violet
	"#F472B6", // pink
	"#34D399", // green
	"#FBBF24", // amber
	"#F87171", // red
	"#2DD4BF", // teal
	"#FB923C", // orange
}

const favoriteColor = "#FFD700"

func (b *Builder) nodeSize(isFavorite bool, useCount int) float64 {
	size := b.cfg.BaseSize
	if isFavorite {
		size += b.cfg.FavoriteBonus
	}
	return size + math.Min(float64(useCount)/2, b.cfg.UsageCap)
}

func nodeColor(category string, isFavorite bool) string {
	if isFavorite {
		return favoriteColor
	}
	h := fnv.New32a()
	h.Write([]byte(category))
	return palette[int(h.Sum32())%len(palette)]
}

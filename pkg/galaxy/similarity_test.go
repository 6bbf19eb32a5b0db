package galaxy

import (
	"math"
	"testing"

	"github.com/promptdeck/backend/pkg/common"
)

func testBuilder(t *testing.T, mutate func(*Config)) *Builder {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Seed = 42
	if mutate != nil {
		mutate(&cfg)
	}
	b, err := NewBuilder(cfg)
	if err != nil {
		t.Fatalf("NewBuilder() returned error: %v", err)
	}
	return b
}

func TestSimilarity(t *testing.T) {
	b := testBuilder(t, nil)

	tests := []struct {
		name string
		a, b common.Prompt
		want float64
	}{
		{
			name: "category match only",
			a:    common.Prompt{Category: "Development", Title: "Alpha"},
			b:    common.Prompt{Category: "Development", Title: "Beta"},
			want: 0.40,
		},
		{
			name: "identical prompts score one",
			a:    common.Prompt{Category: "Writing", Title: "Blog Outline", Tags: []string{"blog", "seo"}},
			b:    common.Prompt{Category: "Writing", Title: "Blog Outline", Tags: []string{"blog", "seo"}},
			want: 1.0,
		},
		{
			name: "nothing shared",
			a:    common.Prompt{Category: "Development", Title: "API Client", Tags: []string{"go"}},
			b:    common.Prompt{Category: "Marketing", Title: "Email Campaign", Tags: []string{"email"}},
			want: 0,
		},
		{
			name: "partial tag overlap",
			a:    common.Prompt{Category: "Development", Title: "Alpha", Tags: []string{"go", "api"}},
			b:    common.Prompt{Category: "Marketing", Title: "Beta", Tags: []string{"go", "cli"}},
			want: 0.50 / 3,
		},
		{
			name: "empty tag sets contribute nothing",
			a:    common.Prompt{Category: "General", Title: "Alpha"},
			b:    common.Prompt{Category: "Other", Title: "Alpha"},
			want: 0.10,
		},
		{
			name: "title words are case and punctuation insensitive",
			a:    common.Prompt{Category: "A", Title: "Code Review"},
			b:    common.Prompt{Category: "B", Title: "code-review helper"},
			want: 0.10 * 2 / 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Similarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	b := testBuilder(t, nil)
	p1 := common.Prompt{Category: "Development", Title: "API Client", Tags: []string{"go", "api"}}
	p2 := common.Prompt{Category: "Development", Title: "CLI Tool", Tags: []string{"go"}}

	if got, want := b.Similarity(p1, p2), b.Similarity(p2, p1); got != want {
		t.Errorf("Similarity not symmetric: %v vs %v", got, want)
	}
}

func TestSimilarityTagsNormalized(t *testing.T) {
	b := testBuilder(t, nil)
	p1 := common.Prompt{Category: "A", Title: "X", Tags: []string{"Go", " api "}}
	p2 := common.Prompt{Category: "B", Title: "Y", Tags: []string{"go", "api"}}

	got := b.Similarity(p1, p2)
	if math.Abs(got-0.50) > 1e-9 {
		t.Errorf("Similarity() = %v, want 0.5 with normalized tags", got)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: nil, wantErr: false},
		{
			name:    "weights not summing to one",
			mutate:  func(c *Config) { c.TagWeight = 0.40 },
			wantErr: true,
		},
		{
			name:    "negative weight",
			mutate:  func(c *Config) { c.TitleWeight = -0.10; c.TagWeight = 0.70 },
			wantErr: true,
		},
		{
			name:    "threshold above one",
			mutate:  func(c *Config) { c.Threshold = 1.5 },
			wantErr: true,
		},
		{
			name:    "negative base size",
			mutate:  func(c *Config) { c.BaseSize = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewBuilderRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Threshold = -0.1
	if _, err := NewBuilder(cfg); err == nil {
		t.Fatal("NewBuilder() accepted an invalid threshold")
	}
}

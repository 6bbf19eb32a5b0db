package store

import (
	"context"
	"fmt"
)

// LibraryStats are the headline numbers for the dashboard.
type LibraryStats struct {
	TotalPrompts   int    `json:"total_prompts"`
	TotalFavorites int    `json:"total_favorites"`
	TotalUses      int    `json:"total_uses"`
	CategoryCount  int    `json:"category_count"`
	TagCount       int    `json:"tag_count"`
	MostUsedID     string `json:"most_used_id,omitempty"`
	MostUsedTitle  string `json:"most_used_title,omitempty"`
}

// Facets are category and tag counts for the current search, used to
// render filter chips with result counts.
type Facets struct {
	Categories map[string]int `json:"categories"`
	Tags       map[string]int `json:"tags"`
}

// LibraryStats aggregates library-wide totals in a single round trip plus
// one lookup for the most used prompt.
func (s *Store) LibraryStats(ctx context.Context) (LibraryStats, error) {
	var stats LibraryStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			count(*),
			count(*) FILTER (WHERE is_favorite),
			coalesce(sum(use_count), 0),
			count(DISTINCT category),
			(SELECT count(DISTINCT tag_id) FROM prompt_tags)
		FROM prompts`).Scan(
		&stats.TotalPrompts,
		&stats.TotalFavorites,
		&stats.TotalUses,
		&stats.CategoryCount,
		&stats.TagCount,
	)
	if err != nil {
		return LibraryStats{}, fmt.Errorf("failed to load library stats: %w", err)
	}

	if stats.TotalUses > 0 {
		err = s.pool.QueryRow(ctx, `
			SELECT id, title FROM prompts
			WHERE use_count > 0
			ORDER BY use_count DESC, id
			LIMIT 1`).Scan(&stats.MostUsedID, &stats.MostUsedTitle)
		if err != nil {
			return LibraryStats{}, fmt.Errorf("failed to load most used prompt: %w", err)
		}
	}
	return stats, nil
}

// Facets counts categories and tags over the prompts matching the filter.
// Sorting and paging on the filter are ignored; facets always cover the
// whole result set.
func (s *Store) Facets(ctx context.Context, filter ListFilter) (Facets, error) {
	filter.Limit = 0
	filter.Offset = 0
	prompts, err := s.ListPrompts(ctx, filter)
	if err != nil {
		return Facets{}, err
	}

	facets := Facets{
		Categories: make(map[string]int),
		Tags:       make(map[string]int),
	}
	for _, p := range prompts {
		facets.Categories[p.Category]++
		for _, tag := range p.Tags {
			facets.Tags[tag]++
		}
	}
	return facets, nil
}

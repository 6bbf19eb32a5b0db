package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/promptdeck/backend/internal/util"
	"github.com/promptdeck/backend/pkg/common"
)

// ListFilter narrows and orders a prompt listing. Query searches title,
// content and variable names case-insensitively. Tags matches prompts
// carrying any of the given tags.
type ListFilter struct {
	Query         string
	Category      string
	Tags          []string
	FavoritesOnly bool
	SortBy        string
	SortOrder     string
	Limit         int
	Offset        int
}

var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
	"use_count":  "use_count",
}

// CreatePrompt inserts a prompt with its tags and variables. A missing ID
// is generated; timestamps are set server-side.
func (s *Store) CreatePrompt(ctx context.Context, p common.Prompt) (common.Prompt, error) {
	if p.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return common.Prompt{}, fmt.Errorf("failed to generate prompt id: %w", err)
		}
		p.ID = id
	}
	sanitizePrompt(&p)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return common.Prompt{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var createdAt, updatedAt time.Time
	err = tx.QueryRow(ctx, `
		INSERT INTO prompts (id, title, content, category, is_favorite, use_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.Title, p.Content, p.Category, p.IsFavorite, p.UseCount,
	).Scan(&createdAt, &updatedAt)
	if err != nil {
		return common.Prompt{}, fmt.Errorf("failed to insert prompt: %w", err)
	}

	if err := writeTags(ctx, tx, p.ID, p.Tags); err != nil {
		return common.Prompt{}, err
	}
	if err := writeVariables(ctx, tx, p.ID, p.Variables); err != nil {
		return common.Prompt{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return common.Prompt{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	p.CreatedAt = formatTime(createdAt)
	p.UpdatedAt = formatTime(updatedAt)
	return p, nil
}

// GetPrompt loads a single prompt with tags and variables.
func (s *Store) GetPrompt(ctx context.Context, id string) (common.Prompt, error) {
	var (
		p                    common.Prompt
		createdAt, updatedAt time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, content, category, is_favorite, use_count, created_at, updated_at
		FROM prompts WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.IsFavorite, &p.UseCount, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.Prompt{}, ErrNotFound
	}
	if err != nil {
		return common.Prompt{}, fmt.Errorf("failed to load prompt: %w", err)
	}
	p.CreatedAt = formatTime(createdAt)
	p.UpdatedAt = formatTime(updatedAt)

	prompts := []common.Prompt{p}
	if err := s.attachRelations(ctx, prompts); err != nil {
		return common.Prompt{}, err
	}
	return prompts[0], nil
}

// UpdatePrompt replaces a prompt's content, metadata, tags and variables.
// The use count and creation time are preserved.
func (s *Store) UpdatePrompt(ctx context.Context, p common.Prompt) (common.Prompt, error) {
	sanitizePrompt(&p)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return common.Prompt{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		createdAt, updatedAt time.Time
		useCount             int
		isFavorite           bool
	)
	err = tx.QueryRow(ctx, `
		UPDATE prompts
		SET title = $2, content = $3, category = $4, updated_at = now()
		WHERE id = $1
		RETURNING is_favorite, use_count, created_at, updated_at`,
		p.ID, p.Title, p.Content, p.Category,
	).Scan(&isFavorite, &useCount, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.Prompt{}, ErrNotFound
	}
	if err != nil {
		return common.Prompt{}, fmt.Errorf("failed to update prompt: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM prompt_tags WHERE prompt_id = $1`, p.ID); err != nil {
		return common.Prompt{}, fmt.Errorf("failed to clear tags: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM variables WHERE prompt_id = $1`, p.ID); err != nil {
		return common.Prompt{}, fmt.Errorf("failed to clear variables: %w", err)
	}
	if err := writeTags(ctx, tx, p.ID, p.Tags); err != nil {
		return common.Prompt{}, err
	}
	if err := writeVariables(ctx, tx, p.ID, p.Variables); err != nil {
		return common.Prompt{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return common.Prompt{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	p.IsFavorite = isFavorite
	p.UseCount = useCount
	p.CreatedAt = formatTime(createdAt)
	p.UpdatedAt = formatTime(updatedAt)
	return p, nil
}

// DeletePrompt removes a prompt; tags and variables cascade.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM prompts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prompt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPrompts returns prompts matching the filter, fully assembled.
func (s *Store) ListPrompts(ctx context.Context, filter ListFilter) ([]common.Prompt, error) {
	var (
		conditions []string
		args       []any
	)
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		pattern := arg("%" + filter.Query + "%")
		conditions = append(conditions, fmt.Sprintf(`(
			p.title ILIKE %[1]s OR p.content ILIKE %[1]s OR EXISTS (
				SELECT 1 FROM variables v WHERE v.prompt_id = p.id AND v.name ILIKE %[1]s
			))`, pattern))
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("p.category = %s", arg(filter.Category)))
	}
	if len(filter.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM prompt_tags pt
			JOIN tags t ON t.id = pt.tag_id
			WHERE pt.prompt_id = p.id AND t.name = ANY(%s))`, arg(filter.Tags)))
	}
	if filter.FavoritesOnly {
		conditions = append(conditions, "p.is_favorite")
	}

	query := `
		SELECT p.id, p.title, p.content, p.category, p.is_favorite, p.use_count, p.created_at, p.updated_at
		FROM prompts p`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY p.%s %s, p.id", column, direction)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s", arg(filter.Limit))
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %s", arg(filter.Offset))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	defer rows.Close()

	prompts := make([]common.Prompt, 0)
	for rows.Next() {
		var (
			p                    common.Prompt
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &p.Category, &p.IsFavorite, &p.UseCount, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prompt: %w", err)
		}
		p.CreatedAt = formatTime(createdAt)
		p.UpdatedAt = formatTime(updatedAt)
		prompts = append(prompts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}

	if err := s.attachRelations(ctx, prompts); err != nil {
		return nil, err
	}
	return prompts, nil
}

// IncrementUseCount bumps the usage counter and returns the new value.
func (s *Store) IncrementUseCount(ctx context.Context, id string) (int, error) {
	var useCount int
	err := s.pool.QueryRow(ctx, `
		UPDATE prompts SET use_count = use_count + 1 WHERE id = $1
		RETURNING use_count`, id).Scan(&useCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to increment use count: %w", err)
	}
	return useCount, nil
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	var isFavorite bool
	err := s.pool.QueryRow(ctx, `
		UPDATE prompts SET is_favorite = NOT is_favorite WHERE id = $1
		RETURNING is_favorite`, id).Scan(&isFavorite)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	return isFavorite, nil
}

// Categories returns the default categories plus every category in use,
// sorted and deduplicated.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT category FROM prompts`)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{}, len(DefaultCategories))
	categories := make([]string, 0, len(DefaultCategories))
	add := func(name string) {
		if _, ok := seen[name]; ok || name == "" {
			return
		}
		seen[name] = struct{}{}
		categories = append(categories, name)
	}
	for _, name := range DefaultCategories {
		add(name)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		add(name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	// Defaults keep their canonical order; anything user-defined follows
	// alphabetically.
	sort.Strings(categories[len(DefaultCategories):])
	return categories, nil
}

// TagNames returns every tag in use, sorted.
func (s *Store) TagNames(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT t.name
		FROM tags t
		JOIN prompt_tags pt ON pt.tag_id = t.id
		ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}
	return names, nil
}

func sanitizePrompt(p *common.Prompt) {
	p.Title = util.SanitizePostgresText(strings.TrimSpace(p.Title))
	p.Content = util.SanitizePostgresText(p.Content)
	p.Category = util.SanitizePostgresText(strings.TrimSpace(p.Category))
	if p.Category == "" {
		p.Category = "General"
	}
	tags := make([]string, 0, len(p.Tags))
	seen := make(map[string]struct{}, len(p.Tags))
	for _, tag := range p.Tags {
		tag = util.SanitizePostgresText(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	p.Tags = tags
}

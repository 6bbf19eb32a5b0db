// Package store is the postgres persistence layer for the prompt library.
// All multi-statement writes run inside a transaction; reads assemble full
// prompts including their tags and variable definitions.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/promptdeck/backend/pkg/common"
)

// ErrNotFound is returned when a prompt ID does not exist.
var ErrNotFound = errors.New("prompt not found")

// DefaultCategories seed the category list even before any prompt uses
// them.
var DefaultCategories = []string{"Development", "Writing", "Marketing", "Analysis", "General"}

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// attachRelations loads tags and variables for the given prompts in two
// batched queries and fills them in place.
func (s *Store) attachRelations(ctx context.Context, prompts []common.Prompt) error {
	if len(prompts) == 0 {
		return nil
	}

	ids := make([]string, len(prompts))
	index := make(map[string]int, len(prompts))
	for i, p := range prompts {
		ids[i] = p.ID
		index[p.ID] = i
	}

	tagRows, err := s.pool.Query(ctx, `
		SELECT pt.prompt_id, t.name
		FROM prompt_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.prompt_id = ANY($1)
		ORDER BY t.name`, ids)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var promptID, name string
		if err := tagRows.Scan(&promptID, &name); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		i := index[promptID]
		prompts[i].Tags = append(prompts[i].Tags, name)
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("failed to read tags: %w", err)
	}

	varRows, err := s.pool.Query(ctx, `
		SELECT prompt_id, name, type, default_value, options
		FROM variables
		WHERE prompt_id = ANY($1)
		ORDER BY prompt_id, position`, ids)
	if err != nil {
		return fmt.Errorf("failed to load variables: %w", err)
	}
	defer varRows.Close()
	for varRows.Next() {
		var (
			promptID string
			variable common.Variable
			options  []byte
		)
		if err := varRows.Scan(&promptID, &variable.Name, &variable.Type, &variable.DefaultValue, &options); err != nil {
			return fmt.Errorf("failed to scan variable: %w", err)
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &variable.Options); err != nil {
				return fmt.Errorf("failed to decode variable options: %w", err)
			}
		}
		i := index[promptID]
		prompts[i].Variables = append(prompts[i].Variables, variable)
	}
	if err := varRows.Err(); err != nil {
		return fmt.Errorf("failed to read variables: %w", err)
	}

	return nil
}

// writeTags resolves tag names to IDs, creating missing tags, and links
// them to the prompt. Caller is responsible for clearing old links first.
func writeTags(ctx context.Context, tx pgx.Tx, promptID string, tags []string) error {
	for _, name := range tags {
		var tagID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, name).Scan(&tagID)
		if err != nil {
			return fmt.Errorf("failed to upsert tag %q: %w", name, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO prompt_tags (prompt_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, promptID, tagID)
		if err != nil {
			return fmt.Errorf("failed to link tag %q: %w", name, err)
		}
	}
	return nil
}

func writeVariables(ctx context.Context, tx pgx.Tx, promptID string, variables []common.Variable) error {
	for position, v := range variables {
		var options []byte
		if len(v.Options) > 0 {
			encoded, err := json.Marshal(v.Options)
			if err != nil {
				return fmt.Errorf("failed to encode variable options: %w", err)
			}
			options = encoded
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO variables (prompt_id, name, type, default_value, options, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			promptID, v.Name, string(v.Type), v.DefaultValue, options, position)
		if err != nil {
			return fmt.Errorf("failed to insert variable %q: %w", v.Name, err)
		}
	}
	return nil
}

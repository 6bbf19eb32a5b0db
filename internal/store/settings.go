package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Settings are the single-user UI preferences, stored as one JSON
// document. JSON keys match the web client's persisted format.
type Settings struct {
	Theme        string  `json:"theme"`
	ShowStats    bool    `json:"show_stats"`
	ItemsPerPage int     `json:"items_per_page"`
	SortBy       string  `json:"sort_by"`
	SortOrder    string  `json:"sort_order"`
	LastExport   *string `json:"last_export"`
}

func DefaultSettings() Settings {
	return Settings{
		Theme:        "auto",
		ShowStats:    true,
		ItemsPerPage: 20,
		SortBy:       "created_at",
		SortOrder:    "desc",
	}
}

// GetSettings loads the stored document merged over the defaults, so keys
// added after the row was written still come back with sensible values.
func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	return settings, nil
}

// SaveSettings writes the full document.
func (s *Store) SaveSettings(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO settings (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, data)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrSnapshotStale is returned when no snapshot exists for a signature or
// the stored one is older than the caller accepts.
var ErrSnapshotStale = errors.New("galaxy snapshot missing or stale")

// SaveGalaxySnapshot caches a built galaxy JSON document under a filter
// signature. The worker overwrites the previous snapshot for the same
// signature.
func (s *Store) SaveGalaxySnapshot(ctx context.Context, signature string, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO galaxy_snapshots (signature, data) VALUES ($1, $2)
		ON CONFLICT (signature) DO UPDATE SET data = EXCLUDED.data, created_at = now()`,
		signature, data)
	if err != nil {
		return fmt.Errorf("failed to save galaxy snapshot: %w", err)
	}
	return nil
}

// GetGalaxySnapshot returns the cached galaxy for a signature if it is
// younger than maxAge.
func (s *Store) GetGalaxySnapshot(ctx context.Context, signature string, maxAge time.Duration) ([]byte, error) {
	var (
		data      []byte
		createdAt time.Time
	)
	err := s.pool.QueryRow(ctx, `
		SELECT data, created_at FROM galaxy_snapshots WHERE signature = $1`,
		signature).Scan(&data, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSnapshotStale
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load galaxy snapshot: %w", err)
	}
	if time.Since(createdAt) > maxAge {
		return nil, ErrSnapshotStale
	}
	return data, nil
}

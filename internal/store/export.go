package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/promptdeck/backend/pkg/common"
	"github.com/promptdeck/backend/pkg/logger"
)

// ExportJSON serializes the whole library as an indented JSON array in the
// interchange format shared with other clients.
func (s *Store) ExportJSON(ctx context.Context) ([]byte, error) {
	prompts, err := s.ListPrompts(ctx, ListFilter{SortBy: "created_at", SortOrder: "desc"})
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(prompts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// ImportJSON loads prompts from an export file. IDs are regenerated so an
// import never collides with or overwrites existing prompts. Records that
// fail to decode or miss required fields are skipped, not fatal. Returns
// the number of imported and skipped records.
func (s *Store) ImportJSON(ctx context.Context, data []byte) (int, int, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return 0, 0, fmt.Errorf("import file is not a JSON array: %w", err)
	}

	imported, skipped := 0, 0
	for i, record := range records {
		var p common.Prompt
		if err := json.Unmarshal(record, &p); err != nil {
			logger.Warn("Skipping unreadable import record", "index", i, "err", err)
			skipped++
			continue
		}
		if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Content) == "" {
			logger.Warn("Skipping import record with missing fields", "index", i)
			skipped++
			continue
		}

		p.ID = ""
		if _, err := s.CreatePrompt(ctx, p); err != nil {
			logger.Warn("Skipping import record that failed to store", "index", i, "err", err)
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped, nil
}

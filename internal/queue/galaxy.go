package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"

	"github.com/promptdeck/backend/internal/store"
	"github.com/promptdeck/backend/internal/util"
	"github.com/promptdeck/backend/pkg/galaxy"
	"github.com/promptdeck/backend/pkg/leaselock"
	"github.com/promptdeck/backend/pkg/logger"
)

// DefaultSnapshotSignature identifies the cached galaxy for the unfiltered
// default view. Filtered or tuned requests bypass the cache.
const DefaultSnapshotSignature = "default"

// GalaxyRefreshMsg asks the worker to rebuild the cached galaxy snapshot.
type GalaxyRefreshMsg struct {
	Reason   string `json:"reason"`
	PromptID string `json:"prompt_id,omitempty"`
}

// PublishGalaxyRefresh enqueues a refresh request. Publish failures are
// logged, not returned: a stale snapshot is repaired by the next mutation
// or by the synchronous fallback on read.
func PublishGalaxyRefresh(ch *amqp091.Channel, reason, promptID string) {
	msg, err := json.Marshal(GalaxyRefreshMsg{Reason: reason, PromptID: promptID})
	if err != nil {
		logger.Error("Failed to marshal galaxy refresh message", "err", err)
		return
	}
	if err := PublishFIFO(ch, GalaxyQueue, msg); err != nil {
		logger.Error("Failed to publish galaxy refresh", "err", err)
	}
}

// rebuildLeaseKey serializes snapshot rebuilds across workers. Each
// refresh replaces the whole snapshot, so overlapping rebuilds only
// waste work.
const rebuildLeaseKey = "galaxy_refresh"

// ProcessGalaxyRefresh rebuilds the default galaxy snapshot from the full
// prompt set and caches it, holding the rebuild lease for the duration.
// The snapshot save is retried, the build is not: a failed build means
// the underlying read failed and the message should go through the retry
// queue.
func ProcessGalaxyRefresh(ctx context.Context, builder *galaxy.Builder, conn *pgxpool.Pool, body string) error {
	var msg GalaxyRefreshMsg
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("failed to decode galaxy refresh message: %w", err)
	}

	return leaselock.New(conn).WithLease(ctx, rebuildLeaseKey, leaselock.Options{
		TTL:  time.Minute,
		Wait: true,
	}, func(ctx context.Context) error {
		return rebuildSnapshot(ctx, builder, conn, msg)
	})
}

func rebuildSnapshot(ctx context.Context, builder *galaxy.Builder, conn *pgxpool.Pool, msg GalaxyRefreshMsg) error {
	logger.Info("[Galaxy] Rebuilding snapshot", "reason", msg.Reason, "prompt_id", msg.PromptID)

	s := store.New(conn)
	prompts, err := s.ListPrompts(ctx, store.ListFilter{})
	if err != nil {
		return fmt.Errorf("failed to load prompts for galaxy rebuild: %w", err)
	}

	result := builder.Build(prompts, galaxy.Filter{})
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode galaxy snapshot: %w", err)
	}

	err = util.RetryErr(ctx, 3, func(ctx context.Context) error {
		return s.SaveGalaxySnapshot(ctx, DefaultSnapshotSignature, data)
	})
	if err != nil {
		return fmt.Errorf("failed to save galaxy snapshot: %w", err)
	}

	logger.Info("[Galaxy] Snapshot updated",
		"prompts", result.Stats.TotalPrompts,
		"connections", result.Stats.EdgeCount,
		"clusters", result.Stats.ComponentCount,
	)
	return nil
}

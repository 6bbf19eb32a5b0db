// Package leaselock provides a cooperative lock backed by a postgres
// table. Workers use it to make sure only one of them rebuilds a galaxy
// snapshot at a time; everything else about the queue stays at-least-once.
//
// A lease is a row in app_locks with an owner token and an expiry. The
// holder renews it in the background, so a crashed worker frees the lock
// after the TTL without any cleanup step.
package leaselock

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/promptdeck/backend/pkg/logger"
)

var (
	// ErrBusy is returned when another owner holds the lease and the
	// caller chose not to wait.
	ErrBusy = errors.New("lease held by another owner")
	// ErrLost is returned by Release when the lease expired and was
	// taken over before the holder released it.
	ErrLost = errors.New("lease lost before release")
)

const (
	acquireSQL = `
		INSERT INTO app_locks (lock_key, locked_by, expires_at)
		VALUES ($1, $2, now() + $3::interval)
		ON CONFLICT (lock_key) DO UPDATE
		SET locked_by = EXCLUDED.locked_by, expires_at = EXCLUDED.expires_at
		WHERE app_locks.expires_at < now() OR app_locks.locked_by = EXCLUDED.locked_by
		RETURNING locked_by`

	renewSQL = `
		UPDATE app_locks SET expires_at = now() + $3::interval
		WHERE lock_key = $1 AND locked_by = $2`

	releaseSQL = `DELETE FROM app_locks WHERE lock_key = $1 AND locked_by = $2`
)

// DB is the subset of pgxpool.Pool the lock needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Options tune a single acquisition.
type Options struct {
	// TTL is how long the lease survives without renewal. Zero means 30s.
	TTL time.Duration
	// Wait makes Acquire poll until the lease frees up instead of
	// returning ErrBusy.
	Wait bool
	// WaitInterval is the polling interval when Wait is set. Zero means
	// one second; a small jitter is always added to spread out waiters.
	WaitInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = 30 * time.Second
	}
	if o.WaitInterval <= 0 {
		o.WaitInterval = time.Second
	}
	return o
}

// Lease is a held lock. It must be released by the same process that
// acquired it; the owner token ties the two together.
type Lease struct {
	client *Client
	key    string
	token  string
	ttl    time.Duration
	cancel context.CancelFunc
}

// Client acquires leases against one database.
type Client struct {
	db DB
}

func New(db DB) *Client {
	return &Client{db: db}
}

// WithLease runs fn while holding the named lease and releases it after,
// even when fn fails. The context handed to fn is the caller's context.
func (c *Client) WithLease(ctx context.Context, key string, opts Options, fn func(ctx context.Context) error) error {
	lease, err := c.Acquire(ctx, key, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := lease.Release(context.Background()); err != nil {
			logger.Warn("Failed to release lease", "key", key, "err", err)
		}
	}()
	return fn(ctx)
}

// Acquire takes the lease or, with Wait set, blocks until it can. The
// row is claimed when it does not exist, has expired, or already belongs
// to this token.
func (c *Client) Acquire(ctx context.Context, key string, opts Options) (*Lease, error) {
	opts = opts.withDefaults()

	token, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate lease token: %w", err)
	}
	interval := fmt.Sprintf("%d milliseconds", opts.TTL.Milliseconds())

	for {
		var owner string
		err := c.db.QueryRow(ctx, acquireSQL, key, token, interval).Scan(&owner)
		if err == nil && owner == token {
			renewCtx, cancel := context.WithCancel(context.Background())
			lease := &Lease{client: c, key: key, token: token, ttl: opts.TTL, cancel: cancel}
			go lease.renewLoop(renewCtx)
			return lease, nil
		}
		// No row returned means the WHERE clause rejected the upsert:
		// a live lease with a different owner.
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("failed to acquire lease %q: %w", key, err)
		}
		if !opts.Wait {
			return nil, ErrBusy
		}

		jitter := time.Duration(rand.Int63n(int64(opts.WaitInterval)/4 + 1))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.WaitInterval + jitter):
		}
	}
}

// Release stops renewal and deletes the row. ErrLost means the lease
// had already expired and someone else took it.
func (l *Lease) Release(ctx context.Context) error {
	l.cancel()
	tag, err := l.client.db.Exec(ctx, releaseSQL, l.key, l.token)
	if err != nil {
		return fmt.Errorf("failed to release lease %q: %w", l.key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLost
	}
	return nil
}

// renewLoop extends the lease at a third of the TTL until Release
// cancels it. A renewal that stops matching the token means the lease
// was lost; the loop just exits and lets Release report it.
func (l *Lease) renewLoop(ctx context.Context) {
	interval := fmt.Sprintf("%d milliseconds", l.ttl.Milliseconds())
	ticker := time.NewTicker(l.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tag, err := l.client.db.Exec(ctx, renewSQL, l.key, l.token, interval)
			if err != nil {
				logger.Warn("Failed to renew lease", "key", l.key, "err", err)
				continue
			}
			if tag.RowsAffected() == 0 {
				logger.Warn("Lease lost during renewal", "key", l.key)
				return
			}
		}
	}
}

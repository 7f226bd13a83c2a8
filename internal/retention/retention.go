// Package retention removes anonymous devices that stopped visiting.
package retention

import (
	"context"
	"log/slog"
	"time"

	"github.com/ashureev/codeleap/internal/domain"
)

// DefaultInterval is how often the worker sweeps.
const DefaultInterval = 5 * time.Minute

// Users is the persistence the worker sweeps.
type Users interface {
	GetInactiveUsers(ctx context.Context, ttl time.Duration) ([]*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

// CleanupCallback is called after a user's data has been deleted, so
// in-memory sessions and open connections can be released.
type CleanupCallback func(userID string)

// Worker deletes users whose last visit is older than TTL.
type Worker struct {
	repo      Users
	ttl       time.Duration
	interval  time.Duration
	onCleanup []CleanupCallback
}

// NewWorker creates a retention worker.
func NewWorker(repo Users, ttl time.Duration, onCleanup ...CleanupCallback) *Worker {
	return &Worker{
		repo:      repo,
		ttl:       ttl,
		interval:  DefaultInterval,
		onCleanup: onCleanup,
	}
}

// Start runs the sweep on a ticker until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		slog.Info("Retention worker started", "interval", w.interval, "ttl", w.ttl)

		for {
			select {
			case <-ticker.C:
				w.Sweep(ctx)
			case <-ctx.Done():
				slog.Info("Retention worker shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
}

// Sweep deletes every inactive user once and returns how many were removed.
func (w *Worker) Sweep(ctx context.Context) int {
	users, err := w.repo.GetInactiveUsers(ctx, w.ttl)
	if err != nil {
		slog.Error("Retention worker failed to list inactive users", "error", err)
		return 0
	}
	if len(users) == 0 {
		return 0
	}

	slog.Info("Retention worker found inactive users", "count", len(users))

	removed := 0
	for _, user := range users {
		if ctx.Err() != nil {
			break
		}
		if err := w.repo.DeleteUser(ctx, user.UserID); err != nil {
			slog.Warn("Retention worker failed to delete user",
				"error", err,
				"user_id", user.UserID)
			continue
		}
		for _, fn := range w.onCleanup {
			fn(user.UserID)
		}
		removed++
		slog.Info("Retention worker removed user",
			"user_id", user.UserID,
			"last_seen_at", user.LastSeenAt)
	}
	return removed
}

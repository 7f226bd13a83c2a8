// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"github.com/ashureev/codeleap/internal/domain"
)

// KeyValue is a per-user string store. It backs history, the API key and
// the theme preference.
type KeyValue interface {
	// Get returns the value under key and whether it exists.
	Get(ctx context.Context, userID, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, userID, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, userID, key string) error
}

// Repository defines the interface for persisting users and their settings.
type Repository interface {
	KeyValue

	// GetUser retrieves a user by their user ID. It returns nil, nil when absent.
	GetUser(ctx context.Context, userID string) (*domain.User, error)

	// UpsertUser creates or updates a user record.
	UpsertUser(ctx context.Context, user *domain.User) error

	// UpdateLastSeen updates the last_seen_at timestamp for a user.
	UpdateLastSeen(ctx context.Context, userID string, lastSeen time.Time) error

	// GetInactiveUsers lists users not seen since before now-ttl.
	GetInactiveUsers(ctx context.Context, ttl time.Duration) ([]*domain.User, error)

	// DeleteUser removes a user and all of their stored values.
	DeleteUser(ctx context.Context, userID string) error

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

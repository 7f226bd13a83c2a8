// Package domain contains core domain types for the CodeLeap application.
package domain

import (
	"time"
)

// User is an anonymous device-scoped quiz taker.
type User struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	LastSeenAt time.Time `json:"last_seen_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsInactive reports whether the user has not been seen within ttl of now.
func (u *User) IsInactive(ttl time.Duration, now time.Time) bool {
	return now.Sub(u.LastSeenAt) > ttl
}

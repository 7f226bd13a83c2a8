package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashureev/codeleap/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUserLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetUser(ctx, "anon_1")
	if err != nil || got != nil {
		t.Fatalf("GetUser(missing) = %v, %v", got, err)
	}

	now := time.Unix(1_700_000_000, 0)
	user := &domain.User{UserID: "anon_1", Username: "anon-1", LastSeenAt: now, CreatedAt: now, UpdatedAt: now}
	if err := s.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	got, err = s.GetUser(ctx, "anon_1")
	if err != nil || got == nil {
		t.Fatalf("GetUser() = %v, %v", got, err)
	}
	if got.Username != "anon-1" || !got.LastSeenAt.Equal(now) {
		t.Errorf("unexpected user: %+v", got)
	}

	later := now.Add(time.Hour)
	if err := s.UpdateLastSeen(ctx, "anon_1", later); err != nil {
		t.Fatalf("UpdateLastSeen() error = %v", err)
	}
	got, _ = s.GetUser(ctx, "anon_1")
	if !got.LastSeenAt.Equal(later) {
		t.Errorf("LastSeenAt = %v, want %v", got.LastSeenAt, later)
	}
}

func TestKeyValue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "u", "codeleap-theme"); err != nil || ok {
		t.Fatalf("Get(missing) ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "u", "codeleap-theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set(ctx, "u", "codeleap-theme", "light"); err != nil {
		t.Fatalf("Set() overwrite error = %v", err)
	}
	v, ok, err := s.Get(ctx, "u", "codeleap-theme")
	if err != nil || !ok || v != "light" {
		t.Errorf("Get() = %q, %v, %v", v, ok, err)
	}

	if _, ok, _ := s.Get(ctx, "other", "codeleap-theme"); ok {
		t.Error("values leaked across users")
	}

	if err := s.Remove(ctx, "u", "codeleap-theme"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Remove(ctx, "u", "codeleap-theme"); err != nil {
		t.Fatalf("Remove(missing) error = %v", err)
	}
	if _, ok, _ := s.Get(ctx, "u", "codeleap-theme"); ok {
		t.Error("value still present after Remove")
	}
}

func TestInactiveUsersAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour)
	fresh := time.Now()
	for id, seen := range map[string]time.Time{"old": old, "fresh": fresh} {
		if err := s.UpsertUser(ctx, &domain.User{UserID: id, Username: id, LastSeenAt: seen, CreatedAt: seen, UpdatedAt: seen}); err != nil {
			t.Fatalf("UpsertUser(%s) error = %v", id, err)
		}
		if err := s.Set(ctx, id, "codeleap-history", "[]"); err != nil {
			t.Fatalf("Set(%s) error = %v", id, err)
		}
	}

	users, err := s.GetInactiveUsers(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("GetInactiveUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].UserID != "old" {
		t.Fatalf("inactive users = %+v", users)
	}

	if err := s.DeleteUser(ctx, "old"); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}
	if u, _ := s.GetUser(ctx, "old"); u != nil {
		t.Error("user not deleted")
	}
	if _, ok, _ := s.Get(ctx, "old", "codeleap-history"); ok {
		t.Error("user values not deleted")
	}
	if _, ok, _ := s.Get(ctx, "fresh", "codeleap-history"); !ok {
		t.Error("unrelated user's values deleted")
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

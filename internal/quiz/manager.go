package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ashureev/codeleap/internal/domain"
	"github.com/ashureev/codeleap/internal/history"
	"github.com/ashureev/codeleap/internal/store"
)

// Keys under which device settings are stored.
const (
	APIKeyStorageKey = "codeleap-api-key"
	ThemeStorageKey  = "codeleap-theme"
)

// Themes accepted by SetTheme.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ErrUnknownTheme is returned by SetTheme for anything but light or dark.
var ErrUnknownTheme = errors.New("unknown theme")

// Manager owns one Session per device.
type Manager struct {
	generator *Generator
	kv        store.KeyValue
	events    Publisher
	// defaultKey is the operator-provisioned key used when a device has none.
	defaultKey string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager. defaultKey may be empty.
func NewManager(g *Generator, kv store.KeyValue, events Publisher, defaultKey string) *Manager {
	if events == nil {
		events = nopPublisher{}
	}
	return &Manager{
		generator:  g,
		kv:         kv,
		events:     events,
		defaultKey: defaultKey,
		sessions:   make(map[string]*Session),
	}
}

// Session returns the session for userID, restoring persisted history on first use.
func (m *Manager) Session(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	if s, ok := m.sessions[userID]; ok {
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	h := history.New(history.DefaultCapacity)
	if m.kv != nil {
		data, ok, err := m.kv.Get(ctx, userID, history.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		if ok {
			if err := h.Load([]byte(data)); err != nil {
				slog.Warn("discarding unreadable history", "user_id", userID, "error", err)
			}
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[userID]; ok {
		return s, nil
	}
	s := newSession(userID, m.generator, m.kv, m.events, h)
	m.sessions[userID] = s
	return s, nil
}

// Generate resolves the device's API key and runs a generation.
func (m *Manager) Generate(ctx context.Context, userID string, lang domain.Language, diff domain.Difficulty) (*Outcome, error) {
	s, err := m.Session(ctx, userID)
	if err != nil {
		return nil, err
	}
	key, err := m.APIKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, key, lang, diff)
}

// APIKey returns the device's stored key, or the operator default.
func (m *Manager) APIKey(ctx context.Context, userID string) (string, error) {
	if m.kv != nil {
		key, ok, err := m.kv.Get(ctx, userID, APIKeyStorageKey)
		if err != nil {
			return "", fmt.Errorf("load api key: %w", err)
		}
		if ok && key != "" {
			return key, nil
		}
	}
	return m.defaultKey, nil
}

// HasStoredKey reports whether the device saved its own key.
func (m *Manager) HasStoredKey(ctx context.Context, userID string) (bool, error) {
	if m.kv == nil {
		return false, nil
	}
	key, ok, err := m.kv.Get(ctx, userID, APIKeyStorageKey)
	if err != nil {
		return false, err
	}
	return ok && key != "", nil
}

// SaveAPIKey validates key with the provider and stores it.
func (m *Manager) SaveAPIKey(ctx context.Context, userID, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrAPIKeyRequired
	}
	if p := m.generator.Provider(); p != nil {
		if err := p.ValidateKey(ctx, key); err != nil {
			return err
		}
	}
	return m.kv.Set(ctx, userID, APIKeyStorageKey, key)
}

// RemoveAPIKey deletes the device's stored key.
func (m *Manager) RemoveAPIKey(ctx context.Context, userID string) error {
	return m.kv.Remove(ctx, userID, APIKeyStorageKey)
}

// Theme returns the device's theme, defaulting to light.
func (m *Manager) Theme(ctx context.Context, userID string) (string, error) {
	if m.kv == nil {
		return ThemeLight, nil
	}
	theme, ok, err := m.kv.Get(ctx, userID, ThemeStorageKey)
	if err != nil {
		return "", err
	}
	if !ok || (theme != ThemeLight && theme != ThemeDark) {
		return ThemeLight, nil
	}
	return theme, nil
}

// SetTheme stores the device's theme.
func (m *Manager) SetTheme(ctx context.Context, userID, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, theme)
	}
	return m.kv.Set(ctx, userID, ThemeStorageKey, theme)
}

// ClearHistory clears the device's history.
func (m *Manager) ClearHistory(ctx context.Context, userID string) error {
	s, err := m.Session(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.ClearHistory(ctx); err != nil {
		return err
	}
	m.events.Publish(userID, Event{Type: EventHistoryCleared})
	return nil
}

// Drop cancels and forgets the session for userID.
func (m *Manager) Drop(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if ok {
		s.Cancel()
	}
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

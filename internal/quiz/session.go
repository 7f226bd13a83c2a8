package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/ashureev/codeleap/internal/ai"
	"github.com/ashureev/codeleap/internal/domain"
	"github.com/ashureev/codeleap/internal/history"
	"github.com/ashureev/codeleap/internal/store"
)

var (
	// ErrGenerationInProgress is returned when a generation is already running.
	ErrGenerationInProgress = errors.New("challenge generation already in progress")
	// ErrAPIKeyRequired is returned when no API key is available.
	ErrAPIKeyRequired = errors.New("API key is required")
	// ErrChallengeNotFound is returned when an answer names a challenge that is not current.
	ErrChallengeNotFound = errors.New("challenge not found")
	// ErrGenerationSuperseded is returned when a generation was cancelled before it finished.
	ErrGenerationSuperseded = errors.New("challenge generation superseded")
)

// State is the session's position in the quiz flow.
type State string

const (
	StateIdle       State = "idle"
	StateGenerating State = "generating"
	StateDisplaying State = "displaying"
	StateAnswered   State = "answered"
)

// Session is one device's quiz: the current challenge, its history and the
// single in-flight generation.
type Session struct {
	userID    string
	generator *Generator
	kv        store.KeyValue
	events    Publisher

	// genMu is held for the whole of a generation.
	genMu sync.Mutex

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	current    *domain.Challenge
	history    *history.History
}

func newSession(userID string, g *Generator, kv store.KeyValue, events Publisher, h *history.History) *Session {
	if events == nil {
		events = nopPublisher{}
	}
	if h == nil {
		h = history.New(history.DefaultCapacity)
	}
	return &Session{
		userID:    userID,
		generator: g,
		kv:        kv,
		events:    events,
		state:     StateIdle,
		history:   h,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns a copy of the displayed challenge, or nil.
func (s *Session) Current() *domain.Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	return s.current.Clone()
}

// History returns the session history.
func (s *Session) History() *history.History {
	return s.history
}

// Generate produces a new challenge for lang and diff.
//
// Only one generation runs at a time; a concurrent call returns
// ErrGenerationInProgress and changes nothing. AI failures, timeouts and
// malformed responses fall back to the bank with a notice. A rejected API
// key is returned as ai.ErrInvalidKey without falling back.
func (s *Session) Generate(ctx context.Context, apiKey string, lang domain.Language, diff domain.Difficulty) (*Outcome, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if !s.genMu.TryLock() {
		return nil, ErrGenerationInProgress
	}
	defer s.genMu.Unlock()

	lang, diff = normalize(lang, diff)
	start := s.generator.clock.Now()

	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	prev := s.state
	s.generation++
	gen := s.generation
	s.state = StateGenerating
	s.cancel = cancel
	s.mu.Unlock()

	s.events.Publish(s.userID, Event{Type: EventGenerating, Language: lang, Difficulty: diff})

	c, err := s.generator.fromAI(genCtx, apiKey, lang, diff)
	notice := NoticeNone
	switch {
	case err == nil:
	case errors.Is(err, ai.ErrInvalidKey):
		s.abort(gen, prev)
		return nil, err
	case s.superseded(gen):
		return nil, ErrGenerationSuperseded
	case ctx.Err() != nil:
		s.abort(gen, prev)
		return nil, ctx.Err()
	default:
		notice = noticeFor(err)
		slog.Warn("AI generation failed, using fallback",
			"user_id", s.userID,
			"language", lang,
			"difficulty", diff,
			"notice", notice,
			"error", err)
		c = s.generator.fromBank(lang, diff)
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return nil, ErrGenerationSuperseded
	}
	s.current = c
	s.state = StateDisplaying
	s.cancel = nil
	s.mu.Unlock()

	out := &Outcome{
		Challenge:    c.Clone(),
		Notice:       notice,
		GenerationMS: s.generator.clock.Now().Sub(start).Milliseconds(),
	}
	slog.Info("challenge ready",
		"user_id", s.userID,
		"id", c.ID,
		"origin", c.Origin,
		"language", c.Language,
		"difficulty", c.Difficulty,
		"duration_ms", out.GenerationMS)
	s.events.Publish(s.userID, Event{Type: EventChallengeReady, Challenge: out.Challenge, Notice: notice})
	return out, nil
}

func (s *Session) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation != gen
}

// abort restores the pre-generation state if gen is still current.
func (s *Session) abort(gen uint64, prev State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == gen {
		s.state = prev
		s.cancel = nil
	}
}

// Cancel abandons any in-flight generation. Its result, if it arrives, is discarded.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateGenerating {
		return
	}
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.current == nil {
		s.state = StateIdle
	} else if s.current.Answered() {
		s.state = StateAnswered
	} else {
		s.state = StateDisplaying
	}
}

// Answer records verdict on the current challenge, adds it to history and
// persists the history. The first answer is final.
func (s *Session) Answer(ctx context.Context, challengeID string, verdict bool) (*domain.Challenge, error) {
	s.mu.Lock()
	if s.current == nil || s.current.ID != challengeID {
		s.mu.Unlock()
		return nil, ErrChallengeNotFound
	}
	if err := s.current.Answer(verdict); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	answered := s.current.Clone()
	if s.state != StateGenerating {
		s.state = StateAnswered
	}
	s.history.Add(answered)
	s.mu.Unlock()

	s.persist(ctx)
	s.events.Publish(s.userID, Event{Type: EventAnswered, Challenge: answered})
	return answered, nil
}

// ClearHistory removes all history entries and the persisted copy.
func (s *Session) ClearHistory(ctx context.Context) error {
	s.history.Clear()
	if s.kv == nil {
		return nil
	}
	return s.kv.Remove(ctx, s.userID, history.StorageKey)
}

func (s *Session) persist(ctx context.Context) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(s.history)
	if err != nil {
		slog.Error("failed to encode history", "user_id", s.userID, "error", err)
		return
	}
	if err := s.kv.Set(ctx, s.userID, history.StorageKey, string(data)); err != nil {
		slog.Error("failed to persist history", "user_id", s.userID, "error", err)
	}
}

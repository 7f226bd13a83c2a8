// Package history keeps a bounded, newest-first record of answered challenges.
package history

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"github.com/ashureev/codeleap/internal/domain"
)

// DefaultCapacity is the maximum number of entries kept.
const DefaultCapacity = 50

// StorageKey is the key-value key under which history is persisted.
const StorageKey = "codeleap-history"

// History is a fixed-size ring of challenges. Adding to a full ring evicts
// the oldest entry.
type History struct {
	buf   []*domain.Challenge
	size  int
	head  int // next write position
	count int
	mu    sync.RWMutex
}

// New creates a history holding at most capacity entries.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{
		buf:  make([]*domain.Challenge, capacity),
		size: capacity,
	}
}

// Add inserts a copy of c as the newest entry.
func (h *History) Add(c *domain.Challenge) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.add(c.Clone())
}

func (h *History) add(c *domain.Challenge) {
	h.buf[h.head] = c
	h.head = (h.head + 1) % h.size
	if h.count < h.size {
		h.count++
	}
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Cap returns the capacity.
func (h *History) Cap() int {
	return h.size
}

// Items returns copies of all entries, newest first.
func (h *History) Items() []*domain.Challenge {
	return h.Filter(Filter{})
}

// Filter selects entries by language and difficulty. Zero values match all.
type Filter struct {
	Language   domain.Language
	Difficulty domain.Difficulty
}

func (f Filter) match(c *domain.Challenge) bool {
	if f.Language != "" && c.Language != f.Language {
		return false
	}
	if f.Difficulty != "" && c.Difficulty != f.Difficulty {
		return false
	}
	return true
}

// Filter returns copies of matching entries, newest first.
func (h *History) Filter(f Filter) []*domain.Challenge {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]*domain.Challenge, 0, h.count)
	for i := 0; i < h.count; i++ {
		c := h.buf[(h.head-1-i+h.size)%h.size]
		if f.match(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// Clear removes all entries.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.buf {
		h.buf[i] = nil
	}
	h.head = 0
	h.count = 0
}

// Stats summarizes answer accuracy over the history.
type Stats struct {
	Total        int                       `json:"total"`
	Answered     int                       `json:"answered"`
	Correct      int                       `json:"correct"`
	Incorrect    int                       `json:"incorrect"`
	Accuracy     int                       `json:"accuracy"`
	ByDifficulty map[domain.Difficulty]int `json:"byDifficulty"`
	ByLanguage   map[domain.Language]int   `json:"byLanguage"`
}

// Stats computes statistics. Accuracy is a rounded percentage of answered
// entries judged correctly, or 0 when nothing has been answered.
func (h *History) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	s := Stats{
		Total:        h.count,
		ByDifficulty: make(map[domain.Difficulty]int, len(domain.Difficulties)),
		ByLanguage:   make(map[domain.Language]int, len(domain.Languages)),
	}
	for _, d := range domain.Difficulties {
		s.ByDifficulty[d] = 0
	}
	for _, l := range domain.Languages {
		s.ByLanguage[l] = 0
	}
	for i := 0; i < h.count; i++ {
		c := h.buf[i]
		s.ByDifficulty[c.Difficulty]++
		s.ByLanguage[c.Language]++
		if !c.Answered() {
			continue
		}
		s.Answered++
		if c.AnsweredCorrectly() {
			s.Correct++
		}
	}
	s.Incorrect = s.Answered - s.Correct
	if s.Answered > 0 {
		s.Accuracy = int(math.Round(float64(s.Correct) * 100 / float64(s.Answered)))
	}
	return s
}

// MarshalJSON encodes the history as an array, newest first.
func (h *History) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Items())
}

// Load replaces the contents with a JSON array stored newest first.
// Entries beyond capacity are dropped from the old end.
func (h *History) Load(data []byte) error {
	var items []*domain.Challenge
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode history: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for i := range h.buf {
		h.buf[i] = nil
	}
	h.head = 0
	h.count = 0

	if len(items) > h.size {
		items = items[:h.size]
	}
	for i := len(items) - 1; i >= 0; i-- {
		if items[i] != nil {
			h.add(items[i])
		}
	}
	return nil
}

package history

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ashureev/codeleap/internal/domain"
)

func challenge(i int, lang domain.Language, diff domain.Difficulty) *domain.Challenge {
	return &domain.Challenge{
		ID:         fmt.Sprintf("c%d", i),
		Code:       "x",
		Language:   lang,
		Difficulty: diff,
		IsCorrect:  i%2 == 0,
		Timestamp:  int64(i),
	}
}

func answered(c *domain.Challenge, verdict bool) *domain.Challenge {
	_ = c.Answer(verdict)
	return c
}

func TestHistoryBound(t *testing.T) {
	h := New(DefaultCapacity)
	for i := 1; i <= 60; i++ {
		h.Add(challenge(i, domain.LanguageJavaScript, domain.DifficultyEasy))
	}

	items := h.Items()
	if len(items) != 50 {
		t.Fatalf("len = %d, want 50", len(items))
	}
	for i, c := range items {
		want := fmt.Sprintf("c%d", 60-i)
		if c.ID != want {
			t.Fatalf("items[%d] = %s, want %s", i, c.ID, want)
		}
	}
}

func TestHistoryNewestFirstBeforeWrap(t *testing.T) {
	h := New(5)
	for i := 1; i <= 3; i++ {
		h.Add(challenge(i, domain.LanguageCSS, domain.DifficultyHard))
	}
	items := h.Items()
	if len(items) != 3 || items[0].ID != "c3" || items[2].ID != "c1" {
		t.Errorf("unexpected order: %v", ids(items))
	}
}

func TestHistoryReturnsCopies(t *testing.T) {
	h := New(5)
	c := challenge(1, domain.LanguageHTML, domain.DifficultyEasy)
	h.Add(c)
	c.Problem = "mutated"

	items := h.Items()
	items[0].Explanation = "mutated too"
	if got := h.Items()[0]; got.Problem == "mutated" || got.Explanation == "mutated too" {
		t.Error("history shares memory with callers")
	}
}

func TestHistoryFilter(t *testing.T) {
	h := New(10)
	h.Add(challenge(1, domain.LanguageJavaScript, domain.DifficultyEasy))
	h.Add(challenge(2, domain.LanguageCSS, domain.DifficultyEasy))
	h.Add(challenge(3, domain.LanguageCSS, domain.DifficultyHard))

	if got := ids(h.Filter(Filter{Language: domain.LanguageCSS})); fmt.Sprint(got) != "[c3 c2]" {
		t.Errorf("css filter = %v", got)
	}
	if got := ids(h.Filter(Filter{Difficulty: domain.DifficultyEasy})); fmt.Sprint(got) != "[c2 c1]" {
		t.Errorf("easy filter = %v", got)
	}
	if got := ids(h.Filter(Filter{Language: domain.LanguageCSS, Difficulty: domain.DifficultyHard})); fmt.Sprint(got) != "[c3]" {
		t.Errorf("css/hard filter = %v", got)
	}
}

func TestHistoryStats(t *testing.T) {
	h := New(10)
	// c2 is correct code, answered correct.
	h.Add(answered(challenge(2, domain.LanguageJavaScript, domain.DifficultyEasy), true))
	// c3 is incorrect code, answered correct.
	h.Add(answered(challenge(3, domain.LanguageHTML, domain.DifficultyMedium), true))
	// c5 is incorrect code, answered incorrect.
	h.Add(answered(challenge(5, domain.LanguageCSS, domain.DifficultyHard), false))
	// unanswered
	h.Add(challenge(6, domain.LanguageCSS, domain.DifficultyHard))

	s := h.Stats()
	if s.Total != 4 || s.Answered != 3 || s.Correct != 2 || s.Incorrect != 1 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.Accuracy != 67 {
		t.Errorf("Accuracy = %d, want 67", s.Accuracy)
	}
	if s.ByLanguage[domain.LanguageCSS] != 2 || s.ByDifficulty[domain.DifficultyHard] != 2 {
		t.Errorf("unexpected breakdown: %+v", s)
	}
	if _, ok := s.ByLanguage[domain.LanguageHTML]; !ok {
		t.Error("breakdown missing html key")
	}
}

func TestHistoryStatsEmpty(t *testing.T) {
	s := New(5).Stats()
	if s.Accuracy != 0 || s.Answered != 0 {
		t.Errorf("unexpected stats: %+v", s)
	}
	if len(s.ByLanguage) != 3 || len(s.ByDifficulty) != 3 {
		t.Errorf("breakdown should list every bucket: %+v", s)
	}
}

func TestHistoryClear(t *testing.T) {
	h := New(5)
	h.Add(challenge(1, domain.LanguageJavaScript, domain.DifficultyEasy))
	h.Clear()
	if h.Len() != 0 || len(h.Items()) != 0 {
		t.Error("history not cleared")
	}
	h.Add(challenge(2, domain.LanguageJavaScript, domain.DifficultyEasy))
	if got := ids(h.Items()); fmt.Sprint(got) != "[c2]" {
		t.Errorf("after clear = %v", got)
	}
}

func TestHistoryPersistRoundTrip(t *testing.T) {
	h := New(DefaultCapacity)
	for i := 1; i <= 4; i++ {
		h.Add(answered(challenge(i, domain.LanguageJavaScript, domain.DifficultyEasy), true))
	}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := New(DefaultCapacity)
	if err := restored.Load(data); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fmt.Sprint(ids(restored.Items())) != "[c4 c3 c2 c1]" {
		t.Errorf("restored order = %v", ids(restored.Items()))
	}
	if !restored.Items()[0].Answered() {
		t.Error("answer lost in round trip")
	}
}

func TestHistoryLoadTruncates(t *testing.T) {
	items := make([]*domain.Challenge, 0, 8)
	for i := 8; i >= 1; i-- {
		items = append(items, challenge(i, domain.LanguageCSS, domain.DifficultyEasy))
	}
	data, _ := json.Marshal(items)

	h := New(5)
	if err := h.Load(data); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fmt.Sprint(ids(h.Items())) != "[c8 c7 c6 c5 c4]" {
		t.Errorf("items = %v", ids(h.Items()))
	}
}

func TestHistoryLoadRejectsGarbage(t *testing.T) {
	h := New(5)
	h.Add(challenge(1, domain.LanguageCSS, domain.DifficultyEasy))
	if err := h.Load([]byte("not json")); err == nil {
		t.Fatal("expected error")
	}
	if h.Len() != 1 {
		t.Error("failed load must not clear existing entries")
	}
}

func ids(items []*domain.Challenge) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}

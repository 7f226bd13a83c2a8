// Package prompt builds the chat messages sent to the AI provider.
package prompt

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ashureev/codeleap/internal/domain"
)

// SystemMessage is sent as the system role on every request.
const SystemMessage = "You are an expert programming instructor who creates educational coding challenges. Always respond with valid JSON only."

// correctThreshold gives roughly a 40% share of correct snippets.
const correctThreshold = 0.6

// Random is the subset of *rand.Rand the builder draws from.
type Random interface {
	IntN(n int) int
	Float64() float64
}

// Prompt is a rendered request plus the choices that produced it.
type Prompt struct {
	System      string
	User        string
	Topic       string
	Scenario    int
	WantCorrect bool
}

// Builder renders prompts. It is safe for concurrent use.
type Builder struct {
	catalog Catalog
	mu      sync.Mutex
	rng     Random
}

// NewBuilder creates a builder over catalog. A nil rng is seeded from the clock.
func NewBuilder(catalog Catalog, rng Random) *Builder {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>17))
	}
	return &Builder{catalog: catalog, rng: rng}
}

// Build renders a prompt for lang and diff. Unknown inputs use javascript/easy topics.
func (b *Builder) Build(lang domain.Language, diff domain.Difficulty) Prompt {
	topics := b.catalog.Languages[lang][diff]
	if len(topics) == 0 {
		lang, diff = domain.LanguageJavaScript, domain.DifficultyEasy
		topics = b.catalog.Languages[lang][diff]
	}

	b.mu.Lock()
	topic := topics[b.rng.IntN(len(topics))]
	wantCorrect := b.rng.Float64() > correctThreshold
	scenario := b.rng.IntN(10000)
	b.mu.Unlock()

	return Prompt{
		System:      SystemMessage,
		User:        render(lang, diff, topic, scenario, wantCorrect, b.catalog.Complexity[diff]),
		Topic:       topic,
		Scenario:    scenario,
		WantCorrect: wantCorrect,
	}
}

func render(lang domain.Language, diff domain.Difficulty, topic string, scenario int, wantCorrect bool, complexity string) string {
	rule := "Include ONE realistic error"
	if wantCorrect {
		rule = "Make code completely valid"
	}
	return fmt.Sprintf(`Create a unique %[2]s %[1]s challenge about %[3]q. Scenario #%[4]d.

%[5]s. Make it educational and realistic.

Return ONLY a valid JSON object:
{
  "problem": "Is this %[1]s code correct?",
  "code": "your_code_here",
  "codeExplanation": "Brief explanation",
  "isCorrect": %[6]t,
  "explanation": "Detailed explanation",
  "additionalInfo": "Learning tip"
}

Rules:
- Use \n for line breaks
- Escape quotes with \"
- Focus on %[3]q
- %[7]s
- Use proper indentation
- Make it practical and educational`, lang, diff, topic, scenario, complexity, wantCorrect, rule)
}

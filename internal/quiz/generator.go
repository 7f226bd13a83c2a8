// Package quiz drives challenge generation and answering for each device.
package quiz

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ashureev/codeleap/internal/ai"
	"github.com/ashureev/codeleap/internal/challenge"
	"github.com/ashureev/codeleap/internal/domain"
	"github.com/ashureev/codeleap/internal/fallback"
	"github.com/ashureev/codeleap/internal/format"
	"github.com/ashureev/codeleap/internal/prompt"
)

// DefaultTimeout bounds a single AI call.
const DefaultTimeout = 30 * time.Second

// Notice tells the user why a fallback challenge was shown.
type Notice string

const (
	NoticeNone          Notice = ""
	NoticeRateLimited   Notice = "rate_limited"
	NoticeAIUnavailable Notice = "ai_unavailable"
)

// Outcome is the result of one generation.
type Outcome struct {
	Challenge    *domain.Challenge `json:"challenge"`
	Notice       Notice            `json:"notice,omitempty"`
	GenerationMS int64             `json:"generationMs"`
}

// GeneratorConfig wires a Generator.
type GeneratorConfig struct {
	Provider  ai.Provider
	Prompts   *prompt.Builder
	Bank      *fallback.Bank
	Assembler *challenge.Assembler
	Clock     challenge.Clock
	Timeout   time.Duration
	// Seed returns the fallback selection seed. Defaults to a random
	// integer in [0,1000) plus the clock's Unix milliseconds.
	Seed func() int64
}

// Generator runs the AI path and the fallback path. It holds no per-device
// state and is safe for concurrent use.
type Generator struct {
	provider  ai.Provider
	prompts   *prompt.Builder
	bank      *fallback.Bank
	assembler *challenge.Assembler
	clock     challenge.Clock
	timeout   time.Duration
	seed      func() int64
}

// NewGenerator fills unset dependencies with defaults.
func NewGenerator(cfg GeneratorConfig) *Generator {
	g := &Generator{
		provider:  cfg.Provider,
		prompts:   cfg.Prompts,
		bank:      cfg.Bank,
		assembler: cfg.Assembler,
		clock:     cfg.Clock,
		timeout:   cfg.Timeout,
		seed:      cfg.Seed,
	}
	if g.clock == nil {
		g.clock = systemClock{}
	}
	if g.prompts == nil {
		g.prompts = prompt.NewBuilder(prompt.DefaultCatalog(), nil)
	}
	if g.bank == nil {
		g.bank = fallback.Default()
	}
	if g.assembler == nil {
		g.assembler = challenge.NewAssembler(g.clock)
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	if g.seed == nil {
		var mu sync.Mutex
		now := uint64(time.Now().UnixNano())
		rng := rand.New(rand.NewPCG(now, now>>21))
		g.seed = func() int64 {
			mu.Lock()
			n := rng.Int64N(1000)
			mu.Unlock()
			return n + g.clock.Now().UnixMilli()
		}
	}
	return g
}

// Timeout returns the AI call bound.
func (g *Generator) Timeout() time.Duration { return g.timeout }

// Provider returns the configured AI provider, which may be nil.
func (g *Generator) Provider() ai.Provider { return g.provider }

type aiResult struct {
	text string
	err  error
}

// fromAI asks the provider for a challenge. The call runs in its own
// goroutine so a provider that ignores cancellation cannot hold the caller
// past the timeout; its late result lands in a buffered channel and is dropped.
func (g *Generator) fromAI(ctx context.Context, apiKey string, lang domain.Language, diff domain.Difficulty) (*domain.Challenge, error) {
	if g.provider == nil {
		return nil, errors.New("no AI provider configured")
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := ai.Request{
		APIKey:     apiKey,
		Language:   lang,
		Difficulty: diff,
		Prompt:     g.prompts.Build(lang, diff),
	}
	results := make(chan aiResult, 1)
	go func() {
		text, err := g.provider.Generate(callCtx, req)
		results <- aiResult{text: text, err: err}
	}()

	var res aiResult
	select {
	case res = <-results:
	case <-callCtx.Done():
		return nil, callCtx.Err()
	}
	if res.err != nil {
		return nil, res.err
	}

	raw, err := challenge.Parse(res.text)
	if err != nil {
		slog.Debug("unparseable AI response", "error", err, "content", res.text)
		return nil, err
	}
	return g.finish(g.assembler.Assemble(raw, lang, diff, domain.OriginAI)), nil
}

// fromBank packages a fallback challenge for lang and diff.
func (g *Generator) fromBank(lang domain.Language, diff domain.Difficulty) *domain.Challenge {
	sel := g.bank.Select(lang, diff, g.seed())
	return g.finish(g.assembler.AssembleFallback(sel))
}

func (g *Generator) finish(c *domain.Challenge) *domain.Challenge {
	c.Code = format.Format(c.Code, c.Language)
	return c
}

// noticeFor classifies an AI failure.
func noticeFor(err error) Notice {
	if errors.Is(err, ai.ErrRateLimited) {
		return NoticeRateLimited
	}
	return NoticeAIUnavailable
}

// normalize maps unusable inputs onto the default bucket.
func normalize(lang domain.Language, diff domain.Difficulty) (domain.Language, domain.Difficulty) {
	if !lang.Valid() {
		return fallback.DefaultLanguage, fallback.DefaultDifficulty
	}
	if !diff.Valid() {
		diff = fallback.DefaultDifficulty
	}
	return lang, diff
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

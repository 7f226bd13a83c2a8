// Package ai talks to the hosted language models that author challenges.
//
// Two providers are supported: Groq through its OpenAI-compatible HTTP API
// and Google Gemini through the genai SDK. Both return the raw model text;
// turning it into a challenge is the caller's job.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ashureev/codeleap/internal/domain"
	"github.com/ashureev/codeleap/internal/prompt"
)

// Provider names accepted by New.
const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// Sampling parameters sent with every generation request.
const (
	Temperature = 0.7
	MaxTokens   = 2000
	TopP        = 0.9
)

var (
	// ErrRateLimited is returned when the provider throttles the key.
	ErrRateLimited = errors.New("ai provider rate limit exceeded")
	// ErrInvalidKey is returned when the provider rejects the API key.
	ErrInvalidKey = errors.New("invalid API key")
	// ErrNoContent is returned when a response carries no text.
	ErrNoContent = errors.New("no content received from AI")
	// ErrKeyCheckFailed is returned when a key could not be checked at all.
	ErrKeyCheckFailed = errors.New("failed to validate API key")
)

// StatusError is a non-2xx provider response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ai provider error (%d): %s", e.Code, e.Body)
}

// Request is one challenge generation call.
type Request struct {
	APIKey     string
	Language   domain.Language
	Difficulty domain.Difficulty
	Prompt     prompt.Prompt
}

// Provider generates challenge text and validates keys.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
	ValidateKey(ctx context.Context, apiKey string) error
}

// Config selects and configures a provider.
type Config struct {
	Provider    string
	GroqBaseURL string
	GroqModel   string
	GeminiModel string
}

// New returns the provider named by cfg.Provider.
func New(cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderGroq:
		return NewGroq(GroqConfig{BaseURL: cfg.GroqBaseURL, Model: cfg.GroqModel}), nil
	case ProviderGemini:
		return NewGemini(GeminiConfig{Model: cfg.GeminiModel}), nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ashureev/codeleap/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiConfig configures the Gemini client.
type GeminiConfig struct {
	Model string
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL    string
	HTTPClient *http.Client
}

// Gemini generates challenges with the genai SDK. Keys are per device, so
// a client is built for each call.
type Gemini struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGemini creates a Gemini provider.
func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Gemini{model: cfg.Model, baseURL: cfg.BaseURL, httpClient: cfg.HTTPClient}
}

// Name returns the provider name.
func (g *Gemini) Name() string { return ProviderGemini }

func (g *Gemini) client(ctx context.Context, apiKey string) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.httpClient,
	}
	if g.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.baseURL}
	}
	return genai.NewClient(ctx, cfg)
}

// Generate sends the prompt and returns the response text.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	ctx, span := telemetry.StartLLMSpan(ctx, "ai.generate", ProviderGemini, g.model)
	defer span.End()
	span.SetChallenge(string(req.Language), string(req.Difficulty))

	client, err := g.client(ctx, req.APIKey)
	if err != nil {
		span.SetError(err)
		return "", fmt.Errorf("gemini client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.Prompt.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](Temperature),
		TopP:              genai.Ptr[float32](TopP),
		MaxOutputTokens:   MaxTokens,
		ResponseMIMEType:  "application/json",
	}
	resp, err := client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt.User), config)
	if err != nil {
		err = classifyGeminiError(err)
		span.SetError(err)
		return "", err
	}

	text := resp.Text()
	if text == "" {
		span.SetError(ErrNoContent)
		return "", ErrNoContent
	}
	slog.Debug("gemini response received", "model", g.model, "content", text)
	span.SetTokens(telemetry.EstimateTokens(req.Prompt.System+req.Prompt.User), telemetry.EstimateTokens(text))
	return text, nil
}

// ValidateKey fetches the configured model's metadata with apiKey.
func (g *Gemini) ValidateKey(ctx context.Context, apiKey string) error {
	client, err := g.client(ctx, apiKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyCheckFailed, err)
	}
	if _, err := client.Models.Get(ctx, g.model, nil); err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Code == http.StatusBadRequest || apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden {
				return ErrInvalidKey
			}
			return fmt.Errorf("%w: %s", ErrInvalidKey, apiErr.Message)
		}
		return fmt.Errorf("%w: %v", ErrKeyCheckFailed, err)
	}
	return nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("request failed: %w", err)
	}
	switch apiErr.Code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Message)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrInvalidKey, apiErr.Message)
	}
	return &StatusError{Code: apiErr.Code, Body: apiErr.Message}
}

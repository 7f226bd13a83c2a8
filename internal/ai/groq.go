package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ashureev/codeleap/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Groq defaults.
const (
	DefaultGroqBaseURL = "https://api.groq.com/openai/v1"
	DefaultGroqModel   = "llama-3.1-8b-instant"
)

const rateLimitMarker = "Rate limit exceeded"

// GroqConfig configures the Groq client.
type GroqConfig struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// Groq is an OpenAI-compatible chat completions client.
type Groq struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGroq creates a Groq client. Deadlines come from the request context.
func NewGroq(cfg GroqConfig) *Groq {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGroqBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGroqModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &Groq{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: cfg.HTTPClient,
	}
}

// Name returns the provider name.
func (g *Groq) Name() string { return ProviderGroq }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        float64       `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends the prompt and returns the first choice's content.
func (g *Groq) Generate(ctx context.Context, req Request) (string, error) {
	ctx, span := telemetry.StartLLMSpan(ctx, "ai.generate", ProviderGroq, g.model)
	defer span.End()
	span.SetChallenge(string(req.Language), string(req.Difficulty))

	content, err := g.chat(ctx, req)
	if err != nil {
		span.SetError(err)
		return "", err
	}
	span.SetTokens(telemetry.EstimateTokens(req.Prompt.System+req.Prompt.User), telemetry.EstimateTokens(content))
	return content, nil
}

func (g *Groq) chat(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: req.Prompt.System},
			{Role: "user", Content: req.Prompt.User},
		},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
		TopP:        TopP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		text := string(respBody)
		if resp.StatusCode == http.StatusTooManyRequests || strings.Contains(text, rateLimitMarker) {
			return "", fmt.Errorf("%w: %s", ErrRateLimited, text)
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("%w: %s", ErrInvalidKey, errorMessage(respBody, text))
		}
		return "", &StatusError{Code: resp.StatusCode, Body: text}
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", ErrNoContent
	}

	content := chatResp.Choices[0].Message.Content
	slog.Debug("groq response received", "model", g.model, "content", content)
	return content, nil
}

// ValidateKey lists models with apiKey. Any 2xx means the key is usable.
func (g *Groq) ValidateKey(ctx context.Context, apiKey string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyCheckFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeyCheckFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidKey
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return fmt.Errorf("%w: %s", ErrInvalidKey, errorMessage(body, resp.Status))
}

func errorMessage(body []byte, fallback string) string {
	var e errorResponse
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return fallback
}

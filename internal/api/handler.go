// Package api provides HTTP handlers for the CodeLeap API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ashureev/codeleap/internal/ai"
	"github.com/ashureev/codeleap/internal/domain"
	"github.com/ashureev/codeleap/internal/identity"
	"github.com/ashureev/codeleap/internal/quiz"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes bounds request bodies; format requests carry whole snippets.
const maxBodyBytes = 256 << 10

// Handler serves the quiz API for the device identified by the request context.
type Handler struct {
	quiz     *quiz.Manager
	provider string
	// generateLimit wraps the generation route. Nil means unlimited.
	generateLimit func(http.Handler) http.Handler
}

// NewHandler creates a new Handler. provider is reported by GET /api/settings.
func NewHandler(mgr *quiz.Manager, provider string, generateLimit func(http.Handler) http.Handler) *Handler {
	return &Handler{
		quiz:          mgr,
		provider:      provider,
		generateLimit: generateLimit,
	}
}

// RegisterRoutes registers quiz routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if h.generateLimit != nil {
				r.Use(h.generateLimit)
			}
			r.Post("/challenges", h.Generate)
		})
		r.Get("/challenges/current", h.Current)
		r.Post("/challenges/{id}/answer", h.Answer)

		r.Get("/history", h.History)
		r.Delete("/history", h.ClearHistory)
		r.Get("/stats", h.Stats)

		r.Post("/key", h.SaveKey)
		r.Delete("/key", h.RemoveKey)
		r.Get("/settings", h.Settings)
		r.Put("/settings/theme", h.SetTheme)

		r.Post("/format", h.Format)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decode reads a JSON body into v.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// userID returns the device id, writing 401 when the identity middleware did not run.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := identity.UserIDFromContext(r.Context())
	if id == "" {
		Error(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return id, true
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, quiz.ErrGenerationInProgress):
		Error(w, http.StatusConflict, "generation_in_progress")
	case errors.Is(err, domain.ErrAlreadyAnswered):
		Error(w, http.StatusConflict, "already_answered")
	case errors.Is(err, quiz.ErrGenerationSuperseded):
		Error(w, http.StatusConflict, "generation_superseded")
	case errors.Is(err, quiz.ErrChallengeNotFound):
		Error(w, http.StatusNotFound, "challenge_not_found")
	case errors.Is(err, quiz.ErrAPIKeyRequired):
		Error(w, http.StatusBadRequest, "api_key_required")
	case errors.Is(err, quiz.ErrUnknownTheme):
		Error(w, http.StatusBadRequest, "unknown_theme")
	case errors.Is(err, ai.ErrInvalidKey):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, ai.ErrKeyCheckFailed):
		Error(w, http.StatusBadGateway, ai.ErrKeyCheckFailed.Error())
	default:
		slog.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"user_id", identity.UserIDFromContext(r.Context()),
			"error", err)
		Error(w, http.StatusInternalServerError, "internal_error")
	}
}

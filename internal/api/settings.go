package api

import (
	"net/http"

	"github.com/ashureev/codeleap/internal/domain"
	"github.com/ashureev/codeleap/internal/format"
)

type keyRequest struct {
	APIKey string `json:"apiKey"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

type formatRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

type settingsResponse struct {
	HasAPIKey bool   `json:"hasApiKey"`
	Theme     string `json:"theme"`
	Provider  string `json:"provider"`
}

// SaveKey validates an API key with the provider and stores it for the device.
func (h *Handler) SaveKey(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req keyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.quiz.SaveAPIKey(r.Context(), uid, req.APIKey); err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// RemoveKey forgets the device's API key.
func (h *Handler) RemoveKey(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.quiz.RemoveAPIKey(r.Context(), uid); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Settings reports the device's key presence, theme, and the active provider.
// The key itself is never returned.
func (h *Handler) Settings(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	hasKey, err := h.quiz.HasStoredKey(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	theme, err := h.quiz.Theme(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, settingsResponse{HasAPIKey: hasKey, Theme: theme, Provider: h.provider})
}

// SetTheme stores the device's theme.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req themeRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.quiz.SetTheme(r.Context(), uid, req.Theme); err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]string{"theme": req.Theme})
}

// Format pretty-prints a snippet. Unknown languages are returned unchanged.
func (h *Handler) Format(w http.ResponseWriter, r *http.Request) {
	var req formatRequest
	if !decode(w, r, &req) {
		return
	}
	lang := domain.Language(req.Language)
	JSON(w, http.StatusOK, map[string]interface{}{
		"code":      format.Format(req.Code, lang),
		"hasMarkup": lang == domain.LanguageHTML && format.HasMarkup(req.Code),
	})
}

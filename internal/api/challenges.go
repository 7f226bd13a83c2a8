package api

import (
	"net/http"

	"github.com/ashureev/codeleap/internal/domain"
	"github.com/ashureev/codeleap/internal/format"
	"github.com/ashureev/codeleap/internal/history"
	"github.com/go-chi/chi/v5"
)

type generateRequest struct {
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
}

type answerRequest struct {
	Verdict *bool `json:"verdict"`
}

type answerResponse struct {
	Challenge *domain.Challenge `json:"challenge"`
	Correct   bool              `json:"correct"`
}

type currentResponse struct {
	State     string            `json:"state"`
	Challenge *domain.Challenge `json:"challenge"`
	HasMarkup bool              `json:"hasMarkup"`
}

// Generate produces a new challenge. Unknown languages and difficulties fall
// back to javascript and easy.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req generateRequest
	if !decode(w, r, &req) {
		return
	}

	out, err := h.quiz.Generate(r.Context(), uid, domain.Language(req.Language), domain.Difficulty(req.Difficulty))
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, out)
}

// Current returns the displayed challenge and session state.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	s, err := h.quiz.Session(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c := s.Current()
	if c == nil {
		Error(w, http.StatusNotFound, "no_current_challenge")
		return
	}
	JSON(w, http.StatusOK, currentResponse{
		State:     string(s.State()),
		Challenge: c,
		HasMarkup: c.Language == domain.LanguageHTML && format.HasMarkup(c.Code),
	})
}

// Answer records the user's verdict on a challenge.
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var req answerRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Verdict == nil {
		Error(w, http.StatusBadRequest, "verdict is required")
		return
	}

	s, err := h.quiz.Session(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := s.Answer(r.Context(), chi.URLParam(r, "id"), *req.Verdict)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, answerResponse{Challenge: c, Correct: c.AnsweredCorrectly()})
}

// History lists history entries newest first. "all" or an empty value
// disables a filter.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var f history.Filter
	if v := r.URL.Query().Get("language"); v != "" && v != "all" {
		lang, ok := domain.ParseLanguage(v)
		if !ok {
			Error(w, http.StatusBadRequest, "unknown language")
			return
		}
		f.Language = lang
	}
	if v := r.URL.Query().Get("difficulty"); v != "" && v != "all" {
		diff, ok := domain.ParseDifficulty(v)
		if !ok {
			Error(w, http.StatusBadRequest, "unknown difficulty")
			return
		}
		f.Difficulty = diff
	}

	s, err := h.quiz.Session(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"items": s.History().Filter(f),
	})
}

// ClearHistory removes every history entry for the device.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.quiz.ClearHistory(r.Context(), uid); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats returns accuracy statistics over the history.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	s, err := h.quiz.Session(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	JSON(w, http.StatusOK, s.History().Stats())
}

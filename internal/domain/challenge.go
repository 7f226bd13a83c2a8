package domain

import (
	"errors"
	"strings"
	"time"
)

// Language is the snippet language of a challenge.
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageHTML       Language = "html"
	LanguageCSS        Language = "css"
)

// Languages lists every supported language in display order.
var Languages = []Language{LanguageJavaScript, LanguageHTML, LanguageCSS}

// ParseLanguage returns the Language named by s. Matching is case-insensitive.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	return l, l.Valid()
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LanguageJavaScript, LanguageHTML, LanguageCSS:
		return true
	}
	return false
}

// DisplayName returns the human-readable language name.
func (l Language) DisplayName() string {
	switch l {
	case LanguageJavaScript:
		return "JavaScript"
	case LanguageHTML:
		return "HTML"
	case LanguageCSS:
		return "CSS"
	}
	return string(l)
}

// Difficulty is the challenge difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every difficulty from easiest to hardest.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty returns the Difficulty named by s. Matching is case-insensitive.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

// Valid reports whether d is one of the supported difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Origin records where a challenge came from.
type Origin string

const (
	OriginAI       Origin = "ai"
	OriginFallback Origin = "fallback"
)

// ErrAlreadyAnswered is returned when a second answer is recorded on a challenge.
var ErrAlreadyAnswered = errors.New("challenge already answered")

// Challenge is one quiz unit: a snippet, its verdict, and explanatory text.
// Timestamp is Unix milliseconds so persisted history stays compatible with
// browser-side storage.
type Challenge struct {
	ID              string     `json:"id"`
	Problem         string     `json:"problem"`
	Code            string     `json:"code"`
	CodeExplanation string     `json:"codeExplanation"`
	Language        Language   `json:"language"`
	Difficulty      Difficulty `json:"difficulty"`
	IsCorrect       bool       `json:"isCorrect"`
	Explanation     string     `json:"explanation"`
	AdditionalInfo  string     `json:"additionalInfo,omitempty"`
	UserAnswer      *bool      `json:"userAnswer,omitempty"`
	Origin          Origin     `json:"origin,omitempty"`
	Timestamp       int64      `json:"timestamp"`
}

// Answer records the user's verdict. The first answer is final.
func (c *Challenge) Answer(verdict bool) error {
	if c.UserAnswer != nil {
		return ErrAlreadyAnswered
	}
	c.UserAnswer = &verdict
	return nil
}

// Answered returns true once a verdict has been recorded.
func (c *Challenge) Answered() bool {
	return c.UserAnswer != nil
}

// AnsweredCorrectly returns true if the recorded verdict matches the ground truth.
func (c *Challenge) AnsweredCorrectly() bool {
	return c.UserAnswer != nil && *c.UserAnswer == c.IsCorrect
}

// CreatedAt returns the creation time.
func (c *Challenge) CreatedAt() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// Clone returns a deep copy of c.
func (c *Challenge) Clone() *Challenge {
	out := *c
	if c.UserAnswer != nil {
		v := *c.UserAnswer
		out.UserAnswer = &v
	}
	return &out
}

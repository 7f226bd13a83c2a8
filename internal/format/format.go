// Package format re-indents code snippets for display.
//
// The formatters are line and token heuristics, not parsers. They never fail:
// unbalanced braces or tags produce best-effort indentation, and the indent
// level never drops below zero. Braces inside JavaScript strings or comments
// are counted like any other brace.
package format

import (
	"regexp"
	"strings"

	"github.com/ashureev/codeleap/internal/domain"
)

const indentUnit = "  "

var markupPattern = regexp.MustCompile(`<\s*[a-zA-Z][^>]*>`)

// Format returns code re-indented for lang. Empty or whitespace-only input,
// and input for an unknown language, is returned unchanged.
func Format(code string, lang domain.Language) string {
	if strings.TrimSpace(code) == "" {
		return code
	}
	switch lang {
	case domain.LanguageHTML:
		return formatHTML(code)
	case domain.LanguageCSS:
		return formatCSS(code)
	case domain.LanguageJavaScript:
		return formatJavaScript(code)
	}
	return code
}

// HasMarkup reports whether code contains at least one HTML-like tag and is
// therefore worth rendering as a live preview.
func HasMarkup(code string) bool {
	return strings.TrimSpace(code) != "" && markupPattern.MatchString(code)
}

// writer accumulates indented lines.
type writer struct {
	b     strings.Builder
	depth int
}

func (w *writer) line(s string) {
	w.b.WriteString(strings.Repeat(indentUnit, w.depth))
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *writer) blank() {
	w.b.WriteByte('\n')
}

func (w *writer) indent() {
	w.depth++
}

func (w *writer) dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

func (w *writer) String() string {
	return strings.TrimSpace(w.b.String())
}

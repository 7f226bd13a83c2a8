// Package challenge turns AI output and fallback entries into Challenge records.
package challenge

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ashureev/codeleap/internal/domain"
)

var (
	// ErrMalformedPayload indicates the sanitized text was not a JSON object.
	ErrMalformedPayload = errors.New("malformed challenge payload")
	// ErrMissingFields indicates the payload lacks problem, code or a boolean verdict.
	ErrMissingFields = errors.New("challenge payload missing required fields")
)

var fenceMarker = regexp.MustCompile("```[A-Za-z0-9_+-]*")

// Sanitize extracts the JSON object span from noisy model output.
//
// Code fence markers are removed and the result trimmed. The text between the
// first '{' and the last '}' inclusive is returned. When either brace is
// missing the trimmed text is returned as is so that decoding fails loudly.
func Sanitize(text string) string {
	s := strings.TrimSpace(fenceMarker.ReplaceAllString(text, ""))
	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first == -1 || last == -1 || last < first {
		return s
	}
	return s[first : last+1]
}

// UnescapeCode resolves literal \n, \t, \", \' and \\ sequences left behind
// when a model double-escapes the code field. Tabs become two spaces. Other
// backslash sequences are kept verbatim.
func UnescapeCode(code string) string {
	if !strings.Contains(code, `\`) {
		return code
	}
	var b strings.Builder
	b.Grow(len(code))
	for i := 0; i < len(code); i++ {
		c := code[i]
		if c != '\\' || i+1 == len(code) {
			b.WriteByte(c)
			continue
		}
		switch code[i+1] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteString("  ")
		case '"':
			b.WriteByte('"')
		case '\'':
			b.WriteByte('\'')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte(c)
			continue
		}
		i++
	}
	return b.String()
}

// Raw is a partially populated challenge from an upstream source.
// A nil IsCorrect means the source did not state a verdict.
type Raw struct {
	Problem         string
	Code            string
	CodeExplanation string
	Language        domain.Language
	Difficulty      domain.Difficulty
	IsCorrect       *bool
	Explanation     string
	AdditionalInfo  string
	Timestamp       int64
}

type payload struct {
	Problem         string          `json:"problem"`
	Code            string          `json:"code"`
	CodeExplanation string          `json:"codeExplanation"`
	Language        string          `json:"language"`
	Difficulty      string          `json:"difficulty"`
	IsCorrect       json.RawMessage `json:"isCorrect"`
	Explanation     string          `json:"explanation"`
	AdditionalInfo  string          `json:"additionalInfo"`
}

// Parse sanitizes model output and decodes it into a Raw challenge.
// Only the code field is unescaped. Any error means the caller must fall back.
func Parse(text string) (Raw, error) {
	var p payload
	if err := json.Unmarshal([]byte(Sanitize(text)), &p); err != nil {
		return Raw{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	verdict, ok := parseVerdict(p.IsCorrect)
	if strings.TrimSpace(p.Problem) == "" || strings.TrimSpace(p.Code) == "" || !ok {
		return Raw{}, ErrMissingFields
	}

	return Raw{
		Problem:         strings.TrimSpace(p.Problem),
		Code:            UnescapeCode(p.Code),
		CodeExplanation: strings.TrimSpace(p.CodeExplanation),
		Language:        domain.Language(p.Language),
		Difficulty:      domain.Difficulty(p.Difficulty),
		IsCorrect:       &verdict,
		Explanation:     strings.TrimSpace(p.Explanation),
		AdditionalInfo:  strings.TrimSpace(p.AdditionalInfo),
	}, nil
}

// parseVerdict accepts a JSON boolean or the strings "true"/"false".
func parseVerdict(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return false, false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

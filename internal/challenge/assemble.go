package challenge

import (
	"fmt"
	"time"

	"github.com/ashureev/codeleap/internal/domain"
	"github.com/ashureev/codeleap/internal/fallback"
	"github.com/google/uuid"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Assembler normalizes raw payloads into complete Challenge records.
type Assembler struct {
	clock Clock
	newID func() string
}

// NewAssembler creates an assembler. A nil clock uses the system clock.
func NewAssembler(clock Clock) *Assembler {
	if clock == nil {
		clock = systemClock{}
	}
	return &Assembler{clock: clock, newID: uuid.NewString}
}

// Assemble fills id, timestamp and any missing text fields. Language and
// difficulty always come from the arguments, which name the bucket or the
// AI request the raw payload was produced for. A verdict and explanation
// supplied by the source are never replaced.
func (a *Assembler) Assemble(raw Raw, lang domain.Language, diff domain.Difficulty, origin domain.Origin) *domain.Challenge {
	now := a.clock.Now()

	c := &domain.Challenge{
		ID:              a.id(origin, lang, diff, now),
		Problem:         raw.Problem,
		Code:            raw.Code,
		CodeExplanation: raw.CodeExplanation,
		Language:        lang,
		Difficulty:      diff,
		IsCorrect:       true,
		Explanation:     raw.Explanation,
		AdditionalInfo:  raw.AdditionalInfo,
		Origin:          origin,
		Timestamp:       raw.Timestamp,
	}
	if raw.IsCorrect != nil {
		c.IsCorrect = *raw.IsCorrect
	}
	if c.Timestamp <= 0 {
		c.Timestamp = now.UnixMilli()
	}

	if c.Problem == "" {
		c.Problem = fmt.Sprintf("Is this %s code correct?", lang.DisplayName())
	}
	if c.Explanation == "" {
		if c.IsCorrect {
			c.Explanation = "This code is correct."
		} else {
			c.Explanation = "This code is incorrect."
		}
	}
	if c.CodeExplanation == "" {
		c.CodeExplanation = defaultCodeExplanation(origin, lang, diff)
	}
	if c.AdditionalInfo == "" {
		c.AdditionalInfo = defaultAdditionalInfo(origin, lang, diff)
	}
	return c
}

// AssembleFallback packages a bank selection. The challenge takes the
// language and difficulty of the bucket actually drawn from.
func (a *Assembler) AssembleFallback(sel fallback.Selection) *domain.Challenge {
	verdict := sel.Entry.Correct
	raw := Raw{
		Problem:         sel.Entry.Problem,
		Code:            sel.Entry.Code,
		CodeExplanation: sel.Entry.CodeExplanation,
		IsCorrect:       &verdict,
		Explanation:     sel.Entry.Explanation,
		AdditionalInfo:  sel.Entry.AdditionalInfo,
	}
	return a.Assemble(raw, sel.Language, sel.Difficulty, domain.OriginFallback)
}

func (a *Assembler) id(origin domain.Origin, lang domain.Language, diff domain.Difficulty, now time.Time) string {
	suffix := a.newID()
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	return fmt.Sprintf("%s-%s-%s-%d-%s", origin, lang, diff, now.UnixMilli(), suffix)
}

func defaultCodeExplanation(origin domain.Origin, lang domain.Language, diff domain.Difficulty) string {
	if origin != domain.OriginFallback {
		return fmt.Sprintf("This %s code demonstrates key concepts.", lang)
	}
	concept := "programming"
	switch lang {
	case domain.LanguageHTML:
		concept = "markup"
	case domain.LanguageCSS:
		concept = "styling"
	}
	return fmt.Sprintf("This %s demonstrates %s-level %s concepts.", lang.DisplayName(), diff, concept)
}

func defaultAdditionalInfo(origin domain.Origin, lang domain.Language, diff domain.Difficulty) string {
	if origin != domain.OriginFallback {
		return fmt.Sprintf("This is a %s %s example.", diff, lang)
	}
	switch lang {
	case domain.LanguageHTML:
		return fmt.Sprintf("Proper HTML structure is essential for %s web development.", diff)
	case domain.LanguageCSS:
		return fmt.Sprintf("Mastering %s CSS concepts is important for modern web design.", diff)
	}
	return fmt.Sprintf("Understanding these %s JavaScript concepts is important for development.", diff)
}

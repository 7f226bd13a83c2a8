// Package fallback provides the offline challenge bank used when the AI
// provider cannot supply a challenge.
//
// Selection is a pure function of (language, difficulty, seed) and the
// catalog. The bank never generates randomness of its own.
package fallback

import (
	"errors"
	"fmt"

	"github.com/ashureev/codeleap/internal/domain"
)

// Default bucket used when the requested inputs are unusable.
const (
	DefaultLanguage   = domain.LanguageJavaScript
	DefaultDifficulty = domain.DifficultyEasy
)

// Entry is a single pre-authored challenge. Problem, CodeExplanation and
// AdditionalInfo are optional; empty values are templated at assembly time.
type Entry struct {
	Code            string
	Correct         bool
	Explanation     string
	Problem         string
	CodeExplanation string
	AdditionalInfo  string
}

// Key identifies a catalog bucket.
type Key struct {
	Language   domain.Language
	Difficulty domain.Difficulty
}

// Catalog maps each bucket to its ordered entries.
type Catalog map[Key][]Entry

// Selection is the result of a bank lookup. Language and Difficulty name the
// bucket the entry was actually drawn from, which may differ from the request
// when a substitution applied.
type Selection struct {
	Entry      Entry
	Language   domain.Language
	Difficulty domain.Difficulty
	Index      int
}

// ErrNoDefaultBucket is returned when a catalog lacks the default bucket.
var ErrNoDefaultBucket = errors.New("catalog has no javascript/easy entries")

// Bank is an immutable challenge catalog.
type Bank struct {
	catalog Catalog
}

// New returns a bank over a private copy of c.
func New(c Catalog) (*Bank, error) {
	if len(c[Key{DefaultLanguage, DefaultDifficulty}]) == 0 {
		return nil, ErrNoDefaultBucket
	}
	cp := make(Catalog, len(c))
	for k, entries := range c {
		if !k.Language.Valid() || !k.Difficulty.Valid() {
			return nil, fmt.Errorf("invalid bucket %s/%s", k.Language, k.Difficulty)
		}
		cp[k] = append([]Entry(nil), entries...)
	}
	return &Bank{catalog: cp}, nil
}

var defaultBank = func() *Bank {
	b, err := New(builtinCatalog())
	if err != nil {
		panic("fallback: invalid builtin catalog: " + err.Error())
	}
	return b
}()

// Default returns the built-in bank.
func Default() *Bank {
	return defaultBank
}

// Select returns entries[seed mod len] from the resolved bucket.
//
// An unknown difficulty or an empty bucket resolves to the language's easy
// bucket. An unknown language, or one without an easy bucket, resolves to
// javascript/easy. Negative seeds are reduced to a non-negative index.
func (b *Bank) Select(lang domain.Language, diff domain.Difficulty, seed int64) Selection {
	key := b.resolve(lang, diff)
	entries := b.catalog[key]
	n := int64(len(entries))
	idx := int(((seed % n) + n) % n)
	return Selection{
		Entry:      entries[idx],
		Language:   key.Language,
		Difficulty: key.Difficulty,
		Index:      idx,
	}
}

func (b *Bank) resolve(lang domain.Language, diff domain.Difficulty) Key {
	if k := (Key{lang, diff}); len(b.catalog[k]) > 0 {
		return k
	}
	if k := (Key{lang, domain.DifficultyEasy}); len(b.catalog[k]) > 0 {
		return k
	}
	return Key{DefaultLanguage, DefaultDifficulty}
}

// Len returns the number of entries stored under the exact bucket.
func (b *Bank) Len(lang domain.Language, diff domain.Difficulty) int {
	return len(b.catalog[Key{lang, diff}])
}

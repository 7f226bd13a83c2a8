package prompt

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/ashureev/codeleap/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var builtinTopics []byte

// Catalog holds the topic lists and complexity instructions used to build prompts.
type Catalog struct {
	Languages  map[domain.Language]map[domain.Difficulty][]string `yaml:"languages"`
	Complexity map[domain.Difficulty]string                       `yaml:"complexity"`
}

// ParseCatalog decodes a single YAML document and checks that every
// language and difficulty has at least one topic and an instruction.
func ParseCatalog(data []byte) (Catalog, error) {
	var c Catalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return Catalog{}, fmt.Errorf("parse topics: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return Catalog{}, fmt.Errorf("parse topics: multiple documents are not supported")
		}
		return Catalog{}, fmt.Errorf("parse topics: %w", err)
	}
	if err := c.validate(); err != nil {
		return Catalog{}, err
	}
	return c, nil
}

func (c Catalog) validate() error {
	for _, lang := range domain.Languages {
		for _, diff := range domain.Difficulties {
			if len(c.Languages[lang][diff]) == 0 {
				return fmt.Errorf("topics: no topics for %s/%s", lang, diff)
			}
		}
	}
	for _, diff := range domain.Difficulties {
		if c.Complexity[diff] == "" {
			return fmt.Errorf("topics: no complexity instruction for %s", diff)
		}
	}
	return nil
}

// DefaultCatalog returns the embedded topic catalog.
func DefaultCatalog() Catalog {
	c, err := ParseCatalog(builtinTopics)
	if err != nil {
		panic("prompt: invalid embedded topics: " + err.Error())
	}
	return c
}

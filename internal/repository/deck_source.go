package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"PitchDeck/internal/domain/models"
	"PitchDeck/internal/domain/repository"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed deck.yaml
var defaultDeck []byte

var ErrEmptyDeck = errors.New("deck has no slides")

// YAMLDeckSource reads deck content from a YAML file, or from the deck
// embedded in the binary when no path is configured.
type YAMLDeckSource struct {
	path     string
	validate *validator.Validate
}

func NewYAMLDeckSource(path string) repository.DeckSource {
	return &YAMLDeckSource{path: path, validate: validator.New()}
}

func (s *YAMLDeckSource) Load(ctx context.Context) (*models.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := defaultDeck
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read deck: %w", err)
		}
		raw = b
	}
	return ParseDeck(raw, s.validate)
}

// ParseDeck decodes and checks a deck document.
func ParseDeck(raw []byte, v *validator.Validate) (*models.Deck, error) {
	var d models.Deck
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse deck: %w", err)
	}
	if len(d.Slides) == 0 {
		return nil, ErrEmptyDeck
	}

	seen := make(map[string]struct{}, len(d.Slides))
	charts := make(map[string]struct{})
	for _, sl := range d.Slides {
		if sl.ID == "" {
			return nil, fmt.Errorf("parse deck: slide %q has no id", sl.Title)
		}
		if _, dup := seen[sl.ID]; dup {
			return nil, fmt.Errorf("parse deck: duplicate slide id %q", sl.ID)
		}
		seen[sl.ID] = struct{}{}

		for _, c := range sl.Charts {
			if _, dup := charts[c.ID]; dup || c.ID == "" {
				return nil, fmt.Errorf("parse deck: slide %q: bad or duplicate chart id %q", sl.ID, c.ID)
			}
			charts[c.ID] = struct{}{}
		}
		for _, t := range sl.Tabs {
			for _, ref := range t.Charts {
				if _, ok := sl.Chart(ref); !ok {
					return nil, fmt.Errorf("parse deck: tab %s/%s references unknown chart %q", sl.ID, t.ID, ref)
				}
			}
		}
	}

	if len(d.Roadmap.Phases) > 0 && v != nil {
		if err := v.Struct(d.Roadmap); err != nil {
			return nil, fmt.Errorf("parse deck: roadmap: %w", err)
		}
	}
	return &d, nil
}

// Package recipes suggests a dish for a set of detected ingredients, either
// from a local corpus or from a hosted language model.
package recipes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/foodlens/foodlens-go/internal/errors"
)

// Recipe is one corpus entry. Ingredients are canonical vocabulary names;
// directions are ordered preparation steps.
type Recipe struct {
	Name        string   `yaml:"name"`
	Ingredients []string `yaml:"ingredients"`
	Directions  []string `yaml:"directions"`
}

// Book is an ordered recipe corpus. Order matters: matching returns the
// first hit, so a corpus sorted by preference behaves as a ranking.
type Book struct {
	recipes []Recipe
}

// NewBook wraps an already-loaded recipe list.
func NewBook(recipes []Recipe) *Book {
	return &Book{recipes: recipes}
}

// LoadBook reads a YAML list of recipes.
func LoadBook(path string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("reading recipe corpus: %w", err)).
			Component("recipes").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	var recipes []Recipe
	if err := yaml.Unmarshal(data, &recipes); err != nil {
		return nil, errors.New(fmt.Errorf("parsing recipe corpus: %w", err)).
			Component("recipes").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
	return &Book{recipes: recipes}, nil
}

// Len returns the number of recipes in the book.
func (b *Book) Len() int {
	return len(b.recipes)
}

// Find returns the first recipe whose ingredients are all present among the
// detected ingredients, or nil when nothing is cookable. A recipe with no
// ingredients never matches.
func (b *Book) Find(detected []string) *Recipe {
	have := make(map[string]struct{}, len(detected))
	for _, ing := range detected {
		have[ing] = struct{}{}
	}

	for i := range b.recipes {
		r := &b.recipes[i]
		if len(r.Ingredients) == 0 {
			continue
		}
		ok := true
		for _, ing := range r.Ingredients {
			if _, found := have[ing]; !found {
				ok = false
				break
			}
		}
		if ok {
			found := *r
			return &found
		}
	}
	return nil
}

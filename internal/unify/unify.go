// Package unify maps the open-ended labels produced by classification onto
// the canonical ingredient vocabulary used downstream for evaluation and
// recipe matching.
package unify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/foodlens/foodlens-go/internal/errors"
)

// LabelMap translates raw classifier labels to canonical ingredient names.
// Multiple raw labels may map to the same canonical name.
type LabelMap struct {
	mapping map[string]string
}

// NewLabelMap builds a LabelMap from an explicit raw-to-canonical mapping.
func NewLabelMap(mapping map[string]string) *LabelMap {
	m := make(map[string]string, len(mapping))
	for raw, canonical := range mapping {
		m[raw] = canonical
	}
	return &LabelMap{mapping: m}
}

// LoadLabelMap reads a YAML document of raw: canonical pairs.
func LoadLabelMap(path string) (*LabelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("reading label map: %w", err)).
			Component("unify").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	var mapping map[string]string
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, errors.New(fmt.Errorf("parsing label map: %w", err)).
			Component("unify").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
	return NewLabelMap(mapping), nil
}

// Unify translates one raw label. A label absent from the map is reported
// rather than passed through, so vocabulary drift surfaces at the call site
// instead of corrupting downstream ingredient sets.
func (m *LabelMap) Unify(raw string) (string, error) {
	canonical, ok := m.mapping[raw]
	if !ok {
		return "", errors.Newf("label %q has no canonical mapping", raw).
			Component("unify").
			Category(errors.CategoryUnknownLabel).
			Context("label", raw).
			Build()
	}
	return canonical, nil
}

// Len returns the number of raw labels the map covers.
func (m *LabelMap) Len() int {
	return len(m.mapping)
}

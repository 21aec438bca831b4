package unify

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/foodlens/foodlens-go/internal/errors"
)

// Vocabulary extracts canonical ingredient names from free text such as
// recipe lines ("2 tbsp olive oil"). Matching is case-insensitive and
// tolerates common English plurals; composite entries are tried before
// single words so "olive oil" wins over "oil".
type Vocabulary struct {
	entries []vocabEntry
}

type vocabEntry struct {
	name    string
	pattern *regexp.Regexp
}

// NewVocabulary compiles match patterns for the given ingredient names.
// Input order is kept among entries with the same word count, so earlier
// names win exact ties.
func NewVocabulary(names []string) *Vocabulary {
	entries := make([]vocabEntry, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		entries = append(entries, vocabEntry{name: name, pattern: compileEntry(name)})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return len(strings.Fields(entries[i].name)) > len(strings.Fields(entries[j].name))
	})
	return &Vocabulary{entries: entries}
}

// LoadVocabulary reads a YAML list of ingredient names.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("reading vocabulary: %w", err)).
			Component("unify").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, errors.New(fmt.Errorf("parsing vocabulary: %w", err)).
			Component("unify").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
	return NewVocabulary(names), nil
}

// Extract returns the first vocabulary entry found in the text, always in
// its canonical singular form, or "" when no entry matches.
func (v *Vocabulary) Extract(text string) string {
	lowered := strings.ToLower(text)
	for _, entry := range v.entries {
		if entry.pattern.MatchString(lowered) {
			return entry.name
		}
	}
	return ""
}

// Names returns the canonical names in matching order.
func (v *Vocabulary) Names() []string {
	names := make([]string, len(v.entries))
	for i, e := range v.entries {
		names[i] = e.name
	}
	return names
}

// compileEntry builds the pattern for one vocabulary entry. Only the last
// word of a composite entry is pluralized, matching how English composites
// inflect ("bell peppers", not "bells pepper").
func compileEntry(name string) *regexp.Regexp {
	words := strings.Fields(name)
	last := words[len(words)-1]

	var b strings.Builder
	b.WriteString(`\b`)
	for _, w := range words[:len(words)-1] {
		b.WriteString(regexp.QuoteMeta(w))
		b.WriteString(`\s+`)
	}
	b.WriteString(`(?:`)
	b.WriteString(strings.Join(pluralForms(last), "|"))
	b.WriteString(`)\b`)
	return regexp.MustCompile(b.String())
}

// pluralForms lists the singular plus the plural spellings matched for a
// word: +s, +es, y to ies, and f/fe to ves.
func pluralForms(word string) []string {
	quoted := regexp.QuoteMeta(word)
	forms := []string{quoted, quoted + "s", quoted + "es"}
	switch {
	case strings.HasSuffix(word, "y"):
		forms = append(forms, regexp.QuoteMeta(strings.TrimSuffix(word, "y"))+"ies")
	case strings.HasSuffix(word, "fe"):
		forms = append(forms, regexp.QuoteMeta(strings.TrimSuffix(word, "fe"))+"ves")
	case strings.HasSuffix(word, "f"):
		forms = append(forms, regexp.QuoteMeta(strings.TrimSuffix(word, "f"))+"ves")
	}
	return forms
}

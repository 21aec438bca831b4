package unify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodlens/foodlens-go/internal/errors"
)

func TestExtractFromRecipeLines(t *testing.T) {
	t.Parallel()

	v := NewVocabulary([]string{"egg", "olive oil", "oil", "tomato", "flour"})

	cases := []struct {
		line string
		want string
	}{
		{"2 tbsp olive oil", "olive oil"},
		{"3 eggs", "egg"},
		{"1 Egg, lightly beaten", "egg"},
		{"4 ripe tomatoes", "tomato"},
		{"200g flour, sifted", "flour"},
		{"a pinch of salt", ""},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, v.Extract(tc.line), "line %q", tc.line)
	}
}

func TestExtractPrefersCompositeEntries(t *testing.T) {
	t.Parallel()

	// Single word listed first; the two-word entry must still win.
	v := NewVocabulary([]string{"pepper", "bell pepper"})

	assert.Equal(t, "bell pepper", v.Extract("2 bell peppers, diced"))
	assert.Equal(t, "pepper", v.Extract("freshly ground pepper"))
}

func TestExtractPluralForms(t *testing.T) {
	t.Parallel()

	v := NewVocabulary([]string{"tomato", "berry", "loaf", "bench", "knife"})

	cases := []struct {
		line string
		want string
	}{
		{"tomatoes", "tomato"},
		{"berries", "berry"},
		{"loaves", "loaf"},
		{"benches", "bench"},
		{"knives", "knife"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, v.Extract(tc.line), "line %q", tc.line)
	}
}

func TestExtractRespectsWordBoundaries(t *testing.T) {
	t.Parallel()

	v := NewVocabulary([]string{"pea"})

	assert.Equal(t, "pea", v.Extract("100g peas"))
	assert.Equal(t, "", v.Extract("peanut butter"))
	assert.Equal(t, "", v.Extract("appeal to taste"))
}

func TestLoadVocabulary(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "vocab.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- olive oil\n- egg\n"), 0o644))

	v, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"olive oil", "egg"}, v.Names())
}

func TestLoadVocabularyErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("key: value\n"), 0o644))
	_, err = LoadVocabulary(bad)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

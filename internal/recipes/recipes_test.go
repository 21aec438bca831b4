package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/errors"
)

func testBook() *Book {
	return NewBook([]Recipe{
		{Name: "omelette", Ingredients: []string{"egg", "butter"}, Directions: []string{"beat eggs", "cook in butter"}},
		{Name: "pancakes", Ingredients: []string{"egg", "flour", "milk"}, Directions: []string{"mix", "fry"}},
		{Name: "toast", Ingredients: []string{"bread"}, Directions: []string{"toast the bread"}},
	})
}

func TestFindFirstCookableRecipe(t *testing.T) {
	t.Parallel()

	book := testBook()

	got := book.Find([]string{"flour", "egg", "milk", "butter"})
	require.NotNil(t, got)
	assert.Equal(t, "omelette", got.Name)

	got = book.Find([]string{"egg", "flour", "milk"})
	require.NotNil(t, got)
	assert.Equal(t, "pancakes", got.Name)
}

func TestFindNothingCookable(t *testing.T) {
	t.Parallel()

	book := testBook()

	assert.Nil(t, book.Find([]string{"tomato", "lettuce"}))
	assert.Nil(t, book.Find(nil))
}

func TestFindSubsetSemantics(t *testing.T) {
	t.Parallel()

	// Extra detected ingredients do not disqualify a recipe; missing
	// ones do.
	book := NewBook([]Recipe{
		{Name: "bake", Ingredients: []string{"egg", "flour"}, Directions: []string{"mix", "bake"}},
	})

	got := book.Find([]string{"egg", "flour", "milk"})
	require.NotNil(t, got)
	assert.Equal(t, []string{"mix", "bake"}, got.Directions)

	assert.Nil(t, book.Find([]string{"egg"}))
}

func TestFindIgnoresEmptyIngredientLists(t *testing.T) {
	t.Parallel()

	book := NewBook([]Recipe{
		{Name: "mystery", Directions: []string{"unknown"}},
		{Name: "toast", Ingredients: []string{"bread"}, Directions: []string{"toast the bread"}},
	})

	got := book.Find([]string{"bread"})
	require.NotNil(t, got)
	assert.Equal(t, "toast", got.Name)
}

func TestLoadBook(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "recipes.yaml")
	doc := `- name: omelette
  ingredients: [egg, butter]
  directions: [beat eggs, cook in butter]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	book, err := LoadBook(path)
	require.NoError(t, err)
	assert.Equal(t, 1, book.Len())

	got := book.Find([]string{"egg", "butter"})
	require.NotNil(t, got)
	assert.Equal(t, []string{"beat eggs", "cook in butter"}, got.Directions)
}

func TestLoadBookErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadBook(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("not: a: list\n"), 0o644))
	_, err = LoadBook(bad)
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileParsing))
}

func TestChatGeneratorGenerate(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "Omelette\n1. Beat eggs."}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	g := NewChatGenerator(conf.GeneratorSettings{Endpoint: server.URL, Model: "test-model"})
	text, err := g.Generate(context.Background(), []string{"egg", "butter"})
	require.NoError(t, err)
	assert.Equal(t, "Omelette\n1. Beat eggs.", text)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "test-model", gotBody.Model)
	require.Len(t, gotBody.Messages, 2)
	assert.Contains(t, gotBody.Messages[1].Content, "egg, butter")
}

func TestChatGeneratorServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	g := NewChatGenerator(conf.GeneratorSettings{Endpoint: server.URL, Model: "test-model"})
	_, err := g.Generate(context.Background(), []string{"egg"})
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryNetwork))
}

package embedder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/foodlens/foodlens-go/internal/errors"
)

// embeddingSuffix is the file name suffix of one cached label vector. The
// label is everything before the suffix.
const embeddingSuffix = "_embedding.json"

// Library is the read-only set of label embeddings one classification run
// works against. Entries keep a fixed order so that distance ties resolve
// deterministically to the earliest entry.
type Library struct {
	entries []LabelEmbedding
}

// NewLibrary builds a library from entries in the given order.
func NewLibrary(entries []LabelEmbedding) *Library {
	copied := make([]LabelEmbedding, len(entries))
	copy(copied, entries)
	return &Library{entries: copied}
}

// Entries returns the embeddings in library order.
func (l *Library) Entries() []LabelEmbedding {
	return l.entries
}

// Len returns the number of labels in the library.
func (l *Library) Len() int {
	return len(l.entries)
}

// LoadLibrary reads every <label>_embedding.json file in dir, recovering the
// label from the file name. Files are loaded in sorted name order so the
// library order does not depend on directory enumeration.
func LoadLibrary(dir string) (*Library, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New(err).
			Component("embedder").
			Category(errors.CategoryConfiguration).
			Context("dir", dir).
			Build()
	}

	var names []string
	for _, de := range dirEntries {
		if !de.IsDir() && strings.HasSuffix(de.Name(), embeddingSuffix) {
			names = append(names, de.Name())
		}
	}
	sort.Strings(names)

	entries := make([]LabelEmbedding, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name)) //nolint:gosec // G304: paths come from the configured cache dir
		if err != nil {
			return nil, errors.New(err).
				Component("embedder").
				Category(errors.CategoryFileIO).
				Context("file", name).
				Build()
		}

		var vector []float64
		if err := json.Unmarshal(data, &vector); err != nil {
			return nil, errors.New(err).
				Component("embedder").
				Category(errors.CategoryFileParsing).
				Context("file", name).
				Build()
		}

		entries = append(entries, LabelEmbedding{
			Label:  strings.TrimSuffix(name, embeddingSuffix),
			Vector: vector,
		})
	}

	return &Library{entries: entries}, nil
}

// SaveEmbedding writes one label vector into dir using the cache naming
// convention.
func SaveEmbedding(dir, label string, vector []float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.New(err).
			Component("embedder").
			Category(errors.CategoryFileIO).
			Context("dir", dir).
			Build()
	}

	data, err := json.Marshal(vector)
	if err != nil {
		return errors.New(err).
			Component("embedder").
			Category(errors.CategoryFileIO).
			Context("label", label).
			Build()
	}

	path := filepath.Join(dir, label+embeddingSuffix)
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: cache files are not sensitive
		return errors.New(err).
			Component("embedder").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	return nil
}

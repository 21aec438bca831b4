package embedder

import (
	"context"
	"image"

	"github.com/foodlens/foodlens-go/internal/errors"
)

// Static is a deterministic in-memory embedder used in tests. Crops map to
// vectors by their top-left pixel color through ImageVector; labels map
// through the Texts table.
type Static struct {
	// ImageVector computes the vector for a crop. When nil, every crop
	// embeds to FixedVector.
	ImageVector func(img image.Image) []float64
	FixedVector []float64
	Texts       map[string][]float64
	// FailImages makes EmbedImage fail, imitating a model that cannot
	// process the crop.
	FailImages bool
}

// EmbedImage implements Embedder.
func (s *Static) EmbedImage(_ context.Context, img image.Image) ([]float64, error) {
	if s.FailImages {
		return nil, errors.Newf("embedding model cannot process crop").
			Component("embedder").
			Category(errors.CategoryEmbedding).
			Build()
	}
	if s.ImageVector != nil {
		return s.ImageVector(img), nil
	}
	return s.FixedVector, nil
}

// EmbedText implements Embedder.
func (s *Static) EmbedText(_ context.Context, label string) ([]float64, error) {
	if v, ok := s.Texts[label]; ok {
		return v, nil
	}
	return nil, errors.Newf("no static embedding for label %q", label).
		Component("embedder").
		Category(errors.CategoryEmbedding).
		Build()
}

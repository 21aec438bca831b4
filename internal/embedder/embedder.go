// Package embedder defines the boundary to the external vision-language
// embedding model and the on-disk label-embedding cache. The model turns
// image crops and text labels into fixed-dimension vectors; the dimension is
// an opaque property of the model.
package embedder

import (
	"context"
	"image"
)

// Embedder produces embedding vectors for crops and labels.
type Embedder interface {
	EmbedImage(ctx context.Context, img image.Image) ([]float64, error)
	EmbedText(ctx context.Context, label string) ([]float64, error)
}

// LabelEmbedding pairs a label with its precomputed vector.
type LabelEmbedding struct {
	Label  string
	Vector []float64
}

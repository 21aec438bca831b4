// Package classifier assigns ingredient labels to fused regions by cosine
// nearest-neighbor search against a library of precomputed label embeddings.
package classifier

import (
	"context"
	"image"
	"log/slog"
	"math"

	"github.com/foodlens/foodlens-go/internal/annotation"
	"github.com/foodlens/foodlens-go/internal/embedder"
	"github.com/foodlens/foodlens-go/internal/errors"
	"github.com/foodlens/foodlens-go/internal/imagery"
	"github.com/foodlens/foodlens-go/internal/logging"
)

// Classifier labels crops against a fixed label-embedding library.
type Classifier struct {
	embedder embedder.Embedder
	library  *embedder.Library
	cropper  *imagery.Cropper
	logger   *slog.Logger
}

// New builds a Classifier. An empty library is a configuration error: there
// is nothing to classify against.
func New(emb embedder.Embedder, library *embedder.Library, cropper *imagery.Cropper) (*Classifier, error) {
	if library == nil || library.Len() == 0 {
		return nil, errors.Newf("label embedding library is empty").
			Component("classifier").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return &Classifier{
		embedder: emb,
		library:  library,
		cropper:  cropper,
		logger:   logging.ForService("classifier"),
	}, nil
}

// Label embeds the crop once and returns the library label with minimum
// cosine distance. An exact distance tie resolves to the earliest entry in
// library order, so repeated calls with the same inputs return the same
// label.
func (c *Classifier) Label(ctx context.Context, crop image.Image) (string, error) {
	vector, err := c.embedder.EmbedImage(ctx, crop)
	if err != nil {
		return "", err
	}

	best := ""
	bestDistance := math.Inf(1)
	for _, entry := range c.library.Entries() {
		d, err := cosineDistance(vector, entry.Vector)
		if err != nil {
			return "", err
		}
		if d < bestDistance {
			bestDistance = d
			best = entry.Label
		}
	}
	return best, nil
}

// SkippedRegion records one region whose classification failed. The region
// stays unlabeled; unlabeled means classification was skipped, not that the
// region is background.
type SkippedRegion struct {
	AnnotationID int
	Err          error
}

// ImageResult summarizes a batch labeling pass over one image.
type ImageResult struct {
	Labeled int
	Skipped []SkippedRegion
}

// LabelImage classifies every unlabeled annotation of one image and writes
// the labels back into the store through SetCategory. A crop or embedding
// failure skips that region and the pass continues; a store integrity error
// aborts, since it signals a pipeline-ordering bug.
func (c *Classifier) LabelImage(ctx context.Context, store *annotation.Store, img annotation.ImageRecord, imagePath string) (ImageResult, error) {
	var result ImageResult

	for _, ann := range store.AnnotationsForImage(img.ID) {
		if ann.Labeled() {
			continue
		}

		crop, err := c.cropper.Crop(imagePath, ann.Box)
		if err != nil {
			c.logger.Warn("crop failed, leaving region unlabeled",
				"image", img.FileName, "annotation", ann.ID, "error", err)
			result.Skipped = append(result.Skipped, SkippedRegion{AnnotationID: ann.ID, Err: err})
			continue
		}

		label, err := c.Label(ctx, crop)
		if err != nil {
			c.logger.Warn("embedding failed, leaving region unlabeled",
				"image", img.FileName, "annotation", ann.ID, "error", err)
			result.Skipped = append(result.Skipped, SkippedRegion{AnnotationID: ann.ID, Err: err})
			continue
		}

		cat := store.EnsureCategory(label)
		if err := store.SetCategory(ann.ID, cat.ID); err != nil {
			return result, err
		}
		result.Labeled++
	}

	return result, nil
}

// cosineDistance returns 1 - dot(a,b)/(|a||b|). Vectors of different
// dimension cannot come from the same embedding model, so a mismatch is an
// error rather than a silent truncation. A zero-norm vector yields the
// maximum distance.
func cosineDistance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Newf("embedding dimension mismatch: %d vs %d", len(a), len(b)).
			Component("classifier").
			Category(errors.CategoryConfiguration).
			Build()
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 2, nil
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)), nil
}

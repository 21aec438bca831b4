// Package detector defines the boundary to the external object detection
// models. The pipeline depends only on the Detector interface; the models
// themselves are black boxes that produce bounding boxes with confidence
// scores.
package detector

import (
	"context"

	"github.com/foodlens/foodlens-go/internal/fusion"
)

// Detector produces raw region proposals for one image. Implementations
// apply their own confidence threshold before returning; the threshold is a
// per-detector configuration value, not core policy.
type Detector interface {
	// Name identifies the detector in logs and error context.
	Name() string
	// Detect returns the proposals for the image at imagePath. A failure is
	// recorded against the image by the caller; it never aborts the batch.
	Detect(ctx context.Context, imagePath string) ([]fusion.Detection, error)
}

package detector

import (
	"context"

	"github.com/foodlens/foodlens-go/internal/errors"
	"github.com/foodlens/foodlens-go/internal/fusion"
)

// Static serves canned proposals keyed by image path. Used in tests and for
// replaying recorded detector output.
type Static struct {
	DetectorName string
	Detections   map[string][]fusion.Detection
	// Fail marks image paths whose lookup should fail like a broken model
	// call would.
	Fail map[string]bool
}

// Name implements Detector.
func (s *Static) Name() string {
	if s.DetectorName == "" {
		return "static"
	}
	return s.DetectorName
}

// Detect implements Detector.
func (s *Static) Detect(_ context.Context, imagePath string) ([]fusion.Detection, error) {
	if s.Fail[imagePath] {
		return nil, errors.Newf("detector %s failed on %s", s.Name(), imagePath).
			Component("detector").
			Category(errors.CategoryDetection).
			ImageContext(imagePath).
			Build()
	}
	return s.Detections[imagePath], nil
}

package detector

import (
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"

	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/errors"
	"github.com/foodlens/foodlens-go/internal/fusion"
	"github.com/foodlens/foodlens-go/internal/geometry"
	"github.com/foodlens/foodlens-go/internal/logging"
)

// execDetection is the wire format one detection occupies on the external
// command's stdout: a JSON array of these objects.
type execDetection struct {
	BBox       [4]float64 `json:"bbox"` // x, y, width, height
	Confidence float64    `json:"confidence"`
}

// ExecDetector runs a configured external command for each image and parses
// its stdout as JSON detections. The image path is appended as the final
// argument.
type ExecDetector struct {
	name       string
	command    string
	args       []string
	confidence float64
	source     fusion.Source
	logger     *slog.Logger
}

// NewExec builds an ExecDetector from settings. The source tag tells fusion
// which of the two detector slots the proposals belong to.
func NewExec(settings conf.DetectorSettings, source fusion.Source) *ExecDetector {
	return &ExecDetector{
		name:       settings.Name,
		command:    settings.Command,
		args:       settings.Args,
		confidence: settings.Confidence,
		source:     source,
		logger:     logging.ForService("detector"),
	}
}

// Name implements Detector.
func (d *ExecDetector) Name() string { return d.name }

// Detect implements Detector. The command is cancellable through ctx; a
// non-zero exit or malformed output surfaces as a detection error.
func (d *ExecDetector) Detect(ctx context.Context, imagePath string) ([]fusion.Detection, error) {
	args := make([]string, 0, len(d.args)+1)
	args = append(args, d.args...)
	args = append(args, imagePath)

	cmd := exec.CommandContext(ctx, d.command, args...)
	out, err := cmd.Output()
	if err != nil {
		return nil, errors.New(err).
			Component("detector").
			Category(errors.CategoryDetection).
			Context("detector", d.name).
			ImageContext(imagePath).
			Build()
	}

	dets, err := parseDetections(out, d.source, d.confidence)
	if err != nil {
		return nil, errors.New(err).
			Component("detector").
			Category(errors.CategoryDetection).
			Context("detector", d.name).
			ImageContext(imagePath).
			Build()
	}

	d.logger.Debug("detector finished",
		"detector", d.name, "image", imagePath, "proposals", len(dets))
	return dets, nil
}

// parseDetections decodes the command output, drops proposals below the
// confidence threshold and proposals with degenerate boxes.
func parseDetections(out []byte, source fusion.Source, confidence float64) ([]fusion.Detection, error) {
	var raw []execDetection
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, err
	}

	dets := make([]fusion.Detection, 0, len(raw))
	for _, r := range raw {
		box := geometry.Box{X: r.BBox[0], Y: r.BBox[1], Width: r.BBox[2], Height: r.BBox[3]}
		if !box.Valid() || r.Confidence < confidence {
			continue
		}
		dets = append(dets, fusion.Detection{
			Box:        box,
			Confidence: r.Confidence,
			Source:     source,
		})
	}
	return dets, nil
}

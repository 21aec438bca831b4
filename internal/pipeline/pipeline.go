// Package pipeline orchestrates the per-image analysis batch: detection,
// fusion, classification, and label unification, fanned out over a worker
// pool and merged into one annotation store.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/foodlens/foodlens-go/internal/annotation"
	"github.com/foodlens/foodlens-go/internal/classifier"
	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/detector"
	"github.com/foodlens/foodlens-go/internal/errors"
	"github.com/foodlens/foodlens-go/internal/fusion"
	"github.com/foodlens/foodlens-go/internal/imagery"
	"github.com/foodlens/foodlens-go/internal/logging"
	"github.com/foodlens/foodlens-go/internal/unify"
)

// Analyzer runs the full detection and classification pipeline over image
// batches.
type Analyzer struct {
	settings   *conf.Settings
	detectors  []detector.Detector
	classifier *classifier.Classifier
	cropper    *imagery.Cropper
	labelMap   *unify.LabelMap
	logger     *slog.Logger
}

// NewAnalyzer wires the pipeline stages together. The label map may be nil,
// in which case raw classifier labels are reported as ingredients.
func NewAnalyzer(settings *conf.Settings, detectors []detector.Detector, cls *classifier.Classifier, cropper *imagery.Cropper, labelMap *unify.LabelMap) (*Analyzer, error) {
	if len(detectors) == 0 {
		return nil, errors.Newf("no detectors configured").
			Component("pipeline").
			Category(errors.CategoryConfiguration).
			Build()
	}
	return &Analyzer{
		settings:   settings,
		detectors:  detectors,
		classifier: cls,
		cropper:    cropper,
		labelMap:   labelMap,
		logger:     logging.ForService("pipeline"),
	}, nil
}

// ImageResult is the outcome for one successfully processed image. An empty
// Ingredients slice means the image was analyzed and nothing was found,
// which is not a failure.
type ImageResult struct {
	FileName    string
	Ingredients []string
}

// SkippedImage records one image the batch could not analyze and why.
type SkippedImage struct {
	FileName string
	Err      error
}

// BatchResult is the outcome of one analysis run.
type BatchResult struct {
	RunID   string
	Store   *annotation.Store
	Images  []ImageResult
	Skipped []SkippedImage
}

// imageExts lists the file extensions treated as batch input.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// AnalyzeDirectory processes every image file in dir. Each worker fills a
// private store; the partial stores are merged sequentially once all
// workers finish, so the stages themselves run without locks. A failure on
// one image skips that image and the batch continues.
func (a *Analyzer) AnalyzeDirectory(ctx context.Context, dir string) (*BatchResult, error) {
	paths, err := listImages(dir)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	a.logger.Info("starting analysis batch", "run_id", runID, "dir", dir, "images", len(paths))

	workers := a.settings.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	// Per-worker accumulators; index w belongs to exactly one goroutine
	// until the final merge.
	partials := make([]*annotation.Store, workers)
	results := make([][]ImageResult, workers)
	skipped := make([][]SkippedImage, workers)

	jobs := make(chan string)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		partials[w] = annotation.NewStore()
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					return
				}
				res, err := a.analyzeImage(ctx, partials[w], path)
				if err != nil {
					a.logger.Warn("image skipped", "run_id", runID, "image", path, "error", err)
					skipped[w] = append(skipped[w], SkippedImage{FileName: filepath.Base(path), Err: err})
					continue
				}
				results[w] = append(results[w], res)
			}
		}(w)
	}

	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	batch := &BatchResult{RunID: runID, Store: annotation.NewStore()}
	for w := 0; w < workers; w++ {
		batch.Store = batch.Store.Merge(partials[w])
		batch.Images = append(batch.Images, results[w]...)
		batch.Skipped = append(batch.Skipped, skipped[w]...)
	}
	sort.Slice(batch.Images, func(i, j int) bool { return batch.Images[i].FileName < batch.Images[j].FileName })
	sort.Slice(batch.Skipped, func(i, j int) bool { return batch.Skipped[i].FileName < batch.Skipped[j].FileName })

	a.logger.Info("analysis batch finished",
		"run_id", runID, "analyzed", len(batch.Images), "skipped", len(batch.Skipped))
	return batch, nil
}

// analyzeImage runs the stages for one image against the worker's private
// store.
func (a *Analyzer) analyzeImage(ctx context.Context, store *annotation.Store, path string) (ImageResult, error) {
	img, err := a.cropper.Open(path)
	if err != nil {
		return ImageResult{}, err
	}
	bounds := img.Bounds()

	var pooled []fusion.Detection
	for _, det := range a.detectors {
		found, err := det.Detect(ctx, path)
		if err != nil {
			return ImageResult{}, err
		}
		pooled = append(pooled, found...)
	}
	fused := fusion.Fuse(pooled, a.settings.Fusion.IoUThreshold)

	record, err := store.RegisterImage(filepath.Base(path), bounds.Dx(), bounds.Dy())
	if err != nil {
		return ImageResult{}, err
	}
	for _, d := range fused {
		if _, err := store.AddAnnotation(record.ID, d.Box); err != nil {
			return ImageResult{}, err
		}
	}

	if _, err := a.classifier.LabelImage(ctx, store, record, path); err != nil {
		return ImageResult{}, err
	}

	return ImageResult{
		FileName:    record.FileName,
		Ingredients: a.ingredients(store, record.ID),
	}, nil
}

// ingredients collects the deduplicated, unified label set of one image.
// Labels without a canonical mapping are logged and left out of the set;
// their regions stay in the store under the raw label.
func (a *Analyzer) ingredients(store *annotation.Store, imageID int) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, ann := range store.AnnotationsForImage(imageID) {
		if !ann.Labeled() {
			continue
		}
		cat, ok := store.Category(ann.CategoryID)
		if !ok {
			continue
		}
		name := cat.Name
		if a.labelMap != nil {
			unified, err := a.labelMap.Unify(name)
			if err != nil {
				a.logger.Warn("label outside vocabulary", "label", name, "error", err)
				continue
			}
			name = unified
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// listImages returns the image files directly under dir in name order.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.New(fmt.Errorf("listing image directory: %w", err)).
			Component("pipeline").
			Category(errors.CategoryFileIO).
			Context("dir", dir).
			Build()
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

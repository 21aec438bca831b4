// Package analyze implements the pipeline subcommand: detect, fuse,
// classify and unify the ingredients of every image in a directory.
package analyze

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foodlens/foodlens-go/internal/classifier"
	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/detector"
	"github.com/foodlens/foodlens-go/internal/embedder"
	"github.com/foodlens/foodlens-go/internal/fusion"
	"github.com/foodlens/foodlens-go/internal/imagery"
	"github.com/foodlens/foodlens-go/internal/pipeline"
	"github.com/foodlens/foodlens-go/internal/unify"
)

// Command creates the analyze subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [directory]",
		Short: "Detect and label ingredients in every image of a directory",
		Long: "Runs the configured detectors over each image, fuses overlapping " +
			"proposals, labels the fused regions against the embedding library " +
			"and writes the result as a COCO-style annotation file.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(cmd, settings, args[0])
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().Float64Var(&settings.Fusion.IoUThreshold, "iou", settings.Fusion.IoUThreshold, "IoU threshold for merging overlapping proposals")
	cmd.Flags().StringVarP(&settings.Output.AnnotationsPath, "output", "o", settings.Output.AnnotationsPath, "Path for the annotations JSON file")
}

func runAnalysis(cmd *cobra.Command, settings *conf.Settings, dir string) error {
	analyzer, err := buildAnalyzer(settings)
	if err != nil {
		return err
	}

	batch, err := analyzer.AnalyzeDirectory(cmd.Context(), dir)
	if err != nil {
		return err
	}

	if err := batch.Store.Save(settings.Output.AnnotationsPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, img := range batch.Images {
		if len(img.Ingredients) == 0 {
			fmt.Fprintf(out, "%s: no ingredients detected\n", img.FileName)
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", img.FileName, strings.Join(img.Ingredients, ", "))
	}
	for _, skip := range batch.Skipped {
		fmt.Fprintf(out, "%s: skipped (%v)\n", skip.FileName, skip.Err)
	}
	fmt.Fprintf(out, "annotations written to %s\n", settings.Output.AnnotationsPath)

	if len(batch.Skipped) > 0 {
		return fmt.Errorf("%d of %d images could not be analyzed",
			len(batch.Skipped), len(batch.Images)+len(batch.Skipped))
	}
	return nil
}

// buildAnalyzer assembles the pipeline stages from configuration.
func buildAnalyzer(settings *conf.Settings) (*pipeline.Analyzer, error) {
	detectors := make([]detector.Detector, 0, len(settings.Detectors))
	for i, ds := range settings.Detectors {
		detectors = append(detectors, detector.NewExec(ds, detectorSource(i)))
	}

	library, err := embedder.LoadLibrary(settings.Classifier.EmbeddingCacheDir)
	if err != nil {
		return nil, err
	}

	cropper := imagery.NewCropper()
	cls, err := classifier.New(embedder.NewHTTP(settings.Embedder), library, cropper)
	if err != nil {
		return nil, err
	}

	var labelMap *unify.LabelMap
	if settings.Unify.MapPath != "" {
		labelMap, err = unify.LoadLabelMap(settings.Unify.MapPath)
		if err != nil {
			return nil, err
		}
	}

	return pipeline.NewAnalyzer(settings, detectors, cls, cropper, labelMap)
}

func detectorSource(index int) fusion.Source {
	switch index {
	case 0:
		return fusion.SourceDetector1
	case 1:
		return fusion.SourceDetector2
	default:
		return fusion.SourceUnknown
	}
}

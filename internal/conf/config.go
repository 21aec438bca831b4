// Package conf loads and validates the application settings. Settings are
// read once at startup and passed explicitly into pipeline construction;
// there is no package-level mutable state.
package conf

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/foodlens/foodlens-go/internal/errors"
)

// DetectorSettings configures one external object detector. The confidence
// threshold is per detector: the two models are calibrated differently.
type DetectorSettings struct {
	Name       string   // detector name used in logs
	Command    string   // external command to run for detection
	Args       []string // fixed arguments, image path is appended
	Confidence float64  // per-detector confidence threshold in [0, 1]
}

// FusionSettings configures proposal fusion.
type FusionSettings struct {
	IoUThreshold float64 // suppression threshold in [0, 1]
}

// EmbedderSettings configures the external embedding service.
type EmbedderSettings struct {
	Endpoint       string // embedding service base URL
	TimeoutSeconds int    // per-request timeout
}

// ClassifierSettings configures region classification.
type ClassifierSettings struct {
	EmbeddingCacheDir string // one JSON vector file per label
}

// UnifySettings configures label unification.
type UnifySettings struct {
	MapPath        string // raw label -> canonical ingredient YAML
	VocabularyPath string // ingredient vocabulary YAML
}

// GeneratorSettings configures the optional recipe generation service.
type GeneratorSettings struct {
	Enabled  bool
	Endpoint string
	APIKey   string
	Model    string
}

// RecipeSettings configures recipe matching.
type RecipeSettings struct {
	CorpusPath string // recipe corpus YAML
	Generator  GeneratorSettings
}

// EvaluationSettings configures offline accuracy evaluation.
type EvaluationSettings struct {
	IoUThreshold float64
	// CountEmptyClasses includes classes with zero ground-truth instances
	// in the mean precision/recall denominators. Off by default: a class
	// that never occurs in ground truth reports 0/0 and is excluded.
	CountEmptyClasses bool
}

// OutputSettings configures where results are written.
type OutputSettings struct {
	AnnotationsPath string // fused+classified store, COCO JSON
}

// LogSettings configures the rotating log file.
type LogSettings struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Settings is the complete application configuration, populated at startup
// from the config file, defaults and command-line flags.
type Settings struct {
	Debug      bool
	Workers    int // images processed in parallel
	Log        LogSettings
	Detectors  []DetectorSettings
	Fusion     FusionSettings
	Embedder   EmbedderSettings
	Classifier ClassifierSettings
	Unify      UnifySettings
	Recipes    RecipeSettings
	Evaluation EvaluationSettings
	Output     OutputSettings
}

// Load initializes viper, reads config.yaml if present and unmarshals the
// settings. A missing config file is not an error; defaults apply.
func Load() (*Settings, error) {
	if err := initViper(); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/foodlens")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.New(err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Build()
		}
	}
	return nil
}

// Validate checks value ranges. Called by Load, exported for tests and for
// settings assembled in code.
func (s *Settings) Validate() error {
	if s.Workers < 1 {
		return confErrorf("workers must be at least 1, got %d", s.Workers)
	}
	if s.Fusion.IoUThreshold < 0 || s.Fusion.IoUThreshold > 1 {
		return confErrorf("fusion iou threshold must be in [0, 1], got %g", s.Fusion.IoUThreshold)
	}
	if s.Evaluation.IoUThreshold < 0 || s.Evaluation.IoUThreshold > 1 {
		return confErrorf("evaluation iou threshold must be in [0, 1], got %g", s.Evaluation.IoUThreshold)
	}
	for i := range s.Detectors {
		d := &s.Detectors[i]
		if d.Confidence < 0 || d.Confidence > 1 {
			return confErrorf("detector %q confidence threshold must be in [0, 1], got %g", d.Name, d.Confidence)
		}
	}
	return nil
}

func confErrorf(format string, args ...any) error {
	return errors.New(fmt.Errorf(format, args...)).
		Component("conf").
		Category(errors.CategoryConfiguration).
		Build()
}

package conf

import "github.com/spf13/viper"

// setDefaults registers every known configuration key with its default
// value in viper.
func setDefaults() {
	viper.SetDefault("debug", false)
	viper.SetDefault("workers", 4)

	viper.SetDefault("log.path", "log/foodlens.log")
	viper.SetDefault("log.maxsizemb", 100)
	viper.SetDefault("log.maxbackups", 3)
	viper.SetDefault("log.maxagedays", 28)

	viper.SetDefault("fusion.iouthreshold", 0.7)

	viper.SetDefault("embedder.endpoint", "http://localhost:8099")
	viper.SetDefault("embedder.timeoutseconds", 30)

	viper.SetDefault("classifier.embeddingcachedir", "data/embedded_labels")

	viper.SetDefault("unify.mappath", "data/unified_labels.yaml")
	viper.SetDefault("unify.vocabularypath", "data/ingredients.yaml")

	viper.SetDefault("recipes.corpuspath", "data/recipes.yaml")
	viper.SetDefault("recipes.generator.enabled", false)
	viper.SetDefault("recipes.generator.model", "gpt-4o-mini")

	viper.SetDefault("evaluation.iouthreshold", 0.5)
	viper.SetDefault("evaluation.countemptyclasses", false)

	viper.SetDefault("output.annotationspath", "results/annotations.json")
}

// Default returns the settings produced by the registered defaults alone.
// Used by tests and as a base for programmatic construction.
func Default() *Settings {
	return &Settings{
		Workers: 4,
		Log: LogSettings{
			Path:       "log/foodlens.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Fusion: FusionSettings{IoUThreshold: 0.7},
		Embedder: EmbedderSettings{
			Endpoint:       "http://localhost:8099",
			TimeoutSeconds: 30,
		},
		Classifier: ClassifierSettings{EmbeddingCacheDir: "data/embedded_labels"},
		Unify: UnifySettings{
			MapPath:        "data/unified_labels.yaml",
			VocabularyPath: "data/ingredients.yaml",
		},
		Recipes: RecipeSettings{
			CorpusPath: "data/recipes.yaml",
			Generator:  GeneratorSettings{Model: "gpt-4o-mini"},
		},
		Evaluation: EvaluationSettings{IoUThreshold: 0.5},
		Output:     OutputSettings{AnnotationsPath: "results/annotations.json"},
	}
}

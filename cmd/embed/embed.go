// Package embed implements the subcommand that builds the label-embedding
// cache used by the region classifier.
package embed

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/embedder"
	"github.com/foodlens/foodlens-go/internal/unify"
)

// Command creates the embed subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Build the label-embedding cache from the ingredient vocabulary",
		Long: "Embeds every vocabulary entry through the embedding service and " +
			"writes one cache file per label. The analyze command loads the " +
			"cache instead of embedding labels on every run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmbed(cmd, settings)
		},
	}

	cmd.Flags().StringVar(&settings.Unify.VocabularyPath, "vocabulary", settings.Unify.VocabularyPath, "YAML list of ingredient names to embed")
	cmd.Flags().StringVarP(&settings.Classifier.EmbeddingCacheDir, "output-dir", "o", settings.Classifier.EmbeddingCacheDir, "Directory for the embedding cache")

	return cmd
}

func runEmbed(cmd *cobra.Command, settings *conf.Settings) error {
	vocabulary, err := unify.LoadVocabulary(settings.Unify.VocabularyPath)
	if err != nil {
		return err
	}

	emb := embedder.NewHTTP(settings.Embedder)
	for _, label := range vocabulary.Names() {
		vector, err := emb.EmbedText(cmd.Context(), label)
		if err != nil {
			return err
		}
		if err := embedder.SaveEmbedding(settings.Classifier.EmbeddingCacheDir, label, vector); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "embedded %q (%d dimensions)\n", label, len(vector))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d embeddings to %s\n",
		len(vocabulary.Names()), settings.Classifier.EmbeddingCacheDir)
	return nil
}

// Package recipe implements the subcommand that matches detected
// ingredients against the recipe corpus.
package recipe

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foodlens/foodlens-go/internal/annotation"
	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/recipes"
)

// Command creates the recipe subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var annotationsPath string

	cmd := &cobra.Command{
		Use:   "recipe [ingredient]...",
		Short: "Suggest a recipe for a set of ingredients",
		Long: "Matches ingredients against the recipe corpus and prints the first " +
			"cookable recipe. Ingredients come from the arguments, or from an " +
			"annotation file with --annotations, in which case each image is " +
			"matched separately.",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if annotationsPath == "" && len(args) == 0 {
				return fmt.Errorf("pass ingredient names or --annotations")
			}

			book, err := recipes.LoadBook(settings.Recipes.CorpusPath)
			if err != nil {
				return err
			}

			if annotationsPath != "" {
				return matchAnnotations(cmd, settings, book, annotationsPath)
			}
			return matchIngredients(cmd, settings, book, args)
		},
	}

	cmd.Flags().StringVarP(&annotationsPath, "annotations", "a", "", "Annotation file to read ingredient sets from")

	return cmd
}

func matchIngredients(cmd *cobra.Command, settings *conf.Settings, book *recipes.Book, ingredients []string) error {
	out := cmd.OutOrStdout()

	if found := book.Find(ingredients); found != nil {
		printRecipe(out, found)
		return nil
	}

	if settings.Recipes.Generator.Enabled {
		generator := recipes.NewChatGenerator(settings.Recipes.Generator)
		text, err := generator.Generate(cmd.Context(), ingredients)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, text)
		return nil
	}

	fmt.Fprintf(out, "no recipe matches: %s\n", strings.Join(ingredients, ", "))
	return nil
}

func matchAnnotations(cmd *cobra.Command, settings *conf.Settings, book *recipes.Book, path string) error {
	store, err := annotation.Load(path)
	if err != nil {
		return err
	}

	byImage := store.IngredientsByImage()
	names := make([]string, 0, len(byImage))
	for name := range byImage {
		names = append(names, name)
	}
	sort.Strings(names)

	out := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintf(out, "%s (%s):\n", name, strings.Join(byImage[name], ", "))
		if found := book.Find(byImage[name]); found != nil {
			printRecipe(out, found)
		} else {
			fmt.Fprintln(out, "  no recipe matches")
		}
	}
	return nil
}

func printRecipe(out io.Writer, r *recipes.Recipe) {
	fmt.Fprintf(out, "%s (needs: %s)\n", r.Name, strings.Join(r.Ingredients, ", "))
	for i, step := range r.Directions {
		fmt.Fprintf(out, "  %d. %s\n", i+1, step)
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/foodlens/foodlens-go/cmd/analyze"
	"github.com/foodlens/foodlens-go/cmd/annotations"
	"github.com/foodlens/foodlens-go/cmd/embed"
	"github.com/foodlens/foodlens-go/cmd/evaluate"
	"github.com/foodlens/foodlens-go/cmd/recipe"
	"github.com/foodlens/foodlens-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foodlens",
		Short: "FoodLens ingredient detection and recipe matching CLI",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	subcommands := []*cobra.Command{
		analyze.Command(settings),
		evaluate.Command(settings),
		annotations.Command(settings),
		embed.Command(settings),
		recipe.Command(settings),
	}

	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Flag values have already been written into settings through the
		// bound pointers; reject invalid combinations before any work runs.
		return settings.Validate()
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().IntVarP(&settings.Workers, "workers", "w", viper.GetInt("workers"), "Number of images analyzed in parallel")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

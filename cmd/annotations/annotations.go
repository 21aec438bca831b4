// Package annotations implements maintenance subcommands for annotation
// files: merge, relabel and validate.
package annotations

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/foodlens/foodlens-go/internal/annotation"
	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/errors"
)

// Command creates the annotations subcommand tree.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotations",
		Short: "Merge, relabel and validate annotation files",
	}

	cmd.AddCommand(mergeCommand(), relabelCommand(), validateCommand())

	return cmd
}

func mergeCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "merge [first.json] [second.json]...",
		Short: "Merge annotation files into one",
		Long: "Merges left to right: categories are unified by name, images and " +
			"their annotations are renumbered and appended. Images with the same " +
			"file name are kept as separate entries.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			merged, err := annotation.Load(args[0])
			if err != nil {
				return err
			}
			for _, path := range args[1:] {
				next, err := annotation.Load(path)
				if err != nil {
					return err
				}
				merged = merged.Merge(next)
			}
			if err := merged.Save(outputPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "merged %d files into %s (%d images, %d annotations)\n",
				len(args), outputPath, len(merged.Images()), len(merged.Annotations()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "merged.json", "Path for the merged file")

	return cmd
}

func relabelCommand() *cobra.Command {
	var mappingPath, outputPath string

	cmd := &cobra.Command{
		Use:   "relabel [input.json]",
		Short: "Rename or drop categories by mapping file",
		Long: "Applies a YAML mapping of old category names to new ones. A null " +
			"value drops the category and its annotations; names mapped onto the " +
			"same target are merged. Surviving categories are renumbered from 1.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := annotation.Load(args[0])
			if err != nil {
				return err
			}

			mapping, err := loadMapping(mappingPath)
			if err != nil {
				return err
			}

			relabeled := store.Relabel(mapping)
			if err := relabeled.Save(outputPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "relabeled %s into %s (%d categories, %d annotations)\n",
				args[0], outputPath, len(relabeled.Categories()), len(relabeled.Annotations()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&mappingPath, "mapping", "m", "", "YAML mapping of old names to new names (null drops)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "relabeled.json", "Path for the relabeled file")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}

func validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input.json]",
		Short: "Check an annotation file for integrity issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := annotation.Load(args[0])
			if err != nil {
				return err
			}

			issues := store.Validate()
			for _, issue := range issues {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", issue.Kind, issue.Message)
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d issues found in %s", len(issues), args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: no issues found\n", args[0])
			return nil
		},
	}
}

// loadMapping reads the relabel mapping. YAML null values decode to nil
// pointers, which mark categories for removal.
func loadMapping(path string) (annotation.RelabelMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("reading mapping: %w", err)).
			Component("annotations").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}

	var mapping annotation.RelabelMap
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return nil, errors.New(fmt.Errorf("parsing mapping: %w", err)).
			Component("annotations").
			Category(errors.CategoryFileParsing).
			Context("path", path).
			Build()
	}
	return mapping, nil
}

// Package evaluate implements the evaluation subcommand: per-class
// precision and recall of a predicted annotation file against ground truth.
package evaluate

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foodlens/foodlens-go/internal/annotation"
	"github.com/foodlens/foodlens-go/internal/conf"
	"github.com/foodlens/foodlens-go/internal/evaluation"
)

// Command creates the evaluate subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var groundTruthPath, predictionsPath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score predicted annotations against ground truth",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvaluation(cmd, settings, groundTruthPath, predictionsPath)
		},
	}

	cmd.Flags().StringVar(&groundTruthPath, "ground-truth", "", "Ground truth annotations JSON")
	cmd.Flags().StringVar(&predictionsPath, "predictions", "", "Predicted annotations JSON")
	cmd.Flags().Float64Var(&settings.Evaluation.IoUThreshold, "iou", settings.Evaluation.IoUThreshold, "Minimum IoU for a prediction to match a ground truth box")
	cmd.Flags().BoolVar(&settings.Evaluation.CountEmptyClasses, "count-empty-classes", settings.Evaluation.CountEmptyClasses, "Include classes without ground truth instances in the means")
	_ = cmd.MarkFlagRequired("ground-truth")
	_ = cmd.MarkFlagRequired("predictions")

	return cmd
}

func runEvaluation(cmd *cobra.Command, settings *conf.Settings, groundTruthPath, predictionsPath string) error {
	truth, err := annotation.Load(groundTruthPath)
	if err != nil {
		return err
	}
	predictions, err := annotation.Load(predictionsPath)
	if err != nil {
		return err
	}

	report := evaluation.Evaluate(truth, predictions, evaluation.Options{
		IoUThreshold:      settings.Evaluation.IoUThreshold,
		CountEmptyClasses: settings.Evaluation.CountEmptyClasses,
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "class\tgt\ttp\tfp\tfn\tprecision\trecall")
	for _, c := range report.Classes {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%.3f\t%.3f\n",
			c.Name, c.GroundTruth, c.TruePositives, c.FalsePositives, c.FalseNegatives, c.Precision, c.Recall)
	}
	fmt.Fprintf(w, "mean\t\t\t\t\t%.3f\t%.3f\n", report.MeanPrecision, report.MeanRecall)
	return w.Flush()
}

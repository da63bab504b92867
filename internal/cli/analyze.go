package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-ifeval-ko/dataset"
	"github.com/jamesainslie/go-ifeval-ko/internal/analysis"
)

func analyzeCmd(a *app) *cobra.Command {
	var (
		dataPath string
		statsOut string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print dataset statistics",
		Long: `Load the dataset, print instruction and prompt statistics, and save them
to a JSON or YAML file (chosen by extension).

--data-path accepts a file or a glob such as "data/**/*.jsonl".`,
		Example: `  ifeval-ko analyze
  ifeval-ko analyze --data-path 'runs/**/*.jsonl' --stats-out stats.yaml`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := firstNonEmpty(dataPath, dataset.DefaultPath(a.cfg.DataDir))

			fmt.Fprintln(a.env.Stdout, "Loading Korean IFEval dataset...")
			records, err := dataset.ReadAll(path)
			if err != nil {
				if errors.Is(err, dataset.ErrNotFound) {
					fmt.Fprintf(a.env.Stderr, "Error: Dataset file not found. %v\n", err)
					fmt.Fprintln(a.env.Stderr, "Please run 'ifeval-ko download' first to download the dataset.")
				}
				return err
			}
			fmt.Fprintf(a.env.Stdout, "Successfully loaded %d examples.\n\n", len(records))

			stats := analysis.Analyze(records)
			if err := analysis.WriteReport(a.env.Stdout, stats); err != nil {
				return err
			}

			if statsOut == "" {
				return nil
			}
			if err := analysis.WriteFile(statsOut, stats); err != nil {
				return fmt.Errorf("saving statistics: %w", err)
			}
			fmt.Fprintf(a.env.Stdout, "Statistics saved to: %s\n", statsOut)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data-path", "", "Dataset file or glob (default: <data-dir>/input_data.jsonl)")
	cmd.Flags().StringVar(&statsOut, "stats-out", "dataset_statistics.json", "Statistics output file; empty disables")
	return cmd
}

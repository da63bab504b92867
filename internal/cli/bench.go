package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	ifevalko "github.com/jamesainslie/go-ifeval-ko"
	"github.com/jamesainslie/go-ifeval-ko/internal/bench"
	"github.com/jamesainslie/go-ifeval-ko/sat"
)

func benchCmd(a *app) *cobra.Command {
	var (
		corpusDir string
		mf        modelFlags
		cfg       = bench.DefaultConfig()
		sweep     bool
		sweepMin  float32
		sweepMax  float32
		sweepStep float32
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Evaluate sentence segmentation against a gold corpus",
		Long: `Score sentence boundaries against gold corpora (.json with boundaries,
or .txt with one sentence per line after a "# Source:" header).

Without a model the rule-based segmenter is evaluated. With --model and
--tokenizer the SaT model is evaluated, and --sweep searches for the best
threshold.`,
		Example: `  ifeval-ko bench --corpus testdata/gold
  ifeval-ko bench --corpus testdata/gold --model sat.onnx --tokenizer tokenizer.json --sweep`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			if corpusDir == "" {
				return usageErrorf("required flag \"corpus\" not set")
			}
			corpora, err := bench.LoadCorpus(corpusDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.env.Stdout, "Loaded %d corpora from %s\n\n", len(corpora), corpusDir)

			if sweep {
				return a.runSweep(cmd, mf, corpora, cfg, bench.SweepThresholds(sweepMin, sweepMax, sweepStep))
			}

			var tok ifevalko.SentenceTokenizer = ifevalko.Heuristic{}
			if seg := a.segmenter(mf); seg != nil {
				defer func() {
					if closeErr := seg.Close(); err == nil {
						err = closeErr
					}
				}()
				tok = seg
			}

			results, agg, err := bench.Run(cmd.Context(), tok, corpora, cfg, a.logger)
			if err != nil {
				return err
			}
			a.printResults(results, agg)
			return nil
		},
	}

	cmd.Flags().StringVar(&corpusDir, "corpus", "", "Directory containing gold corpora (required)")
	mf.register(cmd)
	cmd.Flags().IntVar(&cfg.Tolerance, "tolerance", cfg.Tolerance, "Byte tolerance for boundary matching")
	cmd.Flags().Float64Var(&cfg.PrecisionWeight, "wp", cfg.PrecisionWeight, "Precision weight")
	cmd.Flags().Float64Var(&cfg.RecallWeight, "wr", cfg.RecallWeight, "Recall weight")
	cmd.Flags().BoolVar(&sweep, "sweep", false, "Run a SaT threshold sweep")
	cmd.Flags().Float32Var(&sweepMin, "sweep-min", 0.01, "Sweep minimum threshold")
	cmd.Flags().Float32Var(&sweepMax, "sweep-max", 0.20, "Sweep maximum threshold")
	cmd.Flags().Float32Var(&sweepStep, "sweep-step", 0.01, "Sweep step size")
	return cmd
}

func (a *app) printResults(results []bench.Result, agg bench.Metrics) {
	tw := tabwriter.NewWriter(a.env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Corpus\tGold\tPred\tPrec\tRec\tF1")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
			r.Corpus, r.Gold, r.Predicted, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1)
	}
	_ = tw.Flush()

	fmt.Fprintln(a.env.Stdout, strings.Repeat("-", 50))
	fmt.Fprintf(a.env.Stdout, "Precision: %.2f  Recall: %.2f  F1: %.2f  Weighted: %.2f\n",
		agg.Precision, agg.Recall, agg.F1, agg.WeightedScore)
	fmt.Fprintf(a.env.Stdout, "(TP: %d, FP: %d, FN: %d)\n", agg.TruePositives, agg.FalsePositives, agg.FalseNegatives)
}

func (a *app) runSweep(cmd *cobra.Command, mf modelFlags, corpora []bench.Corpus, cfg bench.Config, thresholds []float32) error {
	model := firstNonEmpty(mf.model, a.cfg.SatModel)
	tokPath := firstNonEmpty(mf.tokenizer, a.cfg.SatTokenizer)
	if model == "" || tokPath == "" {
		return fmt.Errorf("threshold sweep: %w", ErrModelRequired)
	}

	factory := func(threshold float32) (ifevalko.SentenceTokenizer, func() error, error) {
		seg := a.env.SegmenterFactory.NewSegmenter(model, tokPath, a.cfg.OnnxRuntimeLib,
			sat.WithThreshold(threshold), sat.WithLogger(a.logger))
		return seg, seg.Close, nil
	}

	results, err := bench.Sweep(cmd.Context(), factory, corpora, cfg, thresholds)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.env.Stdout, "Threshold Sweep Results (wp=%.1f, wr=%.1f)\n", cfg.PrecisionWeight, cfg.RecallWeight)
	fmt.Fprintln(a.env.Stdout, strings.Repeat("-", 50))
	fmt.Fprintf(a.env.Stdout, "%-8s %-8s %-8s %-8s %-8s\n", "Thresh", "Prec", "Rec", "F1", "Weighted")
	for _, t := range thresholds {
		for _, r := range results {
			if r.Threshold == t {
				fmt.Fprintf(a.env.Stdout, "%-8.3f %-8.2f %-8.2f %-8.2f %-8.2f\n",
					r.Threshold, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1, r.Metrics.WeightedScore)
				break
			}
		}
	}
	fmt.Fprintln(a.env.Stdout, strings.Repeat("-", 50))
	if len(results) > 0 {
		best := results[0]
		fmt.Fprintf(a.env.Stdout, "Optimal: %.3f (Weighted: %.2f)\n", best.Threshold, best.Metrics.WeightedScore)
	}
	return nil
}

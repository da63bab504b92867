package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	ifevalko "github.com/jamesainslie/go-ifeval-ko"
	"github.com/jamesainslie/go-ifeval-ko/sat"
)

func splitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "split [text...]",
		Short: "Split text into sentences",
		Long: `Split text into sentences with the rule-based segmenter and print them
numbered, one per line. Reads stdin when no text is given.`,
		Example: `  ifeval-ko split "Dr. Kim arrived. 회의가 시작됐습니다."
  echo "One. Two." | ifeval-ko split`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readText(args)
			if err != nil {
				return err
			}
			for i, s := range ifevalko.SplitIntoSentences(text) {
				fmt.Fprintf(a.env.Stdout, "%d: %s\n", i+1, s)
			}
			return nil
		},
	}
}

// modelFlags select the statistical segmenter.
type modelFlags struct {
	model     string
	tokenizer string
	threshold float32
}

func (f *modelFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.model, "model", "", "SaT ONNX model (default: config sat_model)")
	cmd.Flags().StringVar(&f.tokenizer, "tokenizer", "", "SaT tokenizer.json (default: config sat_tokenizer)")
	cmd.Flags().Float32Var(&f.threshold, "threshold", 0.025, "SaT boundary threshold")
}

// segmenter returns the SaT segmenter when both model files are configured,
// or nil for the heuristic.
func (a *app) segmenter(f modelFlags) Segmenter {
	model := firstNonEmpty(f.model, a.cfg.SatModel)
	tok := firstNonEmpty(f.tokenizer, a.cfg.SatTokenizer)
	if model == "" || tok == "" {
		return nil
	}
	return a.env.SegmenterFactory.NewSegmenter(model, tok, a.cfg.OnnxRuntimeLib,
		sat.WithThreshold(f.threshold), sat.WithLogger(a.logger))
}

func countCmd(a *app) *cobra.Command {
	var f modelFlags

	cmd := &cobra.Command{
		Use:   "count [text...]",
		Short: "Count words and sentences",
		Long: `Count words and sentences in text. Sentences are counted with the
rule-based segmenter, or with a SaT model when --model and --tokenizer (or
the matching config keys) are set. Reads stdin when no text is given.`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			text, err := a.readText(args)
			if err != nil {
				return err
			}

			opts := []ifevalko.Option{ifevalko.WithLogger(a.logger)}
			if seg := a.segmenter(f); seg != nil {
				defer func() {
					if closeErr := seg.Close(); err == nil {
						err = closeErr
					}
				}()
				opts = append(opts, ifevalko.WithTokenizer(seg))
			}
			counter := ifevalko.NewCounter(opts...)

			sentences, err := counter.CountSentences(cmd.Context(), text)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.env.Stdout, "words: %d\nsentences: %d\n", counter.CountWords(text), sentences)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func languagesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported language codes",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(a.env.Stdout, 0, 4, 2, ' ', 0)
			for _, code := range ifevalko.SortedLanguageCodes() {
				name, _ := ifevalko.LanguageName(code)
				fmt.Fprintf(tw, "%s\t%s\n", code, name)
			}
			return tw.Flush()
		},
	}
}

func keywordsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "keywords N",
		Short: "Generate random keywords (unsupported)",
		Long: `Keyword generation is not supported: keywords for the keyword
instructions come from the dataset's kwargs. The command always fails.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 {
				return fmt.Errorf("keyword count %q: %w", args[0], ErrInvalidArgument)
			}
			words, err := ifevalko.GenerateKeywords(n)
			if err != nil {
				return err
			}
			for _, w := range words {
				fmt.Fprintln(a.env.Stdout, w)
			}
			return nil
		},
	}
}

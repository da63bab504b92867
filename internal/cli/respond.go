package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-ifeval-ko/dataset"
	"github.com/jamesainslie/go-ifeval-ko/internal/respond"
)

// defaultResponseFile is the file instruction-following scorers read.
const defaultResponseFile = "input_response_data.jsonl"

func respondCmd(a *app) *cobra.Command {
	var (
		dataPath  string
		output    string
		model     string
		parallel  int
		maxTokens int
		cachePath string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "respond",
		Short: "Generate model responses for dataset prompts",
		Long: `Send every dataset prompt to an OpenAI-compatible chat API and write
{"prompt", "response"} lines for scoring. Requires OPENAI_API_KEY.

With --cache, completions are stored in a local database and reused on the
next run, so an interrupted run resumes where it stopped.`,
		Example: `  ifeval-ko respond --model gpt-4o-mini --parallel 8 --cache data/responses.db`,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			apiKey := a.env.Getenv("OPENAI_API_KEY")
			if apiKey == "" {
				return ErrAPIKeyMissing
			}
			if limit < 0 {
				return fmt.Errorf("--limit %d: %w", limit, ErrInvalidArgument)
			}

			records, err := dataset.ReadAll(firstNonEmpty(dataPath, dataset.DefaultPath(a.cfg.DataDir)))
			if err != nil {
				return err
			}
			if limit > 0 && limit < len(records) {
				records = records[:limit]
			}

			opts := []respond.Option{
				respond.WithModel(firstNonEmpty(model, a.cfg.OpenAIModel)),
				respond.WithParallel(parallel),
				respond.WithMaxTokens(maxTokens),
				respond.WithProgress(a.env.Stderr),
				respond.WithLogger(a.logger),
			}
			if cachePath != "" {
				cache, err := respond.OpenCache(cachePath)
				if err != nil {
					return err
				}
				defer func() {
					if closeErr := cache.Close(); err == nil {
						err = closeErr
					}
				}()
				opts = append(opts, respond.WithCache(cache))
			}

			chat := a.env.ChatFactory.NewChat(apiKey, firstNonEmpty(a.cfg.OpenAIBaseURL, a.env.Getenv("OPENAI_BASE_URL")))
			responses, err := respond.New(chat, opts...).GenerateAll(cmd.Context(), records)
			if err != nil {
				return err
			}

			out := firstNonEmpty(output, filepath.Join(a.cfg.DataDir, defaultResponseFile))
			if err := respond.WriteJSONL(out, responses); err != nil {
				return fmt.Errorf("writing responses: %w", err)
			}
			fmt.Fprintf(a.env.Stdout, "Responses written: %d -> %s\n", len(responses), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data-path", "", "Dataset file or glob (default: <data-dir>/input_data.jsonl)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output JSONL (default: <data-dir>/input_response_data.jsonl)")
	cmd.Flags().StringVar(&model, "model", "", "Chat model (default: config openai_model)")
	cmd.Flags().IntVar(&parallel, "parallel", 4, "Concurrent requests")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 2048, "Maximum completion tokens")
	cmd.Flags().StringVar(&cachePath, "cache", "", "Response cache database")
	cmd.Flags().IntVar(&limit, "limit", 0, "Only answer the first N prompts")
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-ifeval-ko/dataset"
)

// sourceFlags are shared by download and update.
type sourceFlags struct {
	output  string
	source  string
	dataset string
	split   string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output JSONL path (default: <data-dir>/input_data.jsonl)")
	cmd.Flags().StringVar(&f.source, "source", "", "Dataset source: parquet, rows")
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "HuggingFace dataset repository")
	cmd.Flags().StringVar(&f.split, "split", "", "Dataset split")
}

// downloader builds the Downloader and output path from flags and config.
func (a *app) downloader(f sourceFlags) (*dataset.Downloader, string, error) {
	src, err := a.env.SourceFactory.NewSource(
		firstNonEmpty(f.source, a.cfg.Source),
		dataset.WithEndpoint(a.cfg.HubEndpoint),
		dataset.WithDataset(firstNonEmpty(f.dataset, a.cfg.Dataset)),
		dataset.WithSplit(firstNonEmpty(f.split, a.cfg.Split)),
		dataset.WithToken(firstNonEmpty(a.cfg.HFToken, a.env.Getenv("HF_TOKEN"))),
		dataset.WithProgress(a.env.Stderr),
		dataset.WithLogger(a.logger),
	)
	if err != nil {
		return nil, "", err
	}

	d := dataset.NewDownloader(src, dataset.WithClock(a.env.Now), dataset.WithDownloadLogger(a.logger))
	return d, firstNonEmpty(f.output, dataset.DefaultPath(a.cfg.DataDir)), nil
}

func downloadCmd(a *app) *cobra.Command {
	var f sourceFlags

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the dataset as JSONL",
		Long: `Download the Korean IFEval dataset from the HuggingFace hub and write it
as one JSON record per line.`,
		Example: `  ifeval-ko download
  ifeval-ko download -o data/ko.jsonl --source rows`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, path, err := a.downloader(f)
			if err != nil {
				return err
			}

			n, err := d.Download(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.env.Stdout, "Dataset downloaded: %d records -> %s\n", n, path)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func updateCmd(a *app) *cobra.Command {
	var f sourceFlags

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Re-download the dataset, backing up the existing file",
		Long: `Re-download the dataset. An existing file is first copied to
<name>_backup_<YYYYmmdd_HHMMSS>.jsonl next to it; if the download fails the
original is left untouched.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, path, err := a.downloader(f)
			if err != nil {
				return err
			}

			result, err := d.Update(cmd.Context(), path)
			if result.Backup != "" {
				fmt.Fprintf(a.env.Stdout, "Backup created: %s\n", result.Backup)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(a.env.Stdout, "Dataset updated: %d records -> %s\n", result.Records, path)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

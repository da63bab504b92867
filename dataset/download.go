package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// backupTimeLayout matches the YYYYmmdd_HHMMSS stamp in backup names.
const backupTimeLayout = "20060102_150405"

// Downloader writes a Source's records to a local JSONL file.
type Downloader struct {
	source Source
	now    func() time.Time
	logger *slog.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithClock sets the time source used for backup names.
func WithClock(now func() time.Time) DownloaderOption {
	return func(d *Downloader) {
		if now != nil {
			d.now = now
		}
	}
}

// WithDownloadLogger sets the logger (default: slog.Default()).
func WithDownloadLogger(l *slog.Logger) DownloaderOption {
	return func(d *Downloader) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDownloader returns a Downloader reading from src.
func NewDownloader(src Source, opts ...DownloaderOption) *Downloader {
	d := &Downloader{source: src, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DefaultPath returns the JSONL location inside dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, DefaultFileName)
}

// Download fetches the dataset and writes it to path, replacing any existing
// file. It returns the number of records written.
func (d *Downloader) Download(ctx context.Context, path string) (int, error) {
	records, err := d.source.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := WriteJSONL(path, records); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}

	d.logger.Info("dataset saved", "path", path, "records", len(records))
	return len(records), nil
}

// UpdateResult describes a completed Update.
type UpdateResult struct {
	Path    string
	Backup  string // empty when there was no previous file
	Records int
}

// Update backs up an existing file at path, then downloads over it. The
// backup sits next to the original as <stem>_backup_<YYYYmmdd_HHMMSS><ext>
// and keeps its permissions and modification time. If the download fails the
// original file is left untouched.
func (d *Downloader) Update(ctx context.Context, path string) (UpdateResult, error) {
	result := UpdateResult{Path: path}

	if _, err := os.Stat(path); err == nil {
		result.Backup = BackupPath(path, d.now())
		if err := copyFile(path, result.Backup); err != nil {
			return result, fmt.Errorf("creating backup: %w", err)
		}
		d.logger.Info("backup created", "path", result.Backup)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return result, fmt.Errorf("checking %s: %w", path, err)
	}

	n, err := d.Download(ctx, path)
	result.Records = n
	return result, err
}

// BackupPath returns the backup file name for path at time t.
func BackupPath(path string, t time.Time) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(filepath.Base(path), ext)
	return filepath.Join(filepath.Dir(path), stem+"_backup_"+t.Format(backupTimeLayout)+ext)
}

// copyFile copies src to dst with src's permissions and modification time.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

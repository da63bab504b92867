package dataset

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotFound indicates a dataset file does not exist. It matches fs.ErrNotExist.
	ErrNotFound = fmt.Errorf("dataset: file not found: %w", fs.ErrNotExist)

	// ErrDownloadFailed indicates the dataset could not be fetched from the hub.
	ErrDownloadFailed = errors.New("dataset: download failed")

	// ErrSourceUnavailable indicates the requested source cannot serve the
	// dataset, for example an unknown source kind or a split with no parquet export.
	ErrSourceUnavailable = errors.New("dataset: source unavailable")

	// ErrMalformed indicates a JSONL line or parquet file could not be decoded.
	ErrMalformed = errors.New("dataset: malformed record")
)

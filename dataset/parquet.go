package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/schollz/progressbar/v3"
)

// readBatch is how many rows are decoded per Read call.
const readBatch = 256

// parquetRow mirrors the schema of the hub's parquet export.
type parquetRow struct {
	Key               int64           `parquet:"key"`
	Prompt            string          `parquet:"prompt"`
	InstructionIDList []string        `parquet:"instruction_id_list,list"`
	Kwargs            []parquetKwargs `parquet:"kwargs,list"`
}

// parquetKwargs is the union of every instruction's arguments. The export
// stores one struct per instruction with unused fields null.
type parquetKwargs struct {
	CapitalFrequency *int64   `parquet:"capital_frequency,optional" json:"capital_frequency"`
	CapitalRelation  *string  `parquet:"capital_relation,optional" json:"capital_relation"`
	EndPhrase        *string  `parquet:"end_phrase,optional" json:"end_phrase"`
	FirstWord        *string  `parquet:"first_word,optional" json:"first_word"`
	ForbiddenWords   []string `parquet:"forbidden_words,optional,list" json:"forbidden_words"`
	Frequency        *int64   `parquet:"frequency,optional" json:"frequency"`
	Keyword          *string  `parquet:"keyword,optional" json:"keyword"`
	Keywords         []string `parquet:"keywords,optional,list" json:"keywords"`
	Language         *string  `parquet:"language,optional" json:"language"`
	LetFrequency     *int64   `parquet:"let_frequency,optional" json:"let_frequency"`
	LetRelation      *string  `parquet:"let_relation,optional" json:"let_relation"`
	Letter           *string  `parquet:"letter,optional" json:"letter"`
	NthParagraph     *int64   `parquet:"nth_paragraph,optional" json:"nth_paragraph"`
	NumBullets       *int64   `parquet:"num_bullets,optional" json:"num_bullets"`
	NumHighlights    *int64   `parquet:"num_highlights,optional" json:"num_highlights"`
	NumParagraphs    *int64   `parquet:"num_paragraphs,optional" json:"num_paragraphs"`
	NumPlaceholders  *int64   `parquet:"num_placeholders,optional" json:"num_placeholders"`
	NumSections      *int64   `parquet:"num_sections,optional" json:"num_sections"`
	NumSentences     *int64   `parquet:"num_sentences,optional" json:"num_sentences"`
	NumWords         *int64   `parquet:"num_words,optional" json:"num_words"`
	PostscriptMarker *string  `parquet:"postscript_marker,optional" json:"postscript_marker"`
	PromptToRepeat   *string  `parquet:"prompt_to_repeat,optional" json:"prompt_to_repeat"`
	Relation         *string  `parquet:"relation,optional" json:"relation"`
	SectionSpliter   *string  `parquet:"section_spliter,optional" json:"section_spliter"`
}

// asMap converts the struct to the map written to JSONL, keeping nulls.
func (k parquetKwargs) asMap() (map[string]any, error) {
	data, err := json.Marshal(k)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r parquetRow) record() (Record, error) {
	rec := Record{
		Key:               r.Key,
		Prompt:            r.Prompt,
		InstructionIDList: r.InstructionIDList,
		Kwargs:            make([]map[string]any, len(r.Kwargs)),
	}
	for i, k := range r.Kwargs {
		m, err := k.asMap()
		if err != nil {
			return Record{}, fmt.Errorf("record %d kwargs %d: %w", r.Key, i, err)
		}
		rec.Kwargs[i] = m
	}
	return rec, nil
}

// parquetFile is one entry of the /parquet listing.
type parquetFile struct {
	Dataset  string `json:"dataset"`
	Config   string `json:"config"`
	Split    string `json:"split"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// HubParquetSource downloads the parquet export HuggingFace generates for
// every dataset and decodes it locally.
type HubParquetSource struct {
	hub
}

var _ Source = (*HubParquetSource)(nil)

// NewHubParquetSource returns a parquet-backed hub source.
func NewHubParquetSource(opts ...HubOption) *HubParquetSource {
	return &HubParquetSource{hub: newHub(opts)}
}

// Files lists the parquet shards of the configured split.
func (s *HubParquetSource) Files(ctx context.Context) ([]parquetFile, error) {
	var listing struct {
		ParquetFiles []parquetFile `json:"parquet_files"`
	}
	err := s.getJSON(ctx, s.apiURL("/parquet", url.Values{"dataset": {s.dataset}}), &listing)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: dataset %s has no parquet export: %w", ErrSourceUnavailable, s.dataset, err)
		}
		return nil, err
	}

	var files []parquetFile
	for _, f := range listing.ParquetFiles {
		if f.Split == s.split && f.Config == s.config {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no parquet files for %s config=%s split=%s",
			ErrSourceUnavailable, s.dataset, s.config, s.split)
	}
	return files, nil
}

// Fetch implements Source.
func (s *HubParquetSource) Fetch(ctx context.Context) ([]Record, error) {
	files, err := s.Files(ctx)
	if err != nil {
		return nil, err
	}

	var records []Record
	for _, f := range files {
		shard, err := s.fetchShard(ctx, f)
		if err != nil {
			return nil, err
		}
		records = append(records, shard...)
	}

	s.logger.Info("fetched dataset", "dataset", s.dataset, "split", s.split,
		"shards", len(files), "records", len(records))
	return records, nil
}

// fetchShard downloads one parquet file to a temp file and decodes it.
func (s *HubParquetSource) fetchShard(ctx context.Context, f parquetFile) ([]Record, error) {
	tmp, err := os.CreateTemp("", "ifeval-ko-*.parquet")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	resp, err := s.get(ctx, f.URL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var dst io.Writer = tmp
	if s.progress != nil {
		total := resp.ContentLength
		if total <= 0 {
			total = f.Size
		}
		if total <= 0 {
			total = -1 // unknown size renders a spinner
		}
		bar := progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(s.progress),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan]Downloading[reset] "+f.Filename),
			progressbar.OptionOnCompletion(func() {
				_, _ = fmt.Fprintln(s.progress)
			}),
		)
		dst = io.MultiWriter(tmp, bar)
	}

	n, err := io.Copy(dst, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDownloadFailed, f.URL, err)
	}

	records, err := decodeParquet(tmp, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Filename, err)
	}
	return records, nil
}

// ReadParquet decodes dataset records from a local parquet file.
func ReadParquet(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return decodeParquet(f, info.Size())
}

// decodeParquet reads every row of a parquet file of the given size. Input
// that is not parquet yields ErrMalformed.
func decodeParquet(r io.ReaderAt, size int64) ([]Record, error) {
	file, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: opening parquet: %v", ErrMalformed, err)
	}

	reader := parquet.NewGenericReader[parquetRow](file)
	defer func() { _ = reader.Close() }()

	rows := make([]parquetRow, readBatch)
	records := make([]Record, 0, reader.NumRows())
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			rec, convErr := row.record()
			if convErr != nil {
				return nil, convErr
			}
			records = append(records, rec)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding parquet: %w", err)
		}
	}
	return records, nil
}

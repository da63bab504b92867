package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/jamesainslie/go-ifeval-ko/internal/apierr"
)

var fastRetry = apierr.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}

func ptr[T any](v T) *T { return &v }

func fixtureRows() []parquetRow {
	return []parquetRow{
		{
			Key:               1001,
			Prompt:            "다음 글을 세 문장으로 요약하세요.",
			InstructionIDList: []string{"length_constraints:number_sentences"},
			Kwargs:            []parquetKwargs{{NumSentences: ptr(int64(3)), Relation: ptr("less than")}},
		},
		{
			Key:               1002,
			Prompt:            "답변에 '서울'과 '부산'을 포함하세요.",
			InstructionIDList: []string{"keywords:existence", "punctuation:no_comma"},
			Kwargs:            []parquetKwargs{{Keywords: []string{"서울", "부산"}}, {}},
		},
	}
}

func parquetFixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[parquetRow](&buf)
	if _, err := writer.Write(fixtureRows()); err != nil {
		t.Fatalf("writing parquet: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing parquet writer: %v", err)
	}
	return buf.Bytes()
}

// newParquetHub serves a /parquet listing and a single shard.
func newParquetHub(t *testing.T, shard []byte, failFirst int32) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var shardCalls atomic.Int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/parquet", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dataset") != DefaultName {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"parquet_files": []parquetFile{
				{Dataset: DefaultName, Config: "default", Split: "train", URL: srv.URL + "/files/0000.parquet", Filename: "0000.parquet", Size: int64(len(shard))},
				{Dataset: DefaultName, Config: "default", Split: "test", URL: srv.URL + "/files/other.parquet", Filename: "other.parquet"},
			},
		})
	})
	mux.HandleFunc("/files/0000.parquet", func(w http.ResponseWriter, r *http.Request) {
		if shardCalls.Add(1) <= failFirst {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(shard)))
		_, _ = w.Write(shard)
	})
	return srv, &shardCalls
}

func TestHubParquetSource_Fetch(t *testing.T) {
	srv, calls := newParquetHub(t, parquetFixture(t), 1)

	var progress bytes.Buffer
	src := NewHubParquetSource(WithEndpoint(srv.URL), WithRetry(fastRetry), WithProgress(&progress))
	records, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if calls.Load() != 2 {
		t.Errorf("expected one retry after 503, got %d calls", calls.Load())
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Key != 1001 || records[1].InstructionIDList[1] != "punctuation:no_comma" {
		t.Errorf("unexpected records: %+v", records)
	}

	kw := records[0].Kwargs[0]
	if kw["num_sentences"] != json.Number("3") || kw["relation"] != "less than" {
		t.Errorf("unexpected kwargs: %#v", kw)
	}
	if v, ok := kw["keyword"]; !ok || v != nil {
		t.Errorf("absent argument should be a null entry, got %#v", kw["keyword"])
	}
	if kws, ok := records[1].Kwargs[0]["keywords"].([]any); !ok || len(kws) != 2 || kws[0] != "서울" {
		t.Errorf("unexpected keywords: %#v", records[1].Kwargs[0]["keywords"])
	}
	if progress.Len() == 0 {
		t.Error("expected progress output")
	}
}

func TestHubParquetSource_NoExport(t *testing.T) {
	srv, _ := newParquetHub(t, nil, 0)

	src := NewHubParquetSource(WithEndpoint(srv.URL), WithRetry(fastRetry), WithDataset("someone/unknown"))
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestHubParquetSource_NoMatchingSplit(t *testing.T) {
	srv, _ := newParquetHub(t, nil, 0)

	src := NewHubParquetSource(WithEndpoint(srv.URL), WithRetry(fastRetry), WithSplit("validation"))
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestHubParquetSource_PersistentFailure(t *testing.T) {
	srv, calls := newParquetHub(t, nil, 100)

	src := NewHubParquetSource(WithEndpoint(srv.URL), WithRetry(fastRetry))
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrDownloadFailed) || !errors.Is(err, apierr.ErrServer) {
		t.Errorf("expected ErrDownloadFailed wrapping ErrServer, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestReadParquet(t *testing.T) {
	path := t.TempDir() + "/train.parquet"
	if err := os.WriteFile(path, parquetFixture(t), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadParquet(path)
	if err != nil {
		t.Fatalf("ReadParquet failed: %v", err)
	}
	if len(records) != 2 || records[1].Prompt != "답변에 '서울'과 '부산'을 포함하세요." {
		t.Errorf("unexpected records: %+v", records)
	}

	if _, err := ReadParquet(t.TempDir() + "/missing.parquet"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReadParquet_NotParquet(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"html page", []byte("<html>not parquet</html>")},
		{"empty file", nil},
		{"truncated", parquetFixture(t)[:64]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := t.TempDir() + "/bad.parquet"
			if err := os.WriteFile(path, tt.content, 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := ReadParquet(path); !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestHubParquetSource_ShardNotParquet(t *testing.T) {
	srv, _ := newParquetHub(t, []byte("<html>maintenance</html>"), 0)

	src := NewHubParquetSource(WithEndpoint(srv.URL), WithRetry(fastRetry))
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestHubRowsSource_Fetch(t *testing.T) {
	const total = 230
	var pages atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rows" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer hf_test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		pages.Add(1)

		q := r.URL.Query()
		offset, _ := strconv.Atoi(q.Get("offset"))
		length, _ := strconv.Atoi(q.Get("length"))
		if q.Get("config") != "default" || q.Get("split") != "train" || length != rowsPageSize {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var rows []map[string]any
		for i := offset; i < min(offset+length, total); i++ {
			rows = append(rows, map[string]any{
				"row_idx": i,
				"row": map[string]any{
					"key":                 i,
					"prompt":              fmt.Sprintf("프롬프트 %d", i),
					"instruction_id_list": []string{"punctuation:no_comma"},
					"kwargs":              []map[string]any{{"num_words": nil}},
				},
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"rows": rows, "num_rows_total": total})
	}))
	defer srv.Close()

	src := NewHubRowsSource(WithEndpoint(srv.URL), WithRetry(fastRetry), WithToken("hf_test"))
	records, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(records) != total {
		t.Fatalf("expected %d records, got %d", total, len(records))
	}
	if pages.Load() != 3 {
		t.Errorf("expected 3 pages, got %d", pages.Load())
	}
	if records[229].Key != 229 || records[229].Prompt != "프롬프트 229" {
		t.Errorf("unexpected last record: %+v", records[229])
	}
}

func TestHubRowsSource_AuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"gated"}`)
	}))
	defer srv.Close()

	_, err := NewHubRowsSource(WithEndpoint(srv.URL), WithRetry(fastRetry)).Fetch(context.Background())
	if !errors.Is(err, apierr.ErrAuthFailed) || !errors.Is(err, ErrDownloadFailed) {
		t.Errorf("expected ErrAuthFailed and ErrDownloadFailed, got %v", err)
	}
}

func TestNewSource(t *testing.T) {
	for kind, want := range map[string]string{"": "*dataset.HubParquetSource", "parquet": "*dataset.HubParquetSource", "rows": "*dataset.HubRowsSource"} {
		src, err := NewSource(kind)
		if err != nil {
			t.Fatalf("NewSource(%q) failed: %v", kind, err)
		}
		if got := fmt.Sprintf("%T", src); got != want {
			t.Errorf("NewSource(%q) = %s, want %s", kind, got, want)
		}
	}

	if _, err := NewSource("git"); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
}

package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleRecords() []Record {
	return []Record{
		{
			Key:               1000,
			Prompt:            "300단어 이상으로 <위키> 문서를 요약하세요.",
			InstructionIDList: []string{"length_constraints:number_words", "punctuation:no_comma"},
			Kwargs: []map[string]any{
				{"relation": "at least", "num_words": json.Number("300")},
				{"relation": nil},
			},
		},
		{
			Key:               1001,
			Prompt:            "Write a haiku & explain it.",
			InstructionIDList: []string{"detectable_format:title"},
			Kwargs:            []map[string]any{{}},
		},
	}
}

func TestEncodeDecodeJSONL(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSONL(&buf, sampleRecords()); err != nil {
		t.Fatalf("EncodeJSONL failed: %v", err)
	}

	out := buf.String()
	if lines := strings.Count(out, "\n"); lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
	if !strings.Contains(out, "300단어") {
		t.Error("korean text should be written unescaped")
	}
	if !strings.Contains(out, "<위키>") || !strings.Contains(out, " & ") {
		t.Error("html characters should be written unescaped")
	}
	if !strings.HasPrefix(out, `{"key":1000,"prompt":`) {
		t.Errorf("unexpected field order: %s", out[:40])
	}

	got, err := DecodeJSONL(&buf)
	if err != nil {
		t.Fatalf("DecodeJSONL failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].Kwargs[0]["num_words"] != json.Number("300") {
		t.Errorf("num_words = %#v, want json.Number(300)", got[0].Kwargs[0]["num_words"])
	}
	if v, ok := got[0].Kwargs[1]["relation"]; !ok || v != nil {
		t.Errorf("null kwarg lost: %#v", got[0].Kwargs[1])
	}
}

func TestEncodeJSONL_NilSlices(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSONL(&buf, []Record{{Key: 1, Prompt: "p"}}); err != nil {
		t.Fatalf("EncodeJSONL failed: %v", err)
	}
	want := `{"key":1,"prompt":"p","instruction_id_list":[],"kwargs":[]}` + "\n"
	if buf.String() != want {
		t.Errorf("got %s, want %s", buf.String(), want)
	}
}

func TestDecodeJSONL_BlankLinesAndErrors(t *testing.T) {
	input := "\n" + `{"key":1,"prompt":"a","instruction_id_list":[],"kwargs":[]}` + "\n\n"
	got, err := DecodeJSONL(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSONL failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 record, got %d", len(got))
	}

	bad := `{"key":1}` + "\n" + `{"key":` + "\n"
	_, err = DecodeJSONL(strings.NewReader(bad))
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestWriteReadJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "input_data.jsonl")

	if err := WriteJSONL(path, sampleRecords()); err != nil {
		t.Fatalf("WriteJSONL failed: %v", err)
	}
	got, err := ReadJSONL(path)
	if err != nil {
		t.Fatalf("ReadJSONL failed: %v", err)
	}
	if len(got) != 2 || got[1].Prompt != "Write a haiku & explain it." {
		t.Errorf("unexpected records: %+v", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestReadJSONL_NotFound(t *testing.T) {
	_, err := ReadJSONL(filepath.Join(t.TempDir(), "missing.jsonl"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

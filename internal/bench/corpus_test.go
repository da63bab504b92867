package bench

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     Header
		wantBody string
		wantErr  bool
	}{
		{
			name: "valid header",
			input: `# Source: https://example.com/news
# Title: 뉴스 기사

첫 문장입니다.
둘째 문장입니다.`,
			want: Header{
				Source: "https://example.com/news",
				Title:  "뉴스 기사",
			},
			wantBody: "첫 문장입니다.\n둘째 문장입니다.",
		},
		{
			name: "missing source",
			input: `# Title: My Talk

Hello.`,
			wantErr: true,
		},
		{
			name:     "header only",
			input:    "# Source: x\n",
			want:     Header{Source: "x"},
			wantBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, body, err := ParseHeader(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseHeader() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("ParseHeader() header = %+v, want %+v", got, tt.want)
			}
			if body != tt.wantBody {
				t.Errorf("ParseHeader() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestFromSentences(t *testing.T) {
	c := FromSentences("t", "src", []string{"안녕하세요.", "Hi there!"})

	if c.Text != "안녕하세요. Hi there!" {
		t.Errorf("Text = %q", c.Text)
	}
	// "안녕하세요." is 16 bytes.
	if want := []int{16, 26}; !slices.Equal(c.Boundaries, want) {
		t.Errorf("Boundaries = %v, want %v", c.Boundaries, want)
	}
	if c.Sentences != 2 {
		t.Errorf("Sentences = %d, want 2", c.Sentences)
	}
}

func TestLoadFile_Text(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.txt")
	content := `# Source: https://example.com
# Title: Sample

Hello world.
How are you?
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if c.Name != "Sample" {
		t.Errorf("Name = %q, want Sample", c.Name)
	}
	if c.Text != "Hello world. How are you?" {
		t.Errorf("Text = %q", c.Text)
	}
	if want := []int{12, 25}; !slices.Equal(c.Boundaries, want) {
		t.Errorf("Boundaries = %v, want %v", c.Boundaries, want)
	}
}

func TestLoadFile_JSON(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`{"source":"s","text":"A. B.","sentences":2,"boundaries":[2,5]}`), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(good)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if c.Name != "good" {
		t.Errorf("Name = %q, want file stem", c.Name)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"text":"A.","boundaries":[9]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Error("expected error for boundary past end of text")
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"b.txt", "a.txt"} {
		content := "# Source: https://example.com\n\nHello.\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "c.json"), []byte(`{"text":"x.","boundaries":[2]}`), 0644); err != nil {
		t.Fatal(err)
	}
	// Ignored.
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Readme"), 0644); err != nil {
		t.Fatal(err)
	}

	corpora, err := LoadCorpus(dir)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	var names []string
	for _, c := range corpora {
		names = append(names, c.Name)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

func TestLoadCorpus_MissingDir(t *testing.T) {
	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error")
	}
}

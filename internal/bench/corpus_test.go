package bench

import (
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
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
			input: `# Source: https://example.com/run
# Model: t5-small
# Split: test

1 2 0 | 1 2 0`,
			want: Header{
				Source: "https://example.com/run",
				Model:  "t5-small",
				Split:  "test",
			},
			wantBody: "1 2 0 | 1 2 0",
		},
		{
			name:     "header only",
			input:    "# Source: local\n",
			want:     Header{Source: "local"},
			wantBody: "",
		},
		{
			name: "missing source",
			input: `# Model: t5-small

1 | 1`,
			wantErr: true,
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

func TestParseExamples(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Example
		wantErr bool
	}{
		{
			name:  "target and predicted",
			input: "1 2 3 0 | 1 2 4 0\n\n# comment\n5 0 | 5",
			want: []Example{
				{Target: []int64{1, 2, 3, 0}, Predicted: []int64{1, 2, 4, 0}},
				{Target: []int64{5, 0}, Predicted: []int64{5}},
			},
		},
		{
			name:  "with input",
			input: "1 0 | 1 0 | 7 8 2",
			want: []Example{
				{Target: []int64{1, 0}, Predicted: []int64{1, 0}, Input: []int64{7, 8, 2}},
			},
		},
		{
			name:  "negative pad ids",
			input: "1 0 -1 | -1",
			want: []Example{
				{Target: []int64{1, 0, -1}, Predicted: []int64{-1}},
			},
		},
		{
			name:    "missing separator",
			input:   "1 2 3",
			wantErr: true,
		},
		{
			name:    "too many fields",
			input:   "1 | 2 | 3 | 4",
			wantErr: true,
		},
		{
			name:    "non-integer token",
			input:   "1 2.5 | 1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExamples(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExamples() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseExamples() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseExamples_LongLine(t *testing.T) {
	const n = 20000
	ids := make([]string, n)
	want := make([]int64, n)
	for i := range ids {
		ids[i] = strconv.Itoa(i + 1)
		want[i] = int64(i + 1)
	}
	line := strings.Join(ids, " ")

	got, err := ParseExamples(line + " | " + line)
	if err != nil {
		t.Fatalf("ParseExamples() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d examples, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0].Target, want) || !reflect.DeepEqual(got[0].Predicted, want) {
		t.Errorf("long example not parsed intact: target len %d, predicted len %d", len(got[0].Target), len(got[0].Predicted))
	}

	path := filepath.Join(t.TempDir(), "long.txt")
	if err := os.WriteFile(path, []byte("# Source: local\n\n"+line+" | "+line), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(c.Examples) != 1 || len(c.Examples[0].Target) != n {
		t.Errorf("LoadFile() examples = %d, want 1 of length %d", len(c.Examples), n)
	}
}

func TestLoadFile_Text(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run_a.txt")
	content := `# Source: https://example.com
# Model: t5-small

1 2 3 4 | 2 4 1 5
1 2 3 0 | 4 5 6 -1`

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if c.ID != "run_a" {
		t.Errorf("ID = %q, want %q", c.ID, "run_a")
	}
	if c.Model != "t5-small" {
		t.Errorf("Model = %q, want %q", c.Model, "t5-small")
	}
	if len(c.Examples) != 2 {
		t.Errorf("got %d examples, want 2", len(c.Examples))
	}
}

func TestLoadFile_JSONRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run_b.json")

	in := &Corpus{
		Source: "https://example.com",
		Model:  "bart-base",
		Examples: []Example{
			{Target: []int64{1, 2, 0}, Predicted: []int64{1, 3, 0}},
		},
	}
	if err := WriteJSON(path, in); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	out, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if out.ID != "run_b" || out.Model != "bart-base" {
		t.Errorf("corpus = %+v", out)
	}
	if !reflect.DeepEqual(out.Examples, in.Examples) {
		t.Errorf("Examples = %+v, want %+v", out.Examples, in.Examples)
	}
}

func TestLoadFile_JSONMissingSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"examples": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for corpus without source")
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"run1.txt", "run2.txt"} {
		content := `# Source: https://example.com

1 0 | 1 0`
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "run3.json"), []byte(`{"source": "x", "examples": [{"target": [1], "predicted": [1]}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	// Create a non-corpus file that should be ignored
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Readme"), 0644); err != nil {
		t.Fatal(err)
	}

	corpora, err := LoadCorpus(dir)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	if len(corpora) != 3 {
		t.Errorf("got %d corpora, want 3", len(corpora))
	}
}

// Package bench provides evaluation utilities for sequence-generation output.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Header contains metadata parsed from a corpus file header.
type Header struct {
	Source string
	Model  string
	Split  string
}

// ParseHeader extracts metadata from corpus header comments.
// Returns the header, remaining text after header, and any error.
func ParseHeader(text string) (Header, string, error) {
	var h Header
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var bodyStart int
	var lineEnd int
	inBody := false

	for scanner.Scan() {
		line := scanner.Text()
		lineEnd += len(line) + 1 // +1 for newline

		if !strings.HasPrefix(line, "#") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			bodyStart = lineEnd - len(line) - 1
			inBody = true
			break
		}

		line = strings.TrimPrefix(line, "# ")
		if value, ok := strings.CutPrefix(line, "Source:"); ok {
			h.Source = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Model:"); ok {
			h.Model = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Split:"); ok {
			h.Split = strings.TrimSpace(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return Header{}, "", fmt.Errorf("scan header: %w", err)
	}

	if h.Source == "" {
		return Header{}, "", errors.New("missing Source in header")
	}

	if !inBody {
		return h, "", nil
	}
	return h, strings.TrimSpace(text[bodyStart:]), nil
}

// Example is one evaluation pair. Input is only needed when predictions are
// produced by a model.
type Example struct {
	Target    []int64 `json:"target"`
	Predicted []int64 `json:"predicted"`
	Input     []int64 `json:"input,omitempty"`
}

// maxLineBytes bounds a single example line.
const maxLineBytes = 16 * 1024 * 1024

// ParseExamples parses body lines of the form
//
//	target ids | predicted ids [| input ids]
//
// where each field is a space-separated list of token ids. Blank lines and
// lines starting with '#' are skipped.
func ParseExamples(body string) ([]Example, error) {
	var examples []Example
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "|")
		if len(fields) < 2 || len(fields) > 3 {
			return nil, fmt.Errorf("line %d: want 2 or 3 '|'-separated fields, got %d", lineNo, len(fields))
		}

		var ex Example
		var err error
		if ex.Target, err = parseIDs(fields[0]); err != nil {
			return nil, fmt.Errorf("line %d: target: %w", lineNo, err)
		}
		if ex.Predicted, err = parseIDs(fields[1]); err != nil {
			return nil, fmt.Errorf("line %d: predicted: %w", lineNo, err)
		}
		if len(fields) == 3 {
			if ex.Input, err = parseIDs(fields[2]); err != nil {
				return nil, fmt.Errorf("line %d: input: %w", lineNo, err)
			}
		}
		examples = append(examples, ex)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan examples: %w", err)
	}
	return examples, nil
}

func parseIDs(field string) ([]int64, error) {
	parts := strings.Fields(field)
	ids := make([]int64, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i, err)
		}
		ids[i] = n
	}
	return ids, nil
}

// Corpus is a loaded set of evaluation examples.
type Corpus struct {
	ID       string    `json:"-"` // filename without extension
	Source   string    `json:"source"`
	Model    string    `json:"model"`
	Split    string    `json:"split"`
	Examples []Example `json:"examples"`
}

// LoadFile loads a corpus from a .txt or .json file.
func LoadFile(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	if filepath.Ext(path) == ".json" {
		var c Corpus
		if err := sonic.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		if c.Source == "" {
			return nil, errors.New("missing source")
		}
		c.ID = id
		return &c, nil
	}

	header, body, err := ParseHeader(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	examples, err := ParseExamples(body)
	if err != nil {
		return nil, fmt.Errorf("parse examples: %w", err)
	}

	return &Corpus{
		ID:       id,
		Source:   header.Source,
		Model:    header.Model,
		Split:    header.Split,
		Examples: examples,
	}, nil
}

// LoadCorpus loads all .txt and .json corpus files from a directory.
func LoadCorpus(dir string) ([]*Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var corpora []*Corpus
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".txt" && ext != ".json" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		c, err := LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		corpora = append(corpora, c)
	}

	return corpora, nil
}

// WriteJSON writes c to path in the JSON corpus format.
func WriteJSON(path string, c *Corpus) error {
	data, err := sonic.ConfigStd.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

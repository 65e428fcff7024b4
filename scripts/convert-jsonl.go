//go:build ignore

// Convert JSONL prediction dumps into benchmark corpus format.
// Each input line is an object with "target" and "prediction" token id arrays
// and an optional "input" array. Splits are written as JSON corpus files.
// Usage: go run ./scripts/convert-jsonl.go [-model NAME] IN_DIR OUT_DIR
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
)

// Corpus matches the JSON layout read by internal/bench.
type Corpus struct {
	Source   string    `json:"source"`
	Model    string    `json:"model"`
	Split    string    `json:"split"`
	Examples []Example `json:"examples"`
}

// Example is one target/prediction pair.
type Example struct {
	Target    []int64 `json:"target"`
	Predicted []int64 `json:"predicted"`
	Input     []int64 `json:"input,omitempty"`
}

type dumpLine struct {
	Target     []int64 `json:"target"`
	Prediction []int64 `json:"prediction"`
	Input      []int64 `json:"input"`
}

func main() {
	model := flag.String("model", "", "Model name recorded in the corpus header")
	flag.Parse()

	inDir, outDir := "testdata/dumps", "testdata/eval"
	if flag.NArg() >= 2 {
		inDir, outDir = flag.Arg(0), flag.Arg(1)
	}

	entries, err := os.ReadDir(inDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", inDir, err)
		os.Exit(1)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jsonl" {
			continue
		}

		split := strings.TrimSuffix(entry.Name(), ".jsonl")
		inFile := filepath.Join(inDir, entry.Name())
		outFile := filepath.Join(outDir, split+".json")

		fmt.Printf("Processing %s...\n", split)
		corpus, err := processJSONL(inFile, split, *model)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inFile, err)
			continue
		}

		if err := writeCorpus(outFile, corpus); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outFile, err)
			continue
		}

		fmt.Printf("  -> %s (%d examples)\n", outFile, len(corpus.Examples))
	}

	fmt.Printf("\nDone! Corpus files created in %s/\n", outDir)
}

func processJSONL(path, split, model string) (*Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	corpus := &Corpus{
		Source: path,
		Model:  model,
		Split:  split,
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var d dumpLine
		if err := sonic.UnmarshalString(line, &d); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		corpus.Examples = append(corpus.Examples, Example{
			Target:    d.Target,
			Predicted: d.Prediction,
			Input:     d.Input,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}

	return corpus, nil
}

func writeCorpus(path string, corpus *Corpus) error {
	data, err := sonic.ConfigStd.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding corpus: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

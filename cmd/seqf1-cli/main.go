package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	seqf1 "github.com/jamesainslie/go-seqf1"
)

func main() {
	target := flag.String("target", "", "Target sequences: space-separated ids, examples separated by ';'")
	predicted := flag.String("predicted", "", "Predicted sequences, same format as -target")
	padIdx := flag.Int64("pad", -1, "Padding token id")
	eosIdx := flag.Int64("eos", 0, "End-of-sequence token id")
	mode := flag.String("mode", "score", "Mode: score or mask")

	flag.Parse()

	if *target == "" {
		fmt.Fprintln(os.Stderr, "Usage: seqf1-cli -target IDS [-predicted IDS] [OPTIONS]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	acc := seqf1.New(seqf1.WithPadIdx(*padIdx), seqf1.WithEOSIdx(*eosIdx))

	targetGrid, err := parseBatch(*target, *padIdx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing target: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case "score":
		if *predicted == "" {
			fmt.Fprintln(os.Stderr, "Error: -predicted is required in score mode")
			os.Exit(1)
		}
		predictedGrid, err := parseBatch(*predicted, *padIdx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing predicted: %v\n", err)
			os.Exit(1)
		}
		if err := acc.Update(predictedGrid, targetGrid); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		m := acc.Compute()
		fmt.Printf("Precision: %.4f\n", m.Precision)
		fmt.Printf("Recall:    %.4f\n", m.Recall)
		fmt.Printf("F1:        %.4f\n", m.F1Score)
		fmt.Printf("(%s)\n", acc.Counts())

	case "mask":
		mask := acc.EndSequenceMask(targetGrid)
		for r := 0; r < targetGrid.Rows(); r++ {
			var b strings.Builder
			for c := 0; c < targetGrid.Cols(); c++ {
				if c > 0 {
					b.WriteByte(' ')
				}
				if mask.At(r, c) {
					b.WriteString("   .")
				} else {
					fmt.Fprintf(&b, "%4d", targetGrid.At(r, c))
				}
			}
			fmt.Println(b.String())
		}

	default:
		fmt.Fprintf(os.Stderr, "Unknown mode: %s\n", *mode)
		os.Exit(1)
	}
}

// parseBatch turns "1 2 0; 3 0" into a (sequence, batch) grid, right-padding
// shorter examples with pad.
func parseBatch(s string, pad int64) (seqf1.Grid, error) {
	var seqs [][]int64
	longest := 0
	for i, part := range strings.Split(s, ";") {
		fields := strings.Fields(part)
		seq := make([]int64, len(fields))
		for j, f := range fields {
			n, err := strconv.ParseInt(f, 10, 64)
			if err != nil {
				return seqf1.Grid{}, fmt.Errorf("example %d token %d: %w", i, j, err)
			}
			seq[j] = n
		}
		seqs = append(seqs, seq)
		longest = max(longest, len(seq))
	}

	g := seqf1.NewGrid(longest, len(seqs))
	for c, seq := range seqs {
		for r := 0; r < longest; r++ {
			v := pad
			if r < len(seq) {
				v = seq[r]
			}
			g.Set(r, c, v)
		}
	}
	return g, nil
}

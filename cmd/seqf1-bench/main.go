package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	seqf1 "github.com/jamesainslie/go-seqf1"
	"github.com/jamesainslie/go-seqf1/inference"
	"github.com/jamesainslie/go-seqf1/internal/bench"
	"github.com/jamesainslie/go-seqf1/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		corpusDir   = flag.String("corpus", "testdata/eval", "Directory containing corpus files")
		padIdx      = flag.Int64("pad", -1, "Padding token id")
		eosIdx      = flag.Int64("eos", 0, "End-of-sequence token id")
		batchSize   = flag.Int("batch", 32, "Examples per batch")
		maxLength   = flag.Int("max-length", 0, "Truncate predictions to this many tokens (0 = no limit)")
		wp          = flag.Float64("wp", 1.0, "Precision weight")
		wr          = flag.Float64("wr", 1.0, "Recall weight")
		compare     = flag.Bool("compare", false, "Rank corpora by F1")
		workers     = flag.Int("workers", runtime.NumCPU(), "Parallel corpora in compare mode")
		sweep       = flag.Bool("sweep", false, "Run a maximum-length sweep")
		sweepMin    = flag.Int("sweep-min", 8, "Sweep minimum length")
		sweepMax    = flag.Int("sweep-max", 128, "Sweep maximum length")
		sweepStep   = flag.Int("sweep-step", 8, "Sweep step size")
		modelPath   = flag.String("model", "", "ONNX model used to predict from each example's input ids")
		poolSize    = flag.Int("pool", runtime.NumCPU(), "ONNX session pool size")
		ckptPath    = flag.String("checkpoint", "", "Resume from and save counters to this checkpoint file; corpora it already covers are skipped")
		promFile    = flag.String("prom-textfile", "", "Write Prometheus metrics to this file")
		verbose     = flag.Bool("v", false, "Debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("seqf1-bench %s (%s, %s)\n", version, commit, date)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	corpora, err := bench.LoadCorpus(*corpusDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading corpus: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d corpora from %s\n\n", len(corpora), *corpusDir)

	cfg := bench.Config{
		PadIdx:          *padIdx,
		EOSIdx:          *eosIdx,
		BatchSize:       *batchSize,
		MaxLength:       *maxLength,
		PrecisionWeight: *wp,
		RecallWeight:    *wr,
		Logger:          logger,
	}

	ctx := context.Background()

	if *modelPath != "" {
		if err := predictAll(ctx, *modelPath, *poolSize, corpora, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "error predicting: %v\n", err)
			os.Exit(1)
		}
	}

	switch {
	case *sweep:
		runSweep(ctx, corpora, cfg, *sweepMin, *sweepMax, *sweepStep)
	case *compare:
		runCompare(ctx, corpora, cfg, *workers, *promFile)
	default:
		runSingle(ctx, corpora, cfg, *ckptPath, *promFile)
	}
}

func predictAll(ctx context.Context, modelPath string, poolSize int, corpora []*bench.Corpus, cfg bench.Config) error {
	pool, err := inference.NewPool(modelPath, poolSize)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	for _, c := range corpora {
		if err := bench.Predict(ctx, pool, c, cfg); err != nil {
			return err
		}
	}
	return nil
}

func runSingle(ctx context.Context, corpora []*bench.Corpus, cfg bench.Config, ckptPath, promFile string) {
	var acc *seqf1.SequentialF1
	if ckptPath != "" {
		var err error
		if acc, err = bench.EvaluateCheckpointed(ctx, corpora, cfg, ckptPath); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	} else {
		acc = seqf1.New(
			seqf1.WithPadIdx(cfg.PadIdx),
			seqf1.WithEOSIdx(cfg.EOSIdx),
			seqf1.WithLogger(cfg.Logger),
		)
		for _, c := range corpora {
			if err := bench.EvaluateInto(ctx, acc, c, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "error evaluating %s: %v\n", c.ID, err)
				os.Exit(1)
			}
		}
	}

	printMetrics(bench.NewMetrics(acc.Counts(), cfg))

	if promFile != "" {
		rec := telemetry.NewRecorder()
		rec.Observe("all", acc.Counts())
		if err := rec.WriteTextfile(promFile); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func runCompare(ctx context.Context, corpora []*bench.Corpus, cfg bench.Config, workers int, promFile string) {
	cmp, err := bench.Compare(ctx, corpora, cfg, workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during compare: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Corpus Comparison (wp=%.1f, wr=%.1f)\n", cfg.PrecisionWeight, cfg.RecallWeight)
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("%-30s %-8s %-8s %-8s %-8s\n", "Corpus", "Prec", "Rec", "F1", "Weighted")

	rec := telemetry.NewRecorder()
	for _, r := range cmp.Results {
		fmt.Printf("%-30s %-8.2f %-8.2f %-8.2f %-8.2f\n",
			r.Corpus.ID, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1, r.Metrics.WeightedScore)
		rec.Observe(r.Corpus.ID, r.Metrics.Counts())
	}
	rec.Observe("all", cmp.Total.Counts())

	fmt.Println(strings.Repeat("-", 70))
	printMetrics(cmp.Total)

	if promFile != "" {
		if err := rec.WriteTextfile(promFile); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
}

func runSweep(ctx context.Context, corpora []*bench.Corpus, cfg bench.Config, min, max, step int) {
	lengths := bench.SweepLengths(min, max, step)

	fmt.Printf("Max-Length Sweep Results (wp=%.1f, wr=%.1f)\n", cfg.PrecisionWeight, cfg.RecallWeight)
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("%-8s %-8s %-8s %-8s %-8s\n", "MaxLen", "Prec", "Rec", "F1", "Weighted")

	results, err := bench.Sweep(ctx, corpora, cfg, lengths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error during sweep: %v\n", err)
		os.Exit(1)
	}

	// Print sorted by length for readability
	for _, l := range lengths {
		for _, r := range results {
			if r.MaxLength == l {
				fmt.Printf("%-8d %-8.2f %-8.2f %-8.2f %-8.2f\n",
					r.MaxLength, r.Metrics.Precision, r.Metrics.Recall, r.Metrics.F1, r.Metrics.WeightedScore)
				break
			}
		}
	}

	fmt.Println(strings.Repeat("-", 50))
	if len(results) > 0 {
		best := results[0]
		fmt.Printf("Optimal: %d (Weighted: %.2f)\n", best.MaxLength, best.Metrics.WeightedScore)
	}
}

func printMetrics(m bench.Metrics) {
	fmt.Printf("Precision: %.2f  Recall: %.2f  F1: %.2f  Weighted: %.2f\n",
		m.Precision, m.Recall, m.F1, m.WeightedScore)
	fmt.Printf("(TP: %d, FP: %d, FN: %d)\n", m.TruePositives, m.FalsePositives, m.FalseNegatives)
}

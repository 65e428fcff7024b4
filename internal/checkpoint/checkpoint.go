// Package checkpoint persists accumulator counters between evaluation runs
// as protobuf-encoded structs.
package checkpoint

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	seqf1 "github.com/jamesainslie/go-seqf1"
)

// ErrCorrupt indicates a checkpoint file that does not hold valid counters.
var ErrCorrupt = errors.New("checkpoint: corrupt checkpoint")

// Snapshot is the persisted state of one accumulator.
type Snapshot struct {
	Name    string
	PadIdx  int64
	EOSIdx  int64
	Counts  seqf1.Counts
	Metrics seqf1.ClassificationMetrics
	SavedAt time.Time

	// Corpora lists the corpus IDs whose counts are included in Counts.
	Corpora []string
}

// Take snapshots acc under name.
func Take(name string, acc *seqf1.SequentialF1) Snapshot {
	return Snapshot{
		Name:    name,
		PadIdx:  acc.PadIdx(),
		EOSIdx:  acc.EOSIdx(),
		Counts:  acc.Counts(),
		Metrics: acc.Compute(),
		SavedAt: time.Now().UTC(),
	}
}

// Covers reports whether the counts already include corpus id.
func (s Snapshot) Covers(id string) bool {
	return slices.Contains(s.Corpora, id)
}

// Restore adds the snapshot's counters to acc. The sentinels must match.
func (s Snapshot) Restore(acc *seqf1.SequentialF1) error {
	if acc.PadIdx() != s.PadIdx || acc.EOSIdx() != s.EOSIdx {
		return fmt.Errorf("checkpoint %q was taken with pad=%d eos=%d, accumulator has pad=%d eos=%d",
			s.Name, s.PadIdx, s.EOSIdx, acc.PadIdx(), acc.EOSIdx())
	}
	return acc.Add(s.Counts)
}

// Marshal encodes s as a protobuf Struct.
func Marshal(s Snapshot) ([]byte, error) {
	corpora := make([]any, len(s.Corpora))
	for i, id := range s.Corpora {
		corpora[i] = id
	}

	st, err := structpb.NewStruct(map[string]any{
		"name":           s.Name,
		"pad_idx":        float64(s.PadIdx),
		"eos_idx":        float64(s.EOSIdx),
		"true_positive":  float64(s.Counts.TruePositive),
		"false_positive": float64(s.Counts.FalsePositive),
		"false_negative": float64(s.Counts.FalseNegative),
		"precision":      s.Metrics.Precision,
		"recall":         s.Metrics.Recall,
		"f1_score":       s.Metrics.F1Score,
		"saved_at":       s.SavedAt.Format(time.RFC3339Nano),
		"corpora":        corpora,
	})
	if err != nil {
		return nil, fmt.Errorf("building struct: %w", err)
	}

	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

// Unmarshal decodes a snapshot written by Marshal.
func Unmarshal(data []byte) (Snapshot, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(data, &st); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	fields := st.GetFields()

	var s Snapshot
	var err error
	s.Name = fields["name"].GetStringValue()

	ints := []struct {
		key string
		dst *int64
	}{
		{"pad_idx", &s.PadIdx},
		{"eos_idx", &s.EOSIdx},
	}
	for _, f := range ints {
		if *f.dst, err = intField(fields, f.key); err != nil {
			return Snapshot{}, err
		}
	}

	counts := []struct {
		key string
		dst *int
	}{
		{"true_positive", &s.Counts.TruePositive},
		{"false_positive", &s.Counts.FalsePositive},
		{"false_negative", &s.Counts.FalseNegative},
	}
	for _, f := range counts {
		n, err := intField(fields, f.key)
		if err != nil {
			return Snapshot{}, err
		}
		*f.dst = int(n)
	}
	if err := s.Counts.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	s.Metrics = s.Counts.Metrics()

	if ts := fields["saved_at"].GetStringValue(); ts != "" {
		if s.SavedAt, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return Snapshot{}, fmt.Errorf("%w: saved_at: %w", ErrCorrupt, err)
		}
	}

	for i, v := range fields["corpora"].GetListValue().GetValues() {
		id, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return Snapshot{}, fmt.Errorf("%w: corpora[%d] is not a string", ErrCorrupt, i)
		}
		s.Corpora = append(s.Corpora, id.StringValue)
	}

	return s, nil
}

func intField(fields map[string]*structpb.Value, key string) (int64, error) {
	v, ok := fields[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrCorrupt, key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s is not a number", ErrCorrupt, key)
	}
	f := n.NumberValue
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s is not an integer", ErrCorrupt, key)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %s is out of range", ErrCorrupt, key)
	}
	return int64(f), nil
}

// Save writes s to path atomically.
func Save(path string, s Snapshot) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".checkpoint-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // No-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing checkpoint: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads a snapshot from path.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading checkpoint: %w", err)
	}
	return Unmarshal(data)
}

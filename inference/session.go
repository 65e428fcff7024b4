// Package inference runs sequence-generation ONNX models to produce predicted
// token ids for evaluation.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// ErrUnexpectedOutput indicates the model produced an output the session
// cannot turn into token ids.
var ErrUnexpectedOutput = errors.New("inference: unexpected model output")

// initORT initializes ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// Session wraps an ONNX Runtime session for a model with inputs
// "input_ids" and "attention_mask" of shape (batch, seq) and a single output
// holding either token ids (int64, shape (batch, seq)) or logits
// (float32, shape (batch, seq, vocab)).
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

// NewSession creates a new ONNX session from a model file.
func NewSession(modelPath string) (*Session, error) {
	// Check file exists
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }() // Cleanup error doesn't affect success

	inputNames := []string{"input_ids", "attention_mask"}
	outputNames := []string{"predictions"}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		inputNames,
		outputNames,
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Predict runs the model on a (batch, seq) block of input ids and returns
// the predicted token id for every position, row-major (batch, seq).
func (s *Session) Predict(ctx context.Context, inputIDs, attentionMask []int64, batch, seqLen int) ([]int64, error) {
	// Check context before expensive operation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if len(inputIDs) != batch*seqLen || len(attentionMask) != batch*seqLen {
		return nil, fmt.Errorf("input length %d/%d does not match shape (%d, %d)", len(inputIDs), len(attentionMask), batch, seqLen)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("session is closed")
	}

	shape := ort.NewShape(int64(batch), int64(seqLen))

	inputIDsTensor, err := ort.NewTensor(shape, inputIDs)
	if err != nil {
		return nil, fmt.Errorf("creating input_ids tensor: %w", err)
	}
	defer func() { _ = inputIDsTensor.Destroy() }()

	attentionMaskTensor, err := ort.NewTensor(shape, attentionMask)
	if err != nil {
		return nil, fmt.Errorf("creating attention_mask tensor: %w", err)
	}
	defer func() { _ = attentionMaskTensor.Destroy() }()

	inputs := []ort.Value{inputIDsTensor, attentionMaskTensor}

	// nil entries are allocated by Run
	outputs := []ort.Value{nil}

	if err := s.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}

	if outputs[0] == nil {
		return nil, fmt.Errorf("%w: no output produced", ErrUnexpectedOutput)
	}
	defer func() { _ = outputs[0].Destroy() }()

	n := batch * seqLen
	switch out := outputs[0].(type) {
	case *ort.Tensor[int64]:
		data := out.GetData()
		if len(data) < n {
			return nil, fmt.Errorf("%w: %d ids for %d positions", ErrUnexpectedOutput, len(data), n)
		}
		ids := make([]int64, n)
		copy(ids, data[:n])
		return ids, nil

	case *ort.Tensor[float32]:
		dims := out.GetShape()
		if len(dims) != 3 || dims[2] <= 0 {
			return nil, fmt.Errorf("%w: logits shape %v", ErrUnexpectedOutput, dims)
		}
		return Argmax(out.GetData(), n, int(dims[2]))

	default:
		return nil, fmt.Errorf("%w: tensor type %T", ErrUnexpectedOutput, outputs[0])
	}
}

// Argmax reduces row-major (positions, vocab) logits to one token id per
// position. Ties resolve to the lowest id.
func Argmax(logits []float32, positions, vocab int) ([]int64, error) {
	if vocab <= 0 || len(logits) < positions*vocab {
		return nil, fmt.Errorf("%w: %d logits for %d positions of vocab %d", ErrUnexpectedOutput, len(logits), positions, vocab)
	}

	ids := make([]int64, positions)
	for p := 0; p < positions; p++ {
		row := logits[p*vocab : (p+1)*vocab]
		best := 0
		for v := 1; v < vocab; v++ {
			if row[v] > row[best] {
				best = v
			}
		}
		ids[p] = int64(best)
	}
	return ids, nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}

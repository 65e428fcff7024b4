package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"

	seqf1 "github.com/jamesainslie/go-seqf1"
)

// ErrPoolClosed is returned by Acquire once the pool has been closed.
var ErrPoolClosed = errors.New("inference: pool closed")

// Pool manages a pool of ONNX sessions for concurrent prediction.
type Pool struct {
	sessions  chan *Session
	modelPath string
	size      int
	mu        sync.Mutex
	closed    bool
}

// NewPool creates a pool of n ONNX sessions.
func NewPool(modelPath string, size int) (*Pool, error) {
	if size <= 0 {
		size = 1
	}

	pool := &Pool{
		sessions:  make(chan *Session, size),
		modelPath: modelPath,
		size:      size,
	}

	for i := 0; i < size; i++ {
		session, err := NewSession(modelPath)
		if err != nil {
			_ = pool.Close() // Best-effort cleanup; original error takes precedence
			return nil, fmt.Errorf("creating session %d: %w", i, err)
		}
		pool.sessions <- session
	}

	return pool, nil
}

// Acquire gets a session from the pool, blocking if none available.
// Respects context cancellation. Returns error if pool is closed.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case session, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return session, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a session to the pool.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = s.Close() // Pool closed; clean up session
		return
	}
	p.mu.Unlock()

	select {
	case p.sessions <- s:
	default:
		_ = s.Close() // Pool full; clean up excess session
	}
}

// PredictGrid runs the model over a (sequence, batch) grid of input ids and
// returns predictions in the same layout. Positions holding padIdx get a zero
// attention mask.
func (p *Pool) PredictGrid(ctx context.Context, inputs seqf1.Grid, padIdx int64) (seqf1.Grid, error) {
	if inputs.Rows() == 0 || inputs.Cols() == 0 {
		return seqf1.NewGrid(inputs.Rows(), inputs.Cols()), nil
	}

	session, err := p.Acquire(ctx)
	if err != nil {
		return seqf1.Grid{}, err
	}
	defer p.Release(session)

	// Runtime layout is (batch, seq).
	batchMajor := inputs.Transpose()
	inputIDs := batchMajor.Data()
	attentionMask := make([]int64, len(inputIDs))
	for i, id := range inputIDs {
		if id != padIdx {
			attentionMask[i] = 1
		}
	}

	ids, err := session.Predict(ctx, inputIDs, attentionMask, inputs.Cols(), inputs.Rows())
	if err != nil {
		return seqf1.Grid{}, err
	}

	out := seqf1.NewGrid(inputs.Cols(), inputs.Rows())
	copy(out.Data(), ids)
	return out.Transpose(), nil
}

// Close closes all sessions in the pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	close(p.sessions)

	var errs []error
	for session := range p.sessions {
		if err := session.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// Size returns the pool size.
func (p *Pool) Size() int {
	return p.size
}

package seqf1

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrShapeMismatch indicates predicted and target grids cannot be compared.
	ErrShapeMismatch = errors.New("seqf1: shape mismatch")

	// ErrTypeMismatch indicates input that is not a rectangular grid of integers.
	ErrTypeMismatch = errors.New("seqf1: type mismatch")

	// ErrInvalidCounts indicates counts that would drive a counter negative.
	ErrInvalidCounts = errors.New("seqf1: invalid counts")
)

package seqf1

import "log/slog"

// Option configures a SequentialF1 accumulator.
type Option func(*config)

type config struct {
	padIdx      int64
	eosIdx      int64
	strictShape bool
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		padIdx: -1,
		eosIdx: 0,
		logger: slog.Default(),
	}
}

// WithPadIdx sets the padding sentinel (default: -1).
func WithPadIdx(idx int64) Option {
	return func(c *config) {
		c.padIdx = idx
	}
}

// WithEOSIdx sets the end-of-sequence sentinel (default: 0).
func WithEOSIdx(idx int64) Option {
	return func(c *config) {
		c.eosIdx = idx
	}
}

// WithStrictShape rejects predicted and target grids with different sequence
// lengths (default: false, only batch sizes must agree).
func WithStrictShape(strict bool) Option {
	return func(c *config) {
		c.strictShape = strict
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

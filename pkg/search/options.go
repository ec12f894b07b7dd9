package search

import (
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	DefaultGracePeriod      = 3 * time.Second
	DefaultProgressInterval = time.Second
)

var (
	ErrInvalidWorkers = errors.New("invalid worker count")
	ErrInvalidRange   = errors.New("invalid search range")
)

// Option configures a Coordinator in New.
// If any Option returns an error, then New returns that error.
type Option = func(c *Coordinator) error

// Workers sets the degree of parallelism.
// The default is the number of logical CPUs.
func Workers(n int) Option {
	return func(c *Coordinator) error {
		if n < 1 {
			return errors.Wrapf(ErrInvalidWorkers, "must be at least 1, got %d", n)
		}
		c.workers = n
		return nil
	}
}

// WithStrategy sets the partition strategy, RoundRobin by default.
func WithStrategy(s Strategy) Option {
	return func(c *Coordinator) error {
		if s != RoundRobin && s != SharedCounter {
			return errors.Wrapf(ErrUnknownStrategy, "%d", int(s))
		}
		c.strategy = s
		return nil
	}
}

// GracePeriod sets how long Run waits for workers to exit after the stop flag is set before logging a warning.
func GracePeriod(d time.Duration) Option {
	return func(c *Coordinator) error {
		if d <= 0 {
			return errors.Newf("grace period must be positive, got %s", d)
		}
		c.grace = d
		return nil
	}
}

// WithLogger sets the logger used to report session events. Nothing is logged by default.
func WithLogger(log *zap.Logger) Option {
	return func(c *Coordinator) error {
		if log != nil {
			c.log = log
		}
		return nil
	}
}

// WithRange restricts the search to indexes in [start, end).
// This is useful for resuming an interrupted search, or splitting one between machines.
func WithRange(start, end uint64) Option {
	return func(c *Coordinator) error {
		if start >= end || end > c.space.Size() {
			return errors.Wrapf(ErrInvalidRange, "[%d, %d) in a keyspace of %d", start, end, c.space.Size())
		}
		c.start, c.end = start, end
		return nil
	}
}

// WithConfirm sets a second, slower Matcher that must also accept a candidate before it's declared found.
// It's only consulted for candidates that pass the primary Matcher.
func WithConfirm(m Matcher) Option {
	return func(c *Coordinator) error {
		c.confirm = m
		return nil
	}
}

// OnProgress registers fn to be called every interval while the search is running, and once more when it stops.
// fn is called from a single goroutine, and never after Run returns.
func OnProgress(interval time.Duration, fn func(Progress)) Option {
	return func(c *Coordinator) error {
		if fn == nil {
			return nil
		}
		if interval <= 0 {
			interval = DefaultProgressInterval
		}
		c.progressInterval = interval
		c.progress = fn
		return nil
	}
}

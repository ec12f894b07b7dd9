package search

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/saylorsolutions/zipcrack/pkg/crc"
	"github.com/saylorsolutions/zipcrack/pkg/keyspace"
)

var (
	ErrNilMatcher = errors.New("matcher is required")
	ErrNilSpace   = errors.New("keyspace is required")
	ErrAlreadyRun = errors.New("coordinator has already been run")
)

// Matcher tests a single candidate password.
// Implementations must be safe for concurrent use, and must not retain password after returning since the slice is reused.
type Matcher interface {
	Match(password []byte) bool
}

// MatcherFunc adapts a function to a Matcher.
type MatcherFunc func(password []byte) bool

func (f MatcherFunc) Match(password []byte) bool {
	return f(password)
}

type candidate struct {
	index    uint64
	password string
}

// Coordinator searches a keyspace with a pool of workers, stopping all of them as soon as one finds a match.
// A Coordinator runs a single session.
type Coordinator struct {
	space            *keyspace.Space
	matcher          Matcher
	confirm          Matcher
	workers          int
	strategy         Strategy
	grace            time.Duration
	start, end       uint64
	log              *zap.Logger
	progressInterval time.Duration
	progress         func(Progress)

	ran       atomic.Bool
	state     atomic.Int32
	stop      atomic.Bool
	stopOnce  sync.Once
	stopCh    chan struct{}
	cancelled atomic.Bool
	cursor    atomic.Uint64
	attempts  atomic.Uint64
	rejected  atomic.Uint64
	exhausted atomic.Int32
	faults    atomic.Int32
	// found holds at most one result, later sends are dropped.
	found   chan candidate
	started time.Time
}

// New creates a Coordinator that will search space for a password accepted by m.
func New(space *keyspace.Space, m Matcher, opts ...Option) (*Coordinator, error) {
	if space == nil {
		return nil, ErrNilSpace
	}
	if m == nil {
		return nil, ErrNilMatcher
	}
	c := &Coordinator{
		space:    space,
		matcher:  m,
		workers:  runtime.NumCPU(),
		strategy: RoundRobin,
		grace:    DefaultGracePeriod,
		end:      space.Size(),
		log:      zap.NewNop(),
		stopCh:   make(chan struct{}),
		found:    make(chan candidate, 1),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// State returns the current session state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Stop requests that a running search end as Cancelled.
// It's safe to call any number of times from any goroutine, and calling it before Run makes Run return immediately.
func (c *Coordinator) Stop() {
	c.cancelled.Store(true)
	c.state.CompareAndSwap(int32(Running), int32(Cancelled))
	c.setStop()
}

// Stopped reports whether the stop flag has been set.
// Once true, it never reverts to false.
func (c *Coordinator) Stopped() bool {
	return c.stop.Load()
}

func (c *Coordinator) setStop() {
	c.stop.Store(true)
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// Run searches the keyspace until a match is found, the keyspace is exhausted, or ctx is done.
// Cancellation isn't an error, it's reported as a Result with the Cancelled state.
// Every worker has exited by the time Run returns.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	if !c.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}
	crc.Init()
	c.cursor.Store(c.start)
	c.started = time.Now()
	c.state.CompareAndSwap(int32(Idle), int32(Running))

	log := c.log.With(zap.Stringer("strategy", c.strategy), zap.Int("workers", c.workers))
	log.Info("Starting search",
		zap.Uint64("start", c.start),
		zap.Uint64("end", c.end),
		zap.Int("base", c.space.Base()),
		zap.Int("length", c.space.Length()),
	)

	var g errgroup.Group
	g.SetLimit(c.workers)
	for id := 0; id < c.workers; id++ {
		id := id
		g.Go(func() error {
			c.runWorker(log, id)
			return nil
		})
	}

	joined := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(joined)
	}()

	var progressDone chan struct{}
	if c.progress != nil {
		progressDone = make(chan struct{})
		go c.reportProgress(joined, progressDone)
	}

	c.await(ctx, log, joined)
	if progressDone != nil {
		<-progressDone
	}

	res := c.result()
	c.state.Store(int32(Stopped))
	log.Info("Search stopped",
		zap.Stringer("outcome", res.State),
		zap.Uint64("attempts", res.Attempts),
		zap.Uint64("rejected", res.Rejected),
		zap.Int("faults", res.Faults),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// await blocks until every worker has exited.
// After the stop flag is set, workers get a grace period to notice it before a warning is logged.
// Goroutines can't be killed, so the wait continues past the grace period rather than leaving workers running after Run returns.
func (c *Coordinator) await(ctx context.Context, log *zap.Logger, joined <-chan struct{}) {
	select {
	case <-joined:
		return
	case <-ctx.Done():
		log.Info("Search cancelled", zap.Error(ctx.Err()))
		c.Stop()
	case <-c.stopCh:
	}

	timer := time.NewTimer(c.grace)
	defer timer.Stop()
	select {
	case <-joined:
	case <-timer.C:
		log.Warn("Workers did not exit within the grace period, still waiting", zap.Duration("grace", c.grace))
		<-joined
	}
}

func (c *Coordinator) result() *Result {
	res := &Result{
		Attempts: c.attempts.Load(),
		Rejected: c.rejected.Load(),
		Workers:  c.workers,
		Faults:   int(c.faults.Load()),
		Strategy: c.strategy,
		Elapsed:  time.Since(c.started),
	}
	select {
	case found := <-c.found:
		res.State = Found
		res.Index = found.index
		res.Password = found.password
		return res
	default:
	}
	finished := int(c.exhausted.Load()) + res.Faults
	if c.cancelled.Load() && finished < c.workers {
		res.State = Cancelled
	} else {
		res.State = Exhausted
	}
	return res
}

func (c *Coordinator) reportProgress(joined <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(c.progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.progress(c.snapshot())
		case <-joined:
			c.progress(c.snapshot())
			return
		}
	}
}

func (c *Coordinator) snapshot() Progress {
	return Progress{
		Attempts: c.attempts.Load(),
		Total:    c.end - c.start,
		Elapsed:  time.Since(c.started),
	}
}

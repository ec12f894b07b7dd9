package search

import (
	"fmt"

	"go.uber.org/zap"
)

// Attempts are counted locally and flushed to the shared counter in batches to keep the hot loop free of contention.
const flushEvery = 1024

type worker struct {
	c       *Coordinator
	id      int
	buf     []byte
	pending uint64
}

// runWorker runs a single worker to completion.
// A panic in the worker is recovered and counted as a fault, so the rest of the session continues with reduced parallelism.
func (c *Coordinator) runWorker(log *zap.Logger, id int) {
	w := &worker{
		c:   c,
		id:  id,
		buf: make([]byte, c.space.Length()),
	}
	defer func() {
		w.flush()
		if r := recover(); r != nil {
			c.faults.Add(1)
			log.Error("Worker faulted, continuing with reduced parallelism",
				zap.Int("worker", id),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()

	var exhausted bool
	switch c.strategy {
	case SharedCounter:
		exhausted = w.sharedCounter()
	default:
		exhausted = w.roundRobin()
	}
	if exhausted {
		c.exhausted.Add(1)
	}
	log.Debug("Worker exited", zap.Int("worker", id), zap.Bool("exhausted", exhausted))
}

// roundRobin walks start+id, start+id+P, ... with no shared state.
// It returns true if the whole shard was attempted.
func (w *worker) roundRobin() bool {
	c := w.c
	step := uint64(c.workers)
	for i := c.start + uint64(w.id); i < c.end; i += step {
		if c.stop.Load() {
			return false
		}
		w.try(i)
	}
	return true
}

// sharedCounter claims indexes from the shared cursor until it passes the end of the range.
// It returns true if the cursor ran out.
func (w *worker) sharedCounter() bool {
	c := w.c
	for {
		if c.stop.Load() {
			return false
		}
		i := c.cursor.Add(1) - 1
		if i >= c.end {
			return true
		}
		w.try(i)
	}
}

func (w *worker) try(index uint64) {
	c := w.c
	c.space.Fill(w.buf, index)
	w.pending++
	if w.pending == flushEvery {
		w.flush()
	}
	if !c.matcher.Match(w.buf) {
		return
	}
	if c.confirm != nil && !c.confirm.Match(w.buf) {
		c.rejected.Add(1)
		return
	}
	c.declare(index, string(w.buf))
}

func (w *worker) flush() {
	if w.pending > 0 {
		w.c.attempts.Add(w.pending)
		w.pending = 0
	}
}

// declare sets the stop flag and records the result if no other worker has already done so.
func (c *Coordinator) declare(index uint64, password string) {
	c.state.CompareAndSwap(int32(Running), int32(Found))
	c.setStop()
	select {
	case c.found <- candidate{index: index, password: password}:
		c.log.Debug("Recorded match", zap.Uint64("index", index))
	default:
	}
}

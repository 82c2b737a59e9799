package reporters

import (
	"fmt"
	"time"

	"tasktree"
)

const (
	defaultBatchSize    = 100
	defaultBatchTimeout = 50 * time.Millisecond
	defaultBatchChanCap = 10000
)

type batchEvent struct {
	kind byte // 's' start, 'e' end, 'p' progress
	snap tasktree.Snapshot
}

// Batch wraps an inner Reporter so that high-frequency event streams are
// delivered in batches instead of one call per event, the way the teacher's
// ReporterWrapper sits between its producer loop and the underlying plugin.
// Flushes on whichever of the batch size or timeout comes first. If
// delivering a flush to inner panics, the same batch is redelivered to
// fallback (if configured) one event at a time, mirroring the teacher's
// sendBatch falling back to sequential Report calls when its primary fails.
type Batch struct {
	inner    tasktree.Reporter
	fallback tasktree.Reporter

	batchSize    int
	batchTimeout time.Duration

	eventCh chan batchEvent
	doneCh  chan struct{}
}

// BatchOption configures a Batch at construction time.
type BatchOption func(*Batch)

// WithBatchSize overrides the event count that triggers an immediate flush
// (default 100).
func WithBatchSize(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithBatchTimeout overrides how long buffered events wait before an
// unconditional flush (default 50ms).
func WithBatchTimeout(d time.Duration) BatchOption {
	return func(b *Batch) {
		if d > 0 {
			b.batchTimeout = d
		}
	}
}

// WithFallback sets a reporter that receives a flush's events, one at a
// time, whenever delivering the batch to inner panics.
func WithFallback(r tasktree.Reporter) BatchOption {
	return func(b *Batch) { b.fallback = r }
}

// NewBatch wraps inner in a batching Reporter and starts its flush loop.
// Call Close to drain it.
func NewBatch(inner tasktree.Reporter, opts ...BatchOption) *Batch {
	b := &Batch{
		inner:        inner,
		batchSize:    defaultBatchSize,
		batchTimeout: defaultBatchTimeout,
		eventCh:      make(chan batchEvent, defaultBatchChanCap),
		doneCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.loop()
	return b
}

func (b *Batch) OnStart(snap tasktree.Snapshot)    { b.eventCh <- batchEvent{'s', snap} }
func (b *Batch) OnEnd(snap tasktree.Snapshot)      { b.eventCh <- batchEvent{'e', snap} }
func (b *Batch) OnProgress(snap tasktree.Snapshot) { b.eventCh <- batchEvent{'p', snap} }

// Close stops accepting events, flushes whatever is buffered, and returns
// once inner (or fallback, on failure) has seen every event.
func (b *Batch) Close() {
	close(b.eventCh)
	<-b.doneCh
}

func (b *Batch) loop() {
	defer close(b.doneCh)

	batch := make([]batchEvent, 0, b.batchSize)
	ticker := time.NewTicker(b.batchTimeout)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-b.eventCh:
			if !ok {
				b.flush(batch)
				return
			}
			batch = append(batch, ev)
			if len(batch) >= b.batchSize {
				b.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			b.flush(batch)
			batch = batch[:0]
		}
	}
}

// flush delivers batch to inner under panic recovery. On failure it is
// redelivered to fallback one event at a time, each independently
// recovered, so one bad event can't sink the rest of the batch.
func (b *Batch) flush(batch []batchEvent) {
	if len(batch) == 0 {
		return
	}
	if err := deliverBatch(b.inner, batch); err != nil {
		if b.fallback == nil {
			return
		}
		for _, ev := range batch {
			deliverOne(b.fallback, ev)
		}
	}
}

func deliverBatch(r tasktree.Reporter, batch []batchEvent) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("reporter panic during batch delivery: %v", rec)
		}
	}()
	for _, ev := range batch {
		deliverToReporter(r, ev)
	}
	return nil
}

func deliverOne(r tasktree.Reporter, ev batchEvent) {
	defer func() { recover() }()
	deliverToReporter(r, ev)
}

func deliverToReporter(r tasktree.Reporter, ev batchEvent) {
	switch ev.kind {
	case 's':
		r.OnStart(ev.snap)
	case 'e':
		r.OnEnd(ev.snap)
	case 'p':
		r.OnProgress(ev.snap)
	}
}

var _ tasktree.Reporter = (*Batch)(nil)

package tasktree

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// runPump is the background goroutine that drains the pending-event queues
// roughly every pumpInterval and delivers them to reporters.
func (t *Tree) runPump(ctx context.Context) {
	defer t.wg.Done()
	ticker := time.NewTicker(t.pumpInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.flush()
		}
	}
}

// flush swaps out the pending queues, clones the referenced task snapshots
// and the reporter list under the writer lock, releases the lock, and
// invokes OnStart/OnEnd on every reporter in enqueue order. It is called
// both by the pump ticker and, when force-flush is enabled, synchronously
// by every mutating call.
func (t *Tree) flush() {
	t.mu.Lock()
	startIDs := t.pendingStart
	endIDs := t.pendingEnd
	t.pendingStart = nil
	t.pendingEnd = nil

	hideDefault := t.hideErrorsDefault
	starts := make([]Snapshot, 0, len(startIDs))
	for _, id := range startIDs {
		if r, ok := t.tasks[id]; ok {
			starts = append(starts, r.snapshot(hideDefault))
		}
	}
	ends := make([]Snapshot, 0, len(endIDs))
	for _, id := range endIDs {
		if r, ok := t.tasks[id]; ok {
			ends = append(ends, r.snapshot(hideDefault))
		}
	}
	reporters := append([]Reporter(nil), t.reporters...)
	t.mu.Unlock()

	if len(starts) == 0 && len(ends) == 0 {
		return
	}

	var errs []error
	for _, r := range reporters {
		r := r
		if err := deliver("start", func() {
			for _, s := range starts {
				r.OnStart(s)
			}
		}); err != nil {
			errs = append(errs, err)
		}
		if err := deliver("end", func() {
			for _, s := range ends {
				r.OnEnd(s)
			}
		}); err != nil {
			errs = append(errs, err)
		}
	}
	if combined := multierr.Combine(errs...); combined != nil {
		t.log.Errorf("reporter delivery failed: %v", combined)
	}
}

// emitProgress notifies reporters of a progress update for id, outside the
// tree lock, isolating each reporter's panic the same way flush does.
func (t *Tree) emitProgress(id TaskID) {
	snap, ok := t.TaskSnapshot(id)
	if !ok {
		return
	}
	t.mu.RLock()
	reporters := append([]Reporter(nil), t.reporters...)
	t.mu.RUnlock()

	var errs []error
	for _, r := range reporters {
		r := r
		if err := deliver("progress", func() { r.OnProgress(snap) }); err != nil {
			errs = append(errs, err)
		}
	}
	if combined := multierr.Combine(errs...); combined != nil {
		t.log.Errorf("reporter delivery failed: %v", combined)
	}
}

// deliver runs fn, recovering any panic into an error so that one broken
// reporter never corrupts the pump or affects any other reporter.
func deliver(kind string, fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("reporter panic during %s delivery: %v", kind, rec)
		}
	}()
	fn()
	return nil
}

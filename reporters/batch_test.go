package reporters

import (
	"sync"
	"testing"
	"time"

	"tasktree"
)

type recordingTarget struct {
	mu     sync.Mutex
	starts int
	ends   int
}

func (r *recordingTarget) OnStart(tasktree.Snapshot) {
	r.mu.Lock()
	r.starts++
	r.mu.Unlock()
}

func (r *recordingTarget) OnEnd(tasktree.Snapshot) {
	r.mu.Lock()
	r.ends++
	r.mu.Unlock()
}

func (r *recordingTarget) OnProgress(tasktree.Snapshot) {}

func (r *recordingTarget) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.starts, r.ends
}

func TestBatch_FlushesOnSizeThreshold(t *testing.T) {
	target := &recordingTarget{}
	b := NewBatch(target, WithBatchSize(3), WithBatchTimeout(time.Hour))
	defer b.Close()

	for i := 0; i < 3; i++ {
		b.OnStart(tasktree.Snapshot{})
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if starts, _ := target.counts(); starts == 3 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected 3 starts to be flushed once the batch size threshold was hit")
}

func TestBatch_CloseFlushesRemainder(t *testing.T) {
	target := &recordingTarget{}
	b := NewBatch(target, WithBatchSize(100), WithBatchTimeout(time.Hour))

	b.OnStart(tasktree.Snapshot{})
	b.OnEnd(tasktree.Snapshot{})
	b.Close()

	starts, ends := target.counts()
	if starts != 1 || ends != 1 {
		t.Errorf("expected Close to flush buffered events, got starts=%d ends=%d", starts, ends)
	}
}

func TestBatch_FlushesOnTimeout(t *testing.T) {
	target := &recordingTarget{}
	b := NewBatch(target, WithBatchSize(100), WithBatchTimeout(10*time.Millisecond))
	defer b.Close()

	b.OnStart(tasktree.Snapshot{})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if starts, _ := target.counts(); starts == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected the batch timeout to flush the single buffered event")
}

type panickingTarget struct{}

func (panickingTarget) OnStart(tasktree.Snapshot)    { panic("primary reporter exploded") }
func (panickingTarget) OnEnd(tasktree.Snapshot)      { panic("primary reporter exploded") }
func (panickingTarget) OnProgress(tasktree.Snapshot) {}

func TestBatch_FallsBackOnPrimaryPanic(t *testing.T) {
	fallback := &recordingTarget{}
	b := NewBatch(panickingTarget{}, WithBatchSize(1), WithBatchTimeout(time.Hour), WithFallback(fallback))
	defer b.Close()

	b.OnStart(tasktree.Snapshot{})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if starts, _ := fallback.counts(); starts == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expected the event to be redelivered to fallback after the primary reporter panicked")
}

func TestBatch_NoFallbackConfiguredSwallowsPanic(t *testing.T) {
	b := NewBatch(panickingTarget{}, WithBatchSize(1), WithBatchTimeout(time.Hour))
	b.OnStart(tasktree.Snapshot{})
	b.Close() // must not panic or hang even with no fallback configured
}

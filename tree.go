package tasktree

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"tasktree/internal/diag"
)

// taskRecord is the tree's internal, mutable record for one task. Task
// handles never see this directly — only Snapshot, an immutable clone.
type taskRecord struct {
	id          TaskID
	name        string
	parentID    *TaskID
	parentNames []string
	startedAt   time.Time

	running    bool
	result     Result
	finishedAt time.Time
	errorMsg   string

	data           Data
	dataTransitive Data
	tags           map[string]struct{}
	progress       *Progress

	hideErrors                   *string
	attachTransitiveDataToErrors bool
	keepSubtreeUntilFinished     bool
}

func (r *taskRecord) snapshot(treeDefaultHideErrorsMsg *string) Snapshot {
	hide := r.hideErrors
	if hide == nil {
		hide = treeDefaultHideErrorsMsg
	}
	s := Snapshot{
		ID:             r.id,
		Name:           r.name,
		ParentID:       r.parentID,
		ParentName:     append([]string(nil), r.parentNames...),
		StartedAt:      r.startedAt,
		Running:        r.running,
		Result:         r.result,
		FinishedAt:     r.finishedAt,
		ErrorMsg:       r.errorMsg,
		HideErrorsMsg:  hide,
		Data:           r.data.clone(),
		DataTransitive: r.dataTransitive.clone(),
		Tags:           r.tags,
		Progress:       r.progress,
	}
	return s
}

// Tree owns a forest of tasks, the reporter list, the pending-event queues,
// and the garbage collector's bookkeeping. All public methods are
// thread-safe.
type Tree struct {
	mu sync.RWMutex

	tasks            map[TaskID]*taskRecord
	parentToChildren map[TaskID][]TaskID
	childToParent    map[TaskID]TaskID
	roots            []TaskID

	reporters    []Reporter
	pendingStart []TaskID
	pendingEnd   []TaskID

	markedForGC map[TaskID]time.Time

	dataTransitive                      Data
	removeTaskAfterDoneMS               time.Duration
	hideErrorsDefault                   *string
	attachTransitiveDataToErrorsDefault bool
	errorFormatter                      ErrorFormatter

	forceFlush atomic.Bool

	pumpInterval time.Duration
	gcInterval   time.Duration

	log diag.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewTree constructs a Tree and starts its event pump and garbage collector
// as background goroutines. Call Close to stop them.
func NewTree(opts ...TreeOption) *Tree {
	t := &Tree{
		tasks:                 map[TaskID]*taskRecord{},
		parentToChildren:      map[TaskID][]TaskID{},
		childToParent:         map[TaskID]TaskID{},
		markedForGC:           map[TaskID]time.Time{},
		dataTransitive:        newData(),
		removeTaskAfterDoneMS: defaultRemoveTaskAfterDone,
		pumpInterval:          10 * time.Millisecond,
		gcInterval:            500 * time.Millisecond,
		log:                   diag.New("tasktree"),
	}
	for _, opt := range opts {
		opt(t)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.wg.Add(2)
	go t.runPump(ctx)
	go t.runGC(ctx)
	return t
}

// Close stops the pump and GC goroutines, running one final synchronous
// flush so no pending event is lost.
func (t *Tree) Close() {
	t.closeOnce.Do(func() {
		t.cancel()
		t.wg.Wait()
		t.flush()
	})
}

// AddReporter registers a reporter. Reporters are invoked in registration
// order for every event.
func (t *Tree) AddReporter(r Reporter) {
	t.mu.Lock()
	t.reporters = append(t.reporters, r)
	t.mu.Unlock()
}

// SetForceFlush toggles synchronous event delivery: when enabled, every
// mutation that enqueues an event runs one pump iteration before returning.
func (t *Tree) SetForceFlush(enabled bool) { t.forceFlush.Store(enabled) }

// SetErrorFormatter sets the tree-wide spawn-error stringifier.
func (t *Tree) SetErrorFormatter(f ErrorFormatter) {
	t.mu.Lock()
	t.errorFormatter = f
	t.mu.Unlock()
}

// SetHideErrorsDefaultMsg sets the tree-wide advisory short error message.
func (t *Tree) SetHideErrorsDefaultMsg(msg *string) {
	t.mu.Lock()
	t.hideErrorsDefault = msg
	t.mu.Unlock()
}

// SetAttachTransitiveDataToErrorsDefault sets the tree-wide default for
// whether spawn error wrapping includes transitive data.
func (t *Tree) SetAttachTransitiveDataToErrorsDefault(enabled bool) {
	t.mu.Lock()
	t.attachTransitiveDataToErrorsDefault = enabled
	t.mu.Unlock()
}

// SeedDataTransitive adds tree-wide transitive data applied to every task
// created from now on, in addition to whatever its parent carries.
func (t *Tree) SeedDataTransitive(key string, value DataValue) {
	t.mu.Lock()
	t.dataTransitive.Add(key, value)
	t.mu.Unlock()
}

// CreateTask creates a root task (no parent) and returns its handle.
func (t *Tree) CreateTask(name string) *Task {
	id := t.createTaskInternal(name, nil)
	return newTaskHandle(t, id, true)
}

// createTaskInternal allocates an ID, snapshots transitive data, extracts
// tags, inserts the task into every index, and enqueues its start event.
func (t *Tree) createTaskInternal(rawName string, parent *TaskID) TaskID {
	t.mu.Lock()
	defer t.mu.Unlock()

	clean, tags := ParseTags(rawName)
	id := nextTaskID()

	data := t.dataTransitive.clone()
	var parentNames []string
	var parentID *TaskID
	attachTransitiveDefault := t.attachTransitiveDataToErrorsDefault

	if parent != nil {
		if p, ok := t.tasks[*parent]; ok {
			parentNames = append(append([]string(nil), p.parentNames...), p.name)
			data.Merge(p.dataTransitive)

			t.parentToChildren[*parent] = append(t.parentToChildren[*parent], id)
			t.childToParent[id] = *parent
			pid := *parent
			parentID = &pid
		}
	}
	if parentID == nil {
		t.roots = append(t.roots, id)
	}

	t.tasks[id] = &taskRecord{
		id:                           id,
		name:                         clean,
		parentID:                     parentID,
		parentNames:                  parentNames,
		startedAt:                    time.Now(),
		running:                      true,
		data:                         newData(),
		dataTransitive:               data,
		tags:                         tags,
		attachTransitiveDataToErrors: attachTransitiveDefault,
	}
	t.pendingStart = append(t.pendingStart, id)
	return id
}

// MarkDone transitions a task from Running to Finished, unless it is
// already finished or unknown, in which case it is a no-op (first call
// wins). It enqueues the end event and triggers GC marking.
func (t *Tree) MarkDone(id TaskID, errMsg *string) {
	t.mu.Lock()
	r, ok := t.tasks[id]
	if !ok || !r.running {
		t.mu.Unlock()
		return
	}
	r.running = false
	r.finishedAt = time.Now()
	if errMsg != nil {
		r.result = Failure
		r.errorMsg = *errMsg
	} else {
		r.result = Success
	}
	t.pendingEnd = append(t.pendingEnd, id)
	t.markForGC(id)
	t.mu.Unlock()

	t.maybeForceFlush()
}

// AddData attaches direct data to a task. Silent no-op on an unknown id.
func (t *Tree) AddData(id TaskID, key string, value DataValue) {
	t.mu.Lock()
	if r, ok := t.tasks[id]; ok {
		r.data.Add(key, value)
	}
	t.mu.Unlock()
}

// AddDataTransitive attaches transitive data to a task, inherited by any
// descendant created after this call. Silent no-op on an unknown id.
func (t *Tree) AddDataTransitive(id TaskID, key string, value DataValue) {
	t.mu.Lock()
	if r, ok := t.tasks[id]; ok {
		r.dataTransitive.Add(key, value)
	}
	t.mu.Unlock()
}

// TaskProgress updates a task's progress, read live by the terminal
// renderer. Silent no-op on an unknown id.
func (t *Tree) TaskProgress(id TaskID, done, total int64) {
	t.mu.Lock()
	if r, ok := t.tasks[id]; ok {
		r.progress = &Progress{Done: done, Total: total}
	}
	t.mu.Unlock()
	t.emitProgress(id)
}

// StartTrace sets keepSubtreeUntilFinished on id, holding its ancestors
// against garbage collection so a later DumpTrace sees a stable subtree.
func (t *Tree) StartTrace(id TaskID) {
	t.mu.Lock()
	if r, ok := t.tasks[id]; ok {
		r.keepSubtreeUntilFinished = true
	}
	t.mu.Unlock()
}

// setHideErrors and setAttachTransitive are used by Task; unexported since
// handles are the documented way to reach per-task policy.
func (t *Tree) setHideErrors(id TaskID, msg *string) {
	t.mu.Lock()
	if r, ok := t.tasks[id]; ok {
		r.hideErrors = msg
	}
	t.mu.Unlock()
}

func (t *Tree) setAttachTransitive(id TaskID, enabled bool) {
	t.mu.Lock()
	if r, ok := t.tasks[id]; ok {
		r.attachTransitiveDataToErrors = enabled
	}
	t.mu.Unlock()
}

func (t *Tree) taskSnapshotForError(id TaskID) (name string, direct, transitive Data, attach bool, found bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.tasks[id]
	if !ok {
		return "", Data{}, Data{}, false, false
	}
	return r.name, r.data.clone(), r.dataTransitive.clone(), r.attachTransitiveDataToErrors, true
}

func (t *Tree) errorFormatterFn() ErrorFormatter {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.errorFormatter
}

// Roots returns the current root task IDs, in creation order.
func (t *Tree) Roots() []TaskID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]TaskID(nil), t.roots...)
}

// Children returns id's direct children, in creation order.
func (t *Tree) Children(id TaskID) []TaskID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]TaskID(nil), t.parentToChildren[id]...)
}

// TaskSnapshot returns a point-in-time copy of a task's state.
func (t *Tree) TaskSnapshot(id TaskID) (Snapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.tasks[id]
	if !ok {
		return Snapshot{}, false
	}
	return r.snapshot(t.hideErrorsDefault), true
}

func (t *Tree) maybeForceFlush() {
	if t.forceFlush.Load() {
		t.flush()
	}
}

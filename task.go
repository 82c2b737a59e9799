package tasktree

import (
	"context"
	"runtime"
	"sync"
)

// Task is a handle to one node in a Tree. It is the Go analogue of the
// canonical source's Drop-based guard: since Go has no deterministic
// destructor, Close must be called (usually via defer) to mark the task
// done; a runtime.SetFinalizer is registered as a backstop for handles a
// caller forgets to close, the same way a leaked guard would still run its
// Drop in the original.
type Task struct {
	tree           *Tree
	id             TaskID
	markDoneOnDrop bool
	closeOnce      sync.Once
}

func newTaskHandle(tree *Tree, id TaskID, markDoneOnDrop bool) *Task {
	t := &Task{tree: tree, id: id, markDoneOnDrop: markDoneOnDrop}
	runtime.SetFinalizer(t, finalizeTask)
	return t
}

func finalizeTask(t *Task) {
	t.Close()
}

// ID returns the task's identifier.
func (t *Task) ID() TaskID { return t.id }

// Close marks the task done with no error, if it hasn't already finished and
// markDoneOnDrop was set (handles created by Spawn/SpawnSync are marked done
// by the spawn call itself, not by Close). Idempotent and safe to call from
// both a defer and the finalizer.
func (t *Task) Close() {
	t.closeOnce.Do(func() {
		runtime.SetFinalizer(t, nil)
		if t.markDoneOnDrop {
			t.tree.MarkDone(t.id, nil)
		}
	})
}

// Create creates a child task under t and returns its handle. The caller is
// responsible for closing it (Spawn/SpawnSync create and finish their own
// task instead).
func (t *Task) Create(name string) *Task {
	id := t.tree.createTaskInternal(name, &t.id)
	return newTaskHandle(t.tree, id, true)
}

// Data attaches direct data to t.
func (t *Task) Data(key string, value DataValue) {
	t.tree.AddData(t.id, key, value)
}

// DataTransitive attaches transitive data to t, inherited by descendants
// created after this call.
func (t *Task) DataTransitive(key string, value DataValue) {
	t.tree.AddDataTransitive(t.id, key, value)
}

// Progress records t's done/total progress.
func (t *Task) Progress(done, total int64) {
	t.tree.TaskProgress(t.id, done, total)
}

// HideErrorMsg sets an advisory short message reporters may show in place of
// t's full error chain, overriding the tree-wide default.
func (t *Task) HideErrorMsg(msg string) {
	t.tree.setHideErrors(t.id, &msg)
}

// AttachTransitiveDataToErrors sets whether t's spawn-error wrapping
// includes transitive data, overriding the tree-wide default.
func (t *Task) AttachTransitiveDataToErrors(enabled bool) {
	t.tree.setAttachTransitive(t.id, enabled)
}

// StartTrace holds t's subtree against garbage collection until it finishes,
// so a later DumpTrace observes a stable tree.
func (t *Task) StartTrace() {
	t.tree.StartTrace(t.id)
}

// SpawnNew creates a root task named name and runs f with its handle,
// marking the task done with f's error (wrapped with task context) when f
// returns.
func SpawnNew(tree *Tree, name string, f func(*Task) error) error {
	return tree.spawn(name, nil, f)
}

// Spawn creates a child task under t and runs f with its handle, marking the
// child done with f's error (wrapped with task context) when f returns.
func (t *Task) Spawn(name string, f func(*Task) error) error {
	return t.tree.spawn(name, &t.id, f)
}

// SpawnSync is an alias of Spawn kept for parity with the canonical
// source's sync/async spawn split; this module has no async runtime of its
// own, so both run f synchronously on the calling goroutine.
func (t *Task) SpawnSync(name string, f func(*Task) error) error {
	return t.Spawn(name, f)
}

// SpawnValue is Spawn generalized to a function that also returns a value:
// f's value on success, T's zero value together with the error on failure.
// Go's lack of return-type overloading rules out in the name, so it is
// named separately.
func SpawnValue[T any](t *Task, name string, f func(*Task) (T, error)) (T, error) {
	var result T
	err := t.tree.spawn(name, &t.id, func(task *Task) error {
		var innerErr error
		result, innerErr = f(task)
		return innerErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// SpawnContext is Spawn for bodies that need ctx for cancellation or
// deadlines; the context is the caller's concern, Task only tracks whether f
// returned an error.
func (t *Task) SpawnContext(ctx context.Context, name string, f func(context.Context, *Task) error) error {
	return t.Spawn(name, func(task *Task) error {
		return f(ctx, task)
	})
}

// spawn is the tree-level implementation shared by SpawnNew and Task.Spawn:
// create the task with markDoneOnDrop=false (post_spawn below marks it done
// explicitly, matching the canonical source's pre_spawn/post_spawn split),
// run f, then mark it done with f's error wrapped with task context.
func (t *Tree) spawn(name string, parent *TaskID, f func(*Task) error) error {
	id := t.createTaskInternal(name, parent)
	task := newTaskHandle(t, id, false)
	defer task.Close()

	t.maybeForceFlush()

	err := f(task)
	t.postSpawn(id, err)
	return err
}

// postSpawn wraps a non-nil spawn error with the task's context (name and
// data, per its attach-transitive-data policy) and marks the task done with
// the wrapped error's message.
func (t *Tree) postSpawn(id TaskID, err error) {
	if err == nil {
		t.MarkDone(id, nil)
		return
	}
	name, direct, transitive, attach, found := t.taskSnapshotForError(id)
	if found {
		err = wrapSpawnError(err, name, direct, transitive, attach)
	}
	msg := err.Error()
	if f := t.errorFormatterFn(); f != nil {
		msg = f(err)
	}
	t.MarkDone(id, &msg)
}

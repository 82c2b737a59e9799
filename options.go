package tasktree

import "time"

// defaultRemoveTaskAfterDone is the interactive grace period: long enough
// for the event pump and the terminal renderer to have observed a finished
// task at least once before it is swept away.
const defaultRemoveTaskAfterDone = 5000 * time.Millisecond

// TreeOption configures a Tree at construction time.
type TreeOption func(*Tree)

// WithRemoveTaskAfterDone sets the grace period a finished subtree remains
// visible before the garbage collector removes it. The zero value is valid
// and useful in tests that want GC to act on the very next sweep.
func WithRemoveTaskAfterDone(d time.Duration) TreeOption {
	return func(t *Tree) { t.removeTaskAfterDoneMS = d }
}

// WithTestClock sets the grace period to zero, the default this module's
// own tests use so garbage collection is observable within a test's
// lifetime without sleeping for the interactive default.
func WithTestClock() TreeOption {
	return WithRemoveTaskAfterDone(0)
}

// WithForceFlush turns on synchronous event delivery: every tree mutation
// that enqueues an event runs one pump iteration before returning.
func WithForceFlush(enabled bool) TreeOption {
	return func(t *Tree) { t.forceFlush.Store(enabled) }
}

// WithErrorFormatter sets the tree-wide function that converts a wrapped
// spawn error into the string stored on a finished task.
func WithErrorFormatter(f ErrorFormatter) TreeOption {
	return func(t *Tree) { t.errorFormatter = f }
}

// WithHideErrorsDefaultMsg sets the tree-wide advisory replacement message
// reporters should use in place of a task's full error chain.
func WithHideErrorsDefaultMsg(msg string) TreeOption {
	return func(t *Tree) { t.hideErrorsDefault = &msg }
}

// WithAttachTransitiveDataToErrorsDefault sets whether spawn error wrapping
// includes transitive data by default for tasks that don't override it.
func WithAttachTransitiveDataToErrorsDefault(enabled bool) TreeOption {
	return func(t *Tree) { t.attachTransitiveDataToErrorsDefault = enabled }
}

// WithDataTransitive seeds the tree-wide transitive data applied to every
// task created in this tree, in addition to whatever its parent carries.
func WithDataTransitive(key string, value DataValue) TreeOption {
	return func(t *Tree) { t.dataTransitive.Add(key, value) }
}

// WithPumpInterval overrides the event pump's wake interval (default ~10ms).
// Exposed mainly for tests that want faster-than-default delivery.
func WithPumpInterval(d time.Duration) TreeOption {
	return func(t *Tree) { t.pumpInterval = d }
}

// WithGCInterval overrides the garbage collector sweep interval (default
// ~500ms).
func WithGCInterval(d time.Duration) TreeOption {
	return func(t *Tree) { t.gcInterval = d }
}

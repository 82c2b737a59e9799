package tasktree

import "go.uber.org/atomic"

// TaskID identifies a task uniquely and monotonically for the lifetime of
// the process. IDs are never reused, even after a task is garbage collected.
type TaskID uint64

var globalTaskID atomic.Uint64

// nextTaskID allocates the next process-wide unique TaskID.
//
// A single atomic counter is shared by every Tree instance rather than one
// counter per Tree, matching the canonical source's process-wide
// INCREMENTAL_UNIQ_ID: two Trees in the same process never hand out
// colliding IDs, which keeps trace dumps and log correlation unambiguous
// even when a host application runs more than one Tree.
func nextTaskID() TaskID {
	return TaskID(globalTaskID.Inc() - 1)
}

package tasktree

import "sync"

var (
	defaultOnce sync.Once
	defaultTree *Tree
)

// Default returns the process-wide Tree, constructing it with no options on
// first use. Most programs need only one Tree; Default exists for the
// common case where threading a *Tree through every call site would be
// pure ceremony. Code that needs non-default options (a test clock, a
// custom error formatter) should construct its own Tree with NewTree
// instead of using Default.
func Default() *Tree {
	defaultOnce.Do(func() {
		defaultTree = NewTree()
	})
	return defaultTree
}

// CreateTask creates a root task on the default Tree.
func CreateTask(name string) *Task {
	return Default().CreateTask(name)
}

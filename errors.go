package tasktree

import (
	"fmt"
	"strings"
)

// ErrorFormatter converts a wrapped spawn error into the string stored on a
// finished task. When unset, Error() of the wrapped error is used directly.
type ErrorFormatter func(error) string

// wrapSpawnError attaches task context to err in the format the distilled
// design requires:
//
//	[Task] <name>
//	  <k>: <v>
//	  ...
//
// Direct data is always included; transitive data only when
// attachTransitive is true. The returned error unwraps to err.
func wrapSpawnError(err error, name string, direct, transitive Data, attachTransitive bool) error {
	var b strings.Builder
	b.WriteString("[Task] ")
	b.WriteString(name)
	for _, kv := range direct.Entries() {
		fmt.Fprintf(&b, "\n  %s: %s", kv.Key, kv.Value)
	}
	if attachTransitive {
		for _, kv := range transitive.Entries() {
			fmt.Fprintf(&b, "\n  %s: %s", kv.Key, kv.Value)
		}
	}
	b.WriteString("\nCaused by:\n")
	for i, line := range strings.Split(err.Error(), "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("    ")
		b.WriteString(line)
	}
	return &spawnError{msg: b.String(), cause: err}
}

// spawnError carries the task-context text built by wrapSpawnError and the
// original error as its Unwrap cause.
type spawnError struct {
	msg   string
	cause error
}

func (e *spawnError) Error() string { return e.msg }
func (e *spawnError) Unwrap() error { return e.cause }

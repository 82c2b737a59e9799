package tasktree

import "time"

// Result is the outcome of a finished task.
type Result int

const (
	// Success means the task's closure returned no error, or MarkDone was
	// called with a nil error message.
	Success Result = iota
	// Failure means the task ended with a non-nil error message.
	Failure
)

// Progress is an optional done/total pair set via Task.Progress.
type Progress struct {
	Done  int64
	Total int64
}

// Snapshot is the immutable value object handed to reporters. It is a
// point-in-time clone of a task's state; mutating a Snapshot has no effect
// on the tree.
type Snapshot struct {
	ID         TaskID
	Name       string
	ParentID   *TaskID
	ParentName []string
	StartedAt  time.Time

	Running    bool
	Result     Result
	FinishedAt time.Time
	ErrorMsg   string
	// HideErrorsMsg, when non-nil, is the advisory replacement message a
	// reporter should show instead of ErrorMsg. Resolved from the task's own
	// Task.HideErrorMsg, falling back to the tree-wide
	// Tree.SetHideErrorsDefaultMsg. Honoring it is advisory, not enforced.
	HideErrorsMsg *string

	Data           Data
	DataTransitive Data
	Tags           map[string]struct{}
	Progress       *Progress
}

// FullName joins ParentName with Name using ':', e.g. "root:child:grandchild".
func (s Snapshot) FullName() string {
	full := ""
	for _, p := range s.ParentName {
		full += p + ":"
	}
	return full + s.Name
}

// AllData iterates direct data entries followed by transitive ones, the
// order the canonical text formatter expects when it excludes dontprint
// entries.
func (s Snapshot) AllData() []DataKV {
	out := s.Data.Entries()
	out = append(out, s.DataTransitive.Entries()...)
	return out
}

// Level returns the task's own verbosity level, derived from its tags.
func (s Snapshot) Level() Level {
	return levelFromTags(s.Tags)
}

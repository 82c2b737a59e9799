package reporters

import (
	"bufio"
	"io"
	"os"
	"sync"

	"tasktree"
)

// Stdio is the default text Reporter: it writes one line per visible
// on_end (and, when LogTaskStart is set, one per on_start) to an io.Writer,
// stderr by default. A single mutex serializes writes the way the teacher's
// log writers serialize to a shared sink.
type Stdio struct {
	mu      sync.Mutex
	w       *bufio.Writer
	flusher io.Writer
	opts    FormatOptions
}

// NewStdio builds a Stdio reporter writing to w (os.Stderr if nil).
func NewStdio(w io.Writer, opts FormatOptions) *Stdio {
	if w == nil {
		w = os.Stderr
	}
	return &Stdio{w: bufio.NewWriter(w), opts: opts}
}

func (s *Stdio) OnStart(snap tasktree.Snapshot) {
	line := FormatStart(snap, s.opts)
	if line == "" {
		return
	}
	s.writeLine(line)
}

func (s *Stdio) OnEnd(snap tasktree.Snapshot) {
	line := FormatEnd(snap, s.opts)
	if line == "" {
		return
	}
	s.writeLine(line)
}

func (s *Stdio) OnProgress(tasktree.Snapshot) {}

func (s *Stdio) writeLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.WriteString(line)
	s.w.WriteByte('\n')
	s.w.Flush()
}

var _ tasktree.Reporter = (*Stdio)(nil)

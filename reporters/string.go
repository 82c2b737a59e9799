package reporters

import (
	"regexp"
	"strings"
	"sync"

	"tasktree"
)

var ansiSeq = regexp.MustCompile("\x1b\\[[0-9;]*m")

// String is the in-memory twin of Stdio used by tests: same line format,
// accumulated into a buffer instead of written to an io.Writer. The
// timestamp style is taken from opts as given; there is no String-specific
// default, so the zero FormatOptions renders with TimestampNone and a
// redacted "[ ] " placeholder needs TimestampRedacted set explicitly.
type String struct {
	mu        sync.Mutex
	b         strings.Builder
	opts      FormatOptions
	stripANSI bool
}

// NewString builds a String reporter.
func NewString(opts FormatOptions, stripANSI bool) *String {
	return &String{opts: opts, stripANSI: stripANSI}
}

func (s *String) OnStart(snap tasktree.Snapshot) {
	if line := FormatStart(snap, s.opts); line != "" {
		s.append(line)
	}
}

func (s *String) OnEnd(snap tasktree.Snapshot) {
	if line := FormatEnd(snap, s.opts); line != "" {
		s.append(line)
	}
}

func (s *String) OnProgress(tasktree.Snapshot) {}

func (s *String) append(line string) {
	if s.stripANSI {
		line = ansiSeq.ReplaceAllString(line, "")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.b.WriteString(line)
	s.b.WriteByte('\n')
}

// String returns everything accumulated so far.
func (s *String) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

var _ tasktree.Reporter = (*String)(nil)

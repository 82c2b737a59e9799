// Package termstatus draws the live task-forest dashboard the canonical
// source calls TermStatus: a background goroutine that, while shown,
// repeatedly paints and erases a frame on stderr without racing ordinary
// program output.
package termstatus

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"tasktree"
	"tasktree/internal/stdiogate"
)

// TermStatus is a long-lived dashboard bound to one Tree. Show starts the
// render loop; Hide stops it. Safe for concurrent use.
type TermStatus struct {
	tree *tasktree.Tree
	gate *stdiogate.Gate
	out  io.Writer

	mu            sync.Mutex
	enabled       bool
	currentHeight int
	maxLevel      tasktree.Level

	fd int
}

// New builds a TermStatus painting to stderr, gated by gate so renderer and
// user prints never interleave mid-frame. maxLevel bounds which tasks are
// visible, same as a text reporter's max_log_level.
func New(tree *tasktree.Tree, gate *stdiogate.Gate, maxLevel tasktree.Level) *TermStatus {
	return &TermStatus{
		tree:     tree,
		gate:     gate,
		out:      os.Stderr,
		maxLevel: maxLevel,
		fd:       int(os.Stderr.Fd()),
	}
}

// Show starts the render loop if it isn't already running.
func (s *TermStatus) Show() {
	s.mu.Lock()
	if s.enabled {
		s.mu.Unlock()
		return
	}
	s.enabled = true
	s.mu.Unlock()

	go s.loop()
}

// Hide stops the render loop; the next iteration erases the final frame and
// exits.
func (s *TermStatus) Hide() {
	s.mu.Lock()
	s.enabled = false
	s.mu.Unlock()
}

func (s *TermStatus) loop() {
	for {
		// Yield briefly so a concurrent print has a chance to acquire the
		// gate before the renderer grabs it again; otherwise a fast loop
		// could starve ordinary stdio writers indefinitely.
		time.Sleep(1 * time.Millisecond)

		s.gate.Lock()
		s.mu.Lock()
		if !s.enabled {
			s.mu.Unlock()
			s.gate.Unlock()
			return
		}
		s.paint()
		s.mu.Unlock()

		time.Sleep(50 * time.Millisecond)

		s.mu.Lock()
		stillEnabled := s.enabled
		s.clear()
		s.mu.Unlock()
		s.gate.Unlock()

		if !stillEnabled {
			return
		}
	}
}

// paint builds the frame under the tree's reader lock (via buildRows, which
// uses only Tree's public read methods) and writes it to out, width-clamped
// to the terminal when one is attached — a redesign of the canonical
// source's fixed-width assumption, since Go has an idiomatic way
// (golang.org/x/term) to ask the real terminal instead of guessing.
func (s *TermStatus) paint() {
	rows := buildRows(s.tree, s.maxLevel)
	height := len(rows)
	if height == 0 && s.currentHeight == 0 {
		return
	}
	s.currentHeight = height

	width := 0
	if term.IsTerminal(s.fd) {
		if w, _, err := term.GetSize(s.fd); err == nil {
			width = w
		}
	}

	var b strings.Builder
	b.WriteByte('\n')
	for i, r := range rows {
		line := r.String()
		if width > 0 && len(line) > width {
			line = line[:width]
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	b.WriteByte('\n')
	fmt.Fprint(s.out, b.String())
}

// clear erases the previous frame by moving the cursor up and clearing each
// line, the ANSI equivalent of the canonical source's crossterm calls.
func (s *TermStatus) clear() {
	if s.currentHeight == 0 {
		return
	}
	var b strings.Builder
	for i := 0; i < s.currentHeight+1; i++ {
		b.WriteString("\x1b[2K\x1b[1A")
	}
	fmt.Fprint(s.out, b.String())
}

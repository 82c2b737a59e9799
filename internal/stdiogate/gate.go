// Package stdiogate serializes stdout/stderr access between the terminal
// status renderer and ordinary print-like writes, so a user's print never
// shreds a live dashboard frame and the renderer never paints over a
// half-written user line. Grounded on the canonical source's stdout/stderr
// lock pair in reporters/term_status.rs, collapsed to one mutex since Go's
// os.Stdout/os.Stderr carry no per-stream lock of their own to borrow.
package stdiogate

import "sync"

// Gate is a plain mutex shared by the renderer and a buffered stdout
// wrapper. Nothing about it is specific to stdio; it exists as a named type
// so call sites read as "take the stdio gate" rather than "lock a mutex".
type Gate struct {
	mu sync.Mutex
}

// Lock acquires the gate, blocking until no writer holds it.
func (g *Gate) Lock() { g.mu.Lock() }

// Unlock releases the gate.
func (g *Gate) Unlock() { g.mu.Unlock() }

package termstatus

import (
	"fmt"
	"strings"
	"time"

	"tasktree"
)

const progressBarLen = 30

// depth is a stack of booleans, one per visible ancestor: true draws a
// vertical continuation, false draws blank indent. Named after the
// canonical source's Depth type alias.
type depth []bool

// row is one rendered line of the dashboard, before glyph/indent join.
type row struct {
	id     tasktree.TaskID
	indent string
	glyph  string
	name   string
}

func shouldPrint(tree *tasktree.Tree, snap tasktree.Snapshot, maxLevel tasktree.Level) bool {
	if _, hidden := snap.Tags[tasktree.TagNoStatus]; hidden {
		return false
	}
	return snap.Level() <= maxLevel
}

// buildRows performs the DFS frame construction described for the
// dashboard: a stack of (id, depth) pairs, popped in reverse insertion
// order so children render top to bottom; a hidden task's children
// re-attach to the nearest visible ancestor, and indent is only pushed for
// visible tasks.
func buildRows(tree *tasktree.Tree, maxLevel tasktree.Level) []row {
	type item struct {
		id tasktree.TaskID
		d  depth
	}

	var stack []item
	for _, id := range tree.Roots() {
		stack = append(stack, item{id: id, d: nil})
	}

	var rows []row
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		snap, ok := tree.TaskSnapshot(cur.id)
		if !ok {
			continue
		}
		visible := shouldPrint(tree, snap, maxLevel)

		children := tree.Children(cur.id)
		var lastVisible tasktree.TaskID
		haveLastVisible := false
		for _, c := range children {
			if cs, ok := tree.TaskSnapshot(c); ok && shouldPrint(tree, cs, maxLevel) {
				lastVisible = c
				haveLastVisible = true
			}
		}

		var toAppend []item
		for _, c := range children {
			newDepth := append(depth(nil), cur.d...)
			if visible {
				newDepth = append(newDepth, haveLastVisible && c != lastVisible)
			}
			toAppend = append(toAppend, item{id: c, d: newDepth})
		}
		for i := len(toAppend) - 1; i >= 0; i-- {
			stack = append(stack, toAppend[i])
		}

		if visible {
			rows = append(rows, taskRow(snap, cur.d))
		}
	}
	return rows
}

// elapsed mirrors the canonical source's duration calculation: time since
// start for a running task, finished_at - started_at for a finished one.
func elapsed(snap tasktree.Snapshot) time.Duration {
	if snap.Running {
		return time.Since(snap.StartedAt)
	}
	return snap.FinishedAt.Sub(snap.StartedAt)
}

func taskRow(snap tasktree.Snapshot, d depth) row {
	indent := ""
	if len(d) > 0 {
		last := d[len(d)-1]
		var b strings.Builder
		for _, hasLine := range d[:len(d)-1] {
			if hasLine {
				b.WriteString("│ ")
			} else {
				b.WriteString("  ")
			}
		}
		if last {
			b.WriteString("├ ")
		} else {
			b.WriteString("╰ ")
		}
		indent = b.String()
	}

	var glyph string
	switch {
	case snap.Running:
		glyph = " ▶ "
	case snap.Result == tasktree.Success:
		glyph = " ✓ "
	default:
		glyph = " x "
	}

	duration := elapsed(snap)
	secs := int64(duration.Seconds())
	tenths := (duration.Milliseconds() % 1000) / 100
	ts := fmt.Sprintf(" [%d.%ds] ", secs, tenths)

	return row{
		id:     snap.ID,
		indent: indent,
		glyph:  glyph,
		name:   ts + progressBar(snap) + snap.Name,
	}
}

func progressBar(snap tasktree.Snapshot) string {
	if snap.Progress == nil || snap.Progress.Total <= 0 {
		return ""
	}
	done, total := snap.Progress.Done, snap.Progress.Total
	pctDone := (done * 100) / total
	doneLen := (progressBarLen * pctDone) / 100
	if doneLen > progressBarLen {
		doneLen = progressBarLen
	}
	if doneLen < 0 {
		doneLen = 0
	}
	todoLen := progressBarLen - doneLen
	return fmt.Sprintf(" [%s%s] %d/%d ", strings.Repeat(" ", int(doneLen)), strings.Repeat(".", int(todoLen)), done, total)
}

func (r row) String() string {
	return r.indent + r.glyph + r.name
}

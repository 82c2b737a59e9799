// Package reporters holds the concrete Reporter implementations: the text
// line formatter shared by Stdio and String, a batching wrapper grounded on
// the teacher's ReporterWrapper, and a chrome-trace exporter.
package reporters

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"tasktree"
)

// TimestampStyle selects how FormatStart/FormatEnd render a snapshot's time. Colour is
// deliberately not part of this formatter: the distilled design calls out
// ANSI/colour helpers as a component this library does not own.
type TimestampStyle int

const (
	TimestampNone TimestampStyle = iota
	TimestampUTC
	TimestampLocal
	// TimestampRedacted renders "[ ] " in place of both the timestamp and
	// any duration, for deterministic test fixtures.
	TimestampRedacted
)

// eventKind distinguishes an on_start line from an on_end line; both go
// through the same formatter, with the status segment differing.
type eventKind int

const (
	eventStart eventKind = iota
	eventEnd
)

func formatTimestamp(style TimestampStyle, ts time.Time) string {
	switch style {
	case TimestampUTC:
		return "[" + ts.UTC().Truncate(time.Second).Format(time.RFC3339) + "] "
	case TimestampLocal:
		return "[" + ts.Local().Truncate(time.Second).Format("03:04:05PM") + "] "
	case TimestampRedacted:
		return "[ ] "
	default:
		return ""
	}
}

func formatStatus(style TimestampStyle, kind eventKind, s tasktree.Snapshot) string {
	if kind == eventStart {
		return "| STARTING | "
	}
	if style == TimestampRedacted {
		return ""
	}
	if !s.Running {
		ms := s.FinishedAt.Sub(s.StartedAt).Milliseconds()
		return "| " + strconv.FormatInt(ms, 10) + "ms | "
	}
	return ""
}

// formatName applies the [ERR] prefix a failed task gets regardless of
// whether this is its start or end line: the formatter always reflects the
// task's *current* state, which is why a task that has already failed by
// the time its (batched) start line is rendered shows [ERR] there too.
func formatName(s tasktree.Snapshot) string {
	name := s.FullName()
	if !s.Running && s.Result == tasktree.Failure {
		return "[ERR] " + name
	}
	return name
}

// FormatOptions configures FormatStart and FormatEnd.
type FormatOptions struct {
	Timestamp    TimestampStyle
	MaxLevel     tasktree.Level
	HasMaxLevel  bool
	LogTaskStart bool
}

// visible reports whether s should produce a line at all: dontprint
// suppresses entirely, and a level above MaxLevel (when set) suppresses.
func visible(s tasktree.Snapshot, opts FormatOptions) bool {
	if _, dontPrint := s.Tags[tasktree.TagDontPrint]; dontPrint {
		return false
	}
	if opts.HasMaxLevel && s.Level() > opts.MaxLevel {
		return false
	}
	return true
}

// FormatStart renders s's on_start line, or "" if it produces none (start
// lines are skipped unless LogTaskStart is set, or the task is not visible).
func FormatStart(s tasktree.Snapshot, opts FormatOptions) string {
	if !opts.LogTaskStart || !visible(s, opts) {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatTimestamp(opts.Timestamp, s.StartedAt))
	b.WriteString(formatStatus(opts.Timestamp, eventStart, s))
	b.WriteString(formatName(s))
	return b.String()
}

// FormatEnd renders s's on_end line (data lines and, on failure, the
// indented error block), or "" if s is not visible.
func FormatEnd(s tasktree.Snapshot, opts FormatOptions) string {
	if !visible(s, opts) {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatTimestamp(opts.Timestamp, s.FinishedAt))
	b.WriteString(formatStatus(opts.Timestamp, eventEnd, s))
	b.WriteString(formatName(s))

	data := dataLines(s)
	if len(data) > 0 {
		for _, line := range data {
			b.WriteString("\n  |      ")
			b.WriteString(line)
		}
	}

	if s.Result == tasktree.Failure {
		msg := s.ErrorMsg
		if s.HideErrorsMsg != nil {
			msg = *s.HideErrorsMsg
		}
		b.WriteString("\n  |\n")
		for _, line := range strings.Split(msg, "\n") {
			b.WriteString("  |  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		return strings.TrimSuffix(b.String(), "\n")
	}
	return b.String()
}

// dataLines renders s's direct and transitive data as "k: v" strings,
// sorted by key, excluding entries tagged dontprint.
func dataLines(s tasktree.Snapshot) []string {
	var out []string
	for _, kv := range s.AllData() {
		if _, hidden := kv.Tags[tasktree.TagDontPrint]; hidden {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", kv.Key, kv.Value))
	}
	return out
}

package reporters

import (
	"strings"
	"testing"
	"time"

	"tasktree"
)

// scenarioError is a bare error whose Error() is exactly the given message,
// so wrapped-error assertions aren't muddied by a type's own formatting.
type scenarioError struct{ msg string }

func (e *scenarioError) Error() string { return e.msg }

// TestStdio_ScenarioS1_BasicEvents reproduces spec scenario S1: create root; spawn_sync
// test -> Ok; spawn_sync test_with_data sets hello/int/float then fails;
// spawn_sync test_3 -> Ok. With log_task_start=true and a redacted
// timestamp, the String reporter's accumulated output must match this
// exactly, line for line.
func TestStdio_ScenarioS1_BasicEvents(t *testing.T) {
	tree := tasktree.NewTree(
		tasktree.WithPumpInterval(time.Hour),
		tasktree.WithGCInterval(time.Hour),
	)

	root := tree.CreateTask("root")

	if err := root.Spawn("test", func(*tasktree.Task) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := root.Spawn("test_with_data", func(task *tasktree.Task) error {
		task.Data("hello", tasktree.String("hi"))
		task.Data("int", tasktree.Int(5))
		task.Data("float", tasktree.Float(5.98))
		return &scenarioError{"here is error msg"}
	})
	if err == nil {
		t.Fatal("expected test_with_data to fail")
	}

	if err := root.Spawn("test_3", func(*tasktree.Task) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rep := NewString(FormatOptions{Timestamp: TimestampRedacted, LogTaskStart: true}, true)
	tree.AddReporter(rep)

	tree.Close() // runs the one remaining flush, delivering every queued event

	want := strings.Join([]string{
		"[ ] | STARTING | root",
		"[ ] | STARTING | root:test",
		"[ ] | STARTING | [ERR] root:test_with_data",
		"[ ] | STARTING | root:test_3",
		"[ ] root:test",
		"[ ] [ERR] root:test_with_data",
		"  |      float: 5.98",
		"  |      hello: hi",
		"  |      int: 5",
		"  |",
		"  |  [Task] test_with_data",
		"  |    float: 5.98",
		"  |    hello: hi",
		"  |    int: 5",
		"  |  Caused by:",
		"  |      here is error msg",
		"[ ] root:test_3",
		"",
	}, "\n")

	if got := rep.String(); got != want {
		t.Errorf("S1 output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// TestStdio_ScenarioS4_LevelFilter reproduces S4: a reporter bounded to L1
// never shows a task tagged #l3, even though the raw event still reaches
// a reporter with no bound.
func TestStdio_ScenarioS4_LevelFilter(t *testing.T) {
	tree := tasktree.NewTree(tasktree.WithForceFlush(true), tasktree.WithTestClock())
	defer tree.Close()

	bounded := NewString(FormatOptions{Timestamp: TimestampRedacted, MaxLevel: tasktree.L1, HasMaxLevel: true}, true)
	unbounded := NewString(FormatOptions{Timestamp: TimestampRedacted}, true)
	tree.AddReporter(bounded)
	tree.AddReporter(unbounded)

	root := tree.CreateTask("root")
	defer root.Close()
	child := root.Create("x #l3")
	tree.MarkDone(child.ID(), nil)

	if strings.Contains(bounded.String(), "x") {
		t.Errorf("expected #l3 task to be filtered out of bounded reporter, got %q", bounded.String())
	}
	if !strings.Contains(unbounded.String(), "x") {
		t.Errorf("expected unbounded reporter to show the #l3 task, got %q", unbounded.String())
	}
}

// TestStdio_ScenarioS3_DontPrintDataEntry reproduces S3: inherited
// transitive data appears in a descendant's line, and a descendant's
// #dontprint data entry is absent from it.
func TestStdio_ScenarioS3_DontPrintDataEntry(t *testing.T) {
	tree := tasktree.NewTree(tasktree.WithForceFlush(true), tasktree.WithTestClock())
	defer tree.Close()

	rep := NewString(FormatOptions{Timestamp: TimestampRedacted}, true)
	tree.AddReporter(rep)

	root := tree.CreateTask("root")
	defer root.Close()
	root.DataTransitive("process_id", tasktree.Int(123))

	child := root.Create("child")
	child.Data("request_id #dontprint", tasktree.String("req-1"))
	tree.MarkDone(child.ID(), nil)

	out := rep.String()
	if !strings.Contains(out, "process_id: 123") {
		t.Errorf("expected transitive data in output, got %q", out)
	}
	if strings.Contains(out, "request_id") {
		t.Errorf("expected dontprint entry to be absent, got %q", out)
	}
}

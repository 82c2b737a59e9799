package tasktree

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
)

func TestDumpTrace_JSONUsesUnixMillisNotRFC3339(t *testing.T) {
	tree := NewTree(WithTestClock())
	defer tree.Close()

	root := tree.CreateTask("root")
	tree.MarkDone(root.ID(), nil)

	trace, err := tree.DumpTrace(root.ID())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(trace)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}

	var decoded struct {
		RootID TaskID `json:"root_id"`
		Tasks  map[string]struct {
			Start      int64  `json:"start"`
			FinishedAt *int64 `json:"finished_at"`
		} `json:"tasks"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("expected start/finished_at to decode as numbers, got error: %v\nraw: %s", err, raw)
	}

	if strings.Contains(string(raw), "T") && strings.Contains(string(raw), "Z") {
		t.Errorf("expected unix millisecond timestamps, wire format looks like RFC3339: %s", raw)
	}

	rec := decoded.Tasks[strconv.FormatUint(uint64(root.ID()), 10)]
	if rec.Start == 0 {
		t.Error("expected non-zero start timestamp")
	}
	if rec.FinishedAt == nil || *rec.FinishedAt == 0 {
		t.Error("expected non-zero finished_at timestamp for a finished task")
	}
}

package reporters

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"tasktree"
	"tasktree/config"
)

func TestNewStdioFromConfig_WritesToFileWhenSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasktree.log")
	rep := NewStdioFromConfig(config.StdioConfig{
		Enabled:      true,
		LogTaskStart: true,
		MaxLogLevel:  "l2",
		File:         path,
	})

	tree := tasktree.NewTree(tasktree.WithForceFlush(true), tasktree.WithTestClock())
	defer tree.Close()
	tree.AddReporter(rep)

	root := tree.CreateTask("root")
	tree.MarkDone(root.ID(), nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to be written: %v", err)
	}
	if !bytes.Contains(data, []byte("root")) {
		t.Errorf("expected rendered task name in log file, got %q", data)
	}
}

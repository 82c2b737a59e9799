package tasktree

import "testing"

func TestHideErrorsMsg_PerTaskOverridesTreeDefault(t *testing.T) {
	tree := NewTree(WithTestClock(), WithForceFlush(true))
	defer tree.Close()

	defaultMsg := "see task for details"
	tree.SetHideErrorsDefaultMsg(&defaultMsg)

	root := tree.CreateTask("root")
	defer root.Close()

	child := root.Create("child")
	child.HideErrorMsg("child-specific advisory")
	tree.MarkDone(child.ID(), strPtr("full internal error"))

	snap, ok := tree.TaskSnapshot(child.ID())
	if !ok {
		t.Fatal("expected child snapshot")
	}
	if snap.ErrorMsg != "full internal error" {
		t.Errorf("expected ErrorMsg to stay the real error, got %q", snap.ErrorMsg)
	}
	if snap.HideErrorsMsg == nil || *snap.HideErrorsMsg != "child-specific advisory" {
		t.Errorf("expected per-task hide message to win, got %v", snap.HideErrorsMsg)
	}
}

func TestHideErrorsMsg_FallsBackToTreeDefault(t *testing.T) {
	tree := NewTree(WithTestClock(), WithForceFlush(true))
	defer tree.Close()

	defaultMsg := "see task for details"
	tree.SetHideErrorsDefaultMsg(&defaultMsg)

	root := tree.CreateTask("root")
	tree.MarkDone(root.ID(), strPtr("full internal error"))

	snap, _ := tree.TaskSnapshot(root.ID())
	if snap.HideErrorsMsg == nil || *snap.HideErrorsMsg != defaultMsg {
		t.Errorf("expected tree-wide default to apply, got %v", snap.HideErrorsMsg)
	}
}

func strPtr(s string) *string { return &s }

package tasktree

import "testing"

func TestData_AddExtractsTagsFromKey(t *testing.T) {
	d := newData()
	d.Add("request_id #dontprint", String("abc"))

	entries := d.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Key != "request_id" {
		t.Errorf("expected clean key %q, got %q", "request_id", entries[0].Key)
	}
	if _, ok := entries[0].Tags["dontprint"]; !ok {
		t.Errorf("expected dontprint tag on entry")
	}
}

func TestData_MergeIsIdentityWithEmpty(t *testing.T) {
	d := newData()
	d.Add("k", Int(1))
	before := d.Entries()

	d.Merge(newData())
	after := d.Entries()

	if len(before) != len(after) || before[0].Key != after[0].Key {
		t.Errorf("merge with empty changed entries: %v -> %v", before, after)
	}
}

func TestData_MergeOverwritesExistingKeys(t *testing.T) {
	d := newData()
	d.Add("k", Int(1))
	other := newData()
	other.Add("k", Int(2))

	d.Merge(other)

	entries := d.Entries()
	if len(entries) != 1 || entries[0].Value.Int != 2 {
		t.Errorf("expected merge to overwrite k with 2, got %v", entries)
	}
}

func TestData_FilterForLevel_KeepsUntaggedEntries(t *testing.T) {
	d := newData()
	d.Add("untagged", String("x"))
	d.Add("high #l3", String("y"))

	d.FilterForLevel(L1)

	entries := d.Entries()
	if len(entries) != 1 || entries[0].Key != "untagged" {
		t.Errorf("expected only the untagged entry to survive, got %v", entries)
	}
}

func TestData_Entries_SortedByKey(t *testing.T) {
	d := newData()
	d.Add("hello", String("hi"))
	d.Add("float", Float(5.98))
	d.Add("int", Int(5))

	entries := d.Entries()
	want := []string{"float", "hello", "int"}
	for i, w := range want {
		if entries[i].Key != w {
			t.Errorf("expected key %d to be %q, got %q", i, w, entries[i].Key)
		}
	}
}

func TestDataValue_Bool(t *testing.T) {
	if got := Bool(true).String(); got != "true" {
		t.Errorf("expected %q, got %q", "true", got)
	}
	if got := Bool(false).String(); got != "false" {
		t.Errorf("expected %q, got %q", "false", got)
	}
}

package tasktree

import "testing"

func TestLevelFromTags_DefaultsWhenNoTagPresent(t *testing.T) {
	if got := levelFromTags(map[string]struct{}{"dontprint": {}}); got != DefaultLevel {
		t.Errorf("expected default level %v, got %v", DefaultLevel, got)
	}
}

func TestLevelFromTags_NumberedAndLegacyCompete(t *testing.T) {
	tags := map[string]struct{}{"l0": {}, "trace": {}}
	if got := levelFromTags(tags); got != L0 {
		t.Errorf("expected l0 (the minimum), got %v", got)
	}
}

func TestDataEntryLevel_NoConstraintWhenUntagged(t *testing.T) {
	_, ok := dataEntryLevel(map[string]struct{}{})
	if ok {
		t.Errorf("expected no level constraint for an untagged entry")
	}
}

func TestDataEntryLevel_RecognizesAlias(t *testing.T) {
	level, ok := dataEntryLevel(map[string]struct{}{"debug": {}})
	if !ok || level != L2 {
		t.Errorf("expected (l2, true), got (%v, %v)", level, ok)
	}
}

func TestParseLevel_FallsBackOnUnknown(t *testing.T) {
	if got := ParseLevel("bogus"); got != DefaultLevel {
		t.Errorf("expected default level for unknown input, got %v", got)
	}
	if got := ParseLevel("l3"); got != L3 {
		t.Errorf("expected l3, got %v", got)
	}
}

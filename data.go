package tasktree

import (
	"fmt"
	"sort"
)

// DataValueKind discriminates the variants of DataValue.
type DataValueKind int

const (
	DataNone DataValueKind = iota
	DataString
	DataInt
	DataFloat
)

// DataValue is a small tagged union of the value types a task can attach as
// data: a string, an integer, a float, or nothing. It is a struct rather
// than an interface because reporters need to copy it by value into
// immutable snapshots and compare/print it without a type switch at every
// call site.
type DataValue struct {
	Kind DataValueKind
	Str  string
	Int  int64
	Flt  float64
}

// String renders the value the way the default text reporters do.
func (v DataValue) String() string {
	switch v.Kind {
	case DataString:
		return v.Str
	case DataInt:
		return fmt.Sprintf("%d", v.Int)
	case DataFloat:
		return fmt.Sprintf("%v", v.Flt)
	default:
		return ""
	}
}

// String builds a DataValue holding s.
func String(s string) DataValue { return DataValue{Kind: DataString, Str: s} }

// Int builds a DataValue holding i.
func Int(i int64) DataValue { return DataValue{Kind: DataInt, Int: i} }

// Float builds a DataValue holding f.
func Float(f float64) DataValue { return DataValue{Kind: DataFloat, Flt: f} }

// Bool builds a DataValue the way the canonical source does: as its string
// rendering ("true"/"false"), since DataValue has no boolean variant.
func Bool(b bool) DataValue { return String(fmt.Sprintf("%t", b)) }

// None is the empty DataValue, used for an absent optional value.
var None = DataValue{Kind: DataNone}

// dataEntry pairs a value with the tags extracted from its key.
type dataEntry struct {
	value DataValue
	tags  map[string]struct{}
}

// Data is an ordered key -> (value, tag-set) map, as carried per task for
// both direct and transitive data. Keys are tag-parsed on insertion, so
// Add("k #info", v) stores under the clean key "k" with tags {info}.
type Data struct {
	entries map[string]dataEntry
}

func newData() Data {
	return Data{entries: map[string]dataEntry{}}
}

// Add inserts or replaces a key's value, extracting tags from the key.
func (d *Data) Add(key string, value DataValue) {
	if d.entries == nil {
		d.entries = map[string]dataEntry{}
	}
	clean, tags := ParseTags(key)
	d.entries[clean] = dataEntry{value: value, tags: tags}
}

// Merge copies every entry of other into d, overwriting existing keys.
func (d *Data) Merge(other Data) {
	if len(other.entries) == 0 {
		return
	}
	if d.entries == nil {
		d.entries = map[string]dataEntry{}
	}
	for k, v := range other.entries {
		d.entries[k] = v
	}
}

// IsEmpty reports whether the store has no entries.
func (d Data) IsEmpty() bool { return len(d.entries) == 0 }

// FilterForLevel removes entries whose tag-derived level is strictly
// greater than max. Entries with no recognized level tag are never
// removed, since they carry no level constraint to violate.
func (d *Data) FilterForLevel(max Level) {
	for k, e := range d.entries {
		level, ok := dataEntryLevel(e.tags)
		if ok && level > max {
			delete(d.entries, k)
		}
	}
}

// Entries returns the store's entries in key-sorted order, for
// deterministic reporter output (Go maps have no iteration order, unlike
// the canonical source's BTreeMap).
func (d Data) Entries() []DataKV {
	out := make([]DataKV, 0, len(d.entries))
	for k, e := range d.entries {
		out = append(out, DataKV{Key: k, Value: e.value, Tags: e.tags})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// clone returns a deep-enough copy safe to hand to a snapshot: the map is
// copied, entries (value structs, tag sets) are not mutated after copy.
func (d Data) clone() Data {
	out := newData()
	for k, e := range d.entries {
		out.entries[k] = e
	}
	return out
}

// DataKV is one ordered entry returned by Data.Entries.
type DataKV struct {
	Key   string
	Value DataValue
	Tags  map[string]struct{}
}

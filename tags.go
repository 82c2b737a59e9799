package tasktree

import "strings"

// ParseTags splits a name like "work #l2 #dontprint" into its clean name and
// tag set. Names are split on '#', each fragment trimmed, and empty
// fragments dropped. The first surviving fragment becomes the clean name;
// the rest become tags.
//
// If fewer than two non-empty fragments survive the split (i.e. the input
// had no real "name #tag" shape — either no '#' at all, or a single
// '#'-led token with nothing before it), the original input is returned
// unchanged as the name and the tag set is empty. This mirrors the
// canonical source exactly, including the perhaps-surprising case of a
// name that is *only* a tag (e.g. "#dont_print"): since splitting it
// produces a single fragment, it is treated as an ordinary (if odd-looking)
// name rather than an all-tags, no-name task.
func ParseTags(name string) (string, map[string]struct{}) {
	var fragments []string
	for _, part := range strings.Split(name, "#") {
		part = strings.TrimSpace(part)
		if part != "" {
			fragments = append(fragments, part)
		}
	}

	if len(fragments) < 2 {
		return name, map[string]struct{}{}
	}

	tags := make(map[string]struct{}, len(fragments)-1)
	for _, t := range fragments[1:] {
		tags[t] = struct{}{}
	}
	return fragments[0], tags
}

// Reserved tag names recognized by built-in reporters and the renderer.
const (
	TagDontPrint = "dontprint"
	TagNoStatus  = "nostatus"
)

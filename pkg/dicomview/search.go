package dicomview

import (
	"slices"
	"strings"
)

// SearchEntries keeps the entries where expr occurs, ignoring case, in the
// canonical tag, name, value, VR or VM. A match inside a nested sequence keeps
// the parent entry. An empty expr returns the input unchanged.
func SearchEntries(expr string, entries []Entry) []Entry {
	if expr == "" {
		return slices.Clone(entries)
	}
	needle := strings.ToLower(expr)
	out := []Entry{}
	for _, e := range entries {
		if matches(e, needle) {
			out = append(out, e)
		}
	}
	return out
}

// SearchComparison keeps every group where at least one file's entry matches
// expr. Kept groups retain all their members.
func SearchComparison(expr string, r Result) Result {
	if expr == "" {
		return slices.Clone(r)
	}
	needle := strings.ToLower(expr)
	out := Result{}
	for _, g := range r {
		for _, m := range g.Members {
			if m.Entry != nil && matches(*m.Entry, needle) {
				out = append(out, g)
				break
			}
		}
	}
	return out
}

func matches(e Entry, needle string) bool {
	for _, field := range []string{e.Tag.String(), e.Name, e.Value, string(e.VR), e.VM} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, child := range e.Sequence {
		if matches(child, needle) {
			return true
		}
	}
	return false
}

package dicomview

import (
	"slices"
	"strings"

	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
)

// CompareFiles aligns the entry lists of several files by tag.
//
// Every tag present in at least one file yields one Group, and the groups are
// ordered by tag. Each Group has one Member per file, in file order, with a nil
// Entry where the file lacks the tag. When a file repeats a tag the last
// occurrence wins.
//
// Example:
//
//	res := dicomview.CompareFiles(a, b)
//	if !res.AreExactlySame() {
//		fmt.Print(dicomview.ShowOnlyDiffs(res))
//	}
func CompareFiles(files ...[]Entry) Result {
	index := make([]map[Tag]*Entry, len(files))
	union := map[Tag]struct{}{}
	for i, f := range files {
		idx := make(map[Tag]*Entry, len(f))
		for j := range f {
			idx[f[j].Tag] = &f[j]
			union[f[j].Tag] = struct{}{}
		}
		index[i] = idx
	}

	tags := make([]Tag, 0, len(union))
	for t := range union {
		tags = append(tags, t)
	}
	slices.SortFunc(tags, tag.Compare)

	res := make(Result, 0, len(tags))
	for _, t := range tags {
		g := Group{Tag: t, Members: make([]Member, len(files))}
		for i := range files {
			g.Members[i] = Member{File: i, Entry: index[i][t]}
		}
		res = append(res, g)
	}
	return res
}

func compareGroups(a, b Group) int {
	return tag.Compare(a.Tag, b.Tag)
}

// IsDifference reports whether any file lacks the tag or the files disagree on its value
func (g Group) IsDifference() bool {
	if len(g.Members) == 0 {
		return false
	}
	for _, m := range g.Members {
		if m.Entry == nil || !sameValue(*m.Entry, *g.Members[0].Entry) {
			return true
		}
	}
	return false
}

// AreExactlySame is true when every tag is present in every file with the same value
func (r Result) AreExactlySame() bool {
	for _, g := range r {
		if g.IsDifference() {
			return false
		}
	}
	return true
}

// AreExactlySame is the function form of Result.AreExactlySame
func AreExactlySame(r Result) bool {
	return r.AreExactlySame()
}

// ShowOnlyDiffs keeps the difference groups of r
func ShowOnlyDiffs(r Result) Result {
	out := Result{}
	for _, g := range r {
		if g.IsDifference() {
			out = append(out, g)
		}
	}
	return out
}

// sameValue compares entries by value only. Sequences match when both sides
// are sequences and their items agree pairwise on tag and value, recursively.
func sameValue(a, b Entry) bool {
	if a.Value != b.Value || a.IsSequence() != b.IsSequence() {
		return false
	}
	return slices.EqualFunc(a.Sequence, b.Sequence, func(x, y Entry) bool {
		return x.Tag == y.Tag && sameValue(x, y)
	})
}

// displayValue is the text shown for a member: the value, followed by the
// items of a sequence in brackets
func displayValue(e Entry) string {
	if !e.IsSequence() {
		return e.Value
	}
	var b strings.Builder
	b.WriteString(e.Value)
	writeSequence(&b, e.Sequence)
	return b.String()
}

func writeSequence(b *strings.Builder, items []Entry) {
	b.WriteByte('[')
	for i, it := range items {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(it.Tag.String())
		b.WriteByte('=')
		b.WriteString(it.Value)
		if it.IsSequence() {
			writeSequence(b, it.Sequence)
		}
	}
	b.WriteByte(']')
}

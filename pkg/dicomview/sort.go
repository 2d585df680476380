package dicomview

import (
	"bytes"
	"slices"

	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
)

// SortEntries returns a copy of entries stably sorted by tag.
// Nested sequences keep their item order.
func SortEntries(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, compareEntries)
	return out
}

func compareEntries(a, b Entry) int {
	return tag.Compare(a.Tag, b.Tag)
}

// BuffersEqual reports byte-wise equality; empty and nil buffers are equal
func BuffersEqual(a, b []byte) bool {
	return bytes.Equal(a, b)
}

// EntriesEqual compares two entry lists element by element on tag, name,
// value, VR, VM and nested sequences. Offsets, colours and ids are ignored.
func EntriesEqual(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.Tag != y.Tag || x.Name != y.Name || x.Value != y.Value || x.VR != y.VR || x.VM != y.VM {
			return false
		}
		if !EntriesEqual(x.Sequence, y.Sequence) {
			return false
		}
	}
	return true
}

package dicomview

import (
	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/vr"
)

// Tag identifies a DICOM element by group and element number
type Tag = tag.Tag

// Entry is one decoded DICOM element as handed over by the parser.
// Entries are treated as immutable once built.
type Entry struct {
	Tag        Tag     `json:"tagId"`
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	VR         vr.VR   `json:"vr"`
	VM         string  `json:"vm"`
	Offset     int64   `json:"offset"`
	ByteLength int64   `json:"byteLength"`
	Sequence   []Entry `json:"sequence,omitempty"`
	Colour     string  `json:"colour,omitempty"`
	ID         int     `json:"id"`
}

// IsSequence reports whether the entry carries nested items
func (e Entry) IsSequence() bool {
	return e.VR.IsSequence() || len(e.Sequence) > 0
}

// Member is the value one file holds for a compared tag. Entry is nil when
// the tag is absent from that file.
type Member struct {
	File  int    `json:"file"`
	Entry *Entry `json:"entry"`
}

// Present reports whether the file carries the tag
func (m Member) Present() bool {
	return m.Entry != nil
}

// Group aligns the values of one tag across every compared file
type Group struct {
	Tag     Tag      `json:"tagId"`
	Members []Member `json:"members"`
}

// Result is a comparison, one Group per tag, ordered by tag
type Result []Group

// GroupedByModule maps a module name to its entries, ordered by tag
type GroupedByModule = map[string][]Entry

// GroupedComparison maps a module name to the comparison groups of its tags
type GroupedComparison = map[string]Result

package dicomview

import (
	"math/rand"
	"testing"

	"github.com/jpfielding/dicomview.go/pkg/dicomview/module"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
	"github.com/stretchr/testify/require"
)

const crSOPClass = "1.2.840.10008.5.1.4.1.1.1"

// entry builds a minimal entry from the canonical tag text
func entry(tg, value string) Entry {
	return Entry{Tag: tag.MustParse(tg), Value: value, VR: "LO", VM: "1", Colour: "#000000"}
}

func tags(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Tag.String()
	}
	return out
}

func groupTags(r Result) []string {
	out := make([]string, len(r))
	for i, g := range r {
		out[i] = g.Tag.String()
	}
	return out
}

func testTable(t *testing.T) *module.Table {
	t.Helper()
	tb, err := module.Parse([]byte(`{
		"tags": [
			{"tag": "00080012", "modules": ["SOP Common", "Protocol Context"]},
			{"tag": "00080016", "modules": ["SOP Common"]},
			{"tag": "00100010", "modules": ["Patient"]},
			{"tag": "00100020", "modules": ["Patient"]},
			{"tag": "00080060", "modules": ["DX Series", "General Series"]}
		],
		"sopClasses": [
			{"sopUid": "1.2.840.10008.5.1.4.1.1.1", "name": "CR", "modules": ["Patient"]},
			{"sopUid": "9.9.9", "name": "With undefined", "modules": ["SOP Common", "Undefined module group"]}
		]
	}`))
	require.NoError(t, err)
	return tb
}

var tagPool = []string{
	"00020010", "00080005", "00080012", "00080016", "00080018", "00080060",
	"00100010", "00100020", "00100030", "00200013", "00280010", "00280011",
	"00070016", "00120012", "00091001", "7FE00010",
}

var valuePool = []string{"A", "B", "a", "CT", "ct", " X", "X ", ""}

// randomEntries draws n entries, duplicate tags allowed
func randomEntries(r *rand.Rand, n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = entry(tagPool[r.Intn(len(tagPool))], valuePool[r.Intn(len(valuePool))])
		out[i].ID = i
	}
	return out
}

package dicomview

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/jpfielding/dicomview.go/pkg/dicomview/module"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Empty(t *testing.T) {
	assert.Equal(t, GroupedByModule{}, Classify(nil))
	assert.Equal(t, GroupedByModule{}, Classify([]Entry{}))
}

func TestClassify_MultiModuleTag(t *testing.T) {
	in := []Entry{entry("00080012", "A"), entry("00070016", "B"), entry("00120012", "C")}

	for name, eng := range map[string]*Engine{"default": NewEngine(nil), "custom": NewEngine(testTable(t))} {
		t.Run(name, func(t *testing.T) {
			got := eng.Classify(in)
			require.Len(t, got, 3)
			assert.Equal(t, []Entry{in[0]}, got["SOP Common"])
			assert.Equal(t, []Entry{in[0]}, got["Protocol Context"])
			assert.Equal(t, []Entry{in[1], in[2]}, got[module.Undefined])
		})
	}
}

func TestClassify_SortsBuckets(t *testing.T) {
	in := []Entry{entry("00100020", "id"), entry("00080016", "uid"), entry("00100010", "name"), entry("00080012", "date")}
	got := NewEngine(testTable(t)).Classify(in)

	assert.Equal(t, []string{"00100010", "00100020"}, tags(got["Patient"]))
	assert.Equal(t, []string{"00080012", "00080016"}, tags(got["SOP Common"]))
	// input untouched
	assert.Equal(t, []string{"00100020", "00080016", "00100010", "00080012"}, tags(in))
}

func TestClassify_SequenceByParentOnly(t *testing.T) {
	seq := entry("00080060", "")
	seq.VR = "SQ"
	seq.Sequence = []Entry{entry("00100010", "nested")}

	got := NewEngine(testTable(t)).Classify([]Entry{seq})
	assert.NotContains(t, got, "Patient")
	require.Len(t, got["DX Series"], 1)
	assert.Equal(t, seq.Sequence, got["DX Series"][0].Sequence)
}

func TestClassify_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	eng := NewEngine(nil)
	for i := 0; i < 100; i++ {
		in := randomEntries(r, r.Intn(20))
		got := eng.Classify(in)

		// totality: every entry lands in at least one bucket
		for _, e := range in {
			found := false
			for _, bucket := range got {
				if slices.ContainsFunc(bucket, func(x Entry) bool { return x.ID == e.ID }) {
					found = true
					break
				}
			}
			assert.True(t, found, "entry %s missing", e.Tag)
		}

		for m, bucket := range got {
			assert.NotEmpty(t, bucket, "empty bucket %s", m)
			for _, e := range bucket {
				// fidelity
				assert.Contains(t, eng.ModulesOf(e.Tag), m)
			}
			// sorting
			assert.True(t, slices.IsSortedFunc(bucket, func(a, b Entry) int { return tag.Compare(a.Tag, b.Tag) }))
		}
	}
}

func TestFilterBySOPClass(t *testing.T) {
	grouped := GroupedByModule{
		"Patient":   {entry("00080145", "Michal Mrkvicka"), entry("00081548", "18")},
		"DX Series": {entry("00100145", "Michal Mrkvicka"), entry("00101548", "18")},
	}

	t.Run("custom table", func(t *testing.T) {
		got := NewEngine(testTable(t)).FilterBySOPClass(grouped, crSOPClass)
		assert.Equal(t, GroupedByModule{"Patient": grouped["Patient"]}, got)
	})

	t.Run("default table", func(t *testing.T) {
		got := FilterBySOPClass(grouped, crSOPClass)
		assert.Equal(t, GroupedByModule{"Patient": grouped["Patient"]}, got)
	})

	t.Run("unknown sop class", func(t *testing.T) {
		got := FilterBySOPClass(grouped, "1.2.3.4.5")
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.Empty(t, FilterBySOPClass(grouped, ""))
	})

	t.Run("output is a fresh container", func(t *testing.T) {
		got := FilterBySOPClass(grouped, crSOPClass)
		got["Patient"][0] = entry("FFFFFFFF", "mutated")
		assert.Equal(t, "Michal Mrkvicka", grouped["Patient"][0].Value)
	})
}

func TestFilterBySOPClass_Undefined(t *testing.T) {
	eng := NewEngine(testTable(t))
	grouped := eng.Classify([]Entry{entry("00080016", "1.2"), entry("00070016", "?")})
	require.Contains(t, grouped, module.Undefined)

	assert.NotContains(t, eng.FilterBySOPClass(grouped, crSOPClass), module.Undefined)

	kept := eng.FilterBySOPClass(grouped, "9.9.9")
	assert.Contains(t, kept, module.Undefined)
	assert.Contains(t, kept, "SOP Common")
}

func TestModulesOf_Facade(t *testing.T) {
	assert.Equal(t, []string{"SOP Common", "Protocol Context"}, ModulesOf(tag.New(0x0008, 0x0012)))
	assert.Equal(t, []string{module.Undefined}, ModulesOf(tag.New(0x0007, 0x0016)))
	assert.Contains(t, ModulesForSOPClass(crSOPClass), "Patient")
	assert.Empty(t, ModulesForSOPClass("0.0"))
}

func TestExtractSOPClass(t *testing.T) {
	assert.Equal(t, "", ExtractSOPClass(nil))
	assert.Equal(t, "", ExtractSOPClass([]Entry{entry("00100010", "x")}))
	assert.Equal(t, crSOPClass, ExtractSOPClass([]Entry{entry("00100010", "x"), entry("00080016", crSOPClass+"\x00")}))
}

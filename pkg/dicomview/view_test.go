package dicomview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_FileView(t *testing.T) {
	eng := NewEngine(testTable(t))
	in := []Entry{
		entry("00100020", "PID"),
		entry("00080016", crSOPClass),
		entry("00100010", "DOE^JOHN"),
		entry("00070016", "private"),
	}

	t.Run("flat", func(t *testing.T) {
		v := eng.FileView(in, ViewOptions{})
		assert.Equal(t, []string{"00070016", "00080016", "00100010", "00100020"}, tags(v.Entries))
		assert.Nil(t, v.Modules)
	})

	t.Run("flat search", func(t *testing.T) {
		v := eng.FileView(in, ViewOptions{Search: "doe"})
		assert.Equal(t, []string{"00100010"}, tags(v.Entries))
	})

	t.Run("hierarchical", func(t *testing.T) {
		v := eng.FileView(in, ViewOptions{Hierarchical: true})
		assert.Equal(t, crSOPClass, v.SOPClass)
		assert.Equal(t, "CR", v.SOPClassName)
		assert.False(t, v.NoModules)
		assert.Equal(t, []string{"Patient"}, keys(v.Modules))
		assert.Equal(t, []string{"00100010", "00100020"}, tags(v.Modules["Patient"]))
	})

	t.Run("hierarchical search keeps the file's sop class", func(t *testing.T) {
		v := eng.FileView(in, ViewOptions{Hierarchical: true, Search: "pid"})
		assert.Equal(t, crSOPClass, v.SOPClass)
		assert.Equal(t, []string{"00100020"}, tags(v.Modules["Patient"]))
	})

	t.Run("unknown sop class", func(t *testing.T) {
		v := eng.FileView(in, ViewOptions{Hierarchical: true, SOPClass: "1.2.3"})
		assert.True(t, v.NoModules)
		assert.Empty(t, v.Modules)
	})
}

func TestEngine_ComparisonView(t *testing.T) {
	eng := NewEngine(testTable(t))
	a := []Entry{entry("00080012", "X"), entry("00080016", "CT"), entry("00100020", "same")}
	b := []Entry{entry("00080012", "Y"), entry("00100010", "NAME"), entry("00100020", "same")}

	t.Run("flat", func(t *testing.T) {
		v := eng.ComparisonView([][]Entry{a, b}, ViewOptions{})
		assert.False(t, v.ExactlySame)
		assert.Equal(t, []string{"00080012", "00080016", "00100010", "00100020"}, groupTags(v.Groups))
	})

	t.Run("only diffs", func(t *testing.T) {
		v := eng.ComparisonView([][]Entry{a, b}, ViewOptions{OnlyDiffs: true})
		assert.Equal(t, []string{"00080012", "00080016", "00100010"}, groupTags(v.Groups))
		assert.False(t, v.NoDifferences)
	})

	t.Run("search runs before diffs", func(t *testing.T) {
		v := eng.ComparisonView([][]Entry{a, b}, ViewOptions{OnlyDiffs: true, Search: "same"})
		assert.Empty(t, v.Groups)
		assert.True(t, v.NoDifferences)
		assert.False(t, v.ExactlySame)

		v = eng.ComparisonView([][]Entry{a, b}, ViewOptions{Search: "same"})
		assert.Equal(t, []string{"00100020"}, groupTags(v.Groups))
	})

	t.Run("hierarchical", func(t *testing.T) {
		v := eng.ComparisonView([][]Entry{a, b}, ViewOptions{Hierarchical: true})
		require.NotNil(t, v.Modules)
		assert.Equal(t, []string{"Patient", "Protocol Context", "SOP Common"}, keys(v.Modules))
		assert.Equal(t, []string{"00100010", "00100020"}, groupTags(v.Modules["Patient"]))

		v = eng.ComparisonView([][]Entry{a, b}, ViewOptions{Hierarchical: true, SOPClass: crSOPClass})
		assert.Equal(t, []string{"Patient"}, keys(v.Modules))
	})

	t.Run("identical files", func(t *testing.T) {
		v := eng.ComparisonView([][]Entry{a, a}, ViewOptions{OnlyDiffs: true})
		assert.True(t, v.ExactlySame)
		assert.True(t, v.NoDifferences)
		assert.Empty(t, v.Groups)
	})
}

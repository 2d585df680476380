// Package dicomview groups, filters, compares and searches the metadata of
// parsed DICOM files.
//
// Every function is a pure transformation over Entry lists: inputs are never
// modified and every returned container is freshly allocated. The package
// level functions use the embedded module table (module.Default); an Engine
// binds any other table.
//
// Example:
//
//	grouped := dicomview.Classify(entries)
//	visible := dicomview.FilterBySOPClass(grouped, dicomview.ExtractSOPClass(entries))
//	if len(visible) == 0 {
//		fmt.Println("no modules found for SOP class")
//	}
package dicomview

import (
	"strings"

	"github.com/jpfielding/dicomview.go/pkg/dicomview/module"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
)

// Engine runs the module-aware operations against one module table
type Engine struct {
	table *module.Table
}

// NewEngine binds tb; a nil table means module.Default()
func NewEngine(tb *module.Table) *Engine {
	if tb == nil {
		tb = module.Default()
	}
	return &Engine{table: tb}
}

// Table returns the bound module table
func (e *Engine) Table() *module.Table {
	return e.table
}

// ModulesOf returns the modules a tag belongs to
func (e *Engine) ModulesOf(t Tag) []string {
	return e.table.ModulesOf(t)
}

// ModulesForSOPClass returns the ordered IOD modules of a SOP class
func (e *Engine) ModulesForSOPClass(uid string) []string {
	return e.table.ModulesForSOPClass(uid)
}

// Classify groups entries under every module their tag belongs to. Buckets
// are ordered by tag and unknown tags land in module.Undefined.
func (e *Engine) Classify(entries []Entry) GroupedByModule {
	return classify(e.table, entries)
}

// FilterBySOPClass keeps the modules of the IOD of uid
func (e *Engine) FilterBySOPClass(grouped GroupedByModule, uid string) GroupedByModule {
	return FilterBySOPClassWith(e.table, grouped, uid)
}

// GroupComparisonByModule partitions a comparison by module
func (e *Engine) GroupComparisonByModule(r Result) GroupedComparison {
	return groupComparison(e.table, r)
}

// FilterComparisonBySOPClass keeps the comparison modules of the IOD of uid
func (e *Engine) FilterComparisonBySOPClass(grouped GroupedComparison, uid string) GroupedComparison {
	return FilterBySOPClassWith(e.table, grouped, uid)
}

var defaultEngine = NewEngine(nil)

// Classify groups entries by module using the default table
func Classify(entries []Entry) GroupedByModule {
	return defaultEngine.Classify(entries)
}

// GroupComparisonByModule partitions a comparison by module using the default table
func GroupComparisonByModule(r Result) GroupedComparison {
	return defaultEngine.GroupComparisonByModule(r)
}

// ModulesOf returns the modules of t in the default table
func ModulesOf(t Tag) []string {
	return defaultEngine.ModulesOf(t)
}

// ModulesForSOPClass returns the IOD modules of uid in the default table
func ModulesForSOPClass(uid string) []string {
	return defaultEngine.ModulesForSOPClass(uid)
}

// ExtractSOPClass returns the value of SOP Class UID (0008,0016), or "" when
// absent. Trailing NUL and space padding is removed.
func ExtractSOPClass(entries []Entry) string {
	uid := ""
	for _, e := range entries {
		if e.Tag == tag.SOPClassUID {
			uid = e.Value
		}
	}
	return strings.TrimRight(uid, "\x00 ")
}

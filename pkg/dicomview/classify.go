package dicomview

import (
	"slices"

	"github.com/jpfielding/dicomview.go/pkg/dicomview/module"
)

// classify buckets entries under every module their tag belongs to.
// Sequence entries are placed by the parent tag only.
func classify(tb *module.Table, entries []Entry) GroupedByModule {
	out := GroupedByModule{}
	for _, e := range entries {
		for _, m := range tb.ModulesOf(e.Tag) {
			out[m] = append(out[m], e)
		}
	}
	for m := range out {
		slices.SortStableFunc(out[m], compareEntries)
	}
	return out
}

// groupComparison buckets comparison groups the same way classify buckets entries
func groupComparison(tb *module.Table, result Result) GroupedComparison {
	out := GroupedComparison{}
	for _, g := range result {
		for _, m := range tb.ModulesOf(g.Tag) {
			out[m] = append(out[m], g)
		}
	}
	for m := range out {
		slices.SortStableFunc(out[m], compareGroups)
	}
	return out
}

// FilterBySOPClassWith keeps the buckets whose module belongs to the IOD of
// uid in tb. An unknown uid yields an empty map. The Undefined bucket
// survives only if the table names it for uid.
func FilterBySOPClassWith[S ~[]E, E any](tb *module.Table, grouped map[string]S, uid string) map[string]S {
	keep := tb.ModulesForSOPClass(uid)
	out := make(map[string]S, len(keep))
	for _, m := range keep {
		if bucket, ok := grouped[m]; ok {
			out[m] = slices.Clone(bucket)
		}
	}
	return out
}

// FilterBySOPClass is FilterBySOPClassWith on the default table. It serves
// both GroupedByModule and GroupedComparison.
func FilterBySOPClass[S ~[]E, E any](grouped map[string]S, uid string) map[string]S {
	return FilterBySOPClassWith(module.Default(), grouped, uid)
}

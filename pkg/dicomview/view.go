package dicomview

// ViewOptions are the display switches of the tag viewer
type ViewOptions struct {
	Search       string `json:"search,omitempty"`
	Hierarchical bool   `json:"hierarchical,omitempty"`
	OnlyDiffs    bool   `json:"onlyDiffs,omitempty"`
	// SOPClass overrides the SOP class used for module filtering.
	// FileView defaults to the file's own SOP class; ComparisonView skips filtering when empty.
	SOPClass string `json:"sopClass,omitempty"`
}

// FileView is what the viewer shows for one file
type FileView struct {
	Entries      []Entry         `json:"entries,omitempty"`
	Modules      GroupedByModule `json:"modules,omitempty"`
	SOPClass     string          `json:"sopClass,omitempty"`
	SOPClassName string          `json:"sopClassName,omitempty"`
	// NoModules is set when the hierarchical view came out empty,
	// typically because the SOP class is unknown.
	NoModules bool `json:"noModules,omitempty"`
}

// ComparisonView is what the viewer shows for several files side by side
type ComparisonView struct {
	Groups      Result            `json:"groups,omitempty"`
	Modules     GroupedComparison `json:"modules,omitempty"`
	ExactlySame bool              `json:"exactlySame"`
	// NoDifferences is set when only differences were requested and none remain
	NoDifferences bool `json:"noDifferences,omitempty"`
}

// FileView searches entries, then lays them out flat (sorted by tag) or by
// module filtered to the file's SOP class.
func (e *Engine) FileView(entries []Entry, opts ViewOptions) FileView {
	data := SearchEntries(opts.Search, entries)
	if !opts.Hierarchical {
		return FileView{Entries: SortEntries(data)}
	}
	sop := opts.SOPClass
	if sop == "" {
		sop = ExtractSOPClass(entries)
	}
	mods := e.FilterBySOPClass(e.Classify(data), sop)
	return FileView{
		Modules:      mods,
		SOPClass:     sop,
		SOPClassName: e.table.SOPClassName(sop),
		NoModules:    len(mods) == 0,
	}
}

// ComparisonView compares files, then applies search before the diff-only
// filter and finally the optional module grouping. ExactlySame is computed on
// the full comparison.
func (e *Engine) ComparisonView(files [][]Entry, opts ViewOptions) ComparisonView {
	full := CompareFiles(files...)
	view := ComparisonView{ExactlySame: full.AreExactlySame()}

	res := SearchComparison(opts.Search, full)
	if opts.OnlyDiffs {
		res = ShowOnlyDiffs(res)
		view.NoDifferences = len(res) == 0
	}
	if !opts.Hierarchical {
		view.Groups = res
		return view
	}
	grouped := e.GroupComparisonByModule(res)
	if opts.SOPClass != "" {
		grouped = e.FilterComparisonBySOPClass(grouped, opts.SOPClass)
	}
	view.Modules = grouped
	return view
}

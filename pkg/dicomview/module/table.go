// Package module holds the read-only reference data that maps DICOM tags to the
// Information Object Modules they belong to, and SOP classes to the modules
// their IOD is composed of.
//
// The data lives in modules.json, embedded at build time and parsed once at
// package init. Callers that need different reference data build their own
// Table with Load or Parse.
package module

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
)

// Undefined is the module name for tags with no known membership
const Undefined = "Undefined module group"

var (
	// ErrUnknownTag marks a tag absent from the table. Lookups route such tags to Undefined.
	ErrUnknownTag = errors.New("unknown tag")
	// ErrUnknownSOPClass marks a SOP class absent from the table. Filters yield empty results for it.
	ErrUnknownSOPClass = errors.New("unknown sop class")
)

//go:embed modules.json
var defaultResource []byte

var defaultTable = mustParse(defaultResource)

func mustParse(raw []byte) *Table {
	t, err := Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("module: embedded table: %v", err))
	}
	return t
}

// Default returns the process-wide table built from the embedded resource
func Default() *Table {
	return defaultTable
}

// TagRecord is one row of the tag-to-modules table
type TagRecord struct {
	Tag     string   `json:"tag"`
	Modules []string `json:"modules"`
}

// SOPClassRecord is one row of the SOP-class-to-modules table
type SOPClassRecord struct {
	SOPClassUID string   `json:"sopUid"`
	Name        string   `json:"name,omitempty"`
	Modules     []string `json:"modules"`
}

// Resource is the serialized form of a Table
type Resource struct {
	Tags       []TagRecord      `json:"tags"`
	SOPClasses []SOPClassRecord `json:"sopClasses"`
}

// Table is an immutable lookup over a Resource
type Table struct {
	byTag  map[tag.Tag][]string
	bySOP  map[string]SOPClassRecord
	sopIDs []string
}

// Load reads a JSON resource from r
func Load(r io.Reader) (*Table, error) {
	var res Resource
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode module table: %w", err)
	}
	return New(res)
}

// Parse reads a JSON resource from raw bytes
func Parse(raw []byte) (*Table, error) {
	return Load(bytes.NewReader(raw))
}

// New validates res and builds a Table from it
func New(res Resource) (*Table, error) {
	t := &Table{
		byTag: make(map[tag.Tag][]string, len(res.Tags)),
		bySOP: make(map[string]SOPClassRecord, len(res.SOPClasses)),
	}
	for _, rec := range res.Tags {
		tg, err := tag.Parse(rec.Tag)
		if err != nil {
			return nil, fmt.Errorf("tag record: %w", err)
		}
		if _, dup := t.byTag[tg]; dup {
			return nil, fmt.Errorf("duplicate tag record %s", tg)
		}
		t.byTag[tg] = dedupe(rec.Modules)
	}
	for _, rec := range res.SOPClasses {
		if rec.SOPClassUID == "" {
			return nil, errors.New("sop class record without uid")
		}
		if _, dup := t.bySOP[rec.SOPClassUID]; dup {
			return nil, fmt.Errorf("duplicate sop class record %s", rec.SOPClassUID)
		}
		rec.Modules = dedupe(rec.Modules)
		t.bySOP[rec.SOPClassUID] = rec
		t.sopIDs = append(t.sopIDs, rec.SOPClassUID)
	}
	return t, nil
}

// dedupe keeps the first occurrence of every name, preserving order
func dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n != "" && !slices.Contains(out, n) {
			out = append(out, n)
		}
	}
	return out
}

// ModulesOf returns the modules t belongs to, in table order.
// Unknown tags yield a single Undefined entry.
func (tb *Table) ModulesOf(t tag.Tag) []string {
	mods, err := tb.Lookup(t)
	if err != nil {
		return []string{Undefined}
	}
	return mods
}

// Lookup is ModulesOf that reports ErrUnknownTag instead of routing to Undefined
func (tb *Table) Lookup(t tag.Tag) ([]string, error) {
	mods := tb.byTag[t]
	if len(mods) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, t)
	}
	return slices.Clone(mods), nil
}

// ModulesForSOPClass returns the ordered module list of the SOP class IOD, empty if unknown
func (tb *Table) ModulesForSOPClass(uid string) []string {
	rec, ok := tb.bySOP[uid]
	if !ok {
		return []string{}
	}
	return slices.Clone(rec.Modules)
}

// SOPClass returns the record for uid or ErrUnknownSOPClass
func (tb *Table) SOPClass(uid string) (SOPClassRecord, error) {
	rec, ok := tb.bySOP[uid]
	if !ok {
		return SOPClassRecord{}, fmt.Errorf("%w: %q", ErrUnknownSOPClass, uid)
	}
	rec.Modules = slices.Clone(rec.Modules)
	return rec, nil
}

// SOPClassName returns the human name of uid, empty if unknown
func (tb *Table) SOPClassName(uid string) string {
	return tb.bySOP[uid].Name
}

// SOPClasses lists the known SOP class uids in resource order
func (tb *Table) SOPClasses() []string {
	return slices.Clone(tb.sopIDs)
}

// Len is the number of tag records
func (tb *Table) Len() int {
	return len(tb.byTag)
}

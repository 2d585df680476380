// Package vr defines DICOM Value Representations
package vr

// VR is the two letter Value Representation code of an element, as read from
// the file or the data dictionary
type VR string

// SQ marks a sequence of items
const SQ VR = "SQ"

// bulk holds the "other" VRs plus UN: values that are opaque byte runs and
// are summarised by length rather than shown
var bulk = map[VR]bool{
	"OB": true,
	"OD": true,
	"OF": true,
	"OL": true,
	"OV": true,
	"OW": true,
	"UN": true,
}

// IsBulk reports whether values of v are shown as a byte count
func (v VR) IsBulk() bool {
	return bulk[v]
}

// IsSequence reports whether v is SQ
func (v VR) IsSequence() bool {
	return v == SQ
}

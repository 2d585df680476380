// Package tag defines DICOM tag identity and ordering
package tag

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedTagID is returned when text is not an 8 digit hex tag
var ErrMalformedTagID = errors.New("malformed tag id")

// Tag represents a DICOM tag with Group and Element
type Tag struct {
	Group   uint16
	Element uint16
}

// New creates a new Tag
func New(group, element uint16) Tag {
	return Tag{Group: group, Element: element}
}

// Parse reads the canonical 8 hex digit form (e.g. "00080012"), case-insensitive.
func Parse(text string) (Tag, error) {
	if len(text) != 8 {
		return Tag{}, fmt.Errorf("%w: %q", ErrMalformedTagID, text)
	}
	for i := 0; i < len(text); i++ {
		if !isHex(text[i]) {
			return Tag{}, fmt.Errorf("%w: %q", ErrMalformedTagID, text)
		}
	}
	group, err := strconv.ParseUint(text[:4], 16, 16)
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %q", ErrMalformedTagID, text)
	}
	element, err := strconv.ParseUint(text[4:], 16, 16)
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %q", ErrMalformedTagID, text)
	}
	return Tag{Group: uint16(group), Element: uint16(element)}, nil
}

// MustParse is Parse for static tables, it panics on malformed input
func MustParse(text string) Tag {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// Compare orders by group, then element. Returns -1, 0 or 1.
func Compare(a, b Tag) int {
	switch {
	case a.Group < b.Group:
		return -1
	case a.Group > b.Group:
		return 1
	case a.Element < b.Element:
		return -1
	case a.Element > b.Element:
		return 1
	default:
		return 0
	}
}

// Less reports whether t sorts before other
func (t Tag) Less(other Tag) bool {
	return Compare(t, other) < 0
}

// IsPrivate reports whether t lies in an odd, vendor defined group
func (t Tag) IsPrivate() bool {
	return t.Group%2 == 1
}

// SOPClassUID identifies the IOD a file conforms to
var SOPClassUID = Tag{0x0008, 0x0016}

// PatientName is the first tag of the Patient module
var PatientName = Tag{0x0010, 0x0010}

// Item wraps each item of a sequence
var Item = Tag{0xFFFE, 0xE000}

// Package ingest turns parsed DICOM datasets into the flat entry lists the
// dicomview package works on.
//
// Parsing is delegated to github.com/suyashkumar/dicom with pixel data
// skipped. Each element becomes one Entry: the name and VM come from the
// parser's tag dictionary, the VR from the element, and the value is rendered
// as text. Sequences are expanded recursively with one item entry
// (FFFE,E000) per sequence item. Values of the bulk VRs (OB, OW, UN and the
// other "O" VRs) are shown as a byte count.
//
// The parser does not report element positions, so Entry.Offset is left at
// zero; ByteLength is the encoded value length, zero when undefined.
//
// Example:
//
//	entries, err := ingest.ReadFile("ct.dcm", files.Black)
//	if err != nil {
//		return err
//	}
//	grouped := dicomview.Classify(entries)
package ingest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/suyashkumar/dicom"
	dcmtag "github.com/suyashkumar/dicom/pkg/tag"

	"github.com/jpfielding/dicomview.go/pkg/dicomview"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/tag"
	"github.com/jpfielding/dicomview.go/pkg/dicomview/vr"
)

// PixelDataPlaceholder is the value shown for skipped pixel data
const PixelDataPlaceholder = "<pixel data>"

// PrivateTagName names private elements missing from the dictionary
const PrivateTagName = "Private Tag"

// undefinedLength is the value length of elements encoded without one
const undefinedLength = 0xFFFFFFFF

// ReadFile parses the DICOM file at path
func ReadFile(path, colour string) ([]dicomview.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("could not stat file: %w", err)
	}
	return Read(f, info.Size(), path, colour)
}

// Read parses size bytes of DICOM from r; name is only used in errors
func Read(r io.Reader, size int64, name, colour string) ([]dicomview.Entry, error) {
	ds, err := dicom.Parse(r, size, nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("could not parse DICOM %s: %w", name, err)
	}
	return FromDataset(ds, colour), nil
}

// ReadBytes parses an in-memory DICOM file
func ReadBytes(data []byte, name, colour string) ([]dicomview.Entry, error) {
	return Read(bytes.NewReader(data), int64(len(data)), name, colour)
}

// FromDataset converts every element of ds, ids follow parse order
func FromDataset(ds dicom.Dataset, colour string) []dicomview.Entry {
	c := converter{colour: colour}
	return c.elements(ds.Elements)
}

type converter struct {
	colour string
	nextID int
}

func (c *converter) elements(elems []*dicom.Element) []dicomview.Entry {
	out := make([]dicomview.Entry, 0, len(elems))
	for _, el := range elems {
		if el == nil {
			continue
		}
		out = append(out, c.element(el))
	}
	return out
}

func (c *converter) element(el *dicom.Element) dicomview.Entry {
	e := dicomview.Entry{
		Tag:    tag.New(el.Tag.Group, el.Tag.Element),
		VR:     vr.VR(el.RawValueRepresentation),
		Colour: c.colour,
		ID:     c.id(),
	}
	if el.ValueLength != undefinedLength {
		e.ByteLength = int64(el.ValueLength)
	}
	if info, err := dcmtag.Find(el.Tag); err == nil {
		e.Name = info.Name
		e.VM = info.VM
	} else if e.Tag.IsPrivate() {
		e.Name = PrivateTagName
	}
	if el.Value == nil {
		return e
	}

	switch el.Value.ValueType() {
	case dicom.Sequences:
		items, _ := el.Value.GetValue().([]*dicom.SequenceItemValue)
		e.Value = fmt.Sprintf("%d items", len(items))
		e.Sequence = make([]dicomview.Entry, 0, len(items))
		for _, item := range items {
			e.Sequence = append(e.Sequence, c.item(item))
		}
	case dicom.SequenceItem:
		children, _ := el.Value.GetValue().([]*dicom.Element)
		e.Sequence = c.elements(children)
	case dicom.PixelData:
		e.Value = PixelDataPlaceholder
	default:
		if e.VR.IsBulk() {
			e.Value = byteCount(el.Value, e.ByteLength)
			break
		}
		e.Value = render(el.Value)
	}
	return e
}

func (c *converter) item(item *dicom.SequenceItemValue) dicomview.Entry {
	e := dicomview.Entry{
		Tag:    tag.Item,
		Name:   "Item",
		Colour: c.colour,
		ID:     c.id(),
	}
	if item == nil {
		return e
	}
	children, _ := item.GetValue().([]*dicom.Element)
	e.Sequence = c.elements(children)
	return e
}

func (c *converter) id() int {
	id := c.nextID
	c.nextID++
	return id
}

// byteCount summarises a bulk value by its size, falling back to the encoded
// length when the parser decoded the bytes into numbers
func byteCount(v dicom.Value, length int64) string {
	if raw, ok := v.GetValue().([]byte); ok {
		length = int64(len(raw))
	}
	return fmt.Sprintf("%d bytes", length)
}

// render formats a leaf value as text; multiple values are joined with a backslash
func render(v dicom.Value) string {
	switch raw := v.GetValue().(type) {
	case []string:
		return strings.Join(raw, `\`)
	case []int:
		parts := make([]string, len(raw))
		for i, n := range raw {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, `\`)
	case []float64:
		parts := make([]string, len(raw))
		for i, f := range raw {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(parts, `\`)
	case []byte:
		return fmt.Sprintf("%d bytes", len(raw))
	default:
		return v.String()
	}
}

package dicomview

import (
	"fmt"
	"strings"
)

// String returns a one line representation of the Entry
func (e Entry) String() string {
	// Format: (GGGG,EEEE) VR Name [VM]: Value
	name := e.Name
	if name != "" {
		name = " " + name
	}
	vm := ""
	if e.VM != "" {
		vm = " [" + e.VM + "]"
	}
	val := e.Value
	if e.IsSequence() {
		val = fmt.Sprintf("Sequence (%d items)", len(e.Sequence))
	}
	return fmt.Sprintf("%s %s%s%s: %s", e.Tag.Display(), e.VR, name, vm, val)
}

// String renders every group with one line per file
func (r Result) String() string {
	var b strings.Builder
	for _, g := range r {
		b.WriteString(g.String())
	}
	return b.String()
}

// String renders the tag header followed by each member value
func (g Group) String() string {
	var b strings.Builder
	marker := " "
	if g.IsDifference() {
		marker = "*"
	}
	name := ""
	for _, m := range g.Members {
		if m.Entry != nil && m.Entry.Name != "" {
			name = " " + m.Entry.Name
			break
		}
	}
	fmt.Fprintf(&b, "%s %s%s\n", marker, g.Tag.Display(), name)
	for _, m := range g.Members {
		if m.Entry == nil {
			fmt.Fprintf(&b, "\t[%d] <absent>\n", m.File)
			continue
		}
		fmt.Fprintf(&b, "\t[%d] %s\n", m.File, displayValue(*m.Entry))
	}
	return b.String()
}

package files

import (
	"cmp"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/jpfielding/dicomview.go/pkg/dicomview"
)

// DefaultMaxFiles bounds a registry created with a non-positive limit
const DefaultMaxFiles = 10

var (
	ErrNotFound    = errors.New("file not loaded")
	ErrNotCompared = errors.New("file is not selected for comparison")
)

// File is a loaded file: its descriptor and its parsed entries
type File struct {
	Descriptor
	Entries []dicomview.Entry `json:"-"`
}

// Registry is the in-memory store of loaded files.
//
// Files are identified by name and size: loading the same file again replaces
// the previous copy. When more than MaxFiles are loaded the oldest one by
// timestamp is evicted. The most recently loaded file becomes current.
type Registry struct {
	mu      sync.Mutex
	max     int
	colours *ColourDictionary
	now     func() time.Time
	files   map[string]*File
	current string

	// ids of the compared files in selection order
	selected []string
}

// NewRegistry creates an empty registry; a nil colours gets the default palette
func NewRegistry(maxFiles int, colours *ColourDictionary) *Registry {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}
	if colours == nil {
		colours = NewColourDictionary()
	}
	return &Registry{
		max:     maxFiles,
		colours: colours,
		now:     time.Now,
		files:   map[string]*File{},
	}
}

// MaxFiles is the load limit
func (r *Registry) MaxFiles() int {
	return r.max
}

// Add loads a file and makes it current
func (r *Registry) Add(name string, size int64, entries []dicomview.Entry) Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := Descriptor{FileName: name, FileSize: size, Timestamp: r.now().UnixMilli(), Colour: Black}
	id := d.ID()
	if old, ok := r.files[id]; ok {
		// keep the comparison state of the replaced copy
		d.Colour, d.Compared = old.Colour, old.Compared
		slog.Debug("replacing loaded file", "file", name, "size", size)
	}
	r.files[id] = &File{Descriptor: d, Entries: recolour(entries, d.Colour)}
	r.current = id
	r.evict()
	return d
}

// evict drops the oldest files until the limit holds; the current file stays
func (r *Registry) evict() {
	for len(r.files) > r.max {
		var oldest *File
		var oldestID string
		for id, f := range r.files {
			if id == r.current {
				continue
			}
			if oldest == nil || f.Timestamp < oldest.Timestamp ||
				(f.Timestamp == oldest.Timestamp && f.Key() < oldest.Key()) {
				oldest, oldestID = f, id
			}
		}
		if oldest == nil {
			return
		}
		slog.Info("evicting loaded file", "file", oldest.FileName, "max", r.max)
		r.drop(oldestID)
	}
}

func (r *Registry) drop(id string) {
	f := r.files[id]
	if f.Compared {
		r.colours.Release(f.Colour)
		r.unselect(id)
	}
	delete(r.files, id)
	if r.current == id {
		r.current = ""
	}
}

// Get returns a copy of the loaded file
func (r *Registry) Get(id string) (File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return File{}, ErrNotFound
	}
	return File{Descriptor: f.Descriptor, Entries: slices.Clone(f.Entries)}, nil
}

// List returns the descriptors ordered by file name
func (r *Registry) List() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Descriptor, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, f.Descriptor)
	}
	slices.SortFunc(out, func(a, b Descriptor) int {
		if c := strings.Compare(a.FileName, b.FileName); c != 0 {
			return c
		}
		return cmp.Compare(a.FileSize, b.FileSize)
	})
	return out
}

// Len is the number of loaded files
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}

// Remove unloads a file and releases its colour
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return ErrNotFound
	}
	r.drop(id)
	return nil
}

// Current returns the file shown by the viewer
func (r *Registry) Current() (File, bool) {
	r.mu.Lock()
	id := r.current
	r.mu.Unlock()
	if id == "" {
		return File{}, false
	}
	f, err := r.Get(id)
	return f, err == nil
}

// SetCurrent switches the viewer to a file. Any comparison selection is cleared.
func (r *Registry) SetCurrent(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return ErrNotFound
	}
	r.clearSelection()
	r.current = id
	return nil
}

// Select adds a file to the comparison and gives it a free colour
func (r *Registry) Select(id string) (Descriptor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return Descriptor{}, ErrNotFound
	}
	if !f.Compared {
		f.Compared = true
		f.Colour = r.colours.FirstFree()
		f.Entries = recolour(f.Entries, f.Colour)
		r.selected = append(r.selected, id)
	}
	return f.Descriptor, nil
}

// Deselect removes a file from the comparison
func (r *Registry) Deselect(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return ErrNotFound
	}
	if !f.Compared {
		return ErrNotCompared
	}
	r.colours.Release(f.Colour)
	r.unselect(id)
	f.Compared, f.Colour = false, Black
	f.Entries = recolour(f.Entries, Black)
	return nil
}

func (r *Registry) unselect(id string) {
	r.selected = slices.DeleteFunc(r.selected, func(s string) bool { return s == id })
}

// Compared returns the files selected for comparison in the order they were
// selected; that order is their index in a comparison
func (r *Registry) Compared() []File {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]File, 0, len(r.selected))
	for _, id := range r.selected {
		f := r.files[id]
		out = append(out, File{Descriptor: f.Descriptor, Entries: slices.Clone(f.Entries)})
	}
	return out
}

// ClearSelection drops every file from the comparison
func (r *Registry) ClearSelection() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearSelection()
}

func (r *Registry) clearSelection() {
	for _, f := range r.files {
		if f.Compared {
			f.Compared, f.Colour = false, Black
			f.Entries = recolour(f.Entries, Black)
		}
	}
	r.selected = nil
	r.colours.Reset()
}

// recolour returns a copy of entries, nested items included, painted colour
func recolour(entries []dicomview.Entry, colour string) []dicomview.Entry {
	if entries == nil {
		return nil
	}
	out := make([]dicomview.Entry, len(entries))
	for i, e := range entries {
		e.Colour = colour
		e.Sequence = recolour(e.Sequence, colour)
		out[i] = e
	}
	return out
}

package files

import (
	"strconv"

	"github.com/jpfielding/dicomview.go/pkg/util"
)

// Descriptor is the lightweight record kept for every loaded file
type Descriptor struct {
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	// Timestamp is the load time in unix milliseconds
	Timestamp int64  `json:"timestamp"`
	Colour    string `json:"colour,omitempty"`
	Compared  bool   `json:"compared,omitempty"`
}

// Key is the storage key of the file: its name followed by its size
func (d Descriptor) Key() string {
	return d.FileName + strconv.FormatInt(d.FileSize, 10)
}

// ID is a stable uuid derived from Key
func (d Descriptor) ID() string {
	return util.HashUUID(d.Key())
}

// SameFile reports whether a and b name the same file
func SameFile(a, b Descriptor) bool {
	return a.FileName == b.FileName && a.FileSize == b.FileSize
}

package files

import (
	"slices"
	"sync"
)

// Black is the colour of entries that belong to no compared file
const Black = "#000000"

// DefaultPalette is the ordered set of colours handed out to compared files
var DefaultPalette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#42d4f4", "#f032e6", "#469990",
}

// ColourDictionary hands out palette colours to files in comparison. Each
// colour counts its holders so a shared colour stays claimed until every
// holder releases it.
type ColourDictionary struct {
	mu      sync.Mutex
	palette []string
	holders map[string]int
}

// NewColourDictionary uses DefaultPalette when palette is empty
func NewColourDictionary(palette ...string) *ColourDictionary {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &ColourDictionary{
		palette: slices.Clone(palette),
		holders: map[string]int{},
	}
}

// FirstFree claims the first unused colour. Once the palette is exhausted the
// least shared colour is handed out again, earliest in the palette first.
func (c *ColourDictionary) FirstFree() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	best := c.palette[0]
	for _, col := range c.palette {
		if c.holders[col] < c.holders[best] {
			best = col
		}
		if c.holders[col] == 0 {
			best = col
			break
		}
	}
	c.holders[best]++
	return best
}

// Release drops one holder of colour
func (c *ColourDictionary) Release(colour string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.holders[colour] <= 1 {
		delete(c.holders, colour)
		return
	}
	c.holders[colour]--
}

// InUse reports whether colour is currently claimed
func (c *ColourDictionary) InUse(colour string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.holders[colour] > 0
}

// Reset releases every colour
func (c *ColourDictionary) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.holders)
}

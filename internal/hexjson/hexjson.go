// Package hexjson reads HexJSON cartogram definitions, where each UK
// constituency is one same-sized hexagon addressed by offset coordinates.
package hexjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// Supported offset-coordinate layouts.
const (
	LayoutOddR  = "odd-r"
	LayoutEvenR = "even-r"
	LayoutOddQ  = "odd-q"
	LayoutEvenQ = "even-q"
)

// ErrInvalidLayout is returned for a layout other than the four offset layouts.
var ErrInvalidLayout = errors.New("hexjson: invalid layout")

// Hex is one constituency cell.
type Hex struct {
	Q          int    `json:"q"`
	R          int    `json:"r"`
	Name       string `json:"n"`
	Population int    `json:"p"`
	MP         string `json:"mp"`
}

// Geometry is the decoded hex-grid file. Hexes is keyed by ONS constituency code.
type Geometry struct {
	Layout string         `json:"layout"`
	Hexes  map[string]Hex `json:"hexes"`
}

// Parse decodes a HexJSON document. A missing layout defaults to odd-r,
// which is what the constituency file ships with.
func Parse(data []byte) (*Geometry, error) {
	var g Geometry
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("decoding hexjson: %w", err)
	}
	if g.Layout == "" {
		g.Layout = LayoutOddR
	}
	if !validLayout(g.Layout) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLayout, g.Layout)
	}
	if g.Hexes == nil {
		g.Hexes = map[string]Hex{}
	}
	for code, h := range g.Hexes {
		if h.Population < 0 {
			return nil, fmt.Errorf("hex %s: negative population %d", code, h.Population)
		}
	}
	return &g, nil
}

// Load reads and parses a HexJSON file from disk.
func Load(path string) (*Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hexjson %s: %w", path, err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return g, nil
}

// Codes returns the constituency codes in sorted order so callers that
// iterate the universe get the same sequence on every run.
func (g *Geometry) Codes() []string {
	codes := make([]string, 0, len(g.Hexes))
	for code := range g.Hexes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// MaxPopulation is the largest population in the grid, 0 for an empty grid.
func (g *Geometry) MaxPopulation() int {
	max := 0
	for _, h := range g.Hexes {
		if h.Population > max {
			max = h.Population
		}
	}
	return max
}

func validLayout(layout string) bool {
	switch layout {
	case LayoutOddR, LayoutEvenR, LayoutOddQ, LayoutEvenQ:
		return true
	}
	return false
}

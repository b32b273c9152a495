package hexjson

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleHexJSON = `{
  "layout": "odd-r",
  "hexes": {
    "E1": {"q": 0, "r": 0, "n": "A", "p": 1000, "mp": "X"},
    "E2": {"q": 1, "r": 0, "n": "B", "p": 2000, "mp": "Y"},
    "E3": {"q": 0, "r": 1, "n": "C", "p": 1500, "mp": "Z"}
  }
}`

func TestParse(t *testing.T) {
	g, err := Parse([]byte(sampleHexJSON))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if g.Layout != LayoutOddR {
		t.Errorf("Layout = %q, want %q", g.Layout, LayoutOddR)
	}
	if len(g.Hexes) != 3 {
		t.Fatalf("expected 3 hexes, got %d", len(g.Hexes))
	}
	e2 := g.Hexes["E2"]
	if e2.Name != "B" || e2.Population != 2000 || e2.MP != "Y" {
		t.Errorf("E2 = %+v", e2)
	}
	if got := g.MaxPopulation(); got != 2000 {
		t.Errorf("MaxPopulation() = %d, want 2000", got)
	}
}

func TestParseDefaultsLayout(t *testing.T) {
	g, err := Parse([]byte(`{"hexes": {"E1": {"n": "A", "p": 10}}}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if g.Layout != LayoutOddR {
		t.Errorf("Layout = %q, want odd-r", g.Layout)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad json", `{"hexes": `},
		{"bad layout", `{"layout": "spiral", "hexes": {}}`},
		{"negative population", `{"hexes": {"E1": {"p": -1}}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := Parse([]byte(`{"layout": "spiral"}`))
	if !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestParseEmptyGeometry(t *testing.T) {
	g, err := Parse([]byte(`{}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if g.MaxPopulation() != 0 {
		t.Errorf("MaxPopulation() = %d, want 0", g.MaxPopulation())
	}
	if cells := g.Cells(500, 500); cells != nil {
		t.Errorf("expected no cells, got %d", len(cells))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "constituencies.hexjson")
	if err := os.WriteFile(path, []byte(sampleHexJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(g.Codes()) != 3 {
		t.Errorf("expected 3 codes, got %v", g.Codes())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.hexjson")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCellsFitViewport(t *testing.T) {
	g, err := Parse([]byte(sampleHexJSON))
	if err != nil {
		t.Fatal(err)
	}

	for _, layout := range []string{LayoutOddR, LayoutEvenR, LayoutOddQ, LayoutEvenQ} {
		t.Run(layout, func(t *testing.T) {
			g.Layout = layout
			cells := g.Cells(560, 560)
			if len(cells) != 3 {
				t.Fatalf("expected 3 cells, got %d", len(cells))
			}
			for _, c := range cells {
				for _, p := range c.Points {
					x, y := c.X+p.X, c.Y+p.Y
					if x < -1e-9 || x > 560+1e-9 || y < -1e-9 || y > 560+1e-9 {
						t.Errorf("%s vertex (%.2f, %.2f) outside viewport", c.Code, x, y)
					}
				}
				if len(c.Points) != 6 {
					t.Errorf("%s has %d points, want 6", c.Code, len(c.Points))
				}
			}
		})
	}
}

func TestCellsOddRPositions(t *testing.T) {
	g, err := Parse([]byte(sampleHexJSON))
	if err != nil {
		t.Fatal(err)
	}
	cells := g.Cells(560, 560)
	byCode := map[string]Cell{}
	for _, c := range cells {
		byCode[c.Code] = c
	}

	// r=1 is the top row (rc = rmax - r = 0), so E3 sits above E1.
	if byCode["E3"].Y >= byCode["E1"].Y {
		t.Errorf("E3.Y = %.2f should be above E1.Y = %.2f", byCode["E3"].Y, byCode["E1"].Y)
	}
	// E1 and E2 share a row and are one hex width apart.
	dx := byCode["E2"].X - byCode["E1"].X
	width := byCode["E1"].Points[1].X * 2
	if math.Abs(dx-width) > 1e-9 {
		t.Errorf("E2.X - E1.X = %.4f, want hex width %.4f", dx, width)
	}
}

func TestPointsAttr(t *testing.T) {
	c := Cell{Points: []Point{{0, -1}, {1.5, 2}}}
	if got := c.PointsAttr(); got != "0.00,-1.00 1.50,2.00" {
		t.Errorf("PointsAttr() = %q", got)
	}
}

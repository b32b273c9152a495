package hexjson

import (
	"fmt"
	"math"
	"strings"
)

// Point is a 2D pixel coordinate.
type Point struct {
	X float64
	Y float64
}

// Cell is a hex positioned for a given viewport. Points is relative to the
// centre (X, Y) and is shared by all cells of one layout pass.
type Cell struct {
	Code   string
	Hex    Hex
	X      float64
	Y      float64
	Points []Point
}

// PointsAttr formats the vertices for an SVG polygon points attribute.
func (c Cell) PointsAttr() string {
	parts := make([]string, len(c.Points))
	for i, p := range c.Points {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

// Cells fits the grid into a width x height box and returns one cell per
// hex, ordered by code. The radius is the largest that fits both dimensions.
func (g *Geometry) Cells(width, height float64) []Cell {
	if len(g.Hexes) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	codes := g.Codes()
	qmin, qmax := math.MaxInt, math.MinInt
	rmin, rmax := math.MaxInt, math.MinInt
	for _, code := range codes {
		h := g.Hexes[code]
		qmin = min(qmin, h.Q)
		qmax = max(qmax, h.Q)
		rmin = min(rmin, h.R)
		rmax = max(rmax, h.R)
	}
	qnum := float64(qmax - qmin + 1)
	rnum := float64(rmax - rmin + 1)

	rowLayout := g.Layout == LayoutOddR || g.Layout == LayoutEvenR || g.Layout == ""

	var radius float64
	if rowLayout {
		radius = math.Min(width/((qnum+0.5)*math.Sqrt(3)), height/((rnum+1.0/3)*1.5))
	} else {
		radius = math.Min((math.Sqrt(3)*width)/((qnum+1.0/3)*3), height/((rnum+0.5)*math.Sqrt(3)))
	}
	hexWidth := radius * math.Sqrt(3)
	points := vertices(rowLayout, radius, hexWidth)

	cells := make([]Cell, 0, len(codes))
	for _, code := range codes {
		h := g.Hexes[code]
		qc := h.Q - qmin
		rc := rmax - h.R
		x, y := position(g.Layout, qc, rc, radius, hexWidth)
		cells = append(cells, Cell{Code: code, Hex: h, X: x, Y: y, Points: points})
	}
	return cells
}

func position(layout string, qc, rc int, radius, hexWidth float64) (x, y float64) {
	switch layout {
	case LayoutEvenR:
		offset := hexWidth / 2
		if rc%2 == 0 {
			offset = hexWidth
		}
		return float64(qc)*hexWidth + offset, float64(rc)*radius*1.5 + radius
	case LayoutOddQ:
		offset := hexWidth / 2
		if qc%2 == 1 {
			offset = hexWidth
		}
		return float64(qc)*radius*1.5 + radius, float64(rc)*hexWidth + offset
	case LayoutEvenQ:
		offset := hexWidth / 2
		if qc%2 == 0 {
			offset = hexWidth
		}
		return float64(qc)*radius*1.5 + radius, float64(rc)*hexWidth + offset
	default: // odd-r
		offset := hexWidth / 2
		if rc%2 == 1 {
			offset = hexWidth
		}
		return float64(qc)*hexWidth + offset, float64(rc)*radius*1.5 + radius
	}
}

// vertices returns pointy-top corners for row layouts and flat-top corners
// for column layouts.
func vertices(rowLayout bool, radius, hexWidth float64) []Point {
	if rowLayout {
		return []Point{
			{0, -radius},
			{hexWidth / 2, -radius / 2},
			{hexWidth / 2, radius / 2},
			{0, radius},
			{-hexWidth / 2, radius / 2},
			{-hexWidth / 2, -radius / 2},
		}
	}
	return []Point{
		{radius, 0},
		{radius / 2, hexWidth / 2},
		{-radius / 2, hexWidth / 2},
		{-radius, 0},
		{-radius / 2, -hexWidth / 2},
		{radius / 2, -hexWidth / 2},
	}
}

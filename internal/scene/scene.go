// Package scene turns a ranking pass into the SVG scene graph: the hexmap,
// the top/bottom bar chart, the color legend and hover detail labels.
package scene

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/ziadkadry99/petitionmap/internal/hexjson"
	"github.com/ziadkadry99/petitionmap/internal/highlight"
	"github.com/ziadkadry99/petitionmap/internal/petition"
	"github.com/ziadkadry99/petitionmap/internal/ranking"
	"github.com/ziadkadry99/petitionmap/internal/scale"
)

// Colors shared by the map and the bar chart.
const (
	Gray        = "#666666"
	StrokeColor = "#fefefe"
	Red         = "red"
)

// Viewport is the pixel layout of one render.
type Viewport struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Margin    float64 `json:"margin"`
	BarWidth  float64 `json:"bar_width"`
	BarHeight float64 `json:"bar_height"`
}

// DefaultViewport matches the desktop page layout.
func DefaultViewport() Viewport {
	return Viewport{Width: 580, Height: 580, Margin: 10, BarWidth: 340, BarHeight: 200}
}

// InnerWidth is the map drawing width inside the margins.
func (v Viewport) InnerWidth() float64 { return v.Width - 2*v.Margin }

// InnerHeight is the map drawing height inside the margins.
func (v Viewport) InnerHeight() float64 { return v.Height - 2*v.Margin }

// Validate rejects layouts with no drawing area.
func (v Viewport) Validate() error {
	if v.InnerWidth() <= 0 || v.InnerHeight() <= 0 {
		return fmt.Errorf("viewport %gx%g leaves no room inside margin %g", v.Width, v.Height, v.Margin)
	}
	if v.BarWidth <= 0 || v.BarHeight <= 0 {
		return fmt.Errorf("bar chart %gx%g has no area", v.BarWidth, v.BarHeight)
	}
	return nil
}

// Hex is one constituency polygon.
type Hex struct {
	Code     string
	Name     string
	X, Y     float64
	Points   string
	Fill     string
	baseFill string
}

// Bar is one bar of the top/bottom chart.
type Bar struct {
	Code     string
	MP       string
	X, Y     float64
	Width    float64
	Height   float64
	Fill     string
	baseFill string
}

// Swatch is one legend cell.
type Swatch struct {
	X     float64
	Width float64
	Fill  string
}

// Label is the detail text block shown while a constituency is hovered.
type Label struct {
	Code  string
	Lines []LabelLine
}

// LabelLine is one text row of a Label.
type LabelLine struct {
	Y      float64
	Text   string
	Weight string
}

// Scene is a fully built render. It is rebuilt, not updated, when data or
// the viewport changes; only hover state changes in place.
type Scene struct {
	Viewport   Viewport
	Result     *ranking.Result
	Hexes      []Hex
	Bars       []Bar
	Legend     []Swatch
	LegendLow  string
	LegendHigh string
	Labels     []Label

	Color      scale.Sequential
	TopBand    scale.Band
	BottomBand scale.Band
	BarHeight  scale.Linear

	geo      *hexjson.Geometry
	idx      ranking.Index
	hexIndex map[string]int
	barIndex map[string][]int
	registry *highlight.Registry
}

// legendSteps is the number of legend swatches.
const legendSteps = 10

// Build ranks records against geo and lays out every element for vp.
func Build(geo *hexjson.Geometry, records []petition.SignatureRecord, vp Viewport, opts ranking.Options) (*Scene, error) {
	if err := vp.Validate(); err != nil {
		return nil, err
	}
	if geo == nil {
		return nil, fmt.Errorf("scene: no geometry")
	}

	res := ranking.Rank(geo, records, opts)
	s := &Scene{
		Viewport: vp,
		Result:   res,
		geo:      geo,
		idx:      ranking.NewIndex(records),
		hexIndex: make(map[string]int),
		barIndex: make(map[string][]int),
		registry: highlight.NewRegistry(),
	}

	s.Color = scale.NewSequential(0, res.TopRatio, scale.Viridis)
	s.buildHexes()
	s.buildBars()
	s.buildLegend()

	s.registry.Subscribe(highlight.Funcs{Highlight: s.fillHex, Unhighlight: s.restoreHex})
	s.registry.Subscribe(highlight.Funcs{Highlight: s.fillBars, Unhighlight: s.restoreBars})
	s.registry.Subscribe(highlight.Funcs{Highlight: s.addLabel, Unhighlight: s.removeLabel})
	return s, nil
}

func (s *Scene) buildHexes() {
	cells := s.geo.Cells(s.Viewport.InnerWidth(), s.Viewport.InnerHeight())
	s.Hexes = make([]Hex, 0, len(cells))
	for _, c := range cells {
		fill := s.Color.Color(s.Result.RatioFor(c.Code))
		s.hexIndex[c.Code] = len(s.Hexes)
		s.Hexes = append(s.Hexes, Hex{
			Code:     c.Code,
			Name:     c.Hex.Name,
			X:        c.X,
			Y:        c.Y,
			Points:   c.PointsAttr(),
			Fill:     fill,
			baseFill: fill,
		})
	}
}

func (s *Scene) buildBars() {
	res := s.Result
	top := res.Selected[:len(res.Top)]
	bottom := res.Selected[len(res.Top):]
	half := s.Viewport.BarWidth / 2

	s.TopBand = scale.NewBand(codesOf(top), 0, half, scale.DefaultPadding)
	s.BottomBand = scale.NewBand(codesOf(bottom), half, s.Viewport.BarWidth, scale.DefaultPadding)
	s.BarHeight = scale.NewLinear(0, float64(res.MaxSignatures), s.Viewport.BarHeight, 0)

	s.Bars = make([]Bar, 0, len(res.Selected))
	add := func(j ranking.Joined, band scale.Band) {
		x, ok := band.Position(j.Code)
		if !ok {
			return
		}
		y := s.BarHeight.Map(float64(j.SignatureCount))
		fill := s.Color.Color(j.Ratio)
		s.barIndex[j.Code] = append(s.barIndex[j.Code], len(s.Bars))
		s.Bars = append(s.Bars, Bar{
			Code:     j.Code,
			MP:       j.MP,
			X:        x,
			Y:        y,
			Width:    band.Bandwidth(),
			Height:   s.Viewport.BarHeight - y,
			Fill:     fill,
			baseFill: fill,
		})
	}
	for _, j := range top {
		add(j, s.TopBand)
	}
	for _, j := range bottom {
		add(j, s.BottomBand)
	}
}

func (s *Scene) buildLegend() {
	width := s.Viewport.InnerWidth() / 3
	step := width / legendSteps
	s.Legend = make([]Swatch, legendSteps)
	lo, hi := s.Color.Domain()
	for i := range s.Legend {
		mid := lo + (hi-lo)*(float64(i)+0.5)/legendSteps
		s.Legend[i] = Swatch{X: float64(i) * step, Width: step, Fill: s.Color.Color(mid)}
	}
	s.LegendLow = percent(lo)
	s.LegendHigh = percent(hi)
}

// Highlight marks code on the map and the bar chart and shows its label.
func (s *Scene) Highlight(code string) { s.registry.Highlight(code) }

// Unhighlight restores code's colors and removes its label.
func (s *Scene) Unhighlight(code string) { s.registry.Unhighlight(code) }

// Subscribe adds an extra hover listener, e.g. for logging or tests.
func (s *Scene) Subscribe(l highlight.Listener) func() { return s.registry.Subscribe(l) }

// Highlighted reports whether code is currently highlighted.
func (s *Scene) Highlighted(code string) bool { return s.registry.Active(code) }

// Detail answers the hover query for code.
func (s *Scene) Detail(code string) (ranking.Detail, error) {
	return ranking.Lookup(s.geo, s.idx, code)
}

// BarsFor returns the bars drawn for code (none when it is not selected).
func (s *Scene) BarsFor(code string) []Bar {
	var out []Bar
	for _, i := range s.barIndex[code] {
		out = append(out, s.Bars[i])
	}
	return out
}

// HexFor returns the polygon for code.
func (s *Scene) HexFor(code string) (Hex, bool) {
	i, ok := s.hexIndex[code]
	if !ok {
		return Hex{}, false
	}
	return s.Hexes[i], true
}

func (s *Scene) fillHex(code string) {
	if i, ok := s.hexIndex[code]; ok {
		s.Hexes[i].Fill = Red
	}
}

func (s *Scene) restoreHex(code string) {
	if i, ok := s.hexIndex[code]; ok {
		s.Hexes[i].Fill = s.Hexes[i].baseFill
	}
}

func (s *Scene) fillBars(code string) {
	for _, i := range s.barIndex[code] {
		s.Bars[i].Fill = Red
	}
}

func (s *Scene) restoreBars(code string) {
	for _, i := range s.barIndex[code] {
		s.Bars[i].Fill = s.Bars[i].baseFill
	}
}

func (s *Scene) addLabel(code string) {
	d, err := s.Detail(code)
	if err != nil {
		return
	}
	s.Labels = append(s.Labels, DetailLabel(d))
}

func (s *Scene) removeLabel(code string) {
	kept := s.Labels[:0]
	for _, l := range s.Labels {
		if l.Code != code {
			kept = append(kept, l)
		}
	}
	s.Labels = kept
}

// DetailLabel formats the hover text for d.
func DetailLabel(d ranking.Detail) Label {
	mp := ""
	if d.HasData {
		mp = d.MP
	}
	sigs := "No signatures yet"
	if d.HasData {
		sigs = fmt.Sprintf("%s (%s) signatures", humanize.Comma(int64(d.SignatureCount)), percent(d.Ratio))
	}
	return Label{
		Code: d.Code,
		Lines: []LabelLine{
			{Y: 0, Text: d.Name},
			{Y: 18, Text: mp},
			{Y: 36, Text: humanize.Comma(int64(d.Population)) + " population", Weight: "400"},
			{Y: 54, Text: sigs, Weight: "800"},
		},
	}
}

// percent formats a ratio as a percentage with two decimals.
func percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

func codesOf(js []ranking.Joined) []string {
	out := make([]string, len(js))
	for i, j := range js {
		out[i] = j.Code
	}
	return out
}

// ElementID is the DOM id for a constituency element of the given kind
// ("pol" or "bar").
func ElementID(kind, code string) string {
	return kind + "_" + strings.TrimSpace(code)
}

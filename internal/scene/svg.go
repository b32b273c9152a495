package scene

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
)

var svgFuncs = template.FuncMap{
	"num": func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"id":  ElementID,
}

var (
	mapTemplate  = template.Must(template.New("map").Funcs(svgFuncs).Parse(mapSVG))
	barsTemplate = template.Must(template.New("bars").Funcs(svgFuncs).Parse(barsSVG))
)

const mapSVG = `<svg xmlns="http://www.w3.org/2000/svg" class="hexmap" width="{{num .Viewport.Width}}" height="{{num .Viewport.Height}}" viewBox="0 0 {{num .Viewport.Width}} {{num .Viewport.Height}}">
<g transform="translate({{num .Viewport.Margin}},{{num .Viewport.Margin}})">
{{- range .Hexes}}
<g id="{{id "pol" .Code}}" transform="translate({{num .X}},{{num .Y}})"><polygon data-code="{{.Code}}" points="{{.Points}}" stroke="` + StrokeColor + `" stroke-width="1" fill="{{.Fill}}"><title>{{.Name}}</title></polygon></g>
{{- end}}
<g class="legend" transform="translate(0,{{num .LegendY}})">
{{- range .Legend}}
<rect x="{{num .X}}" y="0" width="{{num .Width}}" height="10" fill="{{.Fill}}"/>
{{- end}}
<text x="0" y="24" font-size="9pt" fill="` + Gray + `">{{.LegendLow}}</text>
<text x="{{num .LegendWidth}}" y="24" font-size="9pt" fill="` + Gray + `" text-anchor="end">{{.LegendHigh}}</text>
</g>
{{- range .Labels}}
<g id="text_label_{{.Code}}" class="detail" transform="translate({{num $.LabelX}},32)">
{{- range .Lines}}
<text y="{{num .Y}}" fill="` + Gray + `" text-anchor="end"{{if .Weight}} font-weight="{{.Weight}}"{{end}}>{{.Text}}</text>
{{- end}}
</g>
{{- end}}
</g>
</svg>
`

const barsSVG = `<svg xmlns="http://www.w3.org/2000/svg" class="bars" width="{{num .Width}}" height="{{num .Height}}" viewBox="0 0 {{num .Width}} {{num .Height}}">
<line x1="{{num .Mid}}" x2="{{num .Mid}}" y1="0" y2="{{num .BarHeight}}" stroke="` + Gray + `"/>
<text y="10" x="{{num .TopLabelX}}" font-size="9pt" fill="` + Gray + `" text-anchor="end">top</text>
<text y="10" x="{{num .BottomLabelX}}" font-size="9pt" fill="` + Gray + `" text-anchor="start">bottom</text>
{{- range .Bars}}
<rect class="bar" id="{{id "bar" .Code}}" data-code="{{.Code}}" x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}" fill="{{.Fill}}"><title>{{.MP}}</title></rect>
{{- end}}
</svg>
`

type mapView struct {
	*Scene
	LegendY     float64
	LegendWidth float64
	LabelX      float64
}

type barsView struct {
	Bars         []Bar
	Width        float64
	Height       float64
	Mid          float64
	BarHeight    float64
	TopLabelX    float64
	BottomLabelX float64
}

// WriteSVG renders the hexmap, legend and any detail labels.
func (s *Scene) WriteSVG(w io.Writer) error {
	v := mapView{
		Scene:       s,
		LegendY:     s.Viewport.InnerHeight() - 30,
		LegendWidth: s.Viewport.InnerWidth() / 3,
		LabelX:      s.Viewport.InnerWidth(),
	}
	if err := mapTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("rendering map svg: %w", err)
	}
	return nil
}

// WriteBarsSVG renders the top/bottom bar chart.
func (s *Scene) WriteBarsSVG(w io.Writer) error {
	vp := s.Viewport
	v := barsView{
		Bars:         s.Bars,
		Width:        vp.BarWidth + 2*vp.Margin,
		Height:       vp.BarHeight + 2*vp.Margin,
		Mid:          vp.BarWidth / 2,
		BarHeight:    vp.BarHeight,
		TopLabelX:    vp.BarWidth/2 - 12,
		BottomLabelX: vp.BarWidth/2 + 12,
	}
	if err := barsTemplate.Execute(w, v); err != nil {
		return fmt.Errorf("rendering bar svg: %w", err)
	}
	return nil
}

// MapHTML renders the map for embedding in a page.
func (s *Scene) MapHTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.WriteSVG(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// BarsHTML renders the bar chart for embedding in a page.
func (s *Scene) BarsHTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := s.WriteBarsSVG(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

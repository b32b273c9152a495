// Package page renders the HTML shell around the map and bar chart.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/petitionmap/internal/petition"
	"github.com/ziadkadry99/petitionmap/internal/scene"
)

//go:embed page.html
var pageHTML string

//go:embed error.html
var errorHTML string

var (
	pageTemplate  = template.Must(template.New("page").Parse(pageHTML))
	errorTemplate = template.Must(template.New("error").Parse(errorHTML))
)

// Raw petition HTML is dropped; backgrounds come from the public.
var md = goldmark.New(
	goldmark.WithExtensions(extension.Linkify, extension.Strikethrough),
)

// View is everything the page needs for one petition.
type View struct {
	PetitionID string
	Petition   *petition.Petition
	// Listing may be nil when the feed is optional and failed.
	Listing *petition.Listing
	Scene   *scene.Scene
}

// Alternate is a link to another petition from the listing feed.
type Alternate struct {
	ID     string
	Action string
}

type pageData struct {
	PetitionID     string
	Action         string
	SignatureCount string
	Background     template.HTML
	SignURL        string
	Map            template.HTML
	Bars           template.HTML
	Alternates     []Alternate
	Unmatched      int
}

// Render writes the full page for v.
func Render(w io.Writer, v View) error {
	if v.Petition == nil || v.Scene == nil {
		return fmt.Errorf("page: view has no petition or scene")
	}
	attrs := v.Petition.Data.Attributes

	background, err := Markdown(attrs.Background, attrs.AdditionalDetails)
	if err != nil {
		return err
	}
	mapSVG, err := v.Scene.MapHTML()
	if err != nil {
		return err
	}
	barsSVG, err := v.Scene.BarsHTML()
	if err != nil {
		return err
	}

	data := pageData{
		PetitionID:     v.PetitionID,
		Action:         attrs.Action,
		SignatureCount: humanize.Comma(int64(attrs.SignatureCount)),
		Background:     background,
		SignURL:        v.Petition.SignURL(),
		Map:            mapSVG,
		Bars:           barsSVG,
		Alternates:     Alternates(v.Listing, v.PetitionID),
		Unmatched:      len(v.Scene.Result.Unmatched),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// Markdown renders each non-empty paragraph source as markdown.
func Markdown(sources ...string) (template.HTML, error) {
	var buf bytes.Buffer
	for _, src := range sources {
		if src == "" {
			continue
		}
		if err := md.Convert([]byte(src), &buf); err != nil {
			return "", fmt.Errorf("converting markdown: %w", err)
		}
	}
	return template.HTML(buf.String()), nil
}

// Alternates lists the feed's petitions other than current, in feed order.
func Alternates(l *petition.Listing, current string) []Alternate {
	if l == nil {
		return nil
	}
	out := make([]Alternate, 0, len(l.Data))
	for _, s := range l.Data {
		id := strconv.Itoa(s.ID)
		if id == current {
			continue
		}
		out = append(out, Alternate{ID: id, Action: s.Attributes.Action})
	}
	return out
}

// RenderError writes a visible error page with HTTP 502.
func RenderError(w http.ResponseWriter, petitionID string, cause error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	errorTemplate.Execute(w, struct {
		PetitionID string
		Message    string
		DefaultID  string
	}{petitionID, cause.Error(), petition.DefaultID})
}

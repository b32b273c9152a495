package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/petitionmap/internal/page"
	"github.com/ziadkadry99/petitionmap/internal/petition"
	"github.com/ziadkadry99/petitionmap/internal/ranking"
	"github.com/ziadkadry99/petitionmap/internal/scene"
	"github.com/ziadkadry99/petitionmap/internal/snapshot"
)

// maxDimension caps requested SVG sizes.
const maxDimension = 4000

func (s *Server) registerRoutes(r chi.Router) {
	r.Get("/", s.handlePage)
	r.Route("/api/petitions", func(r chi.Router) {
		r.Get("/", s.handleListing)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/map.svg", s.handleMapSVG)
			r.Get("/bars.svg", s.handleBarsSVG)
			r.Get("/ranking", s.handleRanking)
			r.Get("/constituencies/{code}", s.handleConstituency)
			r.Get("/history", s.handleHistory)
		})
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := petition.SelectedID(r.URL.RawQuery, s.cfg.DefaultPetition)
	st, err := s.store.Load(r.Context(), id)
	if err != nil {
		page.RenderError(w, id, err)
		return
	}
	sc, err := scene.Build(st.Geometry, st.Petition.Records(), s.cfg.Viewport, s.cfg.Ranking)
	if err != nil {
		page.RenderError(w, id, err)
		return
	}

	var buf bytes.Buffer
	if err := page.Render(&buf, page.View{PetitionID: id, Petition: st.Petition, Listing: st.Listing, Scene: sc}); err != nil {
		page.RenderError(w, id, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	st, err := s.store.Load(r.Context(), s.cfg.DefaultPetition)
	if err != nil {
		writeLoadError(w, err)
		return
	}
	if st.Listing == nil {
		writeError(w, http.StatusBadGateway, "petition listing unavailable")
		return
	}
	writeJSON(w, http.StatusOK, st.Listing)
}

func (s *Server) handleMapSVG(w http.ResponseWriter, r *http.Request) {
	vp := s.cfg.Viewport
	q := r.URL.Query()
	var err error
	if vp.Width, err = dimension(q.Get("width"), vp.Width); err != nil {
		writeError(w, http.StatusBadRequest, "invalid width")
		return
	}
	if vp.Height, err = dimension(q.Get("height"), vp.Height); err != nil {
		writeError(w, http.StatusBadRequest, "invalid height")
		return
	}
	s.writeSVG(w, r, vp, (*scene.Scene).WriteSVG)
}

func (s *Server) handleBarsSVG(w http.ResponseWriter, r *http.Request) {
	s.writeSVG(w, r, s.cfg.Viewport, (*scene.Scene).WriteBarsSVG)
}

func (s *Server) writeSVG(w http.ResponseWriter, r *http.Request, vp scene.Viewport, render func(*scene.Scene, io.Writer) error) {
	st, ok := s.state(w, r)
	if !ok {
		return
	}
	sc, err := scene.Build(st.Geometry, st.Petition.Records(), vp, s.cfg.Ranking)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, code := range splitCodes(r.URL.Query().Get("highlight")) {
		sc.Highlight(code)
	}

	var buf bytes.Buffer
	if err := render(sc, &buf); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	buf.WriteTo(w)
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	st, ok := s.state(w, r)
	if !ok {
		return
	}
	opts := s.cfg.Ranking
	if v := r.URL.Query().Get("k"); v != "" {
		k, err := strconv.Atoi(v)
		if err != nil || k <= 0 {
			writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		opts.K = k
	}
	writeJSON(w, http.StatusOK, st.Rank(opts))
}

func (s *Server) handleConstituency(w http.ResponseWriter, r *http.Request) {
	st, ok := s.state(w, r)
	if !ok {
		return
	}
	d, err := st.Lookup(chi.URLParam(r, "code"))
	if errors.Is(err, ranking.ErrUnknownConstituency) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	id := chi.URLParam(r, "id")
	if !petition.ValidID(id) {
		writeError(w, http.StatusBadRequest, petition.ErrInvalidID.Error())
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	recs, err := s.history.List(r.Context(), id, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if recs == nil {
		recs = []snapshot.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// state loads the petition named in the URL, writing the error response
// itself when that fails.
func (s *Server) state(w http.ResponseWriter, r *http.Request) (*snapshot.State, bool) {
	id := chi.URLParam(r, "id")
	if !petition.ValidID(id) {
		writeError(w, http.StatusBadRequest, petition.ErrInvalidID.Error())
		return nil, false
	}
	st, err := s.store.Load(r.Context(), id)
	if err != nil {
		writeLoadError(w, err)
		return nil, false
	}
	return st, true
}

func writeLoadError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, petition.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeError(w, status, err.Error())
}

func dimension(v string, fallback float64) (float64, error) {
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || f > maxDimension {
		return 0, errors.New("out of range")
	}
	return f, nil
}

func splitCodes(v string) []string {
	var out []string
	for _, c := range strings.Split(v, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

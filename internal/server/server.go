package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ziadkadry99/petitionmap/internal/ranking"
	"github.com/ziadkadry99/petitionmap/internal/scene"
	"github.com/ziadkadry99/petitionmap/internal/snapshot"
)

// Config holds server configuration.
type Config struct {
	Port            int
	AllowAll        bool // allow all CORS origins
	DefaultPetition string
	Viewport        scene.Viewport
	Ranking         ranking.Options
}

// Server serves the petition map page, its SVG fragments and JSON API.
type Server struct {
	cfg        Config
	store      *snapshot.Store
	history    *snapshot.History
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
}

// New creates a server reading petitions from store. history may be nil.
// Every successful load is recorded in history and pushed to websocket
// clients watching that petition.
func New(cfg Config, store *snapshot.Store, history *snapshot.History) *Server {
	s := &Server{
		cfg:     cfg,
		store:   store,
		history: history,
		hub:     NewHub(),
	}
	store.OnLoad(s.loaded)

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// The websocket is long-lived and stays outside the request timeout.
	r.Get("/ws", s.hub.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		s.registerRoutes(r)
	})

	return r
}

// loaded runs after every successful petition load or refresh.
func (s *Server) loaded(st *snapshot.State) {
	if s.history != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := s.history.Record(ctx, st); err != nil {
			slog.Error("recording petition snapshot", "petition", st.PetitionID, "error", err)
		}
	}
	n := s.hub.Broadcast(RefreshMessage(st))
	slog.Debug("petition loaded", "petition", st.PetitionID, "notified", n)
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub { return s.hub }

// Store returns the snapshot store.
func (s *Server) Store() *snapshot.Store { return s.store }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("petitionmap server listening", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and closes websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

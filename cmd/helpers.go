package cmd

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ziadkadry99/petitionmap/internal/config"
	"github.com/ziadkadry99/petitionmap/internal/logger"
	"github.com/ziadkadry99/petitionmap/internal/petition"
	"github.com/ziadkadry99/petitionmap/internal/ranking"
	"github.com/ziadkadry99/petitionmap/internal/scene"
	"github.com/ziadkadry99/petitionmap/internal/snapshot"
)

// loadConfig loads and validates the config, sets up logging and returns a
// user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `petitionmap init` to create a config file", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	logger.Setup(cfg.Log.Level, string(cfg.Log.Format))
	slog.Debug("config loaded", "path", cfgFile, "geometry", cfg.GeometryPath, "petition", cfg.DefaultPetition)
	return cfg, nil
}

// newSource builds the live data source described by cfg.
func newSource(cfg *config.Config) *snapshot.RemoteSource {
	hc := petition.NewRateLimitedClient(&http.Client{Timeout: cfg.HTTP.Timeout}, cfg.HTTP.RequestsPerMinute)
	client := petition.NewClient(petition.ClientConfig{
		BaseURL:    cfg.PetitionBaseURL,
		HTTPClient: hc,
		UserAgent:  cfg.HTTP.UserAgent,
	})
	return snapshot.NewRemoteSource(client, cfg.GeometryPath, hc)
}

// newStore builds a snapshot store over the live data source.
func newStore(cfg *config.Config) *snapshot.Store {
	return snapshot.NewStore(snapshot.NewLoader(newSource(cfg), cfg.ListingOptional))
}

func rankingOptions(cfg *config.Config) ranking.Options {
	return ranking.Options{K: cfg.SelectionSize, Dedupe: cfg.DedupeSelection}
}

func viewport(cfg *config.Config) scene.Viewport {
	v := cfg.Viewport
	return scene.Viewport{
		Width:     v.Width,
		Height:    v.Height,
		Margin:    v.Margin,
		BarWidth:  v.BarWidth,
		BarHeight: v.BarHeight,
	}
}

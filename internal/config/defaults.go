package config

import (
	"time"

	"github.com/ziadkadry99/petitionmap/internal/petition"
	"github.com/ziadkadry99/petitionmap/internal/ranking"
)

// DefaultGeometryPath is the constituency grid shipped alongside the binary.
const DefaultGeometryPath = "data/constituencies.hexjson"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		GeometryPath:    DefaultGeometryPath,
		PetitionBaseURL: petition.DefaultBaseURL,
		DefaultPetition: petition.DefaultID,
		SelectionSize:   ranking.DefaultK,
		ListingOptional: false,
		DedupeSelection: true,
		Viewport: ViewportConfig{
			Width:     580,
			Height:    580,
			Margin:    10,
			BarWidth:  340,
			BarHeight: 200,
		},
		Server: ServerConfig{
			Port:            8080,
			AllowAllOrigins: true,
		},
		Refresh: RefreshConfig{
			Enabled:  false,
			Interval: 5 * time.Minute,
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    ".petitionmap/history.db",
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         petition.DefaultUserAgent,
			RequestsPerMinute: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogText,
		},
	}
}

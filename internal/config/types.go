package config

import "time"

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

// Config is the top-level petitionmap configuration, corresponding to .petitionmap.yml.
type Config struct {
	GeometryPath    string         `yaml:"geometry_path" koanf:"geometry_path"`
	PetitionBaseURL string         `yaml:"petition_base_url" koanf:"petition_base_url"`
	DefaultPetition string         `yaml:"default_petition" koanf:"default_petition"`
	SelectionSize   int            `yaml:"selection_size" koanf:"selection_size"`
	ListingOptional bool           `yaml:"listing_optional" koanf:"listing_optional"`
	DedupeSelection bool           `yaml:"dedupe_selection" koanf:"dedupe_selection"`
	Viewport        ViewportConfig `yaml:"viewport" koanf:"viewport"`
	Server          ServerConfig   `yaml:"server" koanf:"server"`
	Refresh         RefreshConfig  `yaml:"refresh" koanf:"refresh"`
	History         HistoryConfig  `yaml:"history" koanf:"history"`
	HTTP            HTTPConfig     `yaml:"http" koanf:"http"`
	Log             LogConfig      `yaml:"log" koanf:"log"`
}

// ViewportConfig is the default render size in pixels.
type ViewportConfig struct {
	Width     float64 `yaml:"width" koanf:"width"`
	Height    float64 `yaml:"height" koanf:"height"`
	Margin    float64 `yaml:"margin" koanf:"margin"`
	BarWidth  float64 `yaml:"bar_width" koanf:"bar_width"`
	BarHeight float64 `yaml:"bar_height" koanf:"bar_height"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// RefreshConfig controls the background petition poller.
type RefreshConfig struct {
	Enabled  bool          `yaml:"enabled" koanf:"enabled"`
	Interval time.Duration `yaml:"interval" koanf:"interval"`
}

// HistoryConfig controls the sqlite snapshot history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Path    string `yaml:"path" koanf:"path"`
}

// HTTPConfig holds outbound fetch settings.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" koanf:"timeout"`
	UserAgent string        `yaml:"user_agent" koanf:"user_agent"`
	// RequestsPerMinute throttles outbound fetches; 0 disables throttling.
	RequestsPerMinute int `yaml:"requests_per_minute" koanf:"requests_per_minute"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}

package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Backend   BackendConfig   `toml:"backend"`
	Desktop   DesktopConfig   `toml:"desktop"`
	Poll      PollConfig      `toml:"poll"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration. ShellOrigins lists the
// origins the rendering shell is served from; empty admits any origin.
type ServerConfig struct {
	Port         string   `envconfig:"PORT" default:"9000" toml:"port"`
	Host         string   `envconfig:"HOST" default:"0.0.0.0" toml:"host"`
	ShellOrigins []string `envconfig:"SHELL_ORIGINS" toml:"shell_origins"`
}

// BackendConfig points at the opaque assistant/file/email/browser backend.
type BackendConfig struct {
	BaseURL string        `envconfig:"BACKEND_URL" default:"http://localhost:8000" toml:"base_url"`
	Timeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"30s" toml:"timeout"`
	// ChatTimeout is longer: streamed exchanges can run for minutes.
	ChatTimeout time.Duration `envconfig:"BACKEND_CHAT_TIMEOUT" default:"2m" toml:"chat_timeout"`
	RateLimit   float64       `envconfig:"BACKEND_RATE_LIMIT" default:"0" toml:"rate_limit"`
}

// DesktopConfig holds the desktop geometry constants. These are
// presentation details, not behavioral contract, so they live here rather
// than as literals in the window manager.
type DesktopConfig struct {
	ViewportWidth  int `envconfig:"DESKTOP_WIDTH" default:"1440" toml:"viewport_width"`
	ViewportHeight int `envconfig:"DESKTOP_HEIGHT" default:"900" toml:"viewport_height"`

	MenuBarHeight         int `envconfig:"DESKTOP_MENUBAR" default:"28" toml:"menu_bar_height"`
	DockHeight            int `envconfig:"DESKTOP_DOCK" default:"0" toml:"dock_height"`
	SidebarWidth          int `envconfig:"DESKTOP_SIDEBAR" default:"380" toml:"sidebar_width"`
	SidebarCollapsedWidth int `envconfig:"DESKTOP_SIDEBAR_COLLAPSED" default:"60" toml:"sidebar_collapsed_width"`

	DefaultWindowWidth  int `envconfig:"DESKTOP_WINDOW_WIDTH" default:"600" toml:"default_window_width"`
	DefaultWindowHeight int `envconfig:"DESKTOP_WINDOW_HEIGHT" default:"450" toml:"default_window_height"`
	MinWindowWidth      int `envconfig:"DESKTOP_WINDOW_MIN_WIDTH" default:"200" toml:"min_window_width"`
	MinWindowHeight     int `envconfig:"DESKTOP_WINDOW_MIN_HEIGHT" default:"150" toml:"min_window_height"`

	CascadeBase int `envconfig:"DESKTOP_CASCADE_BASE" default:"100" toml:"cascade_base"`
	CascadeStep int `envconfig:"DESKTOP_CASCADE_STEP" default:"50" toml:"cascade_step"`

	IconSize    int `envconfig:"DESKTOP_ICON_SIZE" default:"90" toml:"icon_size"`
	IconSpacing int `envconfig:"DESKTOP_ICON_SPACING" default:"100" toml:"icon_spacing"`
	IconOriginX int `envconfig:"DESKTOP_ICON_ORIGIN_X" default:"50" toml:"icon_origin_x"`
	IconOriginY int `envconfig:"DESKTOP_ICON_ORIGIN_Y" default:"50" toml:"icon_origin_y"`
}

// PollConfig holds timer intervals for the background loops.
type PollConfig struct {
	Notifications  time.Duration `envconfig:"POLL_NOTIFICATIONS" default:"10s" toml:"notifications"`
	Agent          time.Duration `envconfig:"POLL_AGENT" default:"2s" toml:"agent"`
	AgentRetry     time.Duration `envconfig:"POLL_AGENT_RETRY" default:"5s" toml:"agent_retry"`
	SyncPopup      time.Duration `envconfig:"POLL_SYNC_POPUP" default:"1s" toml:"sync_popup"`
	ResizeDebounce time.Duration `envconfig:"RESIZE_DEBOUNCE" default:"250ms" toml:"resize_debounce"`
	FanOutDelay    time.Duration `envconfig:"FANOUT_DELAY" default:"500ms" toml:"fanout_delay"`
	FanOutStagger  time.Duration `envconfig:"FANOUT_STAGGER" default:"300ms" toml:"fanout_stagger"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration for the API surface.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`
}

// Load loads configuration from environment variables, then applies the
// TOML overlay named by DESKTOP_CONFIG when present.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if path := os.Getenv("DESKTOP_CONFIG"); path != "" {
		if err := cfg.ApplyFile(path); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration or falls back to defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ApplyFile overlays a TOML config file onto the current values. Only keys
// present in the file are changed.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// EffectiveSidebarWidth returns the sidebar band to exclude from the
// desktop area for the given collapse state.
func (d DesktopConfig) EffectiveSidebarWidth(collapsed bool) int {
	if collapsed {
		return d.SidebarCollapsedWidth
	}
	return d.SidebarWidth
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "9000", Host: "0.0.0.0"},
		Backend: BackendConfig{
			BaseURL:     "http://localhost:8000",
			Timeout:     30 * time.Second,
			ChatTimeout: 2 * time.Minute,
		},
		Desktop: DesktopConfig{
			ViewportWidth:         1440,
			ViewportHeight:        900,
			MenuBarHeight:         28,
			SidebarWidth:          380,
			SidebarCollapsedWidth: 60,
			DefaultWindowWidth:    600,
			DefaultWindowHeight:   450,
			MinWindowWidth:        200,
			MinWindowHeight:       150,
			CascadeBase:           100,
			CascadeStep:           50,
			IconSize:              90,
			IconSpacing:           100,
			IconOriginX:           50,
			IconOriginY:           50,
		},
		Poll: PollConfig{
			Notifications:  10 * time.Second,
			Agent:          2 * time.Second,
			AgentRetry:     5 * time.Second,
			SyncPopup:      time.Second,
			ResizeDebounce: 250 * time.Millisecond,
			FanOutDelay:    500 * time.Millisecond,
			FanOutStagger:  300 * time.Millisecond,
		},
		Logging:   LogConfig{Level: "info", Development: false},
		RateLimit: RateLimitConfig{RequestsPerSecond: 100, Burst: 200, Enabled: true},
	}
}

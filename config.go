package hws

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/eringen/hws/dom"
)

// EnvPrefix is the prefix of environment variables that override the config
// file. Nested keys use a double underscore: HWS_LOG__LEVEL sets log.level.
const EnvPrefix = "HWS_"

// SiteConfig holds all configuration for an hws site.
type SiteConfig struct {
	Name        string `yaml:"name" koanf:"name"`               // Site name (default "How We Screen")
	URL         string `yaml:"url" koanf:"url"`                 // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description" koanf:"description"` // Meta description for the sitemap and robots

	Addr         string `yaml:"addr" koanf:"addr"`                   // Listen address (default ":3000")
	DatabasePath string `yaml:"database_path" koanf:"database_path"` // SQLite path (default "data/hws.db")

	// PagePath points at a page markup file on disk. When empty the
	// embedded page is served.
	PagePath  string `yaml:"page_path" koanf:"page_path"`
	WatchPage bool   `yaml:"watch_page" koanf:"watch_page"` // Reload PagePath when it changes

	// PasswordHash is the lowercase hex SHA-256 digest of the editor
	// password. Generate it with "hws hash-password".
	PasswordHash  string `yaml:"password_hash" koanf:"password_hash"`
	SessionSecret string `yaml:"session_secret" koanf:"session_secret"`
	CookieSecure  bool   `yaml:"cookie_secure" koanf:"cookie_secure"`

	PageCacheTTL  time.Duration `yaml:"page_cache_ttl" koanf:"page_cache_ttl"` // default 5m
	SaveDelay     time.Duration `yaml:"save_delay" koanf:"save_delay"`         // default 300ms
	RestoreWindow time.Duration `yaml:"restore_window" koanf:"restore_window"` // default 10s
	HistoryDepth  int           `yaml:"history_depth" koanf:"history_depth"`   // default 50

	NewsletterURL     string        `yaml:"newsletter_url" koanf:"newsletter_url"`         // Subscription endpoint; empty disables the forms
	NewsletterTimeout time.Duration `yaml:"newsletter_timeout" koanf:"newsletter_timeout"` // default 10s

	Log LogConfig `yaml:"log" koanf:"log"`
}

// LogConfig controls NewLogger.
type LogConfig struct {
	Level     string `yaml:"level" koanf:"level"`   // debug|info|warn|error (default info)
	Format    string `yaml:"format" koanf:"format"` // console|json (default console)
	AddSource bool   `yaml:"add_source" koanf:"add_source"`
	File      string `yaml:"file" koanf:"file"` // optional rotated JSON log file
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "How We Screen"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/hws.db"
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = 5 * time.Minute
	}
	if c.SaveDelay == 0 {
		c.SaveDelay = 300 * time.Millisecond
	}
	if c.RestoreWindow == 0 {
		c.RestoreWindow = 10 * time.Second
	}
	if c.HistoryDepth == 0 {
		c.HistoryDepth = 50
	}
	if c.NewsletterTimeout == 0 {
		c.NewsletterTimeout = 10 * time.Second
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// LoadConfig reads the YAML file at path, when it exists, then overlays
// HWS_* environment variables and fills in defaults.
func LoadConfig(path string) (SiteConfig, error) {
	k := koanf.New(".")
	var cfg SiteConfig

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, fmt.Errorf("hws: read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, fmt.Errorf("hws: access config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return cfg, fmt.Errorf("hws: load env overrides: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("hws: unmarshal config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// envKey maps HWS_PAGE_CACHE_TTL to page_cache_ttl and HWS_LOG__LEVEL to
// log.level.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithMarkup serves markup instead of the embedded page.
func WithMarkup(markup *dom.Document) Option {
	return func(a *App) {
		a.markup = markup
	}
}

// WithLogger replaces the logger built from SiteConfig.Log.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

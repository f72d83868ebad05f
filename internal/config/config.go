package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	appLog "campuscal/internal/log"
	"campuscal/internal/model"
)

const (
	defaultListen        = "127.0.0.1:8080"
	defaultTimezone      = "Asia/Seoul"
	defaultWeekStart     = "monday"
	defaultRefreshCron   = "*/30 * * * *"
	defaultHorizonMonths = 2
	defaultPaletteSize   = 12
	defaultCacheDir      = "./var/feed-cache"
)

// FeedConfig describes one subscribed institutional ICS feed.
type FeedConfig struct {
	// ID is an internal identifier used for event IDs and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label shown in the UI.
	Name string `yaml:"name" json:"name"`
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// Color is the palette index every event of this feed gets.
	Color int `yaml:"color" json:"color"`
}

// PersonalEventConfig is a student-entered event kept in the config file.
type PersonalEventConfig struct {
	ID    int64      `yaml:"id" json:"id"`
	Title string     `yaml:"title" json:"title"`
	Short string     `yaml:"short,omitempty" json:"short,omitempty"`
	Long  string     `yaml:"long,omitempty" json:"long,omitempty"`
	Start model.Date `yaml:"start" json:"start"`
	End   model.Date `yaml:"end" json:"end"`
	Color int        `yaml:"color" json:"color"`
	// Kind is "personal" (default) or "hidden".
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"`
	// Visible defaults to true when omitted.
	Visible *bool `yaml:"visible,omitempty" json:"visible,omitempty"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone feed events are normalized into.
	Timezone string `yaml:"timezone" json:"timezone"`

	// WeekStart is the first grid column: "monday" (default) or "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// RefreshCron is a cron-style schedule for re-fetching feeds.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// HorizonMonths is how many months before and after the current one
	// feed recurrences are expanded for.
	HorizonMonths int `yaml:"horizon_months" json:"horizon_months"`

	// PaletteSize is the number of theme colors color indices wrap into.
	PaletteSize int `yaml:"palette_size" json:"palette_size"`

	// LogLevel is DEBUG, INFO or ERROR.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// CacheDir holds per-feed HTTP caches.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	Feeds    []FeedConfig          `yaml:"feeds" json:"feeds"`
	Personal []PersonalEventConfig `yaml:"personal" json:"personal"`

	// BasicAuth, if non-nil, guards every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:        defaultListen,
		Timezone:      defaultTimezone,
		WeekStart:     defaultWeekStart,
		RefreshCron:   defaultRefreshCron,
		HorizonMonths: defaultHorizonMonths,
		PaletteSize:   defaultPaletteSize,
		LogLevel:      string(appLog.LevelInfo),
		CacheDir:      defaultCacheDir,
		Feeds:         []FeedConfig{},
		Personal:      []PersonalEventConfig{},
	}
}

// Normalize fills in missing/zero values with defaults so partially
// filled configs still behave.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		// Unknown value; fall back to monday to avoid surprising layouts.
		c.WeekStart = defaultWeekStart
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.HorizonMonths <= 0 {
		c.HorizonMonths = defaultHorizonMonths
	}
	if c.PaletteSize <= 0 {
		c.PaletteSize = defaultPaletteSize
	}
	c.LogLevel = string(appLog.ParseLevel(c.LogLevel))
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	if c.Feeds == nil {
		c.Feeds = []FeedConfig{}
	}
	for i := range c.Feeds {
		if c.Feeds[i].ID == "" {
			if c.Feeds[i].Name != "" {
				c.Feeds[i].ID = c.Feeds[i].Name
			} else {
				c.Feeds[i].ID = c.Feeds[i].URL
			}
		}
	}
	if c.Personal == nil {
		c.Personal = []PersonalEventConfig{}
	}
	for i := range c.Personal {
		if c.Personal[i].End == (model.Date{}) {
			c.Personal[i].End = c.Personal[i].Start
		}
	}
}

// WeekStartDay returns the configured first weekday of the grid.
func (c *Config) WeekStartDay() time.Weekday {
	if c.WeekStart == "sunday" {
		return time.Sunday
	}
	return time.Monday
}

// Location resolves Timezone, falling back to time.Local.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", c.Timezone)
		return time.Local
	}
	return loc
}

// PersonalEvents converts the configured personal events into validated
// model events. IDs must be unique.
func (c *Config) PersonalEvents() ([]model.Event, error) {
	out := make([]model.Event, 0, len(c.Personal))
	seen := make(map[int64]bool, len(c.Personal))
	for _, p := range c.Personal {
		if seen[p.ID] {
			return nil, fmt.Errorf("personal event %d: duplicate id", p.ID)
		}
		seen[p.ID] = true

		kind, err := model.ParseKind(p.Kind)
		if err != nil {
			return nil, fmt.Errorf("personal event %d: %w", p.ID, err)
		}
		if kind == model.KindSubscribed {
			return nil, fmt.Errorf("personal event %d: kind %q is reserved for feeds", p.ID, p.Kind)
		}
		end := p.End
		if end == (model.Date{}) {
			end = p.Start
		}
		ev := model.Event{
			ID:               p.ID,
			Title:            p.Title,
			ShortDescription: p.Short,
			LongDescription:  p.Long,
			Start:            p.Start,
			End:              end,
			ColorIndex:       p.Color,
			Kind:             kind,
			Visible:          p.Visible == nil || *p.Visible,
		}
		if err := ev.Validate(); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// Load reads and normalizes the YAML config at path. A missing file is
// replaced by DefaultConfig, written with 0600 permissions.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			// The defaults are usable even when the write fails.
			return cfg, Save(path, cfg)
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg to path atomically via a temp file + rename, leaving the
// final file with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".campuscal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

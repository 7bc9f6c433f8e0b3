// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/forecastbot/pkg/pipeline"
)

// Presets name the capture frames a target can use.
const (
	PresetLandscape = "landscape"
	PresetPortrait  = "portrait"
)

// Engines name the browser automation backends.
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
)

// Target names, also used as artifact prefixes.
const (
	TargetTwitter  = "twitter"
	TargetTelegram = "telegram"
	TargetFacebook = "facebook"
)

// Env names of the target switches.
const (
	EnvEnableTwitter  = "ENABLE_TWITTER"
	EnvEnableTelegram = "ENABLE_TELEGRAM"
	EnvEnableFacebook = "ENABLE_FACEBOOK"
)

// Config represents the full configuration for forecastbot.
type Config struct {
	// Browser
	Engine            string        `yaml:"engine"`
	ChromePath        string        `yaml:"chrome_path"`
	AutoInstall       bool          `yaml:"auto_install"`
	Headless          bool          `yaml:"headless"`
	UserAgent         string        `yaml:"user_agent"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	SettleTimeout     time.Duration `yaml:"settle_timeout"`

	Fonts FontsConfig `yaml:"fonts"`

	// Captions render dates in this location; empty means local time.
	Timezone string `yaml:"timezone"`

	Twitter  TargetConfig `yaml:"twitter"`
	Telegram TargetConfig `yaml:"telegram"`
	Facebook TargetConfig `yaml:"facebook"`
	Story    StoryConfig  `yaml:"story"`

	// Debug
	Debug       bool   `yaml:"debug"`
	DebugDir    string `yaml:"debug_dir"`
	SummaryPath string `yaml:"summary_path"`
}

// TargetConfig configures one publishing destination.
type TargetConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Preset      string `yaml:"preset"`
	URL         string `yaml:"url"`
	FallbackURL string `yaml:"fallback_url"`
	Site        string `yaml:"site"`
	Caption     string `yaml:"caption"` // text/template with .Date and .Site
	Fit         *bool  `yaml:"fit"`     // caption fitting pass; off when unset
}

// FitEnabled reports whether the caption fitting pass runs for this target.
func (t TargetConfig) FitEnabled() bool {
	return t.Fit != nil && *t.Fit
}

// FontsConfig configures the injected CJK web font.
type FontsConfig struct {
	StylesheetURL string `yaml:"stylesheet_url"`
	FontStack     string `yaml:"font_stack"`
	SampleText    string `yaml:"sample_text"`
}

// StoryConfig configures the story frame posted after the Facebook feed post.
type StoryConfig struct {
	Enabled   bool   `yaml:"enabled"`
	LogoPath  string `yaml:"logo_path"`
	BrandName string `yaml:"brand_name"`
	CTAMain   string `yaml:"cta_main"`
	CTASub    string `yaml:"cta_sub"`
	TapText   string `yaml:"tap_text"`
	FontPath  string `yaml:"font_path"` // used when the story is drawn without a browser
}

const (
	siteIO  = "bazigpt.io"
	siteXYZ = "bazigpt.xyz"
)

// Default share card endpoints per target and preset.
var defaultURLs = map[string]map[string][2]string{
	TargetTwitter: {
		PresetLandscape: {"https://bazigpt.xyz/api/daily-share-card-png", ""},
		PresetPortrait:  {"https://bazigpt.xyz/api/daily-share-card-portrait", "https://bazigpt.xyz/api/daily-share-card"},
	},
	TargetTelegram: {
		PresetLandscape: {"https://bazigpt.io/api/daily-share-card-png", ""},
		PresetPortrait:  {"https://bazigpt.io/api/daily-share-card-portrait", "https://bazigpt.io/api/daily-share-card"},
	},
	TargetFacebook: {
		PresetLandscape: {"https://bazigpt.io/api/daily-share-card-png", ""},
		PresetPortrait:  {"https://bazigpt.io/api/daily-share-card-portrait", "https://bazigpt.io/api/daily-share-card"},
	},
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Browser
		Engine:            EngineChromedp,
		Headless:          true,
		NavigationTimeout: 30 * time.Second,
		SettleTimeout:     5 * time.Second,

		Twitter: TargetConfig{
			Enabled: true,
			Preset:  PresetLandscape,
			Site:    siteXYZ,
			Fit:     boolPtr(true),
			Caption: "🗓️ Daily Bazi Forecast – {{.Date}}\n\nCheck your chart → {{.Site}}\n\n#Bazi #ChineseAstrology #BaziGPT",
		},
		Telegram: TargetConfig{
			Enabled: true,
			Preset:  PresetPortrait,
			Site:    siteIO,
			Caption: "🗓️ Daily Bazi Forecast – {{.Date}}\n\nUnlock your exclusive Bazi forecast, today’s guidance is only available for a limited time! → {{.Site}}/daily\n\n#Bazi #ChineseAstrology #BaziGPT",
		},
		Facebook: TargetConfig{
			Enabled: false,
			Preset:  PresetPortrait,
			Site:    siteIO,
			Caption: "🗓️ Daily Bazi Forecast – {{.Date}}\n\nUnlock your exclusive Bazi forecast, today's guidance is only available for a limited time! → {{.Site}}/daily\n\n#Bazi #ChineseAstrology #BaziGPT #DailyForecast",
		},
		Story: StoryConfig{
			Enabled:  true,
			LogoPath: "public/bazigpt.png",
		},

		// Debug
		DebugDir: "./debug",
	}
}

func boolPtr(b bool) *bool { return &b }

// LoadFromFile loads configuration from a YAML file layered over Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", pipeline.ErrConfig, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", pipeline.ErrConfig, path, err)
	}

	return cfg, nil
}

// Load reads path when given, otherwise returns Defaults, then applies
// environment overrides from lookup and fills derived values.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Defaults()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv(lookup)
	cfg.ResolveURLs()
	return cfg, nil
}

// ApplyEnv applies the ENABLE_* switches. Twitter and Telegram stay enabled
// unless the variable is "false"; Facebook is enabled only by "true".
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(EnvEnableTwitter); ok {
		c.Twitter.Enabled = !isFalse(v)
	}
	if v, ok := lookup(EnvEnableTelegram); ok {
		c.Telegram.Enabled = !isFalse(v)
	}
	if v, ok := lookup(EnvEnableFacebook); ok {
		c.Facebook.Enabled = isTrue(v)
	}
}

func isFalse(v string) bool { return strings.EqualFold(strings.TrimSpace(v), "false") }
func isTrue(v string) bool  { return strings.EqualFold(strings.TrimSpace(v), "true") }

// ResolveURLs fills empty share card URLs from the preset defaults.
func (c *Config) ResolveURLs() {
	for name, t := range c.targets() {
		defaults, ok := defaultURLs[name][t.Preset]
		if !ok || t.URL != "" {
			continue
		}
		t.URL = defaults[0]
		if t.FallbackURL == "" {
			t.FallbackURL = defaults[1]
		}
	}
}

func (c *Config) targets() map[string]*TargetConfig {
	return map[string]*TargetConfig{
		TargetTwitter:  &c.Twitter,
		TargetTelegram: &c.Telegram,
		TargetFacebook: &c.Facebook,
	}
}

// Target returns the named target configuration.
func (c *Config) Target(name string) (TargetConfig, bool) {
	t, ok := c.targets()[name]
	if !ok {
		return TargetConfig{}, false
	}
	return *t, true
}

// EnabledTargets lists enabled target names in run order.
func (c Config) EnabledTargets() []string {
	var names []string
	for _, name := range TargetNames() {
		if t, _ := c.Target(name); t.Enabled {
			names = append(names, name)
		}
	}
	return names
}

// TargetNames lists every target in run order.
func TargetNames() []string {
	return []string{TargetTwitter, TargetTelegram, TargetFacebook}
}

// Location returns the caption time zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate checks the configuration before any browser or network work.
// Every problem is reported.
func (c Config) Validate() error {
	var errs []error

	switch c.Engine {
	case EngineChromedp, EngineRod:
	default:
		errs = append(errs, fmt.Errorf("engine must be %q or %q, got %q", EngineChromedp, EngineRod, c.Engine))
	}
	if c.NavigationTimeout <= 0 {
		errs = append(errs, errors.New("navigation_timeout must be positive"))
	}
	if c.SettleTimeout < 0 {
		errs = append(errs, errors.New("settle_timeout must not be negative"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %v", err))
	}

	for _, name := range TargetNames() {
		t, _ := c.Target(name)
		if !t.Enabled {
			continue
		}
		if err := t.validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %v", pipeline.ErrConfig, errors.Join(errs...))
	}
	return nil
}

func (t TargetConfig) validate() error {
	var errs []error
	if t.Preset != PresetLandscape && t.Preset != PresetPortrait {
		errs = append(errs, fmt.Errorf("preset must be %q or %q, got %q", PresetLandscape, PresetPortrait, t.Preset))
	}
	if err := validateURL(t.URL); err != nil {
		errs = append(errs, fmt.Errorf("url: %v", err))
	}
	if t.FallbackURL != "" {
		if err := validateURL(t.FallbackURL); err != nil {
			errs = append(errs, fmt.Errorf("fallback_url: %v", err))
		}
	}
	if _, err := template.New("caption").Parse(t.Caption); err != nil {
		errs = append(errs, fmt.Errorf("caption: %v", err))
	}
	return errors.Join(errs...)
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "file" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

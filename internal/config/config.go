package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"tickerbar/internal/dock"
)

// Helper modes
const (
	HelperAuto   = "auto"   // use the helper when the executable exists
	HelperAlways = "always" // always try the helper, even if Probe fails
	HelperNever  = "never"  // geometry fallback only
)

const (
	DefaultOpacity       = 0.9
	DefaultTickerSpeed   = 60.0
	DefaultTickerText    = "tickerbar | docked and scrolling"
	DefaultHelperTimeout = 2 * time.Second
	DefaultHistoryKeep   = 500

	configFileName  = "config.yaml"
	historyFileName = "history.db"
	appDirName      = "tickerbar"
	titledDirName   = "TickerBar"
)

// Config holds all application settings
type Config struct {
	Position         string        `yaml:"position"`
	BarSize          int           `yaml:"bar_size"`
	RememberSettings bool          `yaml:"remember_settings"`
	Opacity          float64       `yaml:"opacity"`
	Ticker           TickerConfig  `yaml:"ticker"`
	Helper           HelperConfig  `yaml:"helper"`
	History          HistoryConfig `yaml:"history"`

	path string
}

// TickerConfig controls the scrolling label
type TickerConfig struct {
	Text  string  `yaml:"text"`
	Speed float64 `yaml:"speed"` // pixels per second
}

// HelperConfig controls the AppBar helper executable
type HelperConfig struct {
	Mode    string        `yaml:"mode"`
	Path    string        `yaml:"path,omitempty"`
	Timeout time.Duration `yaml:"timeout"`
}

// HistoryConfig controls the placement history database
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
	Keep    int    `yaml:"keep"`
}

// mu serializes file writes
var mu sync.Mutex

// Default returns the default configuration
func Default() *Config {
	s := dock.DefaultSettings()
	return &Config{
		Position: string(s.Position),
		BarSize:  s.BarSize,
		Opacity:  DefaultOpacity,
		Ticker: TickerConfig{
			Text:  DefaultTickerText,
			Speed: DefaultTickerSpeed,
		},
		Helper: HelperConfig{
			Mode:    HelperAuto,
			Timeout: DefaultHelperTimeout,
		},
		History: HistoryConfig{
			Enabled: true,
			Keep:    DefaultHistoryKeep,
		},
	}
}

// DefaultPath returns the path to the config file.
// Uses platform-appropriate directories:
//   - Windows: %APPDATA%\TickerBar\config.yaml
//   - macOS:   ~/Library/Application Support/TickerBar/config.yaml
//   - Linux:   ~/.config/tickerbar/config.yaml (XDG_CONFIG_HOME)
func DefaultPath() (string, error) {
	var dir string

	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		dir = filepath.Join(appData, titledDirName)

	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, "Library", "Application Support", titledDirName)

	default: // linux and others
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			configHome = filepath.Join(home, ".config")
		}
		dir = filepath.Join(configHome, appDirName)
	}

	return filepath.Join(dir, configFileName), nil
}

// Load reads the config at path, or at DefaultPath when path is empty.
// A missing file yields defaults. Invalid values are replaced by their
// defaults and logged; only unreadable or unparsable files are errors.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = p
	}

	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for _, problem := range cfg.normalize() {
		log.Printf("Config %s: %s", path, problem)
	}
	return cfg, nil
}

// normalize replaces invalid values with defaults and describes each fix
func (c *Config) normalize() []string {
	def := Default()
	var fixes []string

	if e, err := dock.ParseEdge(c.Position); err != nil {
		fixes = append(fixes, fmt.Sprintf("position %q is not top, bottom, left or right; using %s", c.Position, def.Position))
		c.Position = def.Position
	} else {
		c.Position = string(e)
	}
	if !dock.ValidBarSize(c.BarSize) {
		fixes = append(fixes, fmt.Sprintf("bar_size %d out of range; using %d", c.BarSize, def.BarSize))
		c.BarSize = def.BarSize
	}
	if c.Opacity <= 0 || c.Opacity > 1 {
		fixes = append(fixes, fmt.Sprintf("opacity %.2f out of range; using %.2f", c.Opacity, def.Opacity))
		c.Opacity = def.Opacity
	}
	if c.Ticker.Speed <= 0 {
		fixes = append(fixes, fmt.Sprintf("ticker.speed %.1f must be positive; using %.1f", c.Ticker.Speed, def.Ticker.Speed))
		c.Ticker.Speed = def.Ticker.Speed
	}

	c.Helper.Mode = strings.ToLower(strings.TrimSpace(c.Helper.Mode))
	switch c.Helper.Mode {
	case HelperAuto, HelperAlways, HelperNever:
	case "":
		c.Helper.Mode = def.Helper.Mode
	default:
		fixes = append(fixes, fmt.Sprintf("helper.mode %q unknown; using %s", c.Helper.Mode, def.Helper.Mode))
		c.Helper.Mode = def.Helper.Mode
	}
	if c.Helper.Timeout < 0 {
		fixes = append(fixes, fmt.Sprintf("helper.timeout %s is negative; using %s", c.Helper.Timeout, def.Helper.Timeout))
		c.Helper.Timeout = def.Helper.Timeout
	}
	if c.History.Keep <= 0 {
		fixes = append(fixes, fmt.Sprintf("history.keep %d must be positive; using %d", c.History.Keep, def.History.Keep))
		c.History.Keep = def.History.Keep
	}
	return fixes
}

// Path returns the file this config was loaded from and saves to
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes
func (c *Config) SetPath(path string) {
	c.path = path
}

// Save writes the config to disk
func (c *Config) Save() error {
	mu.Lock()
	defer mu.Unlock()

	if c.path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		c.path = p
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0600)
}

// Settings returns the dock settings the config starts the bar with
func (c *Config) Settings() dock.Settings {
	s, rejected := dock.DefaultSettings().Merge(dock.Patch{
		Position: &c.Position,
		BarSize:  &c.BarSize,
	})
	for _, err := range rejected {
		log.Printf("Config setting ignored: %v", err)
	}
	return s
}

// SetSettings records applied dock settings for the next launch
func (c *Config) SetSettings(s dock.Settings) {
	c.Position = string(s.Position)
	c.BarSize = s.BarSize
}

// SaveSettings writes s into the config file at path. Every other field is
// kept as it is on disk, so in-memory overrides such as command-line flags
// never end up in the file.
func SaveSettings(path string, s dock.Settings) error {
	onDisk, err := Load(path)
	if err != nil {
		return err
	}
	onDisk.SetSettings(s)
	return onDisk.Save()
}

// HistoryPath returns history.path, defaulting to history.db beside the
// config file.
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	dir := "."
	if c.path != "" {
		dir = filepath.Dir(c.path)
	}
	return filepath.Join(dir, historyFileName)
}

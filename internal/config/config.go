package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the per-directory config file looked up before the user config
const FileName = ".tocview.toml"

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Outline OutlineSettings `toml:"outline"`
	HTML    HTMLSettings    `toml:"html"`
	Reader  ReaderSettings  `toml:"reader"`
}

// OutlineSettings controls the scroll-synchronized outline
type OutlineSettings struct {
	Visible         bool   `toml:"visible"`
	Side            string `toml:"side"`             // "left" or "right"
	Width           int    `toml:"width"`            // panel width in cells
	ReferenceOffset int    `toml:"reference_offset"` // lines below the viewport top
	SuspendWindowMS int    `toml:"suspend_window_ms"`
	ScrollMS        int    `toml:"scroll_ms"` // smooth scroll duration
	PauseWhenHidden bool   `toml:"pause_when_hidden"`
}

// HTMLSettings controls how HTML documents are read
type HTMLSettings struct {
	ContentSelector string `toml:"content_selector"`
}

// ReaderSettings controls the document pane
type ReaderSettings struct {
	WrapWidth        int  `toml:"wrap_width"` // 0 wraps to the pane width
	RememberPosition bool `toml:"remember_position"`
	ShowProgress     bool `toml:"show_progress"`
}

// SuspendWindow returns the outline suspension window
func (o OutlineSettings) SuspendWindow() time.Duration {
	return time.Duration(o.SuspendWindowMS) * time.Millisecond
}

// ScrollDuration returns the smooth scroll duration
func (o OutlineSettings) ScrollDuration() time.Duration {
	return time.Duration(o.ScrollMS) * time.Millisecond
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service backed by the user config dir
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "tocview", "config.toml"),
	}
}

// NewConfigServiceAt creates a config service bound to a specific file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

// Path returns the file the service loads from and saves to
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so missing keys keep sane values
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.normalize()

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Resolve picks the config file for a working directory: a local
// .tocview.toml wins over the user config
func Resolve(workDir string) ConfigService {
	local := filepath.Join(workDir, FileName)
	if _, err := os.Stat(local); err == nil {
		return NewConfigServiceAt(local)
	}
	return NewConfigService()
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Outline: OutlineSettings{
			Visible:         true,
			Side:            "right",
			Width:           32,
			ReferenceOffset: 3,
			SuspendWindowMS: 1000,
			ScrollMS:        300,
			PauseWhenHidden: false,
		},
		HTML: HTMLSettings{
			ContentSelector: "",
		},
		Reader: ReaderSettings{
			WrapWidth:        0,
			RememberPosition: true,
			ShowProgress:     true,
		},
	}
}

// normalize clamps values a hand-edited file may get wrong
func (c *Config) normalize() {
	d := DefaultConfig()
	if c.Version == 0 {
		c.Version = d.Version
	}
	if c.Outline.Side != "left" && c.Outline.Side != "right" {
		c.Outline.Side = d.Outline.Side
	}
	if c.Outline.Width < 12 {
		c.Outline.Width = 12
	}
	if c.Outline.ReferenceOffset < 0 {
		c.Outline.ReferenceOffset = 0
	}
	if c.Outline.ScrollMS < 0 {
		c.Outline.ScrollMS = 0
	}
	// The suspension window must cover the scroll animation
	if c.Outline.SuspendWindowMS < c.Outline.ScrollMS {
		c.Outline.SuspendWindowMS = c.Outline.ScrollMS
	}
	if c.Reader.WrapWidth < 0 {
		c.Reader.WrapWidth = 0
	}
}

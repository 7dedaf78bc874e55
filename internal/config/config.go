package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"markview/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version         int        `toml:"version"`
	BaseDir         string     `toml:"base_dir"`
	IncludePatterns []string   `toml:"include_patterns"` // glob patterns matched against base names
	DebounceMS      int        `toml:"debounce_ms"`      // reload debounce for file-change events
	UISettings      UISettings `toml:"ui"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	WrapWidth  int  `toml:"wrap_width"` // max document column width, 0 = pane width
	AutoReload bool `toml:"auto_reload"`
	ShowHidden bool `toml:"show_hidden"`
}

// Service handles configuration management
type Service interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// service is the concrete implementation
type service struct {
	bus      eventbus.EventBus
	filePath string
}

// NewService creates a new config service
func NewService() Service {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	markviewDir := filepath.Join(configDir, "markview")
	os.MkdirAll(markviewDir, 0755)

	return &service{
		filePath: filepath.Join(markviewDir, "config.toml"),
	}
}

// NewServiceWithBus creates a config service that announces loads and
// saves on the event bus
func NewServiceWithBus(bus eventbus.EventBus) Service {
	s := NewService().(*service)
	s.bus = bus
	return s
}

// DefaultConfig returns the configuration used when none exists on disk
func DefaultConfig() *Config {
	return &Config{
		Version:         1,
		IncludePatterns: []string{"*.md", "*.markdown", "*.mdown"},
		DebounceMS:      400,
		UISettings: UISettings{
			WrapWidth:  100,
			AutoReload: true,
			ShowHidden: false,
		},
	}
}

// Load reads the configuration from the default location
func (s *service) Load() (*Config, error) {
	return s.LoadFromPath(s.filePath)
}

// Save writes the configuration to the default location
func (s *service) Save(config *Config) error {
	return s.SaveToPath(config, s.filePath)
}

// LoadFromPath reads configuration from a specific path
func (s *service) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.announceLoaded(path)
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.IncludePatterns) == 0 {
		cfg.IncludePatterns = DefaultConfig().IncludePatterns
	}
	s.announceLoaded(path)
	return cfg, nil
}

// SaveToPath writes configuration to a specific path
func (s *service) SaveToPath(config *Config, path string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return err
	}
	if s.bus != nil {
		s.bus.Publish(eventbus.ConfigSavedEvent{Path: path})
	}
	return nil
}

func (s *service) announceLoaded(path string) {
	if s.bus != nil {
		s.bus.Publish(eventbus.ConfigLoadedEvent{Path: path})
	}
}

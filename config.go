package term

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/term/atlas"
)

// Config holds the terminal's startup settings. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Shell is the program to run. Empty means $SHELL, falling back
	// to /bin/sh.
	Shell string `yaml:"shell"`

	// FontPath is the TTF/OTF file to load. Empty is allowed when the
	// caller provides font data directly.
	FontPath string `yaml:"font_path"`

	// FontSize is the glyph pixel size.
	FontSize int `yaml:"font_size"`

	// Cols, Rows are the initial grid dimensions.
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`

	// AtlasSize and AtlasMaxSize bound the glyph atlas texture;
	// AtlasCapacity bounds the number of cached glyphs.
	AtlasSize     int `yaml:"atlas_size"`
	AtlasMaxSize  int `yaml:"atlas_max_size"`
	AtlasCapacity int `yaml:"atlas_capacity"`
}

// ConfigError reports an invalid configuration field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("term: invalid config %s: %s", e.Field, e.Reason)
}

// DefaultConfig returns the settings used when nothing is configured:
// an 80x24 grid at 16px with the default atlas bounds.
func DefaultConfig() Config {
	a := atlas.DefaultConfig()
	return Config{
		FontSize:      16,
		Cols:          80,
		Rows:          24,
		AtlasSize:     a.InitialSize,
		AtlasMaxSize:  a.MaxSize,
		AtlasCapacity: a.Capacity,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("term: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("term: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration, returning a *ConfigError naming
// the first offending field.
func (c Config) Validate() error {
	if c.FontSize <= 0 {
		return &ConfigError{Field: "FontSize", Reason: "must be positive"}
	}
	if c.Cols <= 0 || c.Rows <= 0 {
		return &ConfigError{Field: "Cols", Reason: "grid dimensions must be positive"}
	}
	if err := c.AtlasConfig().Validate(); err != nil {
		return fmt.Errorf("term: %w", err)
	}
	return nil
}

// AtlasConfig translates the atlas settings into an atlas.Config.
func (c Config) AtlasConfig() atlas.Config {
	a := atlas.DefaultConfig()
	if c.AtlasSize > 0 {
		a.InitialSize = c.AtlasSize
	}
	if c.AtlasMaxSize > 0 {
		a.MaxSize = c.AtlasMaxSize
	}
	if c.AtlasCapacity > 0 {
		a.Capacity = c.AtlasCapacity
	}
	return a
}

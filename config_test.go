package term

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(*Config)
		field string
	}{
		{"zero font size", func(c *Config) { c.FontSize = 0 }, "FontSize"},
		{"zero cols", func(c *Config) { c.Cols = 0 }, "Cols"},
		{"negative rows", func(c *Config) { c.Rows = -1 }, "Cols"},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		tt.mut(&cfg)
		err := cfg.Validate()
		var ce *ConfigError
		if !errors.As(err, &ce) || ce.Field != tt.field {
			t.Errorf("%s: Validate() = %v, want ConfigError on %s", tt.name, err, tt.field)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "term.yaml")
	data := []byte("font_size: 20\ncols: 120\natlas_size: 512\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.FontSize != 20 || cfg.Cols != 120 {
		t.Errorf("cfg = %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.Rows != DefaultConfig().Rows {
		t.Errorf("Rows = %d, want default %d", cfg.Rows, DefaultConfig().Rows)
	}
	if got := cfg.AtlasConfig().InitialSize; got != 512 {
		t.Errorf("atlas initial size = %d, want 512", got)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "term.yaml")
	if err := os.WriteFile(path, []byte("font_size: -4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig accepted a negative font size")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig succeeded on a missing file")
	}
}

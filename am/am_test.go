package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without user/system config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	if err != nil {
		t.Fatalf("LoadWithViper() failed: %v", err)
	}

	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("expected default port %d, got %d", DefaultServerPort, cfg.Server.Port)
	}
	if cfg.Layout.SettleIterations != 50 {
		t.Errorf("expected 50 settle iterations, got %d", cfg.Layout.SettleIterations)
	}
	if cfg.Layout.IterationsPerFrame != 3 {
		t.Errorf("expected 3 iterations per frame, got %d", cfg.Layout.IterationsPerFrame)
	}
	if cfg.Graph.AwardTag != "Award Winning" {
		t.Errorf("unexpected award tag %q", cfg.Graph.AwardTag)
	}
	if cfg.Filter.Genres == nil || len(cfg.Filter.Genres) != 0 {
		t.Errorf("expected empty genre set, got %v", cfg.Filter.Genres)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero settle iterations skips settle", func(c *Config) { c.Layout.SettleIterations = 0 }, false},
		{"negative settle iterations", func(c *Config) { c.Layout.SettleIterations = -1 }, true},
		{"load floor above interactive floor", func(c *Config) { c.Graph.LoadMinScore = 8; c.Filter.MinScore = 7 }, true},
		{"load floor equal to interactive floor", func(c *Config) { c.Graph.LoadMinScore = 7; c.Filter.MinScore = 7 }, false},
		{"empty dataset source", func(c *Config) { c.Dataset.Source = "" }, true},
		{"max node size below min", func(c *Config) { c.Graph.MaxNodeSize = 1 }, true},
		{"fit margin below one", func(c *Config) { c.Camera.FitMargin = 0.9 }, true},
		{"inverted ratio range", func(c *Config) { c.Camera.MinRatio = 5; c.Camera.MaxRatio = 1 }, true},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"zero frame push rate is unlimited", func(c *Config) { c.Server.FramePushRate = 0 }, false},
		{"negative theta", func(c *Config) { c.Layout.BarnesHutTheta = -0.5 }, true},
		{"score filter above ten", func(c *Config) { c.Filter.MinScore = 11 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"server.port", DefaultServerPort},
		{"graph.load_min_score", 6.0},
		{"filter.min_score", 7.0},
		{"filter.min_strength", 0.1},
		{"layout.barnes_hut_threshold", 500},
		{"layout.barnes_hut_theta", 0.5},
		{"interaction.drag_threshold_px", 5.0},
		{"camera.fit_margin", 1.2},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := v.Get(tt.key)
			if got != tt.expected {
				t.Errorf("default %s = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("walks up to am.toml", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "test1", "subdir")
		os.MkdirAll(subDir, DefaultDirPermissions)
		os.WriteFile(filepath.Join(tmpDir, "test1", "am.toml"), []byte(""), DefaultFilePermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		result := findProjectConfig()
		if result == "" {
			t.Fatal("expected to find config file")
		}
		if !filepath.IsAbs(result) {
			t.Error("expected absolute path")
		}
		if filepath.Base(result) != "am.toml" {
			t.Errorf("expected am.toml, got %s", filepath.Base(result))
		}
	})

	t.Run("no config found", func(t *testing.T) {
		subDir := filepath.Join(tmpDir, "test2", "subdir")
		os.MkdirAll(subDir, DefaultDirPermissions)

		oldWd, _ := os.Getwd()
		defer os.Chdir(oldWd)
		os.Chdir(subDir)

		if result := findProjectConfig(); result != "" {
			t.Errorf("expected empty string, got %s", result)
		}
	})
}

func TestLoadFromFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	content := `
[layout]
gravity = 2.5

[filter]
genres = ["Drama", "Romance"]
award_only = true
`
	if err := os.WriteFile(path, []byte(content), DefaultFilePermissions); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() failed: %v", err)
	}
	if cfg.Layout.Gravity != 2.5 {
		t.Errorf("expected gravity 2.5, got %f", cfg.Layout.Gravity)
	}
	if len(cfg.Filter.Genres) != 2 || !cfg.Filter.AwardOnly {
		t.Errorf("filter section not applied: %+v", cfg.Filter)
	}
	// Untouched keys keep their defaults
	if cfg.Layout.SettleIterations != 50 {
		t.Errorf("expected default settle iterations, got %d", cfg.Layout.SettleIterations)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Setenv("MANGAGRAPH_SERVER_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("expected env override 9999, got %d", cfg.Server.Port)
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := Default()
	cfg.Layout.FrameRate = 50
	if got := cfg.FrameInterval().Milliseconds(); got != 20 {
		t.Errorf("expected 20ms frame interval, got %d", got)
	}
}

package am

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Dataset
	v.SetDefault("dataset.source", "data/manga.json")
	v.SetDefault("dataset.timeout_seconds", 30)

	// Graph store; load floor stays at or below filter.min_score
	v.SetDefault("graph.load_min_score", 6.0)
	v.SetDefault("graph.min_node_size", 3.0)
	v.SetDefault("graph.max_node_size", 15.0)
	v.SetDefault("graph.award_tag", "Award Winning")

	// Interactive filters
	v.SetDefault("filter.min_strength", 0.1)
	v.SetDefault("filter.min_score", 7.0)
	v.SetDefault("filter.genres", []string{})
	v.SetDefault("filter.award_only", false)

	// Layout engine
	v.SetDefault("layout.seed", 0)
	v.SetDefault("layout.settle_iterations", 50)
	v.SetDefault("layout.iterations_per_frame", 3)
	v.SetDefault("layout.frame_rate", 60)
	v.SetDefault("layout.scaling_ratio", 10.0)
	v.SetDefault("layout.gravity", 1.0)
	v.SetDefault("layout.slow_down", 5.0)
	v.SetDefault("layout.edge_weight_influence", 1.0)
	v.SetDefault("layout.barnes_hut_theta", 0.5)
	v.SetDefault("layout.barnes_hut_threshold", 500)

	// Interaction
	v.SetDefault("interaction.drag_threshold_px", 5.0)

	// Camera
	v.SetDefault("camera.focus_duration_ms", 600)
	v.SetDefault("camera.fit_duration_ms", 600)
	v.SetDefault("camera.fit_margin", 1.2)
	v.SetDefault("camera.min_ratio", 0.05)
	v.SetDefault("camera.max_ratio", 10.0)
	v.SetDefault("camera.viewport_width", 1280.0)
	v.SetDefault("camera.viewport_height", 800.0)

	// Discovery
	v.SetDefault("discovery.min_score", 8.0)
	v.SetDefault("discovery.min_scored_by", 50000)
	v.SetDefault("discovery.limit", 100)

	// Server
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.frame_push_rate", 30.0)
	v.SetDefault("server.max_clients", 16)
}

// Default returns a Config populated only from defaults
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always unmarshal; reaching here is a programming error
		panic(err)
	}
	return cfg
}

// FrameInterval returns the duration between continuous layout frames
func (c *Config) FrameInterval() time.Duration {
	if c.Layout.FrameRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Layout.FrameRate)
}

// DatasetTimeout returns the dataset fetch timeout (0 = none)
func (c *Config) DatasetTimeout() time.Duration {
	return time.Duration(c.Dataset.TimeoutSeconds) * time.Second
}

// FocusDuration returns the camera focus animation duration
func (c *Config) FocusDuration() time.Duration {
	return time.Duration(c.Camera.FocusDurationMS) * time.Millisecond
}

// FitDuration returns the camera fit-view animation duration
func (c *Config) FitDuration() time.Duration {
	return time.Duration(c.Camera.FitDurationMS) * time.Millisecond
}

// GetServerAllowedOrigins returns allowed origins with a localhost fallback
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{"http://localhost", "http://127.0.0.1"}
	}
	return c.Server.AllowedOrigins
}

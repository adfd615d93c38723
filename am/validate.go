package am

import "github.com/teranos/mangagraph/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Dataset.Source == "" {
		return errors.WithHint(errors.New("dataset.source cannot be empty"),
			"set dataset.source to a file path or URL of the manga dataset")
	}
	if c.Dataset.TimeoutSeconds < 0 {
		return errors.Newf("dataset.timeout_seconds must be >= 0, got %d", c.Dataset.TimeoutSeconds)
	}

	// Load floor must not exceed the interactive floor default
	if c.Graph.LoadMinScore > c.Filter.MinScore {
		return errors.Newf("graph.load_min_score (%.2f) must be <= filter.min_score (%.2f)",
			c.Graph.LoadMinScore, c.Filter.MinScore)
	}
	if c.Graph.MinNodeSize <= 0 {
		return errors.Newf("graph.min_node_size must be > 0, got %f", c.Graph.MinNodeSize)
	}
	if c.Graph.MaxNodeSize < c.Graph.MinNodeSize {
		return errors.Newf("graph.max_node_size (%f) must be >= graph.min_node_size (%f)",
			c.Graph.MaxNodeSize, c.Graph.MinNodeSize)
	}

	if c.Filter.MinStrength < 0 {
		return errors.Newf("filter.min_strength must be >= 0, got %f", c.Filter.MinStrength)
	}
	if c.Filter.MinScore < 0 || c.Filter.MinScore > 10 {
		return errors.Newf("filter.min_score must be within [0, 10], got %f", c.Filter.MinScore)
	}

	// Layout: zero settle iterations = skip settle pass, negative = invalid
	if c.Layout.SettleIterations < 0 {
		return errors.Newf("layout.settle_iterations must be >= 0, got %d", c.Layout.SettleIterations)
	}
	if c.Layout.IterationsPerFrame < 0 {
		return errors.Newf("layout.iterations_per_frame must be >= 0, got %d", c.Layout.IterationsPerFrame)
	}
	if c.Layout.FrameRate <= 0 {
		return errors.Newf("layout.frame_rate must be > 0, got %d", c.Layout.FrameRate)
	}
	if c.Layout.ScalingRatio <= 0 {
		return errors.Newf("layout.scaling_ratio must be > 0, got %f", c.Layout.ScalingRatio)
	}
	if c.Layout.Gravity < 0 {
		return errors.Newf("layout.gravity must be >= 0, got %f", c.Layout.Gravity)
	}
	if c.Layout.SlowDown <= 0 {
		return errors.Newf("layout.slow_down must be > 0, got %f", c.Layout.SlowDown)
	}
	if c.Layout.BarnesHutTheta <= 0 {
		return errors.Newf("layout.barnes_hut_theta must be > 0, got %f", c.Layout.BarnesHutTheta)
	}
	if c.Layout.BarnesHutThreshold < 0 {
		return errors.Newf("layout.barnes_hut_threshold must be >= 0, got %d", c.Layout.BarnesHutThreshold)
	}

	if c.Interaction.DragThresholdPx < 0 {
		return errors.Newf("interaction.drag_threshold_px must be >= 0, got %f", c.Interaction.DragThresholdPx)
	}

	if c.Camera.FocusDurationMS < 0 || c.Camera.FitDurationMS < 0 {
		return errors.New("camera animation durations must be >= 0")
	}
	if c.Camera.FitMargin < 1 {
		return errors.Newf("camera.fit_margin must be >= 1, got %f", c.Camera.FitMargin)
	}
	if c.Camera.MinRatio <= 0 || c.Camera.MaxRatio < c.Camera.MinRatio {
		return errors.Newf("camera ratio range invalid: [%f, %f]", c.Camera.MinRatio, c.Camera.MaxRatio)
	}
	if c.Camera.ViewportWidth <= 0 || c.Camera.ViewportHeight <= 0 {
		return errors.New("camera viewport size must be positive")
	}

	if c.Discovery.Limit < 0 {
		return errors.Newf("discovery.limit must be >= 0, got %d", c.Discovery.Limit)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be within 1-65535, got %d", c.Server.Port)
	}
	if c.Server.FramePushRate < 0 {
		return errors.Newf("server.frame_push_rate must be >= 0, got %f", c.Server.FramePushRate)
	}
	if c.Server.MaxClients < 0 {
		return errors.Newf("server.max_clients must be >= 0, got %d", c.Server.MaxClients)
	}

	return nil
}

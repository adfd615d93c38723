package explorer

import (
	"slices"

	"github.com/teranos/mangagraph/am"
	"github.com/teranos/mangagraph/camera"
	"github.com/teranos/mangagraph/graph"
	"github.com/teranos/mangagraph/layout"
	"github.com/teranos/mangagraph/visibility"
)

func layoutSettings(cfg *am.Config) layout.Settings {
	l := cfg.Layout
	return layout.Settings{
		ScalingRatio:        l.ScalingRatio,
		Gravity:             l.Gravity,
		SlowDown:            l.SlowDown,
		EdgeWeightInfluence: l.EdgeWeightInfluence,
		BarnesHutTheta:      l.BarnesHutTheta,
		BarnesHutThreshold:  l.BarnesHutThreshold,
		SettleIterations:    l.SettleIterations,
		IterationsPerFrame:  l.IterationsPerFrame,
	}
}

func cameraOptions(cfg *am.Config) camera.Options {
	c := cfg.Camera
	return camera.Options{
		FocusDuration: cfg.FocusDuration(),
		FitDuration:   cfg.FitDuration(),
		FitMargin:     c.FitMargin,
		MinRatio:      c.MinRatio,
		MaxRatio:      c.MaxRatio,
		Width:         c.ViewportWidth,
		Height:        c.ViewportHeight,
	}
}

func loadOptions(cfg *am.Config) graph.LoadOptions {
	return graph.LoadOptions{
		MinScore:    cfg.Graph.LoadMinScore,
		MinNodeSize: cfg.Graph.MinNodeSize,
		MaxNodeSize: cfg.Graph.MaxNodeSize,
		Seed:        cfg.Layout.Seed,
	}
}

// FilterFromConfig converts the configured initial filter
func FilterFromConfig(f am.FilterConfig) visibility.FilterState {
	return visibility.FilterState{
		MinStrength:      f.MinStrength,
		MinScore:         f.MinScore,
		AwardWinningOnly: f.AwardOnly,
	}.WithGenres(f.Genres...)
}

// FilterToConfig is the inverse of FilterFromConfig, used to persist the live filter
func FilterToConfig(f visibility.FilterState) am.FilterConfig {
	genres := make([]string, len(f.SelectedGenres))
	copy(genres, f.SelectedGenres)
	return am.FilterConfig{
		MinStrength: f.MinStrength,
		MinScore:    f.MinScore,
		Genres:      genres,
		AwardOnly:   f.AwardWinningOnly,
	}
}

// sameFilterConfig compares filter sections; genre order matters as written
func sameFilterConfig(a, b am.FilterConfig) bool {
	return a.MinStrength == b.MinStrength &&
		a.MinScore == b.MinScore &&
		a.AwardOnly == b.AwardOnly &&
		slices.Equal(a.Genres, b.Genres)
}

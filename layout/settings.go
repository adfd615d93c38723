package layout

// Settings tunes the relaxation
type Settings struct {
	ScalingRatio        float64 // repulsion strength
	Gravity             float64 // pull toward the origin
	SlowDown            float64 // divides every displacement
	EdgeWeightInfluence float64 // attraction scales with strength^EdgeWeightInfluence
	BarnesHutTheta      float64 // cell size / distance below which a cell is approximated
	BarnesHutThreshold  int     // node count at which Barnes-Hut replaces exact repulsion
	SettleIterations    int
	IterationsPerFrame  int
}

// DefaultSettings returns the settings used when none are configured
func DefaultSettings() Settings {
	return Settings{
		ScalingRatio:        10,
		Gravity:             1,
		SlowDown:            5,
		EdgeWeightInfluence: 1,
		BarnesHutTheta:      0.5,
		BarnesHutThreshold:  500,
		SettleIterations:    50,
		IterationsPerFrame:  3,
	}
}

// withDefaults fills zero values that would stall or blow up the simulation
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.ScalingRatio <= 0 {
		s.ScalingRatio = d.ScalingRatio
	}
	if s.SlowDown <= 0 {
		s.SlowDown = d.SlowDown
	}
	if s.BarnesHutTheta <= 0 {
		s.BarnesHutTheta = d.BarnesHutTheta
	}
	if s.Gravity < 0 {
		s.Gravity = 0
	}
	return s
}

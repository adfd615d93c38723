package am

// Config represents the mangagraph configuration ("I am")
type Config struct {
	Dataset     DatasetConfig     `mapstructure:"dataset" toml:"dataset" json:"dataset" yaml:"dataset"`
	Graph       GraphConfig       `mapstructure:"graph" toml:"graph" json:"graph" yaml:"graph"`
	Filter      FilterConfig      `mapstructure:"filter" toml:"filter" json:"filter" yaml:"filter"`
	Layout      LayoutConfig      `mapstructure:"layout" toml:"layout" json:"layout" yaml:"layout"`
	Interaction InteractionConfig `mapstructure:"interaction" toml:"interaction" json:"interaction" yaml:"interaction"`
	Camera      CameraConfig      `mapstructure:"camera" toml:"camera" json:"camera" yaml:"camera"`
	Discovery   DiscoveryConfig   `mapstructure:"discovery" toml:"discovery" json:"discovery" yaml:"discovery"`
	Server      ServerConfig      `mapstructure:"server" toml:"server" json:"server" yaml:"server"`
}

// DatasetConfig locates the static dataset fetched once at startup
type DatasetConfig struct {
	Source         string `mapstructure:"source" toml:"source" json:"source" yaml:"source"`                                     // file path or go-getter URL
	TimeoutSeconds int    `mapstructure:"timeout_seconds" toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"` // fetch timeout (0 = no timeout)
}

// GraphConfig configures graph store construction at load time
type GraphConfig struct {
	LoadMinScore float64 `mapstructure:"load_min_score" toml:"load_min_score" json:"load_min_score" yaml:"load_min_score"` // load-time floor, independent of filter.min_score
	MinNodeSize  float64 `mapstructure:"min_node_size" toml:"min_node_size" json:"min_node_size" yaml:"min_node_size"`
	MaxNodeSize  float64 `mapstructure:"max_node_size" toml:"max_node_size" json:"max_node_size" yaml:"max_node_size"`
	AwardTag     string  `mapstructure:"award_tag" toml:"award_tag" json:"award_tag" yaml:"award_tag"` // genre tag used by filter.award_only
}

// FilterConfig holds the initial interactive filter state
type FilterConfig struct {
	MinStrength float64  `mapstructure:"min_strength" toml:"min_strength" json:"min_strength" yaml:"min_strength"`
	MinScore    float64  `mapstructure:"min_score" toml:"min_score" json:"min_score" yaml:"min_score"`
	Genres      []string `mapstructure:"genres" toml:"genres" json:"genres" yaml:"genres"`
	AwardOnly   bool     `mapstructure:"award_only" toml:"award_only" json:"award_only" yaml:"award_only"`
}

// LayoutConfig tunes the force-directed layout engine
type LayoutConfig struct {
	Seed                int64   `mapstructure:"seed" toml:"seed" json:"seed" yaml:"seed"` // 0 = time-based seed
	SettleIterations    int     `mapstructure:"settle_iterations" toml:"settle_iterations" json:"settle_iterations" yaml:"settle_iterations"`
	IterationsPerFrame  int     `mapstructure:"iterations_per_frame" toml:"iterations_per_frame" json:"iterations_per_frame" yaml:"iterations_per_frame"`
	FrameRate           int     `mapstructure:"frame_rate" toml:"frame_rate" json:"frame_rate" yaml:"frame_rate"` // frames per second for the continuous pass
	ScalingRatio        float64 `mapstructure:"scaling_ratio" toml:"scaling_ratio" json:"scaling_ratio" yaml:"scaling_ratio"`
	Gravity             float64 `mapstructure:"gravity" toml:"gravity" json:"gravity" yaml:"gravity"`
	SlowDown            float64 `mapstructure:"slow_down" toml:"slow_down" json:"slow_down" yaml:"slow_down"`
	EdgeWeightInfluence float64 `mapstructure:"edge_weight_influence" toml:"edge_weight_influence" json:"edge_weight_influence" yaml:"edge_weight_influence"`
	BarnesHutTheta      float64 `mapstructure:"barnes_hut_theta" toml:"barnes_hut_theta" json:"barnes_hut_theta" yaml:"barnes_hut_theta"`
	BarnesHutThreshold  int     `mapstructure:"barnes_hut_threshold" toml:"barnes_hut_threshold" json:"barnes_hut_threshold" yaml:"barnes_hut_threshold"` // node count at which Barnes-Hut replaces exact repulsion
}

// InteractionConfig configures pointer gesture handling
type InteractionConfig struct {
	DragThresholdPx float64 `mapstructure:"drag_threshold_px" toml:"drag_threshold_px" json:"drag_threshold_px" yaml:"drag_threshold_px"`
}

// CameraConfig configures viewport animations
type CameraConfig struct {
	FocusDurationMS int     `mapstructure:"focus_duration_ms" toml:"focus_duration_ms" json:"focus_duration_ms" yaml:"focus_duration_ms"`
	FitDurationMS   int     `mapstructure:"fit_duration_ms" toml:"fit_duration_ms" json:"fit_duration_ms" yaml:"fit_duration_ms"`
	FitMargin       float64 `mapstructure:"fit_margin" toml:"fit_margin" json:"fit_margin" yaml:"fit_margin"`
	MinRatio        float64 `mapstructure:"min_ratio" toml:"min_ratio" json:"min_ratio" yaml:"min_ratio"`
	MaxRatio        float64 `mapstructure:"max_ratio" toml:"max_ratio" json:"max_ratio" yaml:"max_ratio"`
	ViewportWidth   float64 `mapstructure:"viewport_width" toml:"viewport_width" json:"viewport_width" yaml:"viewport_width"` // until the shell reports its size
	ViewportHeight  float64 `mapstructure:"viewport_height" toml:"viewport_height" json:"viewport_height" yaml:"viewport_height"`
}

// DiscoveryConfig sets the quality bar for curated starting nodes
type DiscoveryConfig struct {
	MinScore    float64 `mapstructure:"min_score" toml:"min_score" json:"min_score" yaml:"min_score"`
	MinScoredBy int     `mapstructure:"min_scored_by" toml:"min_scored_by" json:"min_scored_by" yaml:"min_scored_by"`
	Limit       int     `mapstructure:"limit" toml:"limit" json:"limit" yaml:"limit"`
}

// ServerConfig configures the presentation shell bridge
type ServerConfig struct {
	Port           int      `mapstructure:"port" toml:"port" json:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins"`
	FramePushRate  float64  `mapstructure:"frame_push_rate" toml:"frame_push_rate" json:"frame_push_rate" yaml:"frame_push_rate"` // max position frames per second per client
	MaxClients     int      `mapstructure:"max_clients" toml:"max_clients" json:"max_clients" yaml:"max_clients"`
}

// Server port constants
const (
	DefaultServerPort = 8787
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
//	0 (default) - results, errors, final status
//	1 (-v)      - + dataset load summary, server startup, client connects
//	2 (-vv)     - + filter/selection changes, resolve timing, config details
//	3 (-vvv)    - + pointer gesture transitions, websocket messages
//	4 (-vvvv)   - + full frame payloads

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota
	OutputErrors

	// Level 1 (-v)
	OutputStartup
	OutputDatasetLoad
	OutputClients

	// Level 2 (-vv)
	OutputResolve
	OutputTiming
	OutputConfig

	// Level 3 (-vvv)
	OutputGestures
	OutputWebSocket

	// Level 4 (-vvvv)
	OutputDataDump
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,

	OutputStartup:     VerbosityInfo,
	OutputDatasetLoad: VerbosityInfo,
	OutputClients:     VerbosityInfo,

	OutputResolve: VerbosityDebug,
	OutputTiming:  VerbosityDebug,
	OutputConfig:  VerbosityDebug,

	OutputGestures:  VerbosityTrace,
	OutputWebSocket: VerbosityTrace,

	OutputDataDump: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

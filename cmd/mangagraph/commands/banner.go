package commands

import (
	"fmt"

	"github.com/teranos/mangagraph/graph"
	"github.com/teranos/mangagraph/logger"
	"github.com/teranos/mangagraph/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(verbosity, port int, source string, stats *graph.LoadStats) {
	green := "\033[32m"
	yellow := "\033[33m"
	blue := "\033[34m"
	bold := "\033[1m"
	reset := "\033[0m"

	versionInfo := version.Get()

	fmt.Printf("\n%s%s┌─ mangagraph ────────────────────────────────────────┐%s\n", green, bold, reset)
	fmt.Printf("%s│%s Version:   %s (commit %s)\n", green, reset, versionInfo.Version, versionInfo.Short())
	fmt.Printf("%s│%s Protocol:  %s\n", green, reset, versionInfo.Protocol)
	fmt.Printf("%s│%s Verbosity: %s\n", green, reset, logger.LevelName(verbosity))
	fmt.Printf("%s│%s Dataset:   %s\n", green, reset, source)
	if stats != nil {
		fmt.Printf("%s│%s Graph:     %d titles, %d links\n", green, reset, stats.Nodes, stats.Edges)
	}
	fmt.Printf("%s│%s Listening: http://localhost:%d\n", green, reset, port)
	fmt.Printf("%s└─────────────────────────────────────────────────────┘%s\n", green, reset)

	fmt.Printf("\n%s%sOpen the shell and click a title to start exploring%s\n", yellow, bold, reset)
	fmt.Printf("%sPress Ctrl+C to stop%s\n\n", blue, reset)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/mangagraph/cmd/mangagraph/commands"
	"github.com/teranos/mangagraph/logger"
)

var rootCmd = &cobra.Command{
	Use:   "mangagraph",
	Short: "mangagraph - Explore manga recommendations as a force-directed graph",
	Long: `mangagraph - Force-directed exploration of manga recommendation links.

Loads a static dataset of titles and recommendation links, lays it out with a
ForceAtlas2-style simulation and serves it to a browser shell over WebSocket.

Available commands:
  am       - Manage mangagraph configuration ("I am")
  server   - Start the exploration server
  inspect  - Print the graph after filters and selection
  snapshot - Render the graph to an SVG file
  version  - Show version information

Examples:
  mangagraph am show                         # Show current configuration
  mangagraph server -v                       # Start the server with info logs
  mangagraph inspect --query "score>=8"      # List titles scoring 8 or more
  mangagraph snapshot -o graph.svg           # Write an SVG of the settled layout`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Config output must stay clean for piping
		if cmd.Name() == "show" || cmd.Name() == "get" {
			return nil
		}
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.InitializeWithLevel(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.ServerCmd)
	rootCmd.AddCommand(commands.InspectCmd)
	rootCmd.AddCommand(commands.SnapshotCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

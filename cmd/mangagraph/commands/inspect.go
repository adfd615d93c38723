package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/mangagraph/display"
	"github.com/teranos/mangagraph/graph"
)

// InspectCmd prints the graph as the explorer would show it
var InspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print visible titles after filters and selection",
	Long: `Load the dataset, settle the layout, apply filters and an optional query,
then print the visible titles or graph statistics.

Examples:
  mangagraph inspect --query "score>=8 genre:Action"
  mangagraph inspect --query "select:2" --limit 20
  mangagraph inspect --stats --json`,
	RunE: runInspect,
}

var (
	inspectStats bool
	inspectLimit int
)

func init() {
	addDatasetFlags(InspectCmd)
	InspectCmd.Flags().BoolVar(&inspectStats, "stats", false, "Show load and visibility statistics instead of titles")
	InspectCmd.Flags().IntVar(&inspectLimit, "limit", 50, "Maximum titles to list (0 = all)")
	InspectCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	x, err := openExplorer(cmd.Context(), cmd, cfg)
	if err != nil {
		return err
	}
	view := x.View()

	if display.ShouldOutputJSON(cmd) {
		if inspectStats {
			return display.OutputJSON(display.StatsReport{Load: x.Stats(), View: view.Meta.Stats})
		}
		return display.OutputJSON(visibleNodes(view, inspectLimit))
	}

	var out string
	if inspectStats {
		out, err = display.RenderStats(x.Stats(), view)
	} else {
		out, err = display.RenderNodes(view, inspectLimit)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// visibleNodes keeps the JSON listing aligned with the table
func visibleNodes(view *graph.Graph, limit int) []graph.ViewNode {
	nodes := make([]graph.ViewNode, 0, len(view.Nodes))
	for _, n := range view.Nodes {
		if !n.Visible {
			continue
		}
		nodes = append(nodes, n)
		if limit > 0 && len(nodes) == limit {
			break
		}
	}
	return nodes
}

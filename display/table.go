package display

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/teranos/mangagraph/graph"
)

// StatsReport is the JSON shape of `mangagraph inspect --stats`
type StatsReport struct {
	Load *graph.LoadStats `json:"load,omitempty"`
	View graph.Stats      `json:"view"`
}

// RenderStats formats load and visibility statistics as a two-column table
func RenderStats(load *graph.LoadStats, view *graph.Graph) (string, error) {
	data := pterm.TableData{{"Metric", "Value"}}
	if load != nil {
		data = append(data,
			[]string{"Input titles", fmt.Sprint(load.InputNodes)},
			[]string{"Input links", fmt.Sprint(load.InputEdges)},
			[]string{"Below score floor", fmt.Sprint(load.BelowScore)},
			[]string{"Duplicate ids", fmt.Sprint(load.DuplicateIDs)},
			[]string{"Dangling links", fmt.Sprint(load.Dangling)},
			[]string{"Self links", fmt.Sprint(load.SelfLoops)},
			[]string{"Duplicate links", fmt.Sprint(load.Duplicates)},
			[]string{"Isolated titles", fmt.Sprint(load.Isolated)},
			[]string{"Genres", fmt.Sprint(load.Genres)},
		)
	}
	stats := view.Meta.Stats
	data = append(data,
		[]string{"Titles", fmt.Sprint(stats.TotalNodes)},
		[]string{"Links", fmt.Sprint(stats.TotalEdges)},
		[]string{"Active titles", fmt.Sprint(stats.ActiveNodes)},
		[]string{"Visible links", fmt.Sprint(stats.VisibleEdges)},
		[]string{"Selected", strings.Join(stats.Selected, ", ")},
	)
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// RenderNodes formats visible nodes as a table, highest score first.
// limit <= 0 shows every visible node.
func RenderNodes(view *graph.Graph, limit int) (string, error) {
	nodes := make([]graph.ViewNode, 0, len(view.Nodes))
	for _, n := range view.Nodes {
		if n.Visible {
			nodes = append(nodes, n)
		}
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Score != nodes[j].Score {
			return nodes[i].Score > nodes[j].Score
		}
		return nodes[i].ID < nodes[j].ID
	})
	if limit > 0 && len(nodes) > limit {
		nodes = nodes[:limit]
	}

	data := pterm.TableData{{"ID", "Title", "Score", "Votes", "State", "Genres"}}
	for _, n := range nodes {
		data = append(data, []string{
			n.ID,
			n.Label,
			fmt.Sprintf("%.2f", n.Score),
			fmt.Sprint(n.ScoredBy),
			stateLabel(n.State),
			strings.Join(n.Genres, ", "),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

func stateLabel(state string) string {
	if state == "" {
		return "normal"
	}
	return state
}

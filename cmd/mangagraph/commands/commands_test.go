package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/mangagraph/am"
	mgtest "github.com/teranos/mangagraph/internal/testing"
)

// isolate runs a command against a temp directory and a fresh config cascade
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", dir)
	t.Setenv("MANGAGRAPH_GRAPH_LOAD_MIN_SCORE", "0")
	t.Setenv("MANGAGRAPH_FILTER_MIN_SCORE", "0")
	t.Setenv("MANGAGRAPH_FILTER_MIN_STRENGTH", "0")
	t.Setenv("MANGAGRAPH_LAYOUT_SEED", "1")
	t.Setenv("MANGAGRAPH_OUTPUT", "")
	am.Reset()
	t.Cleanup(am.Reset)
	return dir
}

func execute(t *testing.T, sub *cobra.Command, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "mangagraph", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().Bool("json", false, "")
	root.AddCommand(sub)
	t.Cleanup(func() { root.RemoveCommand(sub) })

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{sub.Name()}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestInspect_ListsVisibleTitles(t *testing.T) {
	isolate(t)
	path := mgtest.WriteDataset(t, mgtest.ScenarioNodes(), mgtest.ScenarioEdges())

	out, err := execute(t, InspectCmd, "--dataset", path, "--query", "score>=6")
	require.NoError(t, err)

	assert.Contains(t, out, "Vagabond")
	assert.Contains(t, out, "Zetman")
	assert.NotContains(t, out, "Yotsuba")
}

func TestInspect_Stats(t *testing.T) {
	isolate(t)
	path := mgtest.WriteDataset(t, mgtest.ScenarioNodes(), mgtest.ScenarioEdges())

	out, err := execute(t, InspectCmd, "--dataset", path, "--stats", "--query", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Active titles")
}

func TestInspect_MissingDataset(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, InspectCmd, "--dataset", filepath.Join(dir, "missing.json"), "--stats=false")
	require.Error(t, err)
}

func TestInspect_BadQuery(t *testing.T) {
	isolate(t)
	path := mgtest.WriteDataset(t, mgtest.ScenarioNodes(), mgtest.ScenarioEdges())

	_, err := execute(t, InspectCmd, "--dataset", path, "--query", "popularity>=3")
	require.Error(t, err)
}

func TestSnapshot_WritesSVG(t *testing.T) {
	dir := isolate(t)
	path := mgtest.WriteDataset(t, mgtest.ScenarioNodes(), mgtest.ScenarioEdges())
	target := filepath.Join(dir, "graph.svg")

	_, err := execute(t, SnapshotCmd, "--dataset", path, "--query", "", "-o", target, "--width", "640", "--height", "480")
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), `width="640"`)
}

func TestAmInit_RefusesOverwrite(t *testing.T) {
	dir := isolate(t)
	target := filepath.Join(dir, am.ConfigFileName)

	_, err := execute(t, AmCmd, "init", target)
	require.NoError(t, err)
	assert.FileExists(t, target)

	_, err = execute(t, AmCmd, "init", target)
	require.Error(t, err)

	cfg, err := am.LoadFromFile(target)
	require.NoError(t, err)
	assert.Equal(t, am.Default().Server.Port, cfg.Server.Port)
}

func TestAmGet(t *testing.T) {
	isolate(t)
	t.Setenv("MANGAGRAPH_SERVER_PORT", "9123")

	out, err := execute(t, AmCmd, "get", "server.port")
	require.NoError(t, err)
	assert.Equal(t, "9123\n", out)

	_, err = execute(t, AmCmd, "get", "no.such.key")
	require.Error(t, err)
}

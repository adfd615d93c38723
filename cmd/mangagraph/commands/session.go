package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teranos/mangagraph/am"
	"github.com/teranos/mangagraph/errors"
	"github.com/teranos/mangagraph/explorer"
	"github.com/teranos/mangagraph/logger"
)

// addDatasetFlags registers the flags shared by commands that load the graph
func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().String("dataset", "", "Dataset file or go-getter URL (overrides dataset.source)")
	cmd.Flags().String("query", "", `Filter and selection query, e.g. "score>=8 genre:Action select:2"`)
}

// loadConfig loads and validates the config, applying the --dataset override
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if source, _ := cmd.Flags().GetString("dataset"); source != "" {
		cfg.Dataset.Source = source
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "invalid configuration"),
			"run 'mangagraph am validate' for details",
		)
	}
	return cfg, nil
}

// openExplorer loads the dataset and applies --query. A dataset failure is
// returned as an error; offline commands have nothing to show without data.
func openExplorer(ctx context.Context, cmd *cobra.Command, cfg *am.Config) (*explorer.Explorer, error) {
	x := explorer.Open(ctx, cfg, logger.ComponentLogger("explorer"))
	if gerr := x.LoadError(); gerr != nil {
		return nil, errors.WithHint(gerr, "check dataset.source in am.toml or pass --dataset")
	}

	if input, _ := cmd.Flags().GetString("query"); input != "" {
		q, err := explorer.ParseQuery(input)
		if err != nil {
			return nil, err
		}
		q.Apply(x)
	}
	return x, nil
}

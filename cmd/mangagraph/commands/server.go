package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/mangagraph/am"
	"github.com/teranos/mangagraph/errors"
	"github.com/teranos/mangagraph/explorer"
	"github.com/teranos/mangagraph/logger"
	"github.com/teranos/mangagraph/server"
)

// ServerCmd starts the exploration server
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   "Start the mangagraph exploration server",
	Long: `Load the dataset, settle the layout and serve the live graph to the browser
shell over WebSocket. Edits to the active am.toml are applied without a restart.`,
	RunE: runServer,
}

var (
	serverPort    int
	serverNoWatch bool
)

func init() {
	addDatasetFlags(ServerCmd)
	ServerCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Port to listen on (overrides server.port)")
	ServerCmd.Flags().BoolVar(&serverNoWatch, "no-watch", false, "Do not reload configuration when am.toml changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Default to Info for the server
	verbosity, _ := cmd.Flags().GetCount("verbose")
	if verbosity == 0 {
		verbosity = logger.VerbosityInfo
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.InitializeWithLevel(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
	}
	log := logger.ComponentLogger("cmd")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	port := cfg.Server.Port
	if serverPort > 0 {
		port = serverPort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A failed load still serves: the shell renders the error view
	x := explorer.Open(ctx, cfg, logger.ComponentLogger("explorer"))
	if gerr := x.LoadError(); gerr != nil {
		pterm.Warning.Printf("Dataset unavailable: %s\n", gerr.ToUIMessage())
	} else if input, _ := cmd.Flags().GetString("query"); input != "" {
		q, err := explorer.ParseQuery(input)
		if err != nil {
			return err
		}
		q.Apply(x)
	}

	printStartupBanner(verbosity, port, cfg.Dataset.Source, x.Stats())

	loop := explorer.NewLoop(ctx, x, cfg.FrameInterval())
	loop.Start()
	defer loop.Stop()

	srv := server.New(ctx, cfg, loop)
	configPath := am.ActiveConfigPath()
	srv.SetConfigPath(configPath)

	if !serverNoWatch && configPath != "" {
		watcher, err := am.NewConfigWatcher(configPath)
		if err != nil {
			log.Warnw("Config watching disabled", logger.FieldPath, configPath, logger.FieldError, err)
		} else {
			watcher.OnReload(func(next *am.Config) error {
				return loop.Do(ctx, func(x *explorer.Explorer) { x.ApplyConfig(next) })
			})
			am.SetGlobalWatcher(watcher)
			watcher.Start()
			defer watcher.Stop()
			log.Infow("Watching configuration", logger.FieldPath, configPath)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(port)
	})
	g.Go(func() error {
		<-gctx.Done()
		pterm.Info.Println("Shutting down gracefully...")
		return srv.Stop()
	})

	// A second signal during shutdown exits immediately
	go func() {
		<-ctx.Done()
		force := make(chan os.Signal, 1)
		signal.Notify(force, os.Interrupt, syscall.SIGTERM)
		select {
		case <-force:
			pterm.Warning.Println("Force shutdown - exiting immediately")
			os.Exit(1)
		case <-time.After(server.ShutdownTimeout + time.Second):
		}
	}()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "server stopped with error")
	}
	pterm.Success.Println("Server stopped cleanly")
	return nil
}

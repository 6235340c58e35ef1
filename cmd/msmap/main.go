// Command msmap loads a management system map document and drives the map
// engine from a terminal: filtering, critical-path selection, layout
// overrides and the minimal-path wizard.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-msmap/pkg/config"
	"github.com/dd0wney/cluso-msmap/pkg/graph"
	"github.com/dd0wney/cluso-msmap/pkg/layout"
	"github.com/dd0wney/cluso-msmap/pkg/loader"
	"github.com/dd0wney/cluso-msmap/pkg/logging"
	"github.com/dd0wney/cluso-msmap/pkg/metrics"
	"github.com/dd0wney/cluso-msmap/pkg/session"
)

var version = "0.3.0"

var (
	configPath string
	mapPath    string
	logLevel   string
	jsonOutput bool
)

// app is everything a subcommand needs, built once per invocation
type app struct {
	cfg     *config.Config
	logger  logging.Logger
	metrics *metrics.Registry
	store   *layout.Store
	session *session.Session
	report  *graph.LoadReport
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if mapPath != "" {
		cfg.Map.Path = mapPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if cfg.Map.Path == "" {
		return nil, fmt.Errorf("no map document: pass --map or set map.path")
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel())
	logging.SetDefaultLogger(logger)
	reg := metrics.NewRegistry()

	backend, err := layout.NewBackend(ctx, cfg.BackendConfig(logger))
	if err != nil {
		// The map still works without persisted layout
		logger.Warn("layout backend unavailable, using memory", logging.Backend(cfg.Layout.Backend), logging.Error(err))
		backend = layout.NewMemoryBackend()
	}
	opts := cfg.StoreOptions()
	opts.Logger = logger
	opts.Metrics = reg
	store := layout.Open(ctx, backend, opts)

	mode, fallback := cfg.FallbackLayout()
	sess := session.New(store, session.Options{
		Logger:       logger,
		Metrics:      reg,
		Highlight:    cfg.HighlightOptions(),
		FallbackMode: mode,
		Fallback:     fallback,
		PruneStale:   cfg.Layout.PruneStale,
	})

	doc, err := loader.LoadFile(cfg.Map.Path)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: reg,
		store:   store,
		session: sess,
		report:  sess.LoadDocument(doc),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// withApp builds the app around fn and closes it afterwards, so pending
// layout writes are flushed before the process exits
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, args, a)
	}
}

var rootCmd = &cobra.Command{
	Use:           "msmap",
	Short:         "Explore a management system map",
	Long:          "msmap loads a map of policies, procedures and other governance documents\nand filters, highlights and lays it out from the terminal.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVarP(&mapPath, "map", "m", "", "Map document (.json, .yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of styled text")

	rootCmd.AddCommand(
		statsCmd(),
		filterCmd(),
		selectCmd(),
		dragCmd(),
		positionsCmd(),
		layoutCmd(),
		wizardCmd(),
		legendCmd(),
		watchCmd(),
		serveCmd(),
		browseCmd(),
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("msmap: "+err.Error()))
		os.Exit(1)
	}
}

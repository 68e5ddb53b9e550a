// Package main is the entry point for the gotodef CLI.
//
// gotodef exercises the go-to-definition underline outside an editor:
// replay runs scripted edit sessions and reports every notification, and
// render paints a file with its underline onto a simulated terminal.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/gotodef/internal/config"
	"github.com/dshills/gotodef/internal/logging"
	"github.com/dshills/gotodef/internal/plugin"
	"github.com/dshills/gotodef/internal/renderer/tagging"
	"github.com/dshills/gotodef/internal/renderer/underline"
	"github.com/dshills/gotodef/internal/view"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	extensions []string
}

func rootCmd() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:           "gotodef",
		Short:         "Go-to-definition underline tracker",
		Long:          `gotodef tracks a go-to-definition underline over an editable buffer and reports the regions that need redrawing as the underline and the text change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (TOML or YAML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")
	cmd.PersistentFlags().StringSliceVar(&opts.extensions, "extensions", nil, "Extension search directories (default: user and project directories)")

	cmd.AddCommand(replayCmd(&opts))
	cmd.AddCommand(renderCmd(&opts))
	cmd.AddCommand(versionCmd())

	return cmd
}

// environment is everything a command needs to obtain an underline tracker.
type environment struct {
	cfg      config.Config
	logger   zerolog.Logger
	styles   *tagging.Registry
	catalog  *plugin.Catalog
	views    *view.Registry
	provider *view.Provider
}

func newEnvironment(opts *globalOptions, logOut io.Writer) (*environment, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.logLevel != "" {
		if !config.ValidLogLevel(opts.logLevel) {
			return nil, fmt.Errorf("%w: --log-level %q", config.ErrInvalid, opts.logLevel)
		}
		cfg.Logging.Level = opts.logLevel
	}

	logger := logging.NewWithWriter(logOut, cfg.Logging)

	styles := tagging.NewRegistry()
	if _, err := cfg.Apply(styles); err != nil {
		return nil, fmt.Errorf("apply config: %w", err)
	}
	ct, _ := styles.Lookup(cfg.Underline.Classification)

	mode, err := cfg.TrackingMode()
	if err != nil {
		return nil, err
	}

	var catalogOpts []plugin.CatalogOption
	if len(opts.extensions) > 0 {
		catalogOpts = append(catalogOpts, plugin.WithPaths(opts.extensions...))
	}
	catalog := plugin.NewCatalog(catalogOpts...)
	exts, err := catalog.Discover()
	if err != nil {
		logger.Warn().Err(err).Msg("extension discovery incomplete")
	}
	logger.Debug().Int("count", len(exts)).Strs("names", catalog.Names()).Msg("extensions discovered")

	views := view.NewRegistry(
		tagging.NewClassificationTag(ct),
		view.WithLogger(logger),
		view.WithTrackerOptions(
			underline.WithTrackingMode(mode),
			underline.WithLogger(logger),
		),
	)

	return &environment{
		cfg:      cfg,
		logger:   logger,
		styles:   styles,
		catalog:  catalog,
		views:    views,
		provider: view.NewProvider(views, catalog, view.WithProviderLogger(logger)),
	}, nil
}

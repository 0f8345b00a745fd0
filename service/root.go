// Package service implements the folio command line: the web server, content
// inspection, preview secrets and badger store administration.
package service

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/app/config"
	"folio/app/logging"
)

// Version is the CLI version, overridden at build time.
var Version = "1.0.0"

// cli holds the global flags and the state PersistentPreRunE resolves.
type cli struct {
	configPath string
	verbose    bool
	dataDir    string

	cfg    *config.Config
	logger *zap.Logger
}

// NewRootCommand builds the folio command tree.
func NewRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "folio",
		Short: "folio - a personal blog backed by Contentful",
		Long: `folio serves a personal blog and portfolio. Posts come from Contentful
when it is configured and reachable; otherwise built-in demo posts are shown.

Configuration is read from .env, an optional --config file (.yaml or .toml)
and the environment, in increasing precedence.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.yaml, .yml or .toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.dataDir, "data-dir", "", "badger data directory (overrides DATA_DIR)")

	root.AddCommand(
		c.serveCommand(),
		c.versionCommand(),
		c.checkCommand(),
		c.postsCommand(),
		c.storeCommand(),
		c.secretCommand(),
	)
	return root
}

// setup loads the configuration and builds the logger.
func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.dataDir != "" {
		cfg.Store.Dir = c.dataDir
	}

	level := cfg.Log.Level
	if c.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.IsProduction())
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	return nil
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Version needs no configuration.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "folio version %s\n", Version)
		},
	}
}

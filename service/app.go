package service

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/app/cms"
	"folio/app/config"
	"folio/app/logging"
	"folio/app/repositories"
	"folio/app/routes"
)

func (c *cli) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog web server",
		Long: `Runs the blog on the configured address until interrupted.

Preview sessions and connectivity checks are kept in the badger store
under the data directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return RunAppServer(ctx, c.cfg, c.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides APP_ADDR)")
	return cmd
}

// RunAppServer starts the blog service and blocks until ctx is cancelled.
func RunAppServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	logger = logging.OrNop(logger)

	store, err := repositories.NewStore(cfg.Store.Dir, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	clients := cms.NewClients(cfg.Contentful, logger.Named("cms"))
	deps, err := routes.NewDependencies(cfg, clients, store.DB(), logger)
	if err != nil {
		return fmt.Errorf("failed to set up routes: %w", err)
	}

	logger.Info("Starting blog service",
		zap.String("addr", cfg.Server.Addr),
		zap.String("environment", cfg.Server.Environment),
		zap.Bool("preview", cfg.Preview.Enabled),
		zap.Bool("cms", clients.Available()),
		zap.String("data_dir", store.Path()))

	return routes.StartServer(ctx, cfg.Server.Addr, routes.SetupRoutes(deps), logger)
}

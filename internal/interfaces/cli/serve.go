package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/molscene/internal/app"
	"github.com/turtacn/molscene/internal/config"
	"github.com/turtacn/molscene/internal/infrastructure/monitoring/logging"
)

// NewServeCmd creates the serve command, which runs the HTTP API in the
// foreground until SIGINT or SIGTERM.
func NewServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			cfg := cliCtx.Config
			if port > 0 {
				cfg.Server.Port = port
			}
			logger, err := logging.NewLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			if cliCtx.ConfigPath != "" {
				if err := config.Watch(cliCtx.ConfigPath, logger, func(next *config.Config) {
					logger.SetLevel(next.Log.Level)
				}); err != nil {
					logger.Warn("config watch disabled", logging.Err(err))
				}
			}

			a, err := app.New(cfg, logger, app.BuildInfo{Version: Version, Commit: GitCommit})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("starting molscene API server",
				logging.String("version", Version),
				logging.String("addr", cfg.Server.Addr()))
			return a.Run(ctx)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides config)")
	return cmd
}

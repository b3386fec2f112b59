package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/molscene/internal/infrastructure/database/redis"
	"github.com/turtacn/molscene/pkg/errors"
)

// NewCacheCmd creates the cache command.  It always talks to the redis
// configured locally, even when --server is set.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scene cache",
	}

	purge := &cobra.Command{
		Use:   "purge [prefix]",
		Short: "Delete cached scenes, optionally only keys starting with prefix",
		Example: `  molscene cache purge
  molscene cache purge alkane:`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if !cliCtx.Config.Redis.Enabled() {
				return errors.New(errors.ErrCodeFeatureDisabled, "redis is not configured")
			}
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			client, err := redis.NewClient(&cliCtx.Config.Redis, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer client.Close()
			cache := redis.NewSceneCache(client, cliCtx.Logger, redis.WithPrefix(cliCtx.Config.Redis.KeyPrefix))

			ctx, cancel := cliCtx.commandContext(cmd)
			defer cancel()
			n, err := cache.DeleteByPrefix(ctx, prefix)
			if err != nil {
				return err
			}
			PrintSuccess(cmd, fmt.Sprintf("purged %d cached scenes", n))
			return nil
		},
	}

	cmd.AddCommand(purge)
	return cmd
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netarc/internal/config"
	"github.com/matzehuels/netarc/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the placement, layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend == config.BackendNone {
				printWarning(c.Out, "Caching is disabled")
				return nil
			}

			cc, err := cfg.OpenCache("")
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cc.Close()

			cl, ok := cc.(cache.Clearer)
			if !ok {
				return fmt.Errorf("%s cache cannot be cleared", cfg.Cache.Backend)
			}
			if err := cl.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess(c.Out, "Cleared %s cache", cfg.Cache.Backend)
			printDetail(c.Out, "%s", cacheLocation(cfg))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, cacheLocation(cfg))
			return nil
		},
	}
}

// cacheLocation is the file cache directory or the Redis address.
func cacheLocation(cfg *config.Config) string {
	if cfg.Cache.Backend == config.BackendRedis {
		return "redis://" + cfg.Cache.RedisAddr
	}
	return cfg.Cache.Dir
}

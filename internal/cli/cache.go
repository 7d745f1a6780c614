package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jtripath/maven-dependency-management-extension/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the repository response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached repository responses",
		Long:  `Clear removes the entries of the file cache backend. Redis and MongoDB entries expire through their TTL and are left alone. The local repository is never touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withFileCache(cmd, func(fc *cache.FileCache, out status) error {
				n, err := fc.Clear()
				if err != nil {
					return err
				}
				out.cacheCleared(n, fc.Dir())
				return nil
			})
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired and unreadable cached responses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withFileCache(cmd, func(fc *cache.FileCache, out status) error {
				n, err := fc.Prune()
				if err != nil {
					return err
				}
				out.success("Pruned %s", plural(n, "cached response"))
				return nil
			})
		},
	}
}

// withFileCache runs fn on the configured file cache. Other backends and a
// missing cache directory are reported and skipped.
func (c *CLI) withFileCache(cmd *cobra.Command, fn func(*cache.FileCache, status) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	out := newStatus(cmd.ErrOrStderr())
	if b := cfg.Cache.Backend; b != cache.BackendFile && b != "" {
		out.warning("Cache backend %q is not managed by depmgmt", b)
		return nil
	}
	if _, err := os.Stat(cfg.Cache.Dir); os.IsNotExist(err) {
		out.info("Cache is empty")
		return nil
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		return err
	}
	return fn(fc, out)
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.responseCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

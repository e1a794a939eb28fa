package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wdlist/internal/config"
	"wdlist/internal/store"
)

// NewCacheCommand creates the cache command group.
func NewCacheCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local entity cache",
	}
	cmd.AddCommand(newCachePurgeCommand(root))
	return cmd
}

func newCachePurgeCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete expired entries from the entity cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.ConfigPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading config", err)
			}
			if cfg.CachePath == "" {
				return NewExitError(ExitCommandError, "no cache_path configured")
			}
			db, err := store.Open(cfg.CachePath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening entity cache", err)
			}
			defer db.Close()

			cache := store.NewCachingFetcher(db, nil)
			purged, err := cache.Purge(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "purging cache", err)
			}

			f := &OutputFormatter{Format: root.Format, Writer: cmd.OutOrStdout()}
			return f.Success(fmt.Sprintf("purged %d expired entries", purged))
		},
	}
}

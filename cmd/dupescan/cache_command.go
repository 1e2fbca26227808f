package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dupescan/internal/metacache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the probe metadata cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and size on disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := metacache.Open(cfg.Paths.CacheDir, metacache.Options{FlushEvery: cfg.Cache.FlushEvery})
			if err != nil {
				return fmt.Errorf("open metadata cache: %w", err)
			}
			defer store.Close()

			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("read cache stats: %w", err)
			}

			if asJSON {
				return writeJSON(cmd, map[string]any{
					"path":             store.Path(),
					"entries":          stats.Entries,
					"negative_entries": stats.Negative,
					"size_bytes":       stats.SizeBytes,
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache:            %s\n", store.Path())
			fmt.Fprintf(out, "Entries:          %d\n", stats.Entries)
			fmt.Fprintf(out, "Negative entries: %d\n", stats.Negative)
			fmt.Fprintf(out, "Size on disk:     %s\n", humanize.Bytes(uint64(stats.SizeBytes)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit stats as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached probe result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := metacache.Open(cfg.Paths.CacheDir, metacache.Options{FlushEvery: cfg.Cache.FlushEvery})
			if err != nil {
				return fmt.Errorf("open metadata cache: %w", err)
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared")
			return nil
		},
	}
}

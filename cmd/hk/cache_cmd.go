package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/config"
	"github.com/raphi011/hk/internal/output"
	"github.com/raphi011/hk/internal/ui"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   "Manage the remote source cache",
		GroupID: GroupUtility,
		Long: `Manage the cache of cloned remote hook sources.

Every remote source is cloned once per url@rev pin and reused across
repositories on this machine.`,
		Example: `  hk cache list            # Show cached sources
  hk cache clean           # Remove sources unused for 30 days
  hk cache purge           # Remove the entire cache`,
	}

	cmd.AddCommand(newCacheListCmd())
	cmd.AddCommand(newCacheCleanCmd())
	cmd.AddCommand(newCachePurgeCmd())

	return cmd
}

func newCacheListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			entries, err := store.List()
			if err != nil {
				return err
			}

			if jsonOutput {
				return out.JSON(entries)
			}
			if len(entries) == 0 {
				out.Println("Cache is empty")
				return nil
			}

			headers := []string{"REPO", "REV", "LAST USED"}
			var rows [][]string
			for _, e := range entries {
				rows = append(rows, []string{e.URL, e.Rev, e.LastUsed.Format("2006-01-02 15:04")})
			}
			out.Print(ui.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove sources that haven't been used recently",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			removed, err := store.Clean(olderThan)
			if err != nil {
				return err
			}
			out.Printf("Removed %d cached sources\n", removed)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Remove entries unused for this long")

	return cmd
}

func newCachePurgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove the entire cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			out := output.FromContext(ctx)

			store, err := newStore(cfg)
			if err != nil {
				return err
			}
			if err := store.Purge(); err != nil {
				return err
			}
			out.Printf("Removed %s\n", store.Dir())
			return nil
		},
	}

	return cmd
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/manifest"
	"github.com/raphi011/hk/internal/output"
)

func newUpdateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Update remote sources to their latest tags",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Update the rev of every remote source to the highest version tag
published on the remote, rewriting ` + manifest.FileName + ` in place.
Comments and ordering in the manifest are preserved.`,
		Example: `  hk update             # Bump all sources to their latest tags
  hk update --dry-run    # Only show what would change`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			repoRoot, err := requireRepoRoot(ctx)
			if err != nil {
				return err
			}
			mf, err := manifest.Load(repoRoot)
			if err != nil {
				return err
			}

			updates := make(map[string]string)
			for _, src := range mf.Repos {
				if src.IsLocal() {
					continue
				}
				latest, err := git.LatestTag(ctx, src.Repo)
				if err != nil {
					l.Printf("Warning: %s: %v\n", src.Repo, err)
					continue
				}
				if latest == src.Rev {
					l.Debug("source up to date", "repo", src.Repo, "rev", src.Rev)
					continue
				}
				out.Printf("%s: %s -> %s\n", src.Repo, src.Rev, latest)
				updates[src.Repo] = latest
			}

			if len(updates) == 0 {
				out.Println("All sources up to date")
				return nil
			}
			if dryRun {
				return nil
			}

			path := manifest.Path(repoRoot)
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			updated, changed, err := bumpRevs(data, updates)
			if err != nil {
				return err
			}
			if !changed {
				return nil
			}
			if err := os.WriteFile(path, updated, 0644); err != nil {
				return err
			}
			out.Printf("Updated %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would change without writing")

	return cmd
}

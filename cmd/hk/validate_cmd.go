package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/manifest"
	"github.com/raphi011/hk/internal/output"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate",
		Short:   "Validate the hook manifest",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Validate the repository's hook manifest.

Checks the manifest parses, rejects unknown fields, and verifies
hook ids, stages, and glob patterns. Exits non-zero when the
manifest is invalid, so it can gate CI.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoRoot, err := requireRepoRoot(ctx)
			if err != nil {
				return err
			}
			mf, err := manifest.Load(repoRoot)
			if err != nil {
				return err
			}

			hooks := 0
			for _, src := range mf.Repos {
				hooks += len(src.Hooks)
			}
			out.Printf("%s is valid: %d hooks in %d sources\n", manifest.FileName, hooks, len(mf.Repos))
			return nil
		},
	}

	return cmd
}

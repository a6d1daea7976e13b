package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/config"
	"github.com/raphi011/hk/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose the hook setup",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Diagnose the repository's hook setup.

Checks required tooling, the manifest, the installed shims, and the
hook sources. With --fix, repairs what can be repaired: installing
missing or outdated shims and fetching uncached sources.`,
		Example: `  hk doctor          # Report issues
  hk doctor --fix    # Repair fixable issues`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)

			repoRoot, err := requireRepoRoot(ctx)
			if err != nil {
				return err
			}
			store, err := newStore(cfg)
			if err != nil {
				return err
			}

			return doctor.Run(ctx, repoRoot, store, fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair fixable issues")

	return cmd
}

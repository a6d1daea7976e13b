package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/config"
	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/installer"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/manifest"
	"github.com/raphi011/hk/internal/output"
)

func newInstallCmd() *cobra.Command {
	var (
		stages []string
		force  bool
	)

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install hook shims into .git/hooks",
		GroupID: GroupSetup,
		Args:    cobra.NoArgs,
		Long: `Install hook shims into the repository's hooks directory.

Without --stage flags, installs shims for every stage the manifest's
hooks use, or the global config's default_stages when the manifest
yields none. Existing hooks not written by hk are preserved: with
--force they are moved aside to <stage>.legacy.hk and restored by
'hk uninstall'.`,
		Example: `  hk install                     # Install shims for all configured stages
  hk install --stage pre-commit  # Install a single stage
  hk install --force             # Move existing foreign hooks aside`,
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

			var install []manifest.Stage
			if len(stages) > 0 {
				for _, s := range stages {
					stage, err := manifest.ParseStage(s)
					if err != nil {
						return err
					}
					if !stage.Installable() {
						return fmt.Errorf("stage %s cannot be installed as a git hook", stage)
					}
					install = append(install, stage)
				}
			} else {
				install, err = installStages(mf, config.FromContext(ctx))
				if err != nil {
					return err
				}
			}
			if len(install) == 0 {
				return fmt.Errorf("no installable stages configured in %s", manifest.FileName)
			}

			hooksDir, err := git.HooksDir(ctx, repoRoot)
			if err != nil {
				return err
			}
			l.Debug("installing shims", "dir", hooksDir, "stages", len(install))

			res, err := installer.New(hooksDir).Install(install, force)
			if err != nil {
				return err
			}

			for _, backup := range res.Backups {
				l.Printf("Moved existing hook to %s\n", backup)
			}
			switch {
			case len(res.Installed) == 0 && len(res.Updated) == 0:
				out.Println("Hooks already installed and up to date")
			default:
				for _, s := range res.Installed {
					out.Printf("Installed %s hook\n", s)
				}
				for _, s := range res.Updated {
					out.Printf("Updated %s hook\n", s)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&stages, "stage", "s", nil, "Stage(s) to install (default: all configured)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Move aside existing hooks not written by hk")

	cmd.RegisterFlagCompletionFunc("stage", completeStages)

	return cmd
}

func newUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "uninstall",
		Short:   "Remove hook shims and restore previous hooks",
		GroupID: GroupSetup,
		Args:    cobra.NoArgs,
		Long: `Remove every hk shim from the hooks directory.

Hooks that were moved aside during 'hk install --force' are restored.
Hooks not written by hk are never touched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			repoRoot, err := requireRepoRoot(ctx)
			if err != nil {
				return err
			}
			hooksDir, err := git.HooksDir(ctx, repoRoot)
			if err != nil {
				return err
			}

			removed, err := installer.New(hooksDir).Uninstall()
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				out.Println("No hk hooks installed")
				return nil
			}
			for _, s := range removed {
				out.Printf("Removed %s hook\n", s)
			}
			return nil
		},
	}

	return cmd
}

// installStages resolves the stages to install when no --stage flags
// were given: the stages the manifest's hooks use, falling back to the
// global config's default_stages when none of them are installable.
func installStages(mf *manifest.Config, cfg *config.Config) ([]manifest.Stage, error) {
	if stages := manifestStages(mf); len(stages) > 0 {
		return stages, nil
	}

	var stages []manifest.Stage
	for _, s := range cfg.DefaultStages {
		stage, err := manifest.ParseStage(s)
		if err != nil {
			return nil, fmt.Errorf("config default_stages: %w", err)
		}
		if !stage.Installable() {
			continue
		}
		stages = append(stages, stage)
	}
	return stages, nil
}

// manifestStages collects the installable stages the manifest's hooks
// use, in stage display order.
func manifestStages(mf *manifest.Config) []manifest.Stage {
	seen := make(map[manifest.Stage]bool)
	for _, src := range mf.Repos {
		for _, h := range src.Hooks {
			for _, s := range h.Stages {
				if s.Installable() {
					seen[s] = true
				}
			}
		}
	}

	var stages []manifest.Stage
	for _, s := range manifest.KnownStages() {
		if seen[s] {
			stages = append(stages, s)
		}
	}
	return stages
}

// completeStages offers stage names for --stage flags.
func completeStages(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, s := range manifest.KnownStages() {
		if s.Installable() {
			names = append(names, string(s))
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

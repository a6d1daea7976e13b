package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/hk/internal/config"
	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/manifest"
	"github.com/raphi011/hk/internal/runner"
	"github.com/raphi011/hk/internal/ui"
)

func newRunCmd() *cobra.Command {
	var (
		hookStage   string
		allFiles    bool
		files       []string
		fromRef     string
		toRef       string
		jobs        int
		failFast    bool
		noStash     bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:     "run [hook-id...]",
		Short:   "Run hooks",
		GroupID: GroupHooks,
		Long: `Run hooks against the staged files of the repository.

Without arguments, runs every hook configured for the pre-commit
stage. With hook ids, runs exactly those hooks regardless of their
stages. The installed git shims invoke this command with --hook-stage
set, forwarding git's arguments after --.`,
		Example: `  hk run                       # Run pre-commit hooks on staged files
  hk run fmt lint              # Run specific hooks
  hk run --all-files           # Run against every tracked file
  hk run -i                    # Pick hooks interactively
  hk run --hook-stage pre-push # Run pre-push hooks`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			l := log.FromContext(ctx)

			repoRoot, err := requireRepoRoot(ctx)
			if err != nil {
				return err
			}
			mf, err := manifest.Load(repoRoot)
			if err != nil {
				return err
			}
			store, err := newStore(cfg)
			if err != nil {
				return err
			}

			// Hook ids come before --, git's own arguments after it.
			hookIDs := args
			var gitArgs []string
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				hookIDs = args[:at]
				gitArgs = args[at:]
			}

			stage := manifest.StagePreCommit
			if hookStage != "" {
				stage, err = manifest.ParseStage(hookStage)
				if err != nil {
					return err
				}
			}

			if interactive {
				hookIDs, err = pickHooks(mf)
				if err != nil {
					return err
				}
				if len(hookIDs) == 0 {
					l.Println("No hooks selected")
					return nil
				}
			}

			opts := runner.Options{
				Stage:    stage,
				HookIDs:  hookIDs,
				AllFiles: allFiles,
				Files:    files,
				FromRef:  fromRef,
				ToRef:    toRef,
				Jobs:     jobs,
				FailFast: failFast,
				NoStash:  noStash,
				Color:    colorEnabled(cfg),
				Verbose:  l.IsVerbose(),
			}
			if opts.Jobs == 0 {
				opts.Jobs = cfg.EffectiveJobs()
			}
			applyGitArgs(&opts, gitArgs)

			summary, err := runner.New(repoRoot, mf, store).Run(ctx, opts)
			if err != nil {
				return err
			}
			if failed := summary.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d hooks failed", failed, len(summary.Results))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hookStage, "hook-stage", "", "Stage to run hooks for (set by installed shims)")
	cmd.Flags().BoolVarP(&allFiles, "all-files", "a", false, "Run against all tracked files")
	cmd.Flags().StringSliceVar(&files, "files", nil, "Run against an explicit list of files")
	cmd.Flags().StringVar(&fromRef, "from-ref", "", "Lower bound of the changed-file range")
	cmd.Flags().StringVar(&toRef, "to-ref", "", "Upper bound of the changed-file range")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Parallel invocations per hook (0 = config/CPU count)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first failing hook")
	cmd.Flags().BoolVar(&noStash, "no-stash", false, "Don't stash unstaged changes before running")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Pick hooks to run interactively")

	return cmd
}

// applyGitArgs interprets the arguments and stdin git hands to the
// stage's shim.
func applyGitArgs(opts *runner.Options, gitArgs []string) {
	switch {
	case opts.Stage.UsesCommitMsgFile():
		if opts.CommitMsgFile == "" && len(gitArgs) > 0 {
			opts.CommitMsgFile = gitArgs[0]
		}

	case opts.Stage == manifest.StagePrePush:
		if opts.FromRef != "" || opts.ToRef != "" {
			return
		}
		// git feeds "<local ref> <local sha> <remote ref> <remote sha>"
		// lines on stdin. Only read it when piped, a manual run on a
		// terminal must not block.
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			return
		}
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			fields := strings.Fields(scanner.Text())
			if len(fields) != 4 {
				continue
			}
			localSha, remoteSha := fields[1], fields[3]
			if localSha == git.ZeroHash {
				// Deleting a remote branch pushes no commits.
				continue
			}
			opts.FromRef = remoteSha
			opts.ToRef = localSha
			return
		}
	}
}

// pickHooks shows the interactive multi-select over all manifest hooks.
func pickHooks(mf *manifest.Config) ([]string, error) {
	var items []ui.Item
	for _, src := range mf.Repos {
		for _, h := range src.Hooks {
			items = append(items, ui.Item{
				ID:          h.ID,
				Title:       h.DisplayName(),
				Description: h.Description,
			})
		}
	}
	return ui.RunPicker("Select hooks to run", items)
}

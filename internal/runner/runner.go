package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/raphi011/hk/internal/cache"
	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/log"
	"github.com/raphi011/hk/internal/manifest"
	"github.com/raphi011/hk/internal/output"
)

// Status is the outcome of one hook.
type Status int

const (
	StatusPassed Status = iota
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "Passed"
	case StatusFailed:
		return "Failed"
	case StatusSkipped:
		return "Skipped"
	}
	return "Unknown"
}

// Result is the outcome of running one hook.
type Result struct {
	Hook       manifest.Hook
	Status     Status
	SkipReason string
	Output     []byte
	Err        error
	Duration   time.Duration
}

// Summary aggregates a whole run.
type Summary struct {
	Results []Result
}

// Failed counts hooks that did not pass.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Status == StatusFailed {
			n++
		}
	}
	return n
}

// Options selects which hooks run and on which files.
type Options struct {
	// Stage is the git stage being executed. Defaults to pre-commit.
	Stage manifest.Stage

	// HookIDs restricts the run to specific hooks. Unknown ids fail.
	HookIDs []string

	// AllFiles runs against every tracked file instead of the staged set.
	AllFiles bool

	// Files runs against an explicit file list.
	Files []string

	// FromRef and ToRef bound the changed-file range for pre-push runs.
	FromRef string
	ToRef   string

	// CommitMsgFile is the message file git hands to commit-msg stages.
	CommitMsgFile string

	// Jobs caps parallel invocations per hook.
	Jobs int

	// FailFast stops at the first failing hook, in addition to the
	// manifest's fail_fast setting.
	FailFast bool

	// NoStash disables stashing unstaged changes around staged runs.
	NoStash bool

	// Color enables styled status output.
	Color bool

	// Verbose prints hook output even on success.
	Verbose bool
}

// Runner executes the hooks of one repository.
type Runner struct {
	repoRoot string
	cfg      *manifest.Config
	store    *cache.Store
}

func New(repoRoot string, cfg *manifest.Config, store *cache.Store) *Runner {
	return &Runner{repoRoot: repoRoot, cfg: cfg, store: store}
}

// Run executes the selected hooks in manifest order and reports each
// result as it completes. The returned error covers infrastructure
// failures only; hook failures are reflected in the summary.
func (r *Runner) Run(ctx context.Context, opts Options) (*Summary, error) {
	logger := log.FromContext(ctx)
	rep := newReporter(output.FromContext(ctx), opts.Color, opts.Verbose)

	if opts.Stage == "" {
		opts.Stage = manifest.StagePreCommit
	}

	tasks, err := r.resolveTasks(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err = selectTasks(tasks, opts)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		logger.Debug("no hooks selected", "stage", opts.Stage)
		return &Summary{}, nil
	}

	files, filesApply, err := r.candidateFiles(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Debug("running hooks",
		"stage", opts.Stage, "hooks", len(tasks), "files", len(files))

	// Hooks must see the tree that is about to be committed, so
	// unstaged edits are stashed away and restored afterwards.
	if r.shouldStash(opts) {
		stashed, err := git.StashUnstaged(ctx, r.repoRoot)
		if err != nil {
			return nil, err
		}
		if stashed {
			logger.Debug("stashed unstaged changes")
			defer func() {
				if err := git.StashPop(ctx, r.repoRoot); err != nil {
					logger.Printf("warning: %v\n", err)
				}
			}()
		}
	}

	summary := &Summary{}
	failFast := opts.FailFast || r.cfg.FailFast
	for _, t := range tasks {
		res := r.runHook(ctx, t, files, filesApply, opts)
		summary.Results = append(summary.Results, res)
		rep.result(res)

		if res.Status == StatusFailed && failFast {
			break
		}
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
	}
	return summary, nil
}

func (r *Runner) shouldStash(opts Options) bool {
	return opts.Stage == manifest.StagePreCommit &&
		!opts.NoStash && !opts.AllFiles && len(opts.Files) == 0
}

// candidateFiles computes the file set hooks filter against. The
// second return is false for stages that don't operate on files at
// all (post-commit and friends), where hooks run once with no
// filenames.
func (r *Runner) candidateFiles(ctx context.Context, opts Options) ([]string, bool, error) {
	if len(opts.Files) > 0 {
		return opts.Files, true, nil
	}
	if opts.AllFiles {
		files, err := git.TrackedFiles(ctx, r.repoRoot)
		return files, true, err
	}

	switch {
	case opts.Stage.UsesCommitMsgFile():
		if opts.CommitMsgFile == "" {
			return nil, false, fmt.Errorf("stage %s requires a commit message file", opts.Stage)
		}
		return []string{opts.CommitMsgFile}, true, nil

	case opts.Stage == manifest.StagePrePush:
		if opts.ToRef == "" || opts.FromRef == "" || opts.FromRef == git.ZeroHash {
			// New branch or no ref information, check everything.
			files, err := git.TrackedFiles(ctx, r.repoRoot)
			return files, true, err
		}
		files, err := git.ChangedFiles(ctx, r.repoRoot, opts.FromRef, opts.ToRef)
		return files, true, err

	case opts.Stage == manifest.StagePreCommit, opts.Stage == manifest.StageManual:
		files, err := git.StagedFiles(ctx, r.repoRoot)
		return files, true, err

	default:
		// post-commit, post-checkout, post-merge, pre-rebase: git has
		// already acted (or acts on refs), there is no file set.
		return nil, false, nil
	}
}

// selectTasks filters resolved tasks down to the requested hooks.
func selectTasks(tasks []task, opts Options) ([]task, error) {
	if len(opts.HookIDs) > 0 {
		byID := make(map[string]task, len(tasks))
		for _, t := range tasks {
			byID[t.hook.ID] = t
		}
		var out []task
		for _, id := range opts.HookIDs {
			t, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("no hook with id %q in %s", id, manifest.FileName)
			}
			out = append(out, t)
		}
		return out, nil
	}

	var out []task
	for _, t := range tasks {
		if t.hook.HasStage(opts.Stage) {
			out = append(out, t)
		}
	}
	return out, nil
}

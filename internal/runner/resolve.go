package runner

import (
	"context"
	"fmt"

	"github.com/raphi011/hk/internal/manifest"
)

// task is a hook ready to execute: its merged definition plus the
// directory its scripts resolve against.
type task struct {
	hook manifest.Hook

	// sourceDir is the repo root for local hooks or the cached clone
	// for remote ones. Script entries resolve relative to it.
	sourceDir string

	// repo is "local" or the source URL, for display.
	repo string
}

// resolveTasks materializes every manifest hook. Remote sources are
// cloned (or served from cache) and their exported definitions merged
// with the consumer's overrides, preserving manifest order.
func (r *Runner) resolveTasks(ctx context.Context) ([]task, error) {
	var tasks []task
	for i := range r.cfg.Repos {
		src := &r.cfg.Repos[i]

		if src.IsLocal() {
			for _, h := range src.Hooks {
				tasks = append(tasks, task{hook: h, sourceDir: r.repoRoot, repo: manifest.LocalRepo})
			}
			continue
		}

		dir, err := r.store.Ensure(ctx, src.Repo, src.Rev)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s@%s: %w", src.Repo, src.Rev, err)
		}
		exported, err := manifest.LoadSourceHooks(dir)
		if err != nil {
			return nil, fmt.Errorf("%s@%s: %w", src.Repo, src.Rev, err)
		}

		for _, h := range src.Hooks {
			base, ok := exported[h.ID]
			if !ok {
				return nil, fmt.Errorf("%s@%s exports no hook %q", src.Repo, src.Rev, h.ID)
			}
			tasks = append(tasks, task{
				hook:      manifest.Override(base, h),
				sourceDir: dir,
				repo:      src.Repo,
			})
		}
	}
	return tasks, nil
}

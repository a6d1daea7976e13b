package git

import (
	"context"
	"fmt"
	"strings"
)

const stashMessage = "hk autostash"

// StashUnstaged stashes unstaged changes while keeping the index
// intact, so hooks see exactly what will be committed. Returns false
// if there was nothing to stash.
func StashUnstaged(ctx context.Context, repoRoot string) (bool, error) {
	dirty, err := HasUnstagedChanges(ctx, repoRoot)
	if err != nil {
		return false, err
	}
	if !dirty {
		return false, nil
	}
	if err := runGit(ctx, repoRoot, "stash", "push", "--keep-index", "-m", stashMessage); err != nil {
		return false, fmt.Errorf("failed to stash unstaged changes: %v", err)
	}
	return true, nil
}

// StashPop restores the most recent hk autostash entry.
// Refuses to pop a stash hk didn't create.
func StashPop(ctx context.Context, repoRoot string) error {
	out, err := outputGit(ctx, repoRoot, "stash", "list", "--format=%gs", "-n", "1")
	if err != nil {
		return fmt.Errorf("failed to inspect stash: %v", err)
	}
	if !strings.Contains(string(out), stashMessage) {
		return fmt.Errorf("top stash entry is not an hk autostash, refusing to pop")
	}
	if err := runGit(ctx, repoRoot, "stash", "pop"); err != nil {
		return fmt.Errorf("failed to pop stash: %v", err)
	}
	return nil
}

package git

import (
	"context"
	"crypto/sha256"
	"fmt"
)

// Snapshot is a fingerprint of the working tree's uncommitted state.
// Comparing snapshots taken before and after a hook detects hooks
// that modify files.
type Snapshot [sha256.Size]byte

// TakeSnapshot fingerprints the working tree: the full unstaged diff
// plus the list of untracked files (a hook creating a new file counts
// as a modification too).
func TakeSnapshot(ctx context.Context, repoRoot string) (Snapshot, error) {
	h := sha256.New()

	diff, err := outputGit(ctx, repoRoot, "diff", "--no-ext-diff", "--binary")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to snapshot working tree: %w", err)
	}
	h.Write(diff)

	untracked, err := outputGit(ctx, repoRoot,
		"ls-files", "-z", "--others", "--exclude-standard")
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to list untracked files: %w", err)
	}
	h.Write(untracked)

	var s Snapshot
	copy(s[:], h.Sum(nil))
	return s, nil
}

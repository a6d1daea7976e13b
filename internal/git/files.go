package git

import (
	"context"
	"fmt"
	"strings"
)

// splitNul splits NUL-terminated git output into paths.
// -z output avoids quoting issues with unusual file names.
func splitNul(out []byte) []string {
	parts := strings.Split(string(out), "\x00")
	var files []string
	for _, p := range parts {
		if p != "" {
			files = append(files, p)
		}
	}
	return files
}

// StagedFiles returns the repo-relative paths staged for commit.
// Deleted files are excluded since hooks can't operate on them.
func StagedFiles(ctx context.Context, repoRoot string) ([]string, error) {
	out, err := outputGit(ctx, repoRoot,
		"diff", "--cached", "--name-only", "-z", "--diff-filter=ACMR")
	if err != nil {
		return nil, fmt.Errorf("failed to list staged files: %w", err)
	}
	return splitNul(out), nil
}

// TrackedFiles returns every file tracked in the repository.
func TrackedFiles(ctx context.Context, repoRoot string) ([]string, error) {
	out, err := outputGit(ctx, repoRoot, "ls-files", "-z")
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}
	return splitNul(out), nil
}

// ChangedFiles returns the files that differ between two refs,
// used for pre-push runs. fromRef may be the all-zero hash when the
// remote branch doesn't exist yet; callers handle that case.
func ChangedFiles(ctx context.Context, repoRoot, fromRef, toRef string) ([]string, error) {
	out, err := outputGit(ctx, repoRoot,
		"diff", "--name-only", "-z", "--diff-filter=ACMR", fromRef+"..."+toRef)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s...%s: %w", fromRef, toRef, err)
	}
	return splitNul(out), nil
}

// HasUnstagedChanges reports whether the working tree differs from the
// index (ignoring untracked files).
func HasUnstagedChanges(ctx context.Context, repoRoot string) (bool, error) {
	out, err := outputGit(ctx, repoRoot, "diff", "--name-only", "-z", "--no-ext-diff")
	if err != nil {
		return false, fmt.Errorf("failed to check working tree: %w", err)
	}
	return len(splitNul(out)) > 0, nil
}

// ZeroHash is the all-zero object hash git passes for deleted or
// not-yet-existing refs on pre-push.
const ZeroHash = "0000000000000000000000000000000000000000"

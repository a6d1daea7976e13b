package git

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Clone clones url into dest at the given rev. A shallow clone of the
// pinned rev is attempted first; older git servers that refuse
// fetching an arbitrary rev fall back to a full clone plus checkout.
func Clone(ctx context.Context, url, rev, dest string) error {
	err := runGit(ctx, "", "clone", "--quiet", "--depth", "1", "--branch", rev, url, dest)
	if err == nil {
		return nil
	}

	if cloneErr := runGit(ctx, "", "clone", "--quiet", url, dest); cloneErr != nil {
		return fmt.Errorf("failed to clone %s: %v", url, cloneErr)
	}
	if err := runGit(ctx, dest, "checkout", "--quiet", rev); err != nil {
		return fmt.Errorf("failed to checkout %s at %s: %v", url, rev, err)
	}
	return nil
}

// LatestTag queries the remote for its highest version tag.
// Tags that don't parse as versions (optionally v-prefixed
// dotted numbers) are ignored.
func LatestTag(ctx context.Context, url string) (string, error) {
	out, err := outputGit(ctx, "", "ls-remote", "--tags", "--refs", url)
	if err != nil {
		return "", fmt.Errorf("failed to list tags of %s: %v", url, err)
	}

	var tags []string
	for _, line := range strings.Split(string(out), "\n") {
		_, ref, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		tag := strings.TrimPrefix(ref, "refs/tags/")
		if _, ok := parseVersion(tag); ok {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return "", fmt.Errorf("no version tags found on %s", url)
	}

	sort.Slice(tags, func(i, j int) bool {
		vi, _ := parseVersion(tags[i])
		vj, _ := parseVersion(tags[j])
		return lessVersion(vi, vj)
	})
	return tags[len(tags)-1], nil
}

// parseVersion parses "v1.2.3" or "1.2" into numeric fields.
func parseVersion(tag string) ([]int, bool) {
	s := strings.TrimPrefix(tag, "v")
	if s == "" {
		return nil, false
	}
	parts := strings.Split(s, ".")
	nums := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, false
		}
		nums = append(nums, n)
	}
	return nums, true
}

func lessVersion(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/raphi011/hk/internal/cache"
	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/installer"
	"github.com/raphi011/hk/internal/manifest"
	"github.com/raphi011/hk/internal/output"
)

// fixAllIssues repairs every fixable issue and reports what was done.
// Unfixable issues are listed so the user can act on them.
func fixAllIssues(ctx context.Context, repoRoot string, store *cache.Store, issues []Issue) error {
	p := output.FromContext(ctx)
	p.Println("\nFixing issues...")

	var shimStages []manifest.Stage
	var unfixed []Issue
	fixed := 0

	for _, issue := range issues {
		switch issue.FixAction {
		case FixInstallShim, FixUpdateShim:
			shimStages = append(shimStages, manifest.Stage(issue.Key))

		case FixFetchSource:
			url, rev, ok := strings.Cut(issue.Key, "@")
			if !ok {
				unfixed = append(unfixed, issue)
				continue
			}
			if _, err := store.Ensure(ctx, url, rev); err != nil {
				p.Printf("  ✗ failed to fetch %s: %v\n", issue.Key, err)
				unfixed = append(unfixed, issue)
				continue
			}
			p.Printf("  ✓ fetched %s\n", issue.Key)
			fixed++

		default:
			unfixed = append(unfixed, issue)
		}
	}

	if len(shimStages) > 0 {
		hooksDir, err := git.HooksDir(ctx, repoRoot)
		if err != nil {
			return err
		}
		if _, err := installer.New(hooksDir).Install(shimStages, false); err != nil {
			return fmt.Errorf("failed to install shims: %w", err)
		}
		for _, s := range shimStages {
			p.Printf("  ✓ installed %s shim\n", s)
		}
		fixed += len(shimStages)
	}

	p.Printf("\nFixed %d of %d issues.\n", fixed, len(issues))
	if len(unfixed) > 0 {
		p.Println("Remaining issues need manual attention:")
		for _, issue := range unfixed {
			p.Printf("  • %s: %s\n", issue.Key, issue.Description)
		}
		return fmt.Errorf("%d issues could not be fixed", len(unfixed))
	}
	return nil
}

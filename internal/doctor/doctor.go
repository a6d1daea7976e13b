package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/raphi011/hk/internal/cache"
	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/installer"
	"github.com/raphi011/hk/internal/manifest"
	"github.com/raphi011/hk/internal/output"
)

// Run performs diagnostic checks on the repository's hook setup and
// optionally fixes what it can.
func Run(ctx context.Context, repoRoot string, store *cache.Store, fix bool) error {
	p := output.FromContext(ctx)

	var stats IssueStats
	var allIssues []Issue

	p.Println("Checking environment...")
	allIssues = append(allIssues, checkEnvironment()...)

	p.Println("Checking manifest...")
	cfg, manifestIssues := checkManifest(repoRoot)
	allIssues = append(allIssues, manifestIssues...)

	if cfg != nil {
		p.Println("Checking hook shims...")
		shimIssues, err := checkShims(ctx, repoRoot, cfg, &stats)
		if err != nil {
			return err
		}
		allIssues = append(allIssues, shimIssues...)

		p.Println("Checking hook sources...")
		allIssues = append(allIssues, checkSources(cfg, store, &stats)...)
		allIssues = append(allIssues, checkEntries(repoRoot, cfg, &stats)...)
	}

	printSummary(ctx, stats)

	if len(allIssues) == 0 {
		p.Println("\n✓ No issues found")
		return nil
	}

	p.Printf("\nFound %d issues:\n", len(allIssues))
	printIssuesByCategory(ctx, allIssues)

	if fix {
		return fixAllIssues(ctx, repoRoot, store, allIssues)
	}

	p.Println("\nRun 'hk doctor --fix' to repair what can be repaired.")
	return errors.New("issues found")
}

// checkManifest loads the manifest, converting load failures into
// issues. Returns nil config when dependent checks can't run.
func checkManifest(repoRoot string) (*manifest.Config, []Issue) {
	cfg, err := manifest.Load(repoRoot)
	if err == nil {
		return cfg, nil
	}

	issue := Issue{
		Key:      manifest.FileName,
		Category: CategoryManifest,
	}
	if errors.Is(err, manifest.ErrNotFound) {
		issue.Description = "no manifest found, run 'hk init' to create one"
	} else {
		issue.Description = err.Error()
	}
	return nil, []Issue{issue}
}

// configuredStages returns the installable stages any hook uses.
func configuredStages(cfg *manifest.Config) []manifest.Stage {
	seen := make(map[manifest.Stage]bool)
	for _, src := range cfg.Repos {
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

func checkShims(ctx context.Context, repoRoot string, cfg *manifest.Config, stats *IssueStats) ([]Issue, error) {
	hooksDir, err := git.HooksDir(ctx, repoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to locate hooks dir: %w", err)
	}
	inst := installer.New(hooksDir)

	installed, err := inst.InstalledStages()
	if err != nil {
		return nil, err
	}
	stale, err := inst.StaleStages()
	if err != nil {
		return nil, err
	}

	installedSet := make(map[manifest.Stage]bool, len(installed))
	for _, s := range installed {
		installedSet[s] = true
	}
	staleSet := make(map[manifest.Stage]bool, len(stale))
	for _, s := range stale {
		staleSet[s] = true
	}

	var issues []Issue
	for _, stage := range configuredStages(cfg) {
		switch {
		case !installedSet[stage]:
			stats.ShimsMissing++
			issues = append(issues, Issue{
				Key:         string(stage),
				Description: "hooks configured for this stage but no shim installed",
				FixAction:   FixInstallShim,
				Category:    CategoryShims,
			})
		case staleSet[stage]:
			stats.ShimsStale++
			issues = append(issues, Issue{
				Key:         string(stage),
				Description: "shim was written by a different hk version",
				FixAction:   FixUpdateShim,
				Category:    CategoryShims,
			})
		default:
			stats.ShimsInstalled++
		}
	}
	return issues, nil
}

func printSummary(ctx context.Context, stats IssueStats) {
	p := output.FromContext(ctx)
	p.Println()

	if stats.ShimsInstalled > 0 {
		p.Printf("  ✓ %d shims installed and current\n", stats.ShimsInstalled)
	}
	if stats.ShimsMissing > 0 {
		p.Printf("  ⚠ %d stages missing a shim\n", stats.ShimsMissing)
	}
	if stats.ShimsStale > 0 {
		p.Printf("  ⚠ %d stale shims\n", stats.ShimsStale)
	}

	if stats.SourcesCached > 0 {
		p.Printf("  ✓ %d sources cached\n", stats.SourcesCached)
	}
	if stats.SourcesMissing > 0 {
		p.Printf("  ⚠ %d sources not fetched yet\n", stats.SourcesMissing)
	}

	if stats.EntriesOK > 0 {
		p.Printf("  ✓ %d hook entries resolve\n", stats.EntriesOK)
	}
	if stats.EntriesBroken > 0 {
		p.Printf("  ✗ %d hook entries don't resolve\n", stats.EntriesBroken)
	}
}

func printIssuesByCategory(ctx context.Context, issues []Issue) {
	p := output.FromContext(ctx)

	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[IssueCategory]string{
		CategoryEnvironment: "Environment issues",
		CategoryManifest:    "Manifest issues",
		CategoryShims:       "Shim issues",
		CategorySources:     "Source issues",
	}

	for _, cat := range []IssueCategory{CategoryEnvironment, CategoryManifest, CategoryShims, CategorySources} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		p.Printf("\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			p.Printf("  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}

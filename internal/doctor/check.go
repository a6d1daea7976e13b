package doctor

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/shlex"

	"github.com/raphi011/hk/internal/cache"
	"github.com/raphi011/hk/internal/git"
	"github.com/raphi011/hk/internal/manifest"
)

// checkEnvironment verifies the tools hk itself depends on.
func checkEnvironment() []Issue {
	var issues []Issue

	if err := git.CheckGit(); err != nil {
		issues = append(issues, Issue{
			Key:         "git",
			Description: "git executable not found in PATH",
			Category:    CategoryEnvironment,
		})
	}

	// The shims exec hk by name, so a missing PATH entry means
	// installed hooks silently skip.
	if _, err := exec.LookPath("hk"); err != nil {
		issues = append(issues, Issue{
			Key:         "hk",
			Description: "hk is not in PATH, installed shims will skip all hooks",
			Category:    CategoryEnvironment,
		})
	}
	return issues
}

// checkSources verifies every remote source has a cached clone.
func checkSources(cfg *manifest.Config, store *cache.Store, stats *IssueStats) []Issue {
	cached := make(map[string]bool)
	if entries, err := store.List(); err == nil {
		for _, e := range entries {
			cached[e.URL+"@"+e.Rev] = true
		}
	}

	var issues []Issue
	for _, src := range cfg.Repos {
		if src.IsLocal() {
			continue
		}
		if cached[src.Repo+"@"+src.Rev] {
			stats.SourcesCached++
			continue
		}
		stats.SourcesMissing++
		issues = append(issues, Issue{
			Key:         src.Repo + "@" + src.Rev,
			Description: "source not in cache, first run will clone it",
			FixAction:   FixFetchSource,
			Category:    CategorySources,
		})
	}
	return issues
}

// checkEntries verifies local hook entries resolve to something
// executable. Remote entries are checked against their source at run
// time instead, since the clone may not exist yet.
func checkEntries(repoRoot string, cfg *manifest.Config, stats *IssueStats) []Issue {
	var issues []Issue
	for _, src := range cfg.Repos {
		if !src.IsLocal() {
			continue
		}
		for _, h := range src.Hooks {
			if h.Language == manifest.LanguageFail {
				continue
			}

			argv, err := shlex.Split(h.Entry)
			if err != nil || len(argv) == 0 {
				stats.EntriesBroken++
				issues = append(issues, Issue{
					Key:         h.ID,
					Description: "entry is not a valid command line",
					Category:    CategorySources,
				})
				continue
			}

			if resolvesEntry(repoRoot, argv[0], h.Language) {
				stats.EntriesOK++
				continue
			}
			stats.EntriesBroken++
			issues = append(issues, Issue{
				Key:         h.ID,
				Description: "entry command " + argv[0] + " not found",
				Category:    CategorySources,
			})
		}
	}
	return issues
}

// resolvesEntry reports whether the first word of an entry points at
// something runnable. Script and repo-relative paths are resolved
// against repoRoot, not the invocation directory, so 'hk doctor'
// works from subdirectories too.
func resolvesEntry(repoRoot, name, language string) bool {
	if language == manifest.LanguageScript || filepath.IsAbs(name) {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(repoRoot, path)
		}
		_, err := os.Stat(path)
		return err == nil
	}
	_, err := exec.LookPath(name)
	return err == nil
}

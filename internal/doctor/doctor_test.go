package doctor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/raphi011/hk/internal/manifest"
)

func TestCheckManifest(t *testing.T) {
	t.Parallel()

	t.Run("missing manifest", func(t *testing.T) {
		t.Parallel()
		cfg, issues := checkManifest(t.TempDir())
		if cfg != nil {
			t.Error("checkManifest() returned a config for a missing manifest")
		}
		if len(issues) != 1 || issues[0].Category != CategoryManifest {
			t.Fatalf("issues = %v, want one manifest issue", issues)
		}
		if issues[0].Fixable() {
			t.Error("missing manifest should not be auto-fixable")
		}
	})

	t.Run("invalid manifest", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte("repos: []\n"), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, issues := checkManifest(dir)
		if cfg != nil {
			t.Error("checkManifest() returned a config for an invalid manifest")
		}
		if len(issues) != 1 {
			t.Fatalf("issues = %v, want one", issues)
		}
	})

	t.Run("valid manifest", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		data := "repos:\n  - repo: local\n    hooks:\n      - id: fmt\n        entry: gofmt -l\n"
		if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, issues := checkManifest(dir)
		if cfg == nil {
			t.Fatal("checkManifest() = nil config for a valid manifest")
		}
		if len(issues) != 0 {
			t.Errorf("issues = %v, want none", issues)
		}
	})
}

func TestConfiguredStages(t *testing.T) {
	t.Parallel()

	cfg := &manifest.Config{
		Repos: []manifest.Source{{
			Repo: manifest.LocalRepo,
			Hooks: []manifest.Hook{
				{ID: "a", Stages: []manifest.Stage{manifest.StagePrePush, manifest.StagePreCommit}},
				{ID: "b", Stages: []manifest.Stage{manifest.StagePreCommit}},
				{ID: "c", Stages: []manifest.Stage{manifest.StageManual}},
			},
		}},
	}

	got := configuredStages(cfg)
	want := []manifest.Stage{manifest.StagePreCommit, manifest.StagePrePush}
	if len(got) != len(want) {
		t.Fatalf("configuredStages() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("configuredStages()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestCheckEntries(t *testing.T) {
	t.Parallel()

	cfg := &manifest.Config{
		Repos: []manifest.Source{{
			Repo: manifest.LocalRepo,
			Hooks: []manifest.Hook{
				{ID: "ok", Entry: "sh -c true", Language: manifest.LanguageSystem},
				{ID: "missing", Entry: "definitely-not-a-command-xyz", Language: manifest.LanguageSystem},
				{ID: "guard", Entry: "no binaries please", Language: manifest.LanguageFail, Files: "*.bin"},
				{ID: "unsplittable", Entry: `sh -c "unterminated`, Language: manifest.LanguageSystem},
			},
		}},
	}

	var stats IssueStats
	issues := checkEntries(t.TempDir(), cfg, &stats)

	if stats.EntriesOK != 1 {
		t.Errorf("EntriesOK = %d, want 1", stats.EntriesOK)
	}
	if stats.EntriesBroken != 2 {
		t.Errorf("EntriesBroken = %d, want 2", stats.EntriesBroken)
	}
	if len(issues) != 2 {
		t.Fatalf("issues = %v, want 2", issues)
	}
	for _, issue := range issues {
		if issue.Key != "missing" && issue.Key != "unsplittable" {
			t.Errorf("unexpected issue for hook %q", issue.Key)
		}
	}
}

// Relative script entries belong to the repository, so they must
// resolve against the repo root no matter where hk was invoked.
func TestCheckEntries_ScriptRelativeToRepoRoot(t *testing.T) {
	t.Parallel()

	repoRoot := t.TempDir()
	script := filepath.Join(repoRoot, "tools", "gen.sh")
	if err := os.MkdirAll(filepath.Dir(script), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}

	cfg := &manifest.Config{
		Repos: []manifest.Source{{
			Repo: manifest.LocalRepo,
			Hooks: []manifest.Hook{
				{ID: "gen", Entry: "tools/gen.sh", Language: manifest.LanguageScript},
			},
		}},
	}

	var stats IssueStats
	if issues := checkEntries(repoRoot, cfg, &stats); len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}
	if stats.EntriesOK != 1 {
		t.Errorf("EntriesOK = %d, want 1", stats.EntriesOK)
	}

	var elsewhere IssueStats
	if issues := checkEntries(t.TempDir(), cfg, &elsewhere); len(issues) != 1 {
		t.Fatalf("issues = %v, want the entry reported as missing", issues)
	}
}

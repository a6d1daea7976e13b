package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSourceManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, SourceFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadSourceHooks(t *testing.T) {
	t.Parallel()

	t.Run("loads exported hooks", func(t *testing.T) {
		t.Parallel()
		dir := writeSourceManifest(t, `
hooks:
  - id: lint
    name: lint
    entry: bin/lint
    language: script
    files: "*.py"
  - id: lint-format
    entry: lint-format
`)
		hooks, err := LoadSourceHooks(dir)
		if err != nil {
			t.Fatalf("LoadSourceHooks() = %v, want nil", err)
		}
		if len(hooks) != 2 {
			t.Fatalf("len(hooks) = %d, want 2", len(hooks))
		}
		lint := hooks["lint"]
		if lint.Language != LanguageScript {
			t.Errorf("Language = %q, want %q", lint.Language, LanguageScript)
		}
		if hooks["lint-format"].Language != LanguageSystem {
			t.Error("language should default to system")
		}
	})

	t.Run("missing manifest", func(t *testing.T) {
		t.Parallel()
		_, err := LoadSourceHooks(t.TempDir())
		if !errors.Is(err, ErrNoSourceManifest) {
			t.Errorf("LoadSourceHooks() = %v, want ErrNoSourceManifest", err)
		}
	})

	t.Run("hook without entry", func(t *testing.T) {
		t.Parallel()
		dir := writeSourceManifest(t, "hooks:\n  - id: lint\n")
		if _, err := LoadSourceHooks(dir); err == nil {
			t.Error("LoadSourceHooks() = nil, want error")
		}
	})

	t.Run("duplicate ids", func(t *testing.T) {
		t.Parallel()
		dir := writeSourceManifest(t, "hooks:\n  - id: lint\n    entry: a\n  - id: lint\n    entry: b\n")
		if _, err := LoadSourceHooks(dir); err == nil {
			t.Error("LoadSourceHooks() = nil, want error")
		}
	})
}

func TestOverride(t *testing.T) {
	t.Parallel()

	truth := true
	base := Hook{
		ID:       "lint",
		Name:     "lint",
		Entry:    "bin/lint",
		Language: LanguageScript,
		Files:    "*.py",
	}

	t.Run("unset fields keep source values", func(t *testing.T) {
		t.Parallel()
		entry := Hook{ID: "lint", Stages: []Stage{StagePreCommit}}
		got := Override(base, entry)
		if got.Entry != "bin/lint" || got.Language != LanguageScript || got.Files != "*.py" {
			t.Errorf("Override() lost source fields: %+v", got)
		}
		if len(got.Stages) != 1 || got.Stages[0] != StagePreCommit {
			t.Errorf("Stages = %v, want consumer stages", got.Stages)
		}
	})

	t.Run("consumer fields win", func(t *testing.T) {
		t.Parallel()
		entry := Hook{
			ID:            "lint",
			Args:          []string{"--fix"},
			Files:         "*.pyi",
			Env:           map[string]string{"LINT_CONFIG": "strict"},
			PassFilenames: &truth,
			AlwaysRun:     true,
			RequireSerial: true,
			Stages:        []Stage{StageManual},
		}
		got := Override(base, entry)
		if len(got.Args) != 1 || got.Args[0] != "--fix" {
			t.Errorf("Args = %v, want [--fix]", got.Args)
		}
		if got.Files != "*.pyi" {
			t.Errorf("Files = %q, want %q", got.Files, "*.pyi")
		}
		if got.Env["LINT_CONFIG"] != "strict" {
			t.Errorf("Env = %v, want consumer env", got.Env)
		}
		if !got.AlwaysRun || !got.RequireSerial {
			t.Error("boolean overrides should stick")
		}
	})

	t.Run("explicit system language overrides a script source", func(t *testing.T) {
		t.Parallel()
		entry := Hook{
			ID:       "lint",
			Entry:    "lint",
			Language: LanguageSystem,
			Stages:   []Stage{StagePreCommit},
		}
		got := Override(base, entry)
		if got.Language != LanguageSystem {
			t.Errorf("Language = %q, want %q", got.Language, LanguageSystem)
		}
	})
}

// Consumer entries for remote sources must keep an unset language
// through parsing, otherwise Override can't tell "language: system"
// apart from no language at all.
func TestParse_RemoteLanguageStaysUnset(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(`
repos:
  - repo: https://example.com/hooks.git
    rev: v1.0.0
    hooks:
      - id: lint
`))
	if err != nil {
		t.Fatalf("Parse() = %v, want nil", err)
	}
	if got := cfg.Repos[0].Hooks[0].Language; got != "" {
		t.Errorf("Language = %q, want unset", got)
	}
}

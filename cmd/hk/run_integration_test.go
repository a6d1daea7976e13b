//go:build integration

package main

import (
	"strings"
	"testing"
)

// TestRun_PassingHook runs a local hook that succeeds.
//
// Scenario: User runs `hk run` with a staged file and a passing hook
// Expected: Hook passes, command exits clean
func TestRun_PassingHook(t *testing.T) {
	repoPath := setupTestRepo(t, t.TempDir(), "myrepo")
	writeManifest(t, repoPath, `repos:
  - repo: local
    hooks:
      - id: ok
        entry: "true"
`)
	stageFile(t, repoPath, "main.go", "package main\n")
	t.Chdir(repoPath)

	ctx, buf := testContext(t)
	cmd := newRunCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("run failed: %v\n%s", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Passed") {
		t.Errorf("output = %q, want a Passed line", buf.String())
	}
}

// TestRun_FailingHook runs a local hook that fails.
//
// Scenario: User runs `hk run` and the hook exits non-zero
// Expected: Command fails and reports the failing hook
func TestRun_FailingHook(t *testing.T) {
	repoPath := setupTestRepo(t, t.TempDir(), "myrepo")
	writeManifest(t, repoPath, `repos:
  - repo: local
    hooks:
      - id: nope
        entry: "false"
`)
	stageFile(t, repoPath, "main.go", "package main\n")
	t.Chdir(repoPath)

	ctx, buf := testContext(t)
	cmd := newRunCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs(nil)

	err := cmd.Execute()
	if err == nil {
		t.Fatal("run should have failed")
	}
	if !strings.Contains(err.Error(), "1 of 1 hooks failed") {
		t.Errorf("error = %v, want hook failure count", err)
	}
	if !strings.Contains(buf.String(), "Failed") {
		t.Errorf("output = %q, want a Failed line", buf.String())
	}
}

// TestRun_UnknownHookID runs a hook id the manifest doesn't declare.
//
// Scenario: User runs `hk run typo`
// Expected: Command fails naming the unknown id
func TestRun_UnknownHookID(t *testing.T) {
	repoPath := setupTestRepo(t, t.TempDir(), "myrepo")
	writeManifest(t, repoPath, `repos:
  - repo: local
    hooks:
      - id: ok
        entry: "true"
`)
	t.Chdir(repoPath)

	ctx, _ := testContext(t)
	cmd := newRunCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"typo"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("run should have failed")
	}
	if !strings.Contains(err.Error(), "typo") {
		t.Errorf("error = %v, want it to name the unknown id", err)
	}
}

// TestList_JSON lists hooks as JSON.
//
// Scenario: User runs `hk list --json`
// Expected: JSON output includes the hook id and stages
func TestList_JSON(t *testing.T) {
	repoPath := setupTestRepo(t, t.TempDir(), "myrepo")
	writeManifest(t, repoPath, `repos:
  - repo: local
    hooks:
      - id: fmt
        entry: gofmt -l
        files: "*.go"
`)
	t.Chdir(repoPath)

	ctx, buf := testContext(t)
	cmd := newListCmd()
	cmd.SetContext(ctx)
	cmd.SetArgs([]string{"--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, `"id": "fmt"`) {
		t.Errorf("output = %q, want hook id", got)
	}
	if !strings.Contains(got, "pre-commit") {
		t.Errorf("output = %q, want defaulted stage", got)
	}
}

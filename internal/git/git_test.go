package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// testRepo creates a git repo with an initial commit and returns its
// path with symlinks resolved (macOS /var -> /private/var).
func testRepo(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("failed to resolve temp dir: %v", err)
	}

	cmds := [][]string{
		{"git", "init"},
		{"git", "config", "user.email", "test@test.com"},
		{"git", "config", "user.name", "Test User"},
		{"git", "config", "commit.gpgsign", "false"},
	}
	for _, args := range cmds {
		gitRun(t, dir, args...)
	}

	writeFile(t, dir, "README.md", "# test\n")
	gitRun(t, dir, "git", "add", "README.md")
	gitRun(t, dir, "git", "commit", "-m", "initial commit")

	return dir
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to run %v: %v\n%s", args, err, out)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCheckGit_Available(t *testing.T) {
	t.Parallel()
	// git must be available in CI and dev environments
	if err := CheckGit(); err != nil {
		t.Fatalf("CheckGit() = %v, want nil (git should be in PATH)", err)
	}
}

func TestErrGitNotFound_Sentinel(t *testing.T) {
	t.Parallel()
	if !errors.Is(ErrGitNotFound, ErrGitNotFound) {
		t.Error("ErrGitNotFound should match itself with errors.Is")
	}
}

func TestRepoRoot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := testRepo(t)

	t.Run("from root", func(t *testing.T) {
		t.Parallel()
		root, err := RepoRoot(ctx, repo)
		if err != nil {
			t.Fatalf("RepoRoot() = %v, want nil", err)
		}
		if root != repo {
			t.Errorf("RepoRoot() = %q, want %q", root, repo)
		}
	})

	t.Run("from subdirectory", func(t *testing.T) {
		t.Parallel()
		sub := filepath.Join(repo, "pkg", "deep")
		if err := os.MkdirAll(sub, 0755); err != nil {
			t.Fatal(err)
		}
		root, err := RepoRoot(ctx, sub)
		if err != nil {
			t.Fatalf("RepoRoot() = %v, want nil", err)
		}
		if root != repo {
			t.Errorf("RepoRoot() = %q, want %q", root, repo)
		}
	})

	t.Run("outside a repo", func(t *testing.T) {
		t.Parallel()
		if _, err := RepoRoot(ctx, t.TempDir()); err == nil {
			t.Error("RepoRoot(non-repo) = nil, want error")
		}
	})
}

func TestIsInsideRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	if !IsInsideRepo(ctx, testRepo(t)) {
		t.Error("IsInsideRepo(repo) = false, want true")
	}
	if IsInsideRepo(ctx, t.TempDir()) {
		t.Error("IsInsideRepo(non-repo) = true, want false")
	}
}

func TestHooksDir(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := testRepo(t)

	dir, err := HooksDir(ctx, repo)
	if err != nil {
		t.Fatalf("HooksDir() = %v, want nil", err)
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("HooksDir() = %q, want absolute path", dir)
	}
	if filepath.Base(dir) != "hooks" {
		t.Errorf("HooksDir() = %q, want a .../hooks path", dir)
	}
}

func TestStagedFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := testRepo(t)

	writeFile(t, repo, "a.go", "package a\n")
	writeFile(t, repo, "b.txt", "b\n")
	gitRun(t, repo, "git", "add", "a.go")

	files, err := StagedFiles(ctx, repo)
	if err != nil {
		t.Fatalf("StagedFiles() = %v, want nil", err)
	}
	if len(files) != 1 || files[0] != "a.go" {
		t.Errorf("StagedFiles() = %v, want [a.go]", files)
	}
}

func TestTrackedFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := testRepo(t)

	writeFile(t, repo, "pkg/x.go", "package pkg\n")
	gitRun(t, repo, "git", "add", "pkg/x.go")
	gitRun(t, repo, "git", "commit", "-m", "add pkg")

	files, err := TrackedFiles(ctx, repo)
	if err != nil {
		t.Fatalf("TrackedFiles() = %v, want nil", err)
	}
	want := map[string]bool{"README.md": true, "pkg/x.go": true}
	if len(files) != len(want) {
		t.Fatalf("TrackedFiles() = %v, want %v", files, want)
	}
	for _, f := range files {
		if !want[f] {
			t.Errorf("TrackedFiles() contains unexpected %q", f)
		}
	}
}

func TestChangedFiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := testRepo(t)

	base, err := Head(ctx, repo)
	if err != nil {
		t.Fatalf("Head() = %v", err)
	}

	writeFile(t, repo, "feature.go", "package main\n")
	gitRun(t, repo, "git", "add", "feature.go")
	gitRun(t, repo, "git", "commit", "-m", "feature")

	head, err := Head(ctx, repo)
	if err != nil {
		t.Fatalf("Head() = %v", err)
	}

	files, err := ChangedFiles(ctx, repo, base, head)
	if err != nil {
		t.Fatalf("ChangedFiles() = %v, want nil", err)
	}
	if len(files) != 1 || files[0] != "feature.go" {
		t.Errorf("ChangedFiles() = %v, want [feature.go]", files)
	}
}

func TestHasUnstagedChanges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := testRepo(t)

	dirty, err := HasUnstagedChanges(ctx, repo)
	if err != nil {
		t.Fatalf("HasUnstagedChanges() = %v, want nil", err)
	}
	if dirty {
		t.Error("HasUnstagedChanges() = true on a clean tree")
	}

	writeFile(t, repo, "README.md", "# modified\n")

	dirty, err = HasUnstagedChanges(ctx, repo)
	if err != nil {
		t.Fatalf("HasUnstagedChanges() = %v, want nil", err)
	}
	if !dirty {
		t.Error("HasUnstagedChanges() = false after modifying a tracked file")
	}
}

func TestSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := testRepo(t)

	before, err := TakeSnapshot(ctx, repo)
	if err != nil {
		t.Fatalf("TakeSnapshot() = %v, want nil", err)
	}

	again, err := TakeSnapshot(ctx, repo)
	if err != nil {
		t.Fatalf("TakeSnapshot() = %v, want nil", err)
	}
	if before != again {
		t.Error("snapshots of an unchanged tree should be equal")
	}

	t.Run("detects modified tracked file", func(t *testing.T) {
		writeFile(t, repo, "README.md", "# changed\n")
		after, err := TakeSnapshot(ctx, repo)
		if err != nil {
			t.Fatalf("TakeSnapshot() = %v, want nil", err)
		}
		if before == after {
			t.Error("snapshot should change when a tracked file is modified")
		}
	})

	t.Run("detects new untracked file", func(t *testing.T) {
		prev, err := TakeSnapshot(ctx, repo)
		if err != nil {
			t.Fatalf("TakeSnapshot() = %v, want nil", err)
		}
		writeFile(t, repo, "generated.out", "data\n")
		after, err := TakeSnapshot(ctx, repo)
		if err != nil {
			t.Fatalf("TakeSnapshot() = %v, want nil", err)
		}
		if prev == after {
			t.Error("snapshot should change when an untracked file appears")
		}
	})
}

func TestStashUnstaged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := testRepo(t)

	t.Run("nothing to stash", func(t *testing.T) {
		stashed, err := StashUnstaged(ctx, repo)
		if err != nil {
			t.Fatalf("StashUnstaged() = %v, want nil", err)
		}
		if stashed {
			t.Error("StashUnstaged() = true on a clean tree")
		}
	})

	t.Run("stash and restore", func(t *testing.T) {
		// Staged change stays, unstaged change goes away and comes back.
		writeFile(t, repo, "staged.go", "package staged\n")
		gitRun(t, repo, "git", "add", "staged.go")
		writeFile(t, repo, "README.md", "# dirty\n")

		stashed, err := StashUnstaged(ctx, repo)
		if err != nil {
			t.Fatalf("StashUnstaged() = %v, want nil", err)
		}
		if !stashed {
			t.Fatal("StashUnstaged() = false, want true")
		}

		data, err := os.ReadFile(filepath.Join(repo, "README.md"))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) == "# dirty\n" {
			t.Error("unstaged change still present after stash")
		}

		if err := StashPop(ctx, repo); err != nil {
			t.Fatalf("StashPop() = %v, want nil", err)
		}
		data, err = os.ReadFile(filepath.Join(repo, "README.md"))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "# dirty\n" {
			t.Error("unstaged change not restored after pop")
		}
	})
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag  string
		ok   bool
		want []int
	}{
		{"v1.2.3", true, []int{1, 2, 3}},
		{"0.9", true, []int{0, 9}},
		{"v24.1.0", true, []int{24, 1, 0}},
		{"nightly", false, nil},
		{"v1.2-rc1", false, nil},
		{"", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()
			got, ok := parseVersion(tt.tag)
			if ok != tt.ok {
				t.Fatalf("parseVersion(%q) ok = %v, want %v", tt.tag, ok, tt.ok)
			}
			if !ok {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseVersion(%q) = %v, want %v", tt.tag, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("parseVersion(%q)[%d] = %d, want %d", tt.tag, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLessVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want bool
	}{
		{"v1.2.3", "v1.2.4", true},
		{"v1.2.4", "v1.2.3", false},
		{"v1.9", "v1.10", true},
		{"v1.2", "v1.2.0", true}, // shorter sorts first
		{"v2.0.0", "v1.9.9", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+" < "+tt.b, func(t *testing.T) {
			t.Parallel()
			va, _ := parseVersion(tt.a)
			vb, _ := parseVersion(tt.b)
			if got := lessVersion(va, vb); got != tt.want {
				t.Errorf("lessVersion(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/hk/internal/cache"
	"github.com/raphi011/hk/internal/config"
	"github.com/raphi011/hk/internal/git"
)

// requireRepoRoot resolves the root of the repository the command was
// invoked in.
func requireRepoRoot(ctx context.Context) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	if !git.IsInsideRepo(ctx, wd) {
		return "", fmt.Errorf("not inside a git repository")
	}
	return git.RepoRoot(ctx, wd)
}

// newStore opens the remote source cache configured for this machine.
func newStore(cfg *config.Config) (*cache.Store, error) {
	dir, err := cfg.AbsCacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewStore(dir), nil
}

// colorEnabled resolves the config color mode against the terminal.
func colorEnabled(cfg *config.Config) bool {
	switch cfg.Color {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

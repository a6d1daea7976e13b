package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the global hk configuration.
//
// Per-repository hook definitions live in the repo's .hk.yaml manifest
// (see the manifest package); this config only carries machine-level
// settings.
//
// The json tags keep 'hk config show --json' output keyed the same
// way as the toml file.
type Config struct {
	Jobs          int      `toml:"jobs" json:"jobs"`                     // parallel invocations per hook (0 = NumCPU)
	Color         string   `toml:"color" json:"color"`                   // "auto", "always", or "never"
	CacheDir      string   `toml:"cache_dir" json:"cache_dir"`           // override for the remote source cache
	DefaultStages []string `toml:"default_stages" json:"default_stages"` // fallback stages for `hk install` without flags
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Jobs:          0,
		Color:         "auto",
		DefaultStages: []string{"pre-commit"},
	}
}

// EffectiveJobs returns the number of parallel invocations per hook,
// falling back to the machine's CPU count.
func (c *Config) EffectiveJobs() int {
	if c.Jobs > 0 {
		return c.Jobs
	}
	return runtime.NumCPU()
}

// AbsCacheDir returns the cache directory for remote hook sources.
// Uses cache_dir if set, otherwise $XDG_CACHE_HOME/hk or ~/.cache/hk.
func (c *Config) AbsCacheDir() (string, error) {
	if c.CacheDir != "" {
		return expandPath(c.CacheDir)
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(base, "hk"), nil
}

// Path returns the path to the global config file.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hk", "config.toml"), nil
}

// Load reads config from ~/.config/hk/config.toml.
// Returns Default() if the file doesn't exist (no error).
// Returns an error only if the file exists but is invalid.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from an explicit path. Used by Load and tests.
func LoadFrom(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Default(), err
	}

	if cfg.CacheDir != "" {
		expanded, err := expandPath(cfg.CacheDir)
		if err != nil {
			return Default(), fmt.Errorf("expand cache_dir: %w", err)
		}
		cfg.CacheDir = expanded
	}

	if len(cfg.DefaultStages) == 0 {
		cfg.DefaultStages = []string{"pre-commit"}
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q: must be \"auto\", \"always\", or \"never\"", c.Color)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("invalid jobs %d: must be >= 0", c.Jobs)
	}
	if c.CacheDir != "" {
		if err := validatePath(c.CacheDir, "cache_dir"); err != nil {
			return err
		}
	}
	return nil
}

// validatePath checks that the path is absolute or starts with ~.
// Relative paths (like "." or "..") would resolve differently per
// invocation directory.
func validatePath(path, fieldName string) error {
	if len(path) >= 1 && path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
// Shells don't expand ~ inside config files.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

const defaultConfig = `# hk global configuration

# Number of parallel invocations used to spread candidate files across
# processes for a single hook. 0 uses the number of CPUs.
# Hooks with require_serial always get exactly one invocation.
# jobs = 0

# Colored status output: "auto" (only on a terminal), "always", "never".
# color = "auto"

# Where remote hook sources are cloned. Defaults to $XDG_CACHE_HOME/hk.
# Must be an absolute path or start with ~.
# cache_dir = "~/.cache/hk"

# Git stages that 'hk install' wires up when invoked without --stage
# flags and the manifest's hooks yield no installable stages.
# default_stages = ["pre-commit"]
`

// DefaultConfigString returns the commented default config file content.
func DefaultConfigString() string {
	return defaultConfig
}

// Init creates a default config file at ~/.config/hk/config.toml.
// If force is true, overwrites an existing file.
// Returns the path to the created file.
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return "", err
	}

	return path, nil
}

type ctxKey struct{}

// WithConfig attaches the config to the context.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns the default config if none is attached.
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}
	cfg := Default()
	return &cfg
}

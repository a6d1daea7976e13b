package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file hk looks for at the repository root.
const FileName = ".hk.yaml"

// LocalRepo marks a source whose hook entries live in the consuming
// repository itself instead of a cloned remote.
const LocalRepo = "local"

// ErrNotFound indicates the repository has no manifest.
var ErrNotFound = errors.New("no " + FileName + " found (run 'hk init' to create one)")

// Config is the parsed hook manifest of a repository.
type Config struct {
	// DefaultStages applies to hooks that don't declare their own
	// stages, and is used by `hk install` without --stage flags.
	DefaultStages []Stage `yaml:"default_stages"`

	// FailFast stops the run at the first failing hook.
	FailFast bool `yaml:"fail_fast"`

	// Exclude is a global glob; matching files are dropped from every
	// hook's candidate set.
	Exclude string `yaml:"exclude"`

	Repos []Source `yaml:"repos"`
}

// Source is one hook source: either the consuming repository itself
// ("local") or a remote git repository pinned to a rev.
type Source struct {
	Repo  string `yaml:"repo"`
	Rev   string `yaml:"rev,omitempty"`
	Hooks []Hook `yaml:"hooks"`
}

// IsLocal reports whether the source's hooks live in the consuming repo.
func (s *Source) IsLocal() bool {
	return s.Repo == LocalRepo
}

// Hook is a single hook entry.
type Hook struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`

	// Entry is the invocation command. Required for local hooks; for
	// remote hooks it defaults from the source's exported manifest.
	Entry string `yaml:"entry,omitempty"`

	// Language selects how the entry is invoked: "system" (shell-split
	// and resolved on PATH), "script" (path relative to the source
	// root), or "fail" (built-in: fail when any file matches).
	Language string `yaml:"language,omitempty"`

	Args    []string          `yaml:"args,omitempty"`
	Files   string            `yaml:"files,omitempty"`
	Exclude string            `yaml:"exclude,omitempty"`
	Stages  []Stage           `yaml:"stages,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`

	// PassFilenames controls whether candidate files are appended to
	// the command line. Defaults to true.
	PassFilenames *bool `yaml:"pass_filenames,omitempty"`

	// AlwaysRun runs the hook even when no files match.
	AlwaysRun bool `yaml:"always_run,omitempty"`

	// RequireSerial gives the hook a single invocation with all files
	// instead of parallel chunked invocations.
	RequireSerial bool `yaml:"require_serial,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`
}

// Hook languages.
const (
	LanguageSystem = "system"
	LanguageScript = "script"
	LanguageFail   = "fail"
)

// DisplayName returns the hook's name, falling back to its id.
func (h *Hook) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.ID
}

// PassesFilenames reports whether candidate files are appended to the
// command line (the default when pass_filenames is unset).
func (h *Hook) PassesFilenames() bool {
	if h.PassFilenames == nil {
		return true
	}
	return *h.PassFilenames
}

// HasStage reports whether the hook applies to the given stage.
func (h *Hook) HasStage(stage Stage) bool {
	for _, s := range h.Stages {
		if s == stage {
			return true
		}
	}
	return false
}

// Path returns the manifest path for a repository root.
func Path(repoRoot string) string {
	return filepath.Join(repoRoot, FileName)
}

// Load reads and validates the manifest of the repository rooted at
// repoRoot. Returns ErrNotFound if the manifest doesn't exist.
func Load(repoRoot string) (*Config, error) {
	return LoadFile(Path(repoRoot))
}

// LoadFile reads and validates a manifest from an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse decodes, validates, and normalizes manifest content.
// Unknown fields are rejected to catch typos early.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := newStrictDecoder(data)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.normalize()
	return &cfg, nil
}

// normalize fills per-hook defaults so downstream code never needs to
// special-case unset fields. Remote entries keep an unset language:
// whether the consumer set it explicitly matters when merging with the
// source definition, so the default is applied after that merge.
func (c *Config) normalize() {
	if len(c.DefaultStages) == 0 {
		c.DefaultStages = []Stage{StagePreCommit}
	}
	for i := range c.Repos {
		local := c.Repos[i].IsLocal()
		for j := range c.Repos[i].Hooks {
			h := &c.Repos[i].Hooks[j]
			if local && h.Language == "" {
				h.Language = LanguageSystem
			}
			if len(h.Stages) == 0 {
				h.Stages = append([]Stage(nil), c.DefaultStages...)
			}
		}
	}
}

func newStrictDecoder(data []byte) *yaml.Decoder {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec
}

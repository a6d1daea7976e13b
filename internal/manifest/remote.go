package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SourceFileName is the manifest a remote hook source exports at its
// root, declaring the hooks consumers can reference by id.
const SourceFileName = ".hk-hooks.yaml"

// ErrNoSourceManifest indicates a cloned source exports no hooks.
var ErrNoSourceManifest = errors.New("source has no " + SourceFileName)

type sourceManifest struct {
	Hooks []Hook `yaml:"hooks"`
}

// LoadSourceHooks reads the exported hook definitions of a cloned
// source rooted at dir, keyed by hook id.
func LoadSourceHooks(dir string) (map[string]Hook, error) {
	path := filepath.Join(dir, SourceFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSourceManifest
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var sm sourceManifest
	if err := newStrictDecoder(data).Decode(&sm); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", SourceFileName, err)
	}

	hooks := make(map[string]Hook, len(sm.Hooks))
	for i := range sm.Hooks {
		h := sm.Hooks[i]
		if h.ID == "" {
			return nil, fmt.Errorf("%s: hooks[%d]: missing id", SourceFileName, i)
		}
		if h.Entry == "" && h.Language != LanguageFail {
			return nil, fmt.Errorf("%s: hook %q: missing entry", SourceFileName, h.ID)
		}
		if _, dup := hooks[h.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate hook id %q", SourceFileName, h.ID)
		}
		if h.Language == "" {
			h.Language = LanguageSystem
		}
		hooks[h.ID] = h
	}
	return hooks, nil
}

// Override applies a consumer entry on top of the source's exported
// definition. Fields the consumer leaves unset keep the source values;
// stages always come from the consumer side (already normalized).
func Override(base Hook, entry Hook) Hook {
	merged := base
	merged.Stages = entry.Stages

	if entry.Name != "" {
		merged.Name = entry.Name
	}
	if entry.Description != "" {
		merged.Description = entry.Description
	}
	if entry.Entry != "" {
		merged.Entry = entry.Entry
	}
	if entry.Language != "" {
		merged.Language = entry.Language
	}
	if len(entry.Args) > 0 {
		merged.Args = entry.Args
	}
	if entry.Files != "" {
		merged.Files = entry.Files
	}
	if entry.Exclude != "" {
		merged.Exclude = entry.Exclude
	}
	if len(entry.Env) > 0 {
		merged.Env = entry.Env
	}
	if entry.PassFilenames != nil {
		merged.PassFilenames = entry.PassFilenames
	}
	if entry.AlwaysRun {
		merged.AlwaysRun = true
	}
	if entry.RequireSerial {
		merged.RequireSerial = true
	}
	if entry.Verbose {
		merged.Verbose = true
	}
	return merged
}

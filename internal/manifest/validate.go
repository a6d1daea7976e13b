package manifest

import (
	"fmt"
	"strings"
)

// UnknownStageError is returned for stage names git never fires.
type UnknownStageError struct {
	Name string
}

func (e *UnknownStageError) Error() string {
	known := make([]string, 0, len(KnownStages()))
	for _, s := range KnownStages() {
		known = append(known, string(s))
	}
	return fmt.Sprintf("unknown stage %q (known: %s)", e.Name, strings.Join(known, ", "))
}

func (c *Config) validate() error {
	for _, stage := range c.DefaultStages {
		if !stage.Valid() {
			return fmt.Errorf("default_stages: %w", &UnknownStageError{Name: string(stage)})
		}
	}

	if c.Exclude != "" {
		if err := checkGlob(c.Exclude); err != nil {
			return fmt.Errorf("exclude: %w", err)
		}
	}

	if len(c.Repos) == 0 {
		return fmt.Errorf("manifest declares no hook sources")
	}

	for i := range c.Repos {
		if err := c.Repos[i].validate(); err != nil {
			return fmt.Errorf("repos[%d]: %w", i, err)
		}
	}
	return nil
}

func (s *Source) validate() error {
	if s.Repo == "" {
		return fmt.Errorf("missing repo")
	}
	if s.IsLocal() {
		if s.Rev != "" {
			return fmt.Errorf("local source must not set rev")
		}
	} else if s.Rev == "" {
		return fmt.Errorf("%s: remote source requires a rev pin", s.Repo)
	}
	if len(s.Hooks) == 0 {
		return fmt.Errorf("%s: source declares no hooks", s.Repo)
	}

	seen := make(map[string]bool, len(s.Hooks))
	for i := range s.Hooks {
		h := &s.Hooks[i]
		if h.ID == "" {
			return fmt.Errorf("%s: hooks[%d]: missing id", s.Repo, i)
		}
		if seen[h.ID] {
			return fmt.Errorf("%s: duplicate hook id %q", s.Repo, h.ID)
		}
		seen[h.ID] = true

		if err := h.validate(s.IsLocal()); err != nil {
			return fmt.Errorf("%s: hook %q: %w", s.Repo, h.ID, err)
		}
	}
	return nil
}

func (h *Hook) validate(local bool) error {
	// Remote hooks inherit entry and language from the source's
	// exported manifest, so only local hooks must be complete here.
	if local && h.Entry == "" && h.Language != LanguageFail {
		return fmt.Errorf("missing entry")
	}

	switch h.Language {
	case "", LanguageSystem, LanguageScript, LanguageFail:
	default:
		return fmt.Errorf("unknown language %q (known: %s, %s, %s)",
			h.Language, LanguageSystem, LanguageScript, LanguageFail)
	}

	for _, stage := range h.Stages {
		if !stage.Valid() {
			return &UnknownStageError{Name: string(stage)}
		}
	}

	if h.Files != "" {
		if err := checkGlob(h.Files); err != nil {
			return fmt.Errorf("files: %w", err)
		}
	}
	if h.Exclude != "" {
		if err := checkGlob(h.Exclude); err != nil {
			return fmt.Errorf("exclude: %w", err)
		}
	}
	return nil
}

package manifest

import (
	"fmt"
	"path"

	"github.com/gobwas/glob"
)

// compiled holds a glob compiled for both matching modes.
//
// A pattern without a slash matches against the file's base name
// (like a .gitignore entry), so "*.py" catches Python files at any
// depth. A pattern containing a slash matches against the full
// repo-relative path with '/' as separator, so "docs/**" or
// "src/*/gen.go" work as expected.
type compiled struct {
	g        glob.Glob
	baseOnly bool
}

func compilePattern(pattern string) (*compiled, error) {
	baseOnly := !containsSlash(pattern)
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	return &compiled{g: g, baseOnly: baseOnly}, nil
}

func (c *compiled) match(file string) bool {
	if c.baseOnly {
		return c.g.Match(path.Base(file))
	}
	return c.g.Match(file)
}

func containsSlash(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return true
		}
	}
	return false
}

// checkGlob verifies a pattern compiles; used during validation.
func checkGlob(pattern string) error {
	_, err := compilePattern(pattern)
	return err
}

// Matcher filters candidate files for one hook, combining the hook's
// files/exclude patterns with the manifest-wide exclude.
type Matcher struct {
	files         *compiled
	exclude       *compiled
	globalExclude *compiled
}

// NewMatcher compiles the hook's patterns. globalExclude may be empty.
func NewMatcher(h *Hook, globalExclude string) (*Matcher, error) {
	m := &Matcher{}
	var err error

	if h.Files != "" {
		if m.files, err = compilePattern(h.Files); err != nil {
			return nil, err
		}
	}
	if h.Exclude != "" {
		if m.exclude, err = compilePattern(h.Exclude); err != nil {
			return nil, err
		}
	}
	if globalExclude != "" {
		if m.globalExclude, err = compilePattern(globalExclude); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Match reports whether a repo-relative file is a candidate for the hook.
func (m *Matcher) Match(file string) bool {
	if m.globalExclude != nil && m.globalExclude.match(file) {
		return false
	}
	if m.exclude != nil && m.exclude.match(file) {
		return false
	}
	if m.files != nil {
		return m.files.match(file)
	}
	return true
}

// Filter returns the files matching the hook, preserving order.
func (m *Matcher) Filter(files []string) []string {
	var out []string
	for _, f := range files {
		if m.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

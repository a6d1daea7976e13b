package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/raphi011/hk/internal/manifest"
)

// marker identifies hook scripts written by hk. Uninstall and
// reinstall only ever touch files carrying this line.
const marker = "# shim installed by hk, do not edit"

// legacySuffix is appended to a pre-existing foreign hook when hk
// takes over its slot. Uninstall restores it.
const legacySuffix = ".legacy.hk"

const shimTemplate = `#!/bin/sh
%s
# Run 'hk uninstall' to remove, or set HK_SKIP=1 to bypass once.

if [ -n "$HK_SKIP" ]; then
	exit 0
fi

if ! command -v hk >/dev/null 2>&1; then
	echo "hk: executable not found in PATH, skipping %s hooks" >&2
	exit 0
fi

exec hk run --hook-stage %s -- "$@"
`

// Result reports what Install changed.
type Result struct {
	Installed []manifest.Stage
	Updated   []manifest.Stage
	Backups   []string
}

// Installer writes and removes hook shims in a repository's hooks
// directory.
type Installer struct {
	hooksDir string
}

func New(hooksDir string) *Installer {
	return &Installer{hooksDir: hooksDir}
}

func (i *Installer) hookPath(stage manifest.Stage) string {
	return filepath.Join(i.hooksDir, string(stage))
}

func shimScript(stage manifest.Stage) string {
	return fmt.Sprintf(shimTemplate, marker, stage, stage)
}

// IsShim reports whether the file at path is an hk shim.
func IsShim(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), marker)
}

// Install writes shims for the given stages. A foreign hook occupying
// a slot is moved aside to <stage>.legacy.hk unless force is false,
// in which case Install fails without touching anything.
func (i *Installer) Install(stages []manifest.Stage, force bool) (*Result, error) {
	if err := os.MkdirAll(i.hooksDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create hooks dir: %w", err)
	}

	// Check for foreign hooks up front so a refused install doesn't
	// leave a partial set of shims behind.
	if !force {
		for _, stage := range stages {
			path := i.hookPath(stage)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if !IsShim(path) {
				return nil, fmt.Errorf("existing %s hook is not managed by hk, re-run with --force to move it to %s%s", stage, stage, legacySuffix)
			}
		}
	}

	res := &Result{}
	for _, stage := range stages {
		path := i.hookPath(stage)
		script := shimScript(stage)

		existing, err := os.ReadFile(path)
		switch {
		case err == nil && strings.Contains(string(existing), marker):
			if string(existing) == script {
				continue
			}
			res.Updated = append(res.Updated, stage)
		case err == nil:
			backup := path + legacySuffix
			if err := os.Rename(path, backup); err != nil {
				return res, fmt.Errorf("failed to back up existing %s hook: %w", stage, err)
			}
			res.Backups = append(res.Backups, backup)
			res.Installed = append(res.Installed, stage)
		case os.IsNotExist(err):
			res.Installed = append(res.Installed, stage)
		default:
			return res, err
		}

		if err := os.WriteFile(path, []byte(script), 0755); err != nil {
			return res, fmt.Errorf("failed to write %s hook: %w", stage, err)
		}
	}
	return res, nil
}

// Uninstall removes all hk shims and restores any backed up hooks.
// Returns the stages whose shims were removed.
func (i *Installer) Uninstall() ([]manifest.Stage, error) {
	var removed []manifest.Stage
	for _, stage := range manifest.KnownStages() {
		if !stage.Installable() {
			continue
		}
		path := i.hookPath(stage)
		if !IsShim(path) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s hook: %w", stage, err)
		}
		removed = append(removed, stage)

		backup := path + legacySuffix
		if _, err := os.Stat(backup); err == nil {
			if err := os.Rename(backup, path); err != nil {
				return removed, fmt.Errorf("failed to restore legacy %s hook: %w", stage, err)
			}
		}
	}
	return removed, nil
}

// InstalledStages returns the stages that currently have an hk shim,
// sorted by stage name.
func (i *Installer) InstalledStages() ([]manifest.Stage, error) {
	if _, err := os.Stat(i.hooksDir); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var stages []manifest.Stage
	for _, stage := range manifest.KnownStages() {
		if !stage.Installable() {
			continue
		}
		if IsShim(i.hookPath(stage)) {
			stages = append(stages, stage)
		}
	}
	sort.Slice(stages, func(a, b int) bool { return stages[a] < stages[b] })
	return stages, nil
}

// StaleStages returns installed stages whose shim content no longer
// matches what the current hk version would write.
func (i *Installer) StaleStages() ([]manifest.Stage, error) {
	installed, err := i.InstalledStages()
	if err != nil {
		return nil, err
	}

	var stale []manifest.Stage
	for _, stage := range installed {
		data, err := os.ReadFile(i.hookPath(stage))
		if err != nil {
			return nil, err
		}
		if string(data) != shimScript(stage) {
			stale = append(stale, stage)
		}
	}
	return stale, nil
}

// Package runner executes the hooks declared in a repository's
// manifest.
//
// A run resolves every hook to a concrete command (cloning remote
// sources on demand), computes the candidate file set for the stage,
// filters it per hook, and executes hooks in manifest order. File
// lists are chunked across parallel invocations unless a hook
// requires a single serial one.
//
// Two guards keep commits honest: unstaged changes are stashed around
// staged runs so hooks see exactly the index, and the working tree is
// fingerprinted before and after each hook so a hook that rewrites
// files fails the run even with a zero exit code.
package runner

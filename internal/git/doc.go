// Package git wraps the git CLI operations hk needs.
//
// All functions shell out to the git binary instead of using a Go git
// implementation. This keeps behavior identical to the user's git
// (core.hooksPath, sparse checkouts, includes) and avoids carrying a
// reimplementation of diff and stash semantics.
//
// File listings use -z NUL-terminated output so unusual file names
// survive untouched. Functions take the repository root explicitly
// and run git with -C, so callers never depend on the process working
// directory.
package git

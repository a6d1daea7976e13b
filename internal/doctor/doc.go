// Package doctor diagnoses a repository's hook setup.
//
// Checks are grouped into categories: required tooling, manifest
// validity, shim state in the git hooks directory, and hook sources.
// Each finding becomes an Issue; issues with a FixAction can be
// repaired by `hk doctor --fix`, the rest are printed with enough
// context to fix by hand.
package doctor

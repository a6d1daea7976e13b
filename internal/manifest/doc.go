// Package manifest loads and validates the .hk.yaml hook manifest.
//
// The manifest declares hook sources. A source is either "local"
// (entries invoke commands from the consuming repository) or a remote
// git repository pinned to a rev. Remote sources export their hooks in
// a .hk-hooks.yaml at the source root; consumer entries reference them
// by id and may override args, stages, file filters, and similar
// fields.
//
// Example:
//
//	default_stages: [pre-commit]
//
//	repos:
//	  - repo: local
//	    hooks:
//	      - id: api-gen
//	        name: regenerate API surface
//	        entry: ./shell/api_gen.sh
//	        pass_filenames: false
//	        always_run: true
//	        require_serial: true
//
//	  - repo: https://github.com/example/lint-hooks
//	    rev: v0.9.2
//	    hooks:
//	      - id: lint
//	        args: [--fix]
//	      - id: lint-format
//	        stages: [pre-commit, manual]
//
// # File filtering
//
// Hooks receive the candidate files matching their files/exclude
// globs. A pattern without a slash matches base names at any depth
// ("*.py"); a pattern with a slash matches the repo-relative path
// ("docs/**"). The manifest-wide exclude is applied before per-hook
// patterns.
//
// # Validation
//
// Parse rejects unknown fields, duplicate ids within a source, remote
// sources without a rev pin, local hooks without an entry, unknown
// stages or languages, and globs that don't compile. Normalization
// then fills defaults (language "system", stages from default_stages)
// so downstream code sees fully-populated hooks.
package manifest

// Package installer manages the shim scripts hk places in a
// repository's git hooks directory.
//
// Every shim is a small POSIX sh script that execs
// "hk run --hook-stage <stage>" and forwards git's arguments and
// stdin. A marker comment identifies shims as hk-owned; foreign hooks
// are never deleted, only moved aside with a .legacy.hk suffix and
// restored on uninstall.
package installer

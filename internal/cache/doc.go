// Package cache stores clones of remote hook sources.
//
// Layout under the cache root:
//
//	repos/<hash>       clone of url at rev
//	repos/<hash>.json  entry metadata (url, rev, timestamps)
//	cache.lock         flock guarding mutations
//
// The hash covers url@rev, so every pin gets an immutable directory
// and updating a rev in the manifest naturally produces a fresh clone.
package cache

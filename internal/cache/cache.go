package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/raphi011/hk/internal/git"
)

// Entry describes one cached clone of a remote hook source.
type Entry struct {
	URL      string    `json:"url"`
	Rev      string    `json:"rev"`
	Dir      string    `json:"-"`
	ClonedAt time.Time `json:"cloned_at"`
	LastUsed time.Time `json:"last_used"`
}

// Store manages clones of remote hook sources under a cache root.
// Each url@rev pair gets its own directory, so switching a pin never
// mutates an existing clone. Mutations are serialized with a file
// lock to keep concurrent hk invocations from racing a clone.
type Store struct {
	root string
}

// NewStore returns a store rooted at root. The directory is created
// lazily on first use.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Dir returns the cache root.
func (s *Store) Dir() string {
	return s.root
}

func (s *Store) reposDir() string {
	return filepath.Join(s.root, "repos")
}

func (s *Store) lockPath() string {
	return filepath.Join(s.root, "cache.lock")
}

// key derives the directory name for a url@rev pair. Hashing keeps
// the name filesystem-safe regardless of the URL shape.
func key(url, rev string) string {
	sum := sha256.Sum256([]byte(url + "@" + rev))
	return hex.EncodeToString(sum[:])[:16]
}

func (s *Store) entryDir(url, rev string) string {
	return filepath.Join(s.reposDir(), key(url, rev))
}

func (s *Store) metaPath(url, rev string) string {
	return s.entryDir(url, rev) + ".json"
}

// Ensure returns the directory holding a clone of url at rev, cloning
// it first if it isn't cached yet. The entry's last-used timestamp is
// refreshed on every call.
func (s *Store) Ensure(ctx context.Context, url, rev string) (string, error) {
	if err := os.MkdirAll(s.reposDir(), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}

	lock := NewFileLock(s.lockPath())
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("failed to lock cache: %w", err)
	}
	defer lock.Unlock()

	dir := s.entryDir(url, rev)
	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		s.touch(url, rev)
		return dir, nil
	}

	// Clone into a temp dir first so an interrupted clone never
	// leaves a half-populated entry behind.
	tmp := dir + ".tmp"
	if err := os.RemoveAll(tmp); err != nil {
		return "", err
	}
	if err := git.Clone(ctx, url, rev, tmp); err != nil {
		os.RemoveAll(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dir); err != nil {
		os.RemoveAll(tmp)
		return "", err
	}

	now := time.Now()
	if err := s.writeMeta(url, rev, Entry{
		URL:      url,
		Rev:      rev,
		ClonedAt: now,
		LastUsed: now,
	}); err != nil {
		return "", err
	}
	return dir, nil
}

// touch refreshes the last-used timestamp. Best effort, a missing or
// unreadable meta file is rewritten from scratch.
func (s *Store) touch(url, rev string) {
	entry, err := s.readMeta(url, rev)
	if err != nil {
		entry = Entry{URL: url, Rev: rev, ClonedAt: time.Now()}
	}
	entry.LastUsed = time.Now()
	_ = s.writeMeta(url, rev, entry)
}

func (s *Store) readMeta(url, rev string) (Entry, error) {
	data, err := os.ReadFile(s.metaPath(url, rev))
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Store) writeMeta(url, rev string, e Entry) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	path := s.metaPath(url, rev)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// List returns all cached entries sorted by URL then rev.
func (s *Store) List() ([]Entry, error) {
	metas, err := filepath.Glob(filepath.Join(s.reposDir(), "*.json"))
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, m := range metas {
		data, err := os.ReadFile(m)
		if err != nil {
			continue
		}
		var e Entry
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		e.Dir = strings.TrimSuffix(m, ".json")
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].URL != entries[j].URL {
			return entries[i].URL < entries[j].URL
		}
		return entries[i].Rev < entries[j].Rev
	})
	return entries, nil
}

// Remove deletes the cached clone for url@rev. Removing an entry that
// isn't cached is not an error.
func (s *Store) Remove(url, rev string) error {
	lock := NewFileLock(s.lockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock cache: %w", err)
	}
	defer lock.Unlock()

	if err := os.RemoveAll(s.entryDir(url, rev)); err != nil {
		return err
	}
	if err := os.Remove(s.metaPath(url, rev)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clean removes entries that haven't been used for longer than
// olderThan and returns how many were removed.
func (s *Store) Clean(olderThan time.Duration) (int, error) {
	entries, err := s.List()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		last := e.LastUsed
		if last.IsZero() {
			last = e.ClonedAt
		}
		if last.After(cutoff) {
			continue
		}
		if err := s.Remove(e.URL, e.Rev); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Purge deletes the entire cache root.
func (s *Store) Purge() error {
	return os.RemoveAll(s.root)
}

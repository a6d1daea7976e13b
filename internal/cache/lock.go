package cache

import (
	"os"

	"golang.org/x/sys/unix"
)

// FileLock serializes cache mutations across processes. Two hk
// invocations (e.g. parallel CI jobs sharing a cache dir) must not
// clone into the same entry concurrently.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a lock backed by the file at path. The file is
// created on first Lock if missing.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// Lock acquires an exclusive lock, blocking until available.
func (l *FileLock) Lock() error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}

	for {
		err = unix.Flock(int(f.Fd()), unix.LOCK_EX)
		if err != unix.EINTR {
			break
		}
	}
	if err != nil {
		f.Close()
		return err
	}

	l.file = f
	return nil
}

// Unlock releases the lock. Calling Unlock without a held lock is a
// no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

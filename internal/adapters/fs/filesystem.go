// Package fs provides file system adapters for locating, inspecting and hashing files.
package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/devpipe/internal/core/ports"
)

var _ ports.FileSystem = (*OSFS)(nil)

// OSFS implements ports.FileSystem against the real file system.
type OSFS struct{}

// NewOSFS creates a new OSFS.
func NewOSFS() *OSFS {
	return &OSFS{}
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (iofs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists the entries of path.
func (OSFS) ReadDir(path string) ([]iofs.DirEntry, error) {
	return os.ReadDir(path)
}

// MkdirAll creates path with domain.DirPerm.
func (OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, domain.DirPerm)
}

// FindUp delegates to FindCache.
func (OSFS) FindUp(start, name string) (string, bool) {
	return FindCache(start, name)
}

// FindCache checks start and each ancestor for a regular file called name
// and returns the first one found. The search ends at the file system root.
func FindCache(start, name string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}

	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

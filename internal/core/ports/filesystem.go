package ports

import "io/fs"

// FileSystem is the slice of the filesystem the resolver needs.
//
//go:generate go run go.uber.org/mock/mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks
type FileSystem interface {
	// Stat returns file info. Missing paths return an error matching fs.ErrNotExist.
	Stat(path string) (fs.FileInfo, error)

	// ReadDir lists the entries of a directory.
	ReadDir(path string) ([]fs.DirEntry, error)

	// MkdirAll creates path and any missing parents.
	MkdirAll(path string) error

	// FindUp looks for name in start and each of its ancestors and returns the first match.
	FindUp(start, name string) (string, bool)
}

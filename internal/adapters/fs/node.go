package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/devpipe/internal/core/ports"
)

const (
	// FileSystemNodeID is the unique identifier for the file system Graft node.
	FileSystemNodeID graft.ID = "adapter.fs"
	// HasherNodeID is the unique identifier for the hasher Graft node.
	HasherNodeID graft.ID = "adapter.fs.hasher"
)

func init() {
	graft.Register(graft.Node[ports.FileSystem]{
		ID:        FileSystemNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileSystem, error) {
			return NewOSFS(), nil
		},
	})

	graft.Register(graft.Node[ports.Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Hasher, error) {
			return NewHasher(), nil
		},
	})
}

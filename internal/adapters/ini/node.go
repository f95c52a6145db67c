package ini

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/devpipe/internal/core/ports"
)

// NodeID is the unique identifier for the document store Graft node.
const NodeID graft.ID = "adapter.ini"

func init() {
	graft.Register(graft.Node[ports.DocumentStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DocumentStore, error) {
			return NewStore(), nil
		},
	})
}

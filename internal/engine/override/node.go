package override

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/devpipe/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/devpipe/internal/adapters/ini"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/devpipe/internal/adapters/settings" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/devpipe/internal/core/ports"
)

// NodeID is the unique identifier for the override engine Graft node.
const NodeID graft.ID = "engine.override"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID, ini.NodeID, fs.FileSystemNodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			cfg, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.DocumentStore](ctx)
			if err != nil {
				return nil, err
			}
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(cfg.OverridesDir, store, fsys), nil
		},
	})
}

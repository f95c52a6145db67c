package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/devpipe/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/devpipe/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/devpipe/internal/core/ports"
	"go.trai.ch/devpipe/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			resolver.BuilderNodeID,
			resolver.DetectorNodeID,
			fs.FileSystemNodeID,
			fs.HasherNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			builder, err := graft.Dep[*resolver.Builder](ctx)
			if err != nil {
				return nil, err
			}

			detector, err := graft.Dep[*resolver.Detector](ctx)
			if err != nil {
				return nil, err
			}

			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(builder, detector, fsys, hasher, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(app, log), nil
		},
	})
}

package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/devpipe/internal/adapters/fs"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/devpipe/internal/adapters/ini"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/devpipe/internal/adapters/settings" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/devpipe/internal/build"
	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/devpipe/internal/core/ports"
	"go.trai.ch/devpipe/internal/engine/override"
	"go.trai.ch/devpipe/internal/engine/profile"
)

const (
	// BuilderNodeID is the unique identifier for the cache builder Graft node.
	BuilderNodeID graft.ID = "engine.resolver.builder"
	// DetectorNodeID is the unique identifier for the staleness detector Graft node.
	DetectorNodeID graft.ID = "engine.resolver.detector"
)

func init() {
	graft.Register(graft.Node[*Builder]{
		ID:        BuilderNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			settings.NodeID,
			ini.NodeID,
			fs.FileSystemNodeID,
			profile.NodeID,
			override.NodeID,
		},
		Run: func(ctx context.Context) (*Builder, error) {
			cfg, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			env, err := environment(cfg)
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
			profiles, err := graft.Dep[*profile.Resolver](ctx)
			if err != nil {
				return nil, err
			}
			overrides, err := graft.Dep[*override.Engine](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuilder(store, fsys, profiles, overrides, env), nil
		},
	})

	graft.Register(graft.Node[*Detector]{
		ID:        DetectorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			BuilderNodeID,
			settings.NodeID,
			ini.NodeID,
			fs.FileSystemNodeID,
			override.NodeID,
		},
		Run: func(ctx context.Context) (*Detector, error) {
			cfg, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}
			env, err := environment(cfg)
			if err != nil {
				return nil, err
			}
			builder, err := graft.Dep[*Builder](ctx)
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
			overrides, err := graft.Dep[*override.Engine](ctx)
			if err != nil {
				return nil, err
			}
			return NewDetector(store, fsys, overrides, builder, env), nil
		},
	})
}

func environment(cfg *domain.Settings) (Environment, error) {
	stamp, err := domain.StampFromVersion(build.Version)
	if err != nil {
		return Environment{}, err
	}
	return Environment{ProfilesFile: cfg.ProfilesFile, Stamp: stamp}, nil
}

package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/devpipe/internal/adapters/settings"
	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/devpipe/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{settings.NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			cfg, err := graft.Dep[*domain.Settings](ctx)
			if err != nil {
				return nil, err
			}

			l := New()
			l.SetLevel(ParseLevel(cfg.LogLevel))
			l.SetJSON(cfg.LogFormat == "json")
			return l, nil
		},
	})
}

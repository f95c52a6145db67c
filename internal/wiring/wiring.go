// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/devpipe/internal/adapters/fs"
	_ "go.trai.ch/devpipe/internal/adapters/ini"
	_ "go.trai.ch/devpipe/internal/adapters/logger"
	_ "go.trai.ch/devpipe/internal/adapters/settings"
	// Register app and engine nodes.
	_ "go.trai.ch/devpipe/internal/app"
	_ "go.trai.ch/devpipe/internal/engine/override"
	_ "go.trai.ch/devpipe/internal/engine/profile"
	_ "go.trai.ch/devpipe/internal/engine/resolver"
)

// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/whence/internal/adapters/config"
	_ "go.trai.ch/whence/internal/adapters/fs"
	_ "go.trai.ch/whence/internal/adapters/logger"
	_ "go.trai.ch/whence/internal/adapters/shell"
	_ "go.trai.ch/whence/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/whence/internal/app"
)

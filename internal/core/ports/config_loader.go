package ports

import "go.trai.ch/whence/internal/core/domain"

// ConfigLoader defines the interface for loading the whence configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path. An empty path or a directory discovers
	// the file by walking up from there; when none is found the defaults are returned.
	Load(path string) (*domain.Config, error)
}

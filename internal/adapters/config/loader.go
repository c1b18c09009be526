// Package config provides the configuration loader for whence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/whence/internal/core/domain"
	"go.trai.ch/whence/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load resolves the configuration. An empty path or a directory starts discovery there;
// a file path is read directly and must exist.
func (l *Loader) Load(path string) (*domain.Config, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
		}
		path = cwd
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	configPath := path
	if info.IsDir() {
		found, ok := Discover(path)
		if !ok {
			l.Logger.Debug(fmt.Sprintf("no %s found above %s, using defaults", domain.ConfigFileName, path))
			return domain.DefaultConfig(), nil
		}
		configPath = found
	}

	l.Logger.Debug("loading configuration from " + configPath)
	var file File
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	cfg, err := file.apply(domain.DefaultConfig(), filepath.Dir(configPath))
	if err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	return cfg, nil
}

// Discover walks up from dir and returns the first configuration file found.
func Discover(dir string) (string, bool) {
	currentDir := dir
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// readAndUnmarshalYAML reads a YAML file and decodes it into target, rejecting unknown keys.
// An empty file leaves target untouched.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user or found by discovery
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}
	return nil
}

// apply overlays the file onto cfg. Relative search paths are resolved against baseDir.
func (f *File) apply(cfg *domain.Config, baseDir string) (*domain.Config, error) {
	if f.Log != nil {
		if f.Log.Verbose != nil {
			cfg.Log.Verbose = *f.Log.Verbose
		}
		if f.Log.JSON != nil {
			cfg.Log.JSON = *f.Log.JSON
		}
	}

	if v := f.VCS; v != nil {
		if v.Backend != "" {
			backend, err := ParseVCSBackend(v.Backend)
			if err != nil {
				return nil, err
			}
			cfg.VCS.Backend = backend
		}
		if v.Binary != "" {
			cfg.VCS.Binary = v.Binary
		}
		if err := setDuration(&cfg.VCS.Timeout, "vcs.timeout", v.Timeout); err != nil {
			return nil, err
		}
		if len(v.Markers) > 0 {
			cfg.VCS.Markers = v.Markers
		}
	}

	if m := f.Metadata; m != nil {
		if m.Backend != "" {
			backend, err := ParseMetadataBackend(m.Backend)
			if err != nil {
				return nil, err
			}
			cfg.Metadata.Backend = backend
		}
		if m.Binary != "" {
			cfg.Metadata.Binary = m.Binary
		}
		if err := setDuration(&cfg.Metadata.Timeout, "metadata.timeout", m.Timeout); err != nil {
			return nil, err
		}
		for _, p := range m.SearchPaths {
			if !filepath.IsAbs(p) {
				p = filepath.Join(baseDir, p)
			}
			cfg.Metadata.SearchPaths = append(cfg.Metadata.SearchPaths, p)
		}
	}

	return cfg, nil
}

func setDuration(dst *time.Duration, field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return zerr.With(zerr.With(domain.ErrInvalidDuration, "field", field), "value", value)
	}
	*dst = d
	return nil
}

// ParseVCSBackend validates a VCS backend name.
func ParseVCSBackend(s string) (domain.VCSBackend, error) {
	switch b := domain.VCSBackend(s); b {
	case domain.VCSBackendCLI, domain.VCSBackendGoGit:
		return b, nil
	default:
		return "", zerr.With(domain.ErrInvalidVCSBackend, "backend", s)
	}
}

// ParseMetadataBackend validates a metadata backend name.
func ParseMetadataBackend(s string) (domain.MetadataBackend, error) {
	switch b := domain.MetadataBackend(s); b {
	case domain.MetadataBackendGoList, domain.MetadataBackendDistInfo:
		return b, nil
	default:
		return "", zerr.With(domain.ErrInvalidMetadataBackend, "backend", s)
	}
}

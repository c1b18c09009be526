// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"time"
)

// Command describes one invocation of an external tool.
type Command struct {
	// Dir is the working directory of the process.
	Dir  string
	Name string
	Args []string
	// Env entries in "KEY=VALUE" form are applied on top of the inherited environment.
	Env []string
	// Timeout bounds the invocation. Zero selects the runner's default.
	Timeout time.Duration
}

// CommandRunner runs external tools with captured output.
//
//go:generate mockgen -source=command.go -destination=mocks/mock_command.go -package=mocks
type CommandRunner interface {
	// Run executes cmd and returns its standard output.
	// Standard error is captured and attached to the returned error, never printed.
	Run(ctx context.Context, cmd Command) (string, error)
}

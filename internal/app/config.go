package app

import (
	"fmt"

	"github.com/vk/simgraph/internal/validation"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ModelPaths are files or directories of .hcl, .yaml and .yml models.
	ModelPaths []string

	LogFormat string `validate:"oneof=text json"`
	LogLevel  string `validate:"oneof=debug info warn error"`

	// Addr is the listen address of the HTTP server; empty disables it.
	Addr string
	// StrictElementMatch requires both ends of an edge to name the same
	// element.
	StrictElementMatch bool
}

func NewConfig(cfg Config) (*Config, error) {
	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

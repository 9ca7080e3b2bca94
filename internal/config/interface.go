// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "context"

// Loader is the interface for a format-specific model loader.
type Loader interface {
	// Extensions lists the file suffixes the loader understands, including
	// the leading dot.
	Extensions() []string

	// Load reads every given file and merges them into one Model, in the
	// order given.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

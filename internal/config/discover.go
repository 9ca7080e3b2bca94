// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/fsutil"
)

// LoadAll finds every model file under the given paths and loads it with
// the loader registered for its extension. A path may name a file or a
// directory, which is searched recursively. Files are merged in the order
// they are found.
func LoadAll(ctx context.Context, paths []string, loaders ...Loader) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	byExt := make(map[string]Loader)
	var exts []string
	for _, l := range loaders {
		for _, ext := range l.Extensions() {
			byExt[strings.ToLower(ext)] = l
			exts = append(exts, ext)
		}
	}

	model := NewModel()
	for _, root := range paths {
		files, err := fsutil.FindFilesByExtension(root, exts...)
		if err != nil {
			return nil, fmt.Errorf("failed to find model files in %s: %w", root, err)
		}
		if len(files) == 0 {
			logger.Warn("No model files found in path.", "path", root)
			continue
		}
		for _, file := range files {
			l, ok := byExt[strings.ToLower(filepath.Ext(file))]
			if !ok {
				return nil, fmt.Errorf("no loader for %s", file)
			}
			m, err := l.Load(ctx, file)
			if err != nil {
				return nil, err
			}
			logger.Debug("Model file loaded.", "file", file, "nodes", len(m.Nodes), "edges", len(m.Edges))
			model.Merge(m)
		}
	}
	return model, nil
}

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/simgraph/internal/config"
	"github.com/vk/simgraph/internal/ctxlog"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

func (l *Loader) Extensions() []string {
	return []string{".hcl"}
}

// Load parses and translates each file in turn.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, path := range paths {
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		m, err := decodeFile(ctx, path, file)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}
	return model, nil
}

// Parse translates HCL source held in memory. filename is used in error
// messages and origins only.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decodeFile(ctx, filename, file)
}

func decodeFile(ctx context.Context, path string, file *hcl.File) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	var parsed hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	model, diags := translateFile(ctx, path, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid model in %s: %w", path, diags)
	}
	logger.Debug("HCL model file decoded.", "file", path, "elements", len(model.Elements), "nodes", len(model.Nodes), "edges", len(model.Edges))
	return model, nil
}

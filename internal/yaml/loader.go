// Package yaml provides the YAML implementation of config.Loader. A YAML
// model holds the same three collections as an HCL one:
//
//	elements:
//	  - name: Usuarios
//	    attributes:
//	      - {name: edad, type: numeric}
//	nodes:
//	  - id: q1
//	    kind: queue
//	    label: Caja
//	    position: {x: 120, y: 40}
//	    config:
//	      elementTypeId: usuarios
//	      strategy: FIFO
//	edges:
//	  - {source: g1, target: q1}
//
// Unknown keys are rejected.
package yaml

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/simgraph/internal/config"
	"github.com/vk/simgraph/internal/ctxlog"
	schema "github.com/vk/simgraph/internal/element"
	"gopkg.in/yaml.v3"
)

type document struct {
	Elements []element `yaml:"elements"`
	Nodes    []node    `yaml:"nodes"`
	Edges    []edge    `yaml:"edges"`
}

type element struct {
	Name       string      `yaml:"name"`
	Attributes []attribute `yaml:"attributes"`
}

// Type is checked while decoding, so an unknown type is reported with its
// line.
type attribute struct {
	Name string               `yaml:"name"`
	Type schema.AttributeType `yaml:"type"`
}

type position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type node struct {
	ID       string         `yaml:"id"`
	Kind     string         `yaml:"kind"`
	Label    string         `yaml:"label"`
	Position position       `yaml:"position"`
	Config   map[string]any `yaml:"config"`
}

type edge struct {
	ID           string `yaml:"id"`
	Source       string `yaml:"source"`
	Target       string `yaml:"target"`
	SourceHandle string `yaml:"sourceHandle"`
	TargetHandle string `yaml:"targetHandle"`
}

// Loader is the YAML implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new YAML loader.
func NewLoader() *Loader {
	return &Loader{}
}

var _ config.Loader = (*Loader)(nil)

func (l *Loader) Extensions() []string {
	return []string{".yaml", ".yml"}
}

func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	model := config.NewModel()
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read YAML file %s: %w", path, err)
		}
		m, err := l.Parse(ctx, src, path)
		if err != nil {
			return nil, err
		}
		model.Merge(m)
	}
	return model, nil
}

// Parse translates YAML source held in memory. filename is used in error
// messages and origins only.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*config.Model, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}
	// The tree is decoded a second time only to recover line numbers.
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, fmt.Errorf("failed to decode YAML file %s: %w", filename, err)
	}

	model := translate(filename, &doc, &root)
	ctxlog.FromContext(ctx).Debug("YAML model file decoded.", "file", filename, "elements", len(model.Elements), "nodes", len(model.Nodes), "edges", len(model.Edges))
	return model, nil
}

func translate(filename string, doc *document, root *yaml.Node) *config.Model {
	origin := func(key string, i int) config.Origin {
		return config.Origin{File: filename, Line: itemLine(root, key, i)}
	}

	model := config.NewModel()
	for i, e := range doc.Elements {
		el := &config.Element{Name: e.Name, Origin: origin("elements", i)}
		for _, a := range e.Attributes {
			el.Attributes = append(el.Attributes, &config.Attribute{Name: a.Name, Type: string(a.Type)})
		}
		model.Elements = append(model.Elements, el)
	}
	for i, n := range doc.Nodes {
		model.Nodes = append(model.Nodes, &config.Node{
			ID:     n.ID,
			Kind:   n.Kind,
			Label:  n.Label,
			X:      n.Position.X,
			Y:      n.Position.Y,
			Config: n.Config,
			Origin: origin("nodes", i),
		})
	}
	for i, e := range doc.Edges {
		model.Edges = append(model.Edges, &config.Edge{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
			Origin:       origin("edges", i),
		})
	}
	return model
}

// itemLine returns the line of the i-th item of the top-level sequence
// under key, or 0 when there is none.
func itemLine(root *yaml.Node, key string, i int) int {
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return 0
	}
	m := root.Content[0]
	if m.Kind != yaml.MappingNode {
		return 0
	}
	for k := 0; k+1 < len(m.Content); k += 2 {
		if m.Content[k].Value != key {
			continue
		}
		seq := m.Content[k+1]
		if seq.Kind == yaml.SequenceNode && i < len(seq.Content) {
			return seq.Content[i].Line
		}
		return 0
	}
	return 0
}

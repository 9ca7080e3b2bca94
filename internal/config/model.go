// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Model structure, the root container for everything
// loaded from a user's model files.
//
// Why have a Model?
//
// A user may split a model across files: element catalogues in one, a
// production line in another. Loaders discover the pieces and the Model
// consolidates them, so edges may reference nodes declared in another file
// and nodes may reference elements declared anywhere.

package config

import "slices"

// Model is the unified representation of one or more model files.
type Model struct {
	Elements []*Element
	Nodes    []*Node
	Edges    []*Edge
}

// NewModel creates and returns an initialized Model.
func NewModel() *Model {
	return &Model{
		Elements: []*Element{},
		Nodes:    []*Node{},
		Edges:    []*Edge{},
	}
}

// Merge appends everything in other to m.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	m.Elements = append(m.Elements, other.Elements...)
	m.Nodes = append(m.Nodes, other.Nodes...)
	m.Edges = append(m.Edges, other.Edges...)
}

// Node returns the node with the given id.
func (m *Model) Node(id string) (*Node, bool) {
	i := slices.IndexFunc(m.Nodes, func(n *Node) bool { return n.ID == id })
	if i < 0 {
		return nil, false
	}
	return m.Nodes[i], true
}

// Element is the format-agnostic representation of an `element` block.
type Element struct {
	Name       string       `validate:"required"`
	Attributes []*Attribute `validate:"dive"`
	Origin     Origin
}

// Attribute is one typed field of an element. Type holds whatever the file
// said; the element registry resolves aliases.
type Attribute struct {
	Name string `validate:"required"`
	Type string `validate:"required"`
}

// Node is the format-agnostic representation of a `node` block.
type Node struct {
	ID    string `validate:"required"`
	Kind  string `validate:"required"`
	Label string
	X, Y  float64
	// Config holds overrides merged over the kind's defaults. Values are
	// JSON-compatible: maps, slices, strings, float64 and bool.
	Config map[string]any
	Origin Origin
}

// Edge is the format-agnostic representation of an `edge` block.
type Edge struct {
	// ID is optional; the graph derives one when empty.
	ID           string
	Source       string `validate:"required"`
	Target       string `validate:"required"`
	SourceHandle string
	TargetHandle string
	Origin       Origin
}

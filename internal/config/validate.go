// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"errors"
	"fmt"

	"github.com/vk/simgraph/internal/validation"
)

// Validate checks the model's structure: required fields, unique node ids
// and edges whose endpoints are declared. Every problem is reported, joined
// into one error. Kinds, configurations and connection rules are checked
// when the model is replayed.
func (m *Model) Validate() error {
	var errs []error

	elements := make(map[string]Origin, len(m.Elements))
	for _, e := range m.Elements {
		if err := validation.Struct(e); err != nil {
			errs = append(errs, fmt.Errorf("%s: element %q: %w", e.Origin, e.Name, err))
			continue
		}
		if first, dup := elements[e.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: element %q already declared at %s", e.Origin, e.Name, first))
			continue
		}
		elements[e.Name] = e.Origin
	}

	nodes := make(map[string]Origin, len(m.Nodes))
	for _, n := range m.Nodes {
		if err := validation.Struct(n); err != nil {
			errs = append(errs, fmt.Errorf("%s: node %q: %w", n.Origin, n.ID, err))
			continue
		}
		if first, dup := nodes[n.ID]; dup {
			errs = append(errs, fmt.Errorf("%s: node %q already declared at %s", n.Origin, n.ID, first))
			continue
		}
		nodes[n.ID] = n.Origin
	}

	for _, e := range m.Edges {
		if err := validation.Struct(e); err != nil {
			errs = append(errs, fmt.Errorf("%s: edge: %w", e.Origin, err))
			continue
		}
		for _, end := range []string{e.Source, e.Target} {
			if _, ok := nodes[end]; !ok {
				errs = append(errs, fmt.Errorf("%s: edge %s -> %s references undeclared node %q", e.Origin, e.Source, e.Target, end))
			}
		}
	}

	return errors.Join(errs...)
}

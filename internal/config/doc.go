// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package config defines the format-agnostic description of a simulation
// model as it is written to disk, along with the Loader interface that turns
// files of one format into it.
//
// A config.Model is not the live model. It is replayed into a graph.Manager,
// which applies the same validation an interactive edit would. Concrete
// loaders for HCL and YAML live in their own packages.
package config

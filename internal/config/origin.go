// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Origin, which records where a definition was read from.
//
// Why store the origin?
//
// It connects a parsed definition back to its physical source, so a replay
// failure can say not just *what* is wrong but *in which file and line* the
// offending block lives.

package config

import "fmt"

// Origin is the file position a definition was read from.
type Origin struct {
	File string
	Line int
}

func (o Origin) String() string {
	switch {
	case o.File == "":
		return "<unknown>"
	case o.Line == 0:
		return o.File
	default:
		return fmt.Sprintf("%s:%d", o.File, o.Line)
	}
}

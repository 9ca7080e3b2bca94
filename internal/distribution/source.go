package distribution

import (
	"math/rand/v2"
	"sync"

	"github.com/iti/rngstream"
)

// Source supplies uniform draws in [0, 1).
type Source interface {
	Float64() float64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float64

func (f SourceFunc) Float64() float64 { return f() }

// Stream is a named, independent random stream. Streams are safe for use
// by one goroutine at a time; wrap them when sharing.
type Stream struct {
	name string
	rng  *rngstream.RngStream
}

// NewStream creates a stream identified by name, typically a node id.
func NewStream(name string) *Stream {
	return &Stream{name: name, rng: rngstream.New(name)}
}

// Name returns the stream's identifier.
func (s *Stream) Name() string { return s.name }

// Float64 implements Source.
func (s *Stream) Float64() float64 { return s.rng.RandU01() }

// NewRand returns a seeded PCG source, reproducible across runs.
func NewRand(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sequence returns a source that replays values in order and then starts
// over. An empty sequence always yields 0.
func Sequence(values ...float64) Source {
	return &sequence{values: append([]float64(nil), values...)}
}

type sequence struct {
	mu     sync.Mutex
	values []float64
	next   int
}

func (s *sequence) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}

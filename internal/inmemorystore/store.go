package inmemorystore

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/node"
	"github.com/vk/simgraph/internal/nodestore"
)

// record pairs a state with its creation sequence number. Records are
// immutable once stored; updates swap in a new record.
type record struct {
	seq   uint64
	state node.State
}

// Store is the in-memory node store.
type Store struct {
	records sync.Map // Key: node ID string, Value: *record
	seq     atomic.Uint64
}

// New creates an empty store.
func New() nodestore.Store {
	return &Store{}
}

func (s *Store) Create(ctx context.Context, id string, kind node.Kind, initial map[string]any) (node.State, error) {
	if id == "" {
		return node.State{}, fmt.Errorf("node id cannot be empty")
	}
	if _, err := node.ParseKind(string(kind)); err != nil {
		return node.State{}, err
	}
	cfg, err := node.Build(kind, initial)
	if err != nil {
		return node.State{}, fmt.Errorf("node '%s': %w", id, err)
	}

	st := node.NewState(id, cfg)
	s.records.Store(id, &record{seq: s.seq.Add(1), state: st})
	ctxlog.FromContext(ctx).Debug("Node state created.", "id", id, "kind", kind)
	return st.Normalized(), nil
}

func (s *Store) PatchConfig(ctx context.Context, id string, partial map[string]any) error {
	return s.update(id, func(st *node.State) error {
		cfg, err := node.Apply(st.Config, partial)
		if err != nil {
			return fmt.Errorf("node '%s': %w", id, err)
		}
		st.Config = cfg
		ctxlog.FromContext(ctx).Debug("Node config patched.", "id", id, "keys", len(partial))
		return nil
	})
}

func (s *Store) Remove(ctx context.Context, id string) error {
	if _, loaded := s.records.LoadAndDelete(id); loaded {
		ctxlog.FromContext(ctx).Debug("Node state removed.", "id", id)
	}
	return nil
}

func (s *Store) SetIO(ctx context.Context, id string, inputs, outputs []string) error {
	return s.update(id, func(st *node.State) error {
		st.IO = node.IO{Inputs: inputs, Outputs: outputs}.Clone()
		return nil
	})
}

func (s *Store) Get(ctx context.Context, id string) (node.State, bool) {
	v, ok := s.records.Load(id)
	if !ok {
		return node.State{}, false
	}
	return v.(*record).state.Normalized(), true
}

func (s *Store) All(ctx context.Context) []node.State {
	var recs []*record
	s.records.Range(func(_, v any) bool {
		recs = append(recs, v.(*record))
		return true
	})
	slices.SortFunc(recs, func(a, b *record) int { return cmp.Compare(a.seq, b.seq) })

	out := make([]node.State, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.state.Normalized())
	}
	return out
}

// update applies fn to a copy of the record and swaps it in. A concurrent
// writer to the same id makes the swap fail, and fn is re-run on the newer
// record. A missing id is a no-op.
func (s *Store) update(id string, fn func(st *node.State) error) error {
	for {
		v, ok := s.records.Load(id)
		if !ok {
			return nil
		}
		old := v.(*record)
		next := old.state.Clone()
		if err := fn(&next); err != nil {
			return err
		}
		if s.records.CompareAndSwap(id, old, &record{seq: old.seq, state: next}) {
			return nil
		}
	}
}

package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/element"
	"github.com/vk/simgraph/internal/graph"
)

// Events the editor sends. Every event is answered through its ack
// callback with a Reply.
const (
	EventNodeCreate    = "node:create"
	EventNodeDelete    = "node:delete"
	EventNodePatch     = "node:patch"
	EventNodeIO        = "node:io"
	EventNodeVisual    = "node:visual"
	EventEdgePropose   = "edge:propose"
	EventEdgeConnect   = "edge:connect"
	EventEdgeRemove    = "edge:remove"
	EventElementAdd    = "element:add"
	EventElementUpdate = "element:update"
	EventElementRemove = "element:remove"
	EventElementLookup = "element:lookup"
	EventGraphSnapshot = "graph:snapshot"
	EventGraphLint     = "graph:lint"
)

// EventGraphChanged is broadcast to every client, with a graph.Snapshot,
// after an event changed the model.
const EventGraphChanged = "graph:changed"

// Reply is the acknowledgement of one event.
type Reply struct {
	OK    bool   `json:"ok"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type idRequest struct {
	ID string `json:"id"`
}

type patchRequest struct {
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

type visualRequest struct {
	ID string `json:"id"`
	graph.VisualPatch
}

type elementUpdateRequest struct {
	ID string `json:"id"`
	element.Schema
}

// handler runs one event. changed reports whether the model was modified.
type handler func(ctx context.Context, g graph.Graph, payload []byte) (data any, changed bool, err error)

var handlers = map[string]handler{
	EventNodeCreate: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var spec graph.NodeSpec
		if err := decode(payload, &spec); err != nil {
			return nil, false, err
		}
		id, err := g.CreateNode(ctx, spec)
		if err != nil {
			return nil, false, err
		}
		return idRequest{ID: id}, true, nil
	},
	EventNodeDelete: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, false, err
		}
		return nil, true, g.DeleteNode(ctx, req.ID)
	},
	EventNodePatch: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var req patchRequest
		if err := decode(payload, &req); err != nil {
			return nil, false, err
		}
		if err := g.PatchNodeConfig(ctx, req.ID, req.Config); err != nil {
			return nil, false, err
		}
		st, _ := g.Node(ctx, req.ID)
		return st, true, nil
	},
	EventNodeIO: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, false, err
		}
		io, ok := g.NodeIO(ctx, req.ID)
		if !ok {
			return nil, false, fmt.Errorf("%w: '%s'", graph.ErrNodeNotFound, req.ID)
		}
		return io, false, nil
	},
	EventNodeVisual: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var req visualRequest
		if err := decode(payload, &req); err != nil {
			return nil, false, err
		}
		return nil, true, g.UpdateVisual(ctx, req.ID, req.VisualPatch)
	},
	EventEdgePropose: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var spec graph.EdgeSpec
		if err := decode(payload, &spec); err != nil {
			return nil, false, err
		}
		res, err := g.ProposeEdge(ctx, spec)
		return res, false, err
	},
	EventEdgeConnect: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var spec graph.EdgeSpec
		if err := decode(payload, &spec); err != nil {
			return nil, false, err
		}
		res, err := g.Connect(ctx, spec)
		return res, res.Valid, err
	},
	EventEdgeRemove: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, false, err
		}
		return nil, true, g.RemoveEdge(ctx, req.ID)
	},
	EventElementAdd: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var s element.Schema
		if err := decode(payload, &s); err != nil {
			return nil, false, err
		}
		stored, err := g.Elements().Add(ctx, s)
		return stored, err == nil, err
	},
	EventElementUpdate: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var req elementUpdateRequest
		if err := decode(payload, &req); err != nil {
			return nil, false, err
		}
		stored, err := g.Elements().Update(ctx, req.ID, req.Schema)
		return stored, err == nil, err
	},
	EventElementRemove: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, false, err
		}
		g.Elements().Remove(ctx, req.ID)
		return nil, true, nil
	},
	EventElementLookup: func(ctx context.Context, g graph.Graph, payload []byte) (any, bool, error) {
		var req idRequest
		if err := decode(payload, &req); err != nil {
			return nil, false, err
		}
		s, ok := g.Elements().Lookup(req.ID)
		if !ok {
			return nil, false, fmt.Errorf("%w: %q", element.ErrNotFound, req.ID)
		}
		return s, false, nil
	},
	EventGraphSnapshot: func(ctx context.Context, g graph.Graph, _ []byte) (any, bool, error) {
		return g.Snapshot(ctx), false, nil
	},
	EventGraphLint: func(ctx context.Context, g graph.Graph, _ []byte) (any, bool, error) {
		return g.Lint(ctx), false, nil
	},
}

// Dispatch runs event against g with the given payload, which is any
// JSON-compatible value, and builds its reply. changed reports whether the
// model was modified.
func Dispatch(ctx context.Context, g graph.Graph, event string, payload any) (reply Reply, changed bool) {
	logger := ctxlog.FromContext(ctx)

	h, ok := handlers[event]
	if !ok {
		return Reply{Error: fmt.Sprintf("unknown event %q", event)}, false
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Reply{Error: fmt.Sprintf("invalid payload: %v", err)}, false
	}

	data, changed, err := h(ctx, g, raw)
	if err != nil {
		logger.Debug("Event failed.", "event", event, "error", err)
		return Reply{Error: err.Error()}, false
	}
	return Reply{OK: true, Data: data}, changed
}

func decode(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

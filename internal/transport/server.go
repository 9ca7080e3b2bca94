package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/graph"
	"github.com/vk/simgraph/internal/metrics"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

// Server bridges socket.io clients to a graph. Events from any number of
// clients funnel into the graph, which serialises them.
type Server struct {
	ctx     context.Context
	io      *socket.Server
	graph   graph.Graph
	metrics *metrics.Registry
}

// NewServer creates a socket.io server bound to g. m may be nil.
func NewServer(ctx context.Context, g graph.Graph, m *metrics.Registry) *Server {
	opts := socket.DefaultServerOptions()
	opts.SetServeClient(false)
	opts.SetTransports(types.NewSet("polling", "websocket"))
	opts.SetCors(&types.Cors{Origin: "*", Credentials: true})

	s := &Server{
		ctx:     ctx,
		io:      socket.NewServer(nil, opts),
		graph:   g,
		metrics: m,
	}
	s.io.On("connection", func(clients ...any) {
		client, ok := clients[0].(*socket.Socket)
		if !ok {
			return
		}
		s.register(client)
	})
	return s
}

// Handler serves the socket.io endpoint. Mount it at /socket.io/.
func (s *Server) Handler() http.Handler {
	return s.io.ServeHandler(nil)
}

// Close disconnects every client.
func (s *Server) Close() {
	s.io.Close(nil)
}

func (s *Server) register(client *socket.Socket) {
	ctx := ctxlog.With(s.ctx, "sid", client.Id())
	logger := ctxlog.FromContext(ctx)
	logger.Info("Editor connected.")
	if s.metrics != nil {
		s.metrics.ClientsConnected.Inc()
	}

	client.On("disconnect", func(reason ...any) {
		logger.Info("Editor disconnected.", "reason", first(reason))
		if s.metrics != nil {
			s.metrics.ClientsConnected.Dec()
		}
	})

	client.On(EventNodeCreate, s.listener(ctx, EventNodeCreate))
	client.On(EventNodeDelete, s.listener(ctx, EventNodeDelete))
	client.On(EventNodePatch, s.listener(ctx, EventNodePatch))
	client.On(EventNodeIO, s.listener(ctx, EventNodeIO))
	client.On(EventNodeVisual, s.listener(ctx, EventNodeVisual))
	client.On(EventEdgePropose, s.listener(ctx, EventEdgePropose))
	client.On(EventEdgeConnect, s.listener(ctx, EventEdgeConnect))
	client.On(EventEdgeRemove, s.listener(ctx, EventEdgeRemove))
	client.On(EventElementAdd, s.listener(ctx, EventElementAdd))
	client.On(EventElementUpdate, s.listener(ctx, EventElementUpdate))
	client.On(EventElementRemove, s.listener(ctx, EventElementRemove))
	client.On(EventElementLookup, s.listener(ctx, EventElementLookup))
	client.On(EventGraphSnapshot, s.listener(ctx, EventGraphSnapshot))
	client.On(EventGraphLint, s.listener(ctx, EventGraphLint))
}

// listener handles one event: the payload is the first argument and the ack
// callback, when the client asked for one, is the last.
func (s *Server) listener(ctx context.Context, event string) func(...any) {
	ctx = ctxlog.With(ctx, "event", event)
	return func(args ...any) {
		start := time.Now()

		var ack socket.Ack
		if n := len(args); n > 0 {
			if fn, ok := args[n-1].(socket.Ack); ok {
				ack = fn
				args = args[:n-1]
			}
		}

		reply, changed := Dispatch(ctx, s.graph, event, first(args))
		s.record(event, reply, time.Since(start))

		if ack != nil {
			ack([]any{reply}, nil)
		}
		if changed {
			s.io.Emit(EventGraphChanged, s.graph.Snapshot(s.ctx))
		}
	}
}

func (s *Server) record(event string, reply Reply, d time.Duration) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if !reply.OK {
		status = "error"
	}
	s.metrics.RecordEvent(event, status, d)
}

func first(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vk/simgraph/internal/ctxlog"
	"github.com/vk/simgraph/internal/graph"
	"github.com/vk/simgraph/internal/transport"
)

const shutdownTimeout = 5 * time.Second

// Router builds the HTTP routes served next to the socket endpoint.
func (a *App) Router(ts *transport.Server) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", a.healthHandler).Methods(http.MethodGet)
	router.Handle("/metrics", a.metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/api/model", a.modelHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/lint", a.lintHandler).Methods(http.MethodGet)
	if ts != nil {
		router.PathPrefix("/socket.io/").Handler(ts.Handler())
	}
	return router
}

// Serve listens on the configured address until ctx is cancelled, then
// shuts the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	logger := ctxlog.FromContext(a.ctx)
	if a.config.Addr == "" {
		return errors.New("no listen address configured")
	}

	ts := transport.NewServer(a.ctx, a.graph, a.metrics)
	defer ts.Close()

	a.httpServer = &http.Server{
		Addr:              a.config.Addr,
		Handler:           a.Router(ts),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return a.ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening.", "addr", a.config.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped.")
	return nil
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

func (a *App) modelHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, a.graph.Snapshot(r.Context()))
}

func (a *App) lintHandler(w http.ResponseWriter, r *http.Request) {
	findings := a.graph.Lint(r.Context())
	if findings == nil {
		findings = []graph.Finding{}
	}
	writeJSON(w, findings)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

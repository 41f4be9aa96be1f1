// Package server exposes the reranking pipeline over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hybridrank/hybridrank/internal/search"
)

// Server serves the search API. All state behind it is immutable after
// construction, so handlers are safe for concurrent requests.
type Server struct {
	reranker *search.Reranker
	logger   *slog.Logger
	addr     string
}

// New creates a Server for the given reranker.
func New(reranker *search.Reranker, addr string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		reranker: reranker,
		logger:   logger,
		addr:     addr,
	}
}

// Handler builds the route table with logging and CORS middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /rag-query", s.handleRagQuery)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("GET /chunk-context/{chunkID}", s.handleChunkContext)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	s.logger.Info("server starting", "addr", s.addr)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown error", "error", err)
		}
	}()

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

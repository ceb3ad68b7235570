// Package server exposes the summarise pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/wslanalytics/pressbox/internal/model"
	"github.com/wslanalytics/pressbox/internal/pipeline"
)

// Server serves the summarise endpoints.
type Server struct {
	pipeline *pipeline.Pipeline
	config   model.ServerConfig
	logger   *zap.Logger
}

// New creates a server around a pipeline.
func New(p *pipeline.Pipeline, cfg model.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.L()
	}
	return &Server{pipeline: p, config: cfg, logger: logger}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /summarise/round", s.handleRound)
	mux.HandleFunc("POST /summarise/preview", s.handlePreview)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout, // generation can be slow
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	s.handleSummarise(w, r, s.pipeline.SummariseRound)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.handleSummarise(w, r, s.pipeline.SummarisePreview)
}

type summariseFunc func(ctx context.Context, params model.SummariseParams) (*model.SummariseResponse, error)

func (s *Server) handleSummarise(w http.ResponseWriter, r *http.Request, run summariseFunc) {
	var params model.SummariseParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	resp, err := run(r.Context(), params)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("summarise failed",
			zap.String("path", r.URL.Path),
			zap.String("season", params.Season),
			zap.Int("round", params.Round),
			zap.Int("status", status),
			zap.Error(err),
		)
		writeError(w, status, err.Error())
		return
	}

	s.logger.Info("summarise ok",
		zap.String("path", r.URL.Path),
		zap.String("season", params.Season),
		zap.Int("round", params.Round),
		zap.Int("ungrounded", len(resp.Ungrounded)),
	)
	writeJSON(w, http.StatusOK, resp)
}

// statusFor maps pipeline errors to HTTP statuses: missing configuration is
// 503, an empty round is 404, a failed generation is 502.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrStoreNotConfigured),
		errors.Is(err, pipeline.ErrGenerationDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, pipeline.ErrNoFixtures):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

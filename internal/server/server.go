// Package server exposes the summary engine as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/huangsam/sparkline/internal/contract"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	requestTimeout    = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Routes returns the router with every endpoint mounted.
//
//   - POST /v1/summary  - full summary
//   - POST /v1/series   - sampled series only
//   - POST /v1/classify - time dimension classification
//   - GET  /healthz     - store connectivity
func Routes(h *Handler, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", h.Health)
	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(chimw.Timeout(requestTimeout))
		v1.Post("/summary", h.Summary)
		v1.Post("/series", h.Series)
		v1.Post("/classify", h.Classify)
	})
	return r
}

// requestLogger logs one line per request once the response is written.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			}
			if ww.Status() >= http.StatusInternalServerError {
				logger.Error("request failed", fields...)
				return
			}
			logger.Info("request", fields...)
		})
	}
}

// NewLogger builds a JSON zap logger at the given level.
func NewLogger(level zapcore.Level) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zc.Build()
}

// Serve listens on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           Routes(NewHandler(cfg, mgr, logger), logger),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

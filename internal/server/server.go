// Package server exposes the dashboard views over HTTP. A browser front-end
// issues one view request per dropdown change; every request recomputes its
// aggregate from the shared read-only dataset.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/gymdash/internal/dashboard"
	"github.com/KaramelBytes/gymdash/internal/dataset"
	"github.com/KaramelBytes/gymdash/internal/view"
)

// Config holds configuration for the server.
type Config struct {
	Dataset      *dataset.Dataset
	Report       *dataset.Report
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *slog.Logger
	// Registry receives the view metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Server serves one dataset.
type Server struct {
	ds       *dataset.Dataset
	report   *dataset.Report
	agg      *view.Aggregator
	catalog  dashboard.Catalog
	addr     string
	readTO   time.Duration
	writeTO  time.Duration
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	handler  http.Handler
}

// New builds a server for cfg.Dataset.
func New(cfg Config) (*Server, error) {
	if cfg.Dataset == nil {
		return nil, errors.New("server: no dataset")
	}
	s := &Server{
		ds:       cfg.Dataset,
		report:   cfg.Report,
		agg:      view.New(cfg.Dataset),
		catalog:  dashboard.Available(cfg.Dataset),
		addr:     cfg.Addr,
		readTO:   cfg.ReadTimeout,
		writeTO:  cfg.WriteTimeout,
		logger:   cfg.Logger,
		registry: cfg.Registry,
	}
	if s.addr == "" {
		s.addr = ":8050"
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = NewMetrics(s.registry)
	s.metrics.datasetRows.Set(float64(s.ds.Rows()))
	s.handler = s.routes()
	return s, nil
}

// Handler returns the HTTP handler with all routes mounted.
func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) routes() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.logger),
		middleware.Recoverer,
	)
	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Route("/v1", func(r chi.Router) {
		r.Get("/dataset", s.datasetSummary)
		r.Get("/catalog", s.catalogHandler)
		r.Get("/views/{kind}", s.viewHandler)
	})
	return r
}

// Serve starts the listener and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting dashboard server", "addr", ln.Addr().String(), "dataset", s.ds.Name(), "rows", s.ds.Rows())

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler: s.handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.readTO,
		WriteTimeout:      s.writeTO,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down dashboard server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

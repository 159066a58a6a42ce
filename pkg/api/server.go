// Package api exposes PIT inspection and the snapshot archive over HTTP.
//
// @title           pitkit REST API
// @version         1.0.0
// @description     Inspect, search, diff and archive PIT (Partition Information Table) files.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggo/swag"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the HTTP handler for s. Metrics are served from gatherer.
func NewRouter(s *Server, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", s.handleSwagger)

	m := s.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// Stateless codec operations on an uploaded PIT
		r.Post("/pit/inspect", m.InstrumentHandler("POST", "/api/v1/pit/inspect", s.handleInspect))
		r.Post("/pit/find", m.InstrumentHandler("POST", "/api/v1/pit/find", s.handleFind))
		r.Post("/pit/diff", m.InstrumentHandler("POST", "/api/v1/pit/diff", s.handleDiff))

		// Snapshot archive
		r.Post("/archive", m.InstrumentHandler("POST", "/api/v1/archive", s.handleArchivePut))
		r.Get("/archive", m.InstrumentHandler("GET", "/api/v1/archive", s.handleArchiveList))
		r.Get("/archive/{id}", m.InstrumentHandler("GET", "/api/v1/archive/{id}", s.handleArchiveGet))
		r.Get("/archive/{id}/raw", m.InstrumentHandler("GET", "/api/v1/archive/{id}/raw", s.handleArchiveRaw))
		r.Delete("/archive/{id}", m.InstrumentHandler("DELETE", "/api/v1/archive/{id}", s.handleArchiveDelete))
	})

	return r
}

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	 <title>pitkit API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

// handleSwagger serves the Swagger UI and the registered OpenAPI document
func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			s.logger.Error("failed to read swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	default:
		http.NotFound(w, r)
	}
}

// StartServer serves the API until ctx is cancelled, then shuts down gracefully
func StartServer(ctx context.Context, store SnapshotStore, config ServerConfig, logger *slog.Logger) error {
	SwaggerInfo.Host = fmt.Sprintf("%s:%d", config.Bind, config.Port)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := NewMetrics(reg)

	server := NewServer(store, config, metrics, logger)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(server, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting pitkit API server", "addr", addr)
		logger.Info("metrics available", "url", fmt.Sprintf("http://%s/metrics", addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	}
}

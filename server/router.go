package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/casevault/privacy/server/api"
)

func setupRouter(server *api.Server, cfg *ServeConfig, logger Logger) *chi.Mux {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(loggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.WriteTimeout))
	r.Use(middleware.RequestSize(cfg.MaxRequestSize))

	// CORS middleware
	if cfg.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CorsOrigins,
			AllowedMethods:   []string{"GET", "POST"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	// Compression
	r.Use(middleware.Compress(5))

	// Health and readiness
	r.Get("/health", server.HandleHealth)

	// Proof catalog and generation
	r.Get("/circuits", server.HandleListCircuits)
	r.Get("/proofs", server.HandleListProofs)
	r.Post("/prove/{circuit}", server.HandleProve)

	// Compression accounting
	r.Post("/compress", server.HandleCompress)

	// Orchestrated submission pipeline
	r.Post("/process", server.HandleProcess)
	r.Get("/score", server.HandleScore)

	// Threshold access
	r.Route("/access", func(r chi.Router) {
		r.Post("/", server.HandleRequestAccess)
		r.Get("/active", server.HandleListActive)
		r.Get("/approved", server.HandleListApproved)
		r.Post("/{id}/approve", server.HandleApprove)
		r.Post("/{id}/decrypt", server.HandleDecrypt)
		r.Get("/{id}/status", server.HandleCommitteeStatus)
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	// Pprof (debug only)
	if cfg.EnablePprof {
		r.Mount("/debug", middleware.Profiler())
	}

	return r
}

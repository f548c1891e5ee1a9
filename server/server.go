package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casevault/privacy/compression"
	"github.com/casevault/privacy/privacy"
	"github.com/casevault/privacy/server/api"
	"github.com/casevault/privacy/threshold"
	"github.com/casevault/privacy/zkproof"
)

type ServeConfig struct {
	// Server settings
	Host string
	Port int

	// Pipeline settings
	ProofBackend  string // "mock" or "groth16"
	Store         string // "memory" or "badger"
	DataDir       string // badger database directory
	CommitteeSize int
	Threshold     int
	RequestTTL    time.Duration

	// Performance settings
	MaxRequestSize  int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Security settings
	EnableCORS  bool
	CorsOrigins []string

	// Observability
	EnablePprof bool
	LogLevel    string
	LogFormat   string // "json" or "text"

	// TLS settings
	EnableTLS bool
	CertFile  string
	KeyFile   string
}

func Run(cfg *ServeConfig) error {
	// Validate configuration
	if err := validateServeConfig(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Setup structured logging
	logger := SetupLogger(cfg.LogLevel, cfg.LogFormat)

	// Proving backend
	var backend zkproof.Backend
	switch cfg.ProofBackend {
	case "groth16":
		backend = zkproof.NewGnarkBackend()
		logger.Info("Using groth16 proving backend")
	default:
		backend = zkproof.MockBackend{}
		logger.Warn("Using mock proving backend; proof bytes are placeholders")
	}
	prover := zkproof.NewProver(backend)

	// Session store
	store, err := openStore(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer store.Close()

	// Core subsystems
	accountant := compression.NewAccountant()
	access := threshold.NewController(store, threshold.Config{
		CommitteeSize: cfg.CommitteeSize,
		Threshold:     cfg.Threshold,
		RequestTTL:    cfg.RequestTTL,
	})
	orchestrator := privacy.NewOrchestrator(prover, accountant, access)

	// Create server
	server := api.NewServer(prover, accountant, access, orchestrator)

	// Setup router with middleware
	r := setupRouter(server, cfg, logger)

	// Configure HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	httpServer := &http.Server{
		Addr:           addr,
		Handler:        r,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", addr, "tls", cfg.EnableTLS)

		var err error
		if cfg.EnableTLS {
			err = httpServer.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("Shutting down server gracefully...")
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func openStore(cfg *ServeConfig, logger Logger) (threshold.SessionStore, error) {
	switch cfg.Store {
	case "badger":
		store, err := threshold.OpenBadgerStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened durable session store", "dir", cfg.DataDir)
		return store, nil
	default:
		logger.Info("Using in-memory session store")
		return threshold.NewMemoryStore(), nil
	}
}

func validateServeConfig(cfg *ServeConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	switch cfg.ProofBackend {
	case "", "mock", "groth16":
	default:
		return fmt.Errorf("unknown proof backend: %s", cfg.ProofBackend)
	}

	switch cfg.Store {
	case "", "memory":
	case "badger":
		if cfg.DataDir == "" {
			return fmt.Errorf("badger store requires --data-dir")
		}
	default:
		return fmt.Errorf("unknown store: %s", cfg.Store)
	}

	if cfg.Threshold > 0 && cfg.CommitteeSize > 0 && cfg.Threshold > cfg.CommitteeSize {
		return fmt.Errorf("threshold %d exceeds committee size %d", cfg.Threshold, cfg.CommitteeSize)
	}

	if cfg.EnableTLS {
		if cfg.CertFile == "" || cfg.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert-file or key-file not provided")
		}
		if _, err := os.Stat(cfg.CertFile); err != nil {
			return fmt.Errorf("cert file not found: %s", cfg.CertFile)
		}
		if _, err := os.Stat(cfg.KeyFile); err != nil {
			return fmt.Errorf("key file not found: %s", cfg.KeyFile)
		}
	}

	return nil
}

package privacyd

import (
	"time"

	"github.com/casevault/privacy/server"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	cfg := &server.ServeConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the privacy pipeline API server",
		Long:  `Start the HTTP API server for proof generation, compression accounting and threshold access control.`,
		Example: `  # Start server on default port
  casevault serve

  # Durable session store with real groth16 proving
  casevault serve --store badger --data-dir ./data --proof-backend groth16

  # Production deployment with TLS
  casevault serve --host 0.0.0.0 --port 443 --enable-tls \
    --cert-file /etc/ssl/cert.pem --key-file /etc/ssl/key.pem`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Run(cfg)
		},
	}

	// Server flags
	cmd.Flags().StringVar(&cfg.Host, "host", "localhost", "Host to bind to")
	cmd.Flags().IntVarP(&cfg.Port, "port", "p", 8080, "Port to listen on")

	// Pipeline flags
	cmd.Flags().StringVar(&cfg.ProofBackend, "proof-backend", "mock", "Proving backend (mock, groth16)")
	cmd.Flags().StringVar(&cfg.Store, "store", "memory", "Session store backend (memory, badger)")
	cmd.Flags().StringVarP(&cfg.DataDir, "data-dir", "d", "", "Directory for the badger session store")
	cmd.Flags().IntVar(&cfg.CommitteeSize, "committee-size", 5, "Committee members per access request")
	cmd.Flags().IntVar(&cfg.Threshold, "threshold", 3, "Default approvals required for disclosure")
	cmd.Flags().DurationVar(&cfg.RequestTTL, "request-ttl", 48*time.Hour, "Access request lifetime")

	// Performance flags
	cmd.Flags().Int64Var(&cfg.MaxRequestSize, "max-request-size", 10*1024*1024, "Maximum request body size in bytes")
	cmd.Flags().DurationVar(&cfg.ReadTimeout, "read-timeout", 15*time.Second, "HTTP read timeout")
	cmd.Flags().DurationVar(&cfg.WriteTimeout, "write-timeout", 120*time.Second, "HTTP write timeout (proof generation can be slow)")
	cmd.Flags().DurationVar(&cfg.IdleTimeout, "idle-timeout", 120*time.Second, "HTTP idle timeout")
	cmd.Flags().DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")

	// Security flags
	cmd.Flags().BoolVar(&cfg.EnableCORS, "enable-cors", true, "Enable CORS middleware")
	cmd.Flags().StringSliceVar(&cfg.CorsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")

	// Observability flags
	cmd.Flags().BoolVar(&cfg.EnablePprof, "enable-pprof", false, "Enable pprof endpoints (debug only)")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&cfg.LogFormat, "log-format", "text", "Log format (text, json)")

	// TLS flags
	cmd.Flags().BoolVar(&cfg.EnableTLS, "enable-tls", false, "Enable TLS/HTTPS")
	cmd.Flags().StringVar(&cfg.CertFile, "cert-file", "", "TLS certificate file")
	cmd.Flags().StringVar(&cfg.KeyFile, "key-file", "", "TLS private key file")

	return cmd
}

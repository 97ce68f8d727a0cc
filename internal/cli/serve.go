package cli

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/egedemirkapi/entity-scanner/internal/logging"
	"github.com/egedemirkapi/entity-scanner/internal/observability"
	"github.com/egedemirkapi/entity-scanner/internal/pipeline"
	"github.com/egedemirkapi/entity-scanner/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scan HTTP API",
	Long: `Serve exposes scans over HTTP until interrupted:

  POST /v1/scan   {"url": "https://example.com"}
  GET  /health
  GET  /metrics   Prometheus metrics

Example:
  entity-scanner serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config: :8080)")
	serveCmd.Flags().DurationVar(&httpTimeout, "http-timeout", 0, "website fetch timeout (default from config: 7s)")
	serveCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent")
}

func runServe(cmd *cobra.Command, args []string) error {
	applyHTTPFlags(&cfg)
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	metrics := observability.NewMetrics(prometheus.NewRegistry())

	scanner, err := newScanner(cfg, pipeline.WithMetrics(metrics))
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Model: %s/%s\n", cfg.LLM.Provider, displayModel(cfg.LLM.Model))
	}

	srv := server.New(cfg.Server, scanner,
		server.WithLogger(logging.New("server")),
		server.WithMetrics(metrics),
		server.WithVersion(Version),
	)

	return srv.Run(cmd.Context())
}

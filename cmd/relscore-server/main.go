// Package main provides the relscore server binary.
// The server exposes an HTTP API for scoring relevance-judgment submissions.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/relscore/relscore/internal/config"
	"github.com/relscore/relscore/internal/pkg/logger"
	"github.com/relscore/relscore/internal/server"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "relscore-server",
		Short: "Relscore Server - HTTP scoring service for relevance submissions",
		Long: `Relscore Server scores participant submissions against ground-truth
relevance annotations and serves the results over HTTP.

The server exposes:
  - POST /v1/evaluations          score a submission
  - GET  /v1/evaluations/phases   list recognized challenge phases
  - GET  /v1/evaluations/recent   recent scores for a phase
  - GET  /healthz                 health check

Examples:
  relscore-server                          # Start with defaults
  relscore-server --port 9090              # Custom HTTP port
  relscore-server -c relscore.yaml         # Load a config file`,
		RunE:         runServer,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringP("config", "c", "", "config file path")
	rootCmd.Flags().BoolP("verbose", "v", false, "verbose logging")
	rootCmd.Flags().IntP("port", "p", 8080, "HTTP server port")
	rootCmd.Flags().String("host", "0.0.0.0", "server host")
	rootCmd.Flags().String("data-dir", "", "restrict input files to this directory")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("relscore-server %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override from flags
	if cmd.Flags().Changed("port") {
		cfg.Port = port
	}
	if cmd.Flags().Changed("host") {
		cfg.Host = host
	}
	if dataDir != "" {
		cfg.Eval.DataDir = dataDir
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting Relscore Server",
		"version", version,
		"addr", cfg.Address(),
		"results_backend", cfg.Results.Backend,
		"bus", cfg.Bus.Type,
	)

	srv, err := server.New(cfg, version, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Shutdown signal received")
		return srv.Stop(context.Background())
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}

/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ssargent/pitkit/pkg/api"
	"github.com/ssargent/pitkit/pkg/config"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the pitkit REST API server.

The server inspects, searches and diffs uploaded PIT files and exposes the
snapshot archive. Every /api/v1 route requires the X-API-Key header; metrics
are served unauthenticated on /metrics.

If the configured API key is "auto", a key is generated for this run and
printed once.

Examples:
  pit serve
  pit serve --port=9000 --bind=0.0.0.0 --api-key=mysecretkey`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *appConfig
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Server.Port, _ = flags.GetInt("port")
		}
		if flags.Changed("bind") {
			cfg.Server.Bind, _ = flags.GetString("bind")
		}
		if flags.Changed("api-key") {
			cfg.Server.APIKey, _ = flags.GetString("api-key")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, &cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind server to")
	serveCmd.Flags().String("api-key", "", "API key required on /api/v1 routes")
}

// runServer opens the archive and serves the API until ctx is cancelled
func runServer(ctx context.Context, cfg *config.Config, out io.Writer) error {
	if container == nil {
		return fmt.Errorf("dependency container not initialized")
	}

	apiKey := cfg.Server.APIKey
	if apiKey == "" || apiKey == "auto" {
		generated, err := config.GenerateSecureKey(32)
		if err != nil {
			return err
		}
		apiKey = generated
		fmt.Fprintf(out, "🔑 Generated API key for this run: %s\n", apiKey)
	}

	store, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Fprintf(out, "🚀 Starting pitkit server on %s:%d\n", cfg.Server.Bind, cfg.Server.Port)
	fmt.Fprintf(out, "📁 Data directory: %s\n", cfg.DataDir)

	starter := container.GetServerFactory().CreateServerStarter()
	return starter.StartServer(ctx, store, api.ServerConfig{
		Bind:          cfg.Server.Bind,
		Port:          cfg.Server.Port,
		APIKey:        apiKey,
		MaxUploadSize: cfg.Server.MaxUploadSize,
	}, logger)
}

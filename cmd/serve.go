package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/seedling-dev/seedling/internal/config"
	"github.com/seedling-dev/seedling/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the web server.

Serves the rendered home page at /, the htmx greet endpoint at /api/greet,
and static assets under /static/. In development mode (the default) a
live-reload layer watches the template and static directories and refreshes
connected browsers on change.

Examples:
  seedling serve                  # Listen on :4000
  seedling serve --port 8080      # Listen on :8080
  PORT=8080 seedling serve        # Same, via environment
  seedling serve --live-reload=false  # Plain serving, no reload layer`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("templates", "templates", "Templates directory")
	serveCmd.Flags().String("static", "static", "Static assets directory")
	serveCmd.Flags().Bool("live-reload", true, "Enable the live-reload layer")

	bindFlag("server.port", serveCmd.Flags().Lookup("port"))
	bindFlag("server.host", serveCmd.Flags().Lookup("host"))
	bindFlag("templates.dir", serveCmd.Flags().Lookup("templates"))
	bindFlag("static.dir", serveCmd.Flags().Lookup("static"))
	bindFlag("development.live_reload", serveCmd.Flags().Lookup("live-reload"))
}

func runServe(cmd *cobra.Command, args []string) error {
	// .env is optional and never overrides the real environment.
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown error: %v", err)
		}

		cancel()
	}()

	fmt.Printf("seedling listening at http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

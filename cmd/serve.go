package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Code24x7-R/Photobook/internal/captioning"
	"github.com/Code24x7-R/Photobook/internal/config"
	"github.com/Code24x7-R/Photobook/internal/handlers"
	"github.com/Code24x7-R/Photobook/internal/processing"
	"github.com/Code24x7-R/Photobook/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start web server for the photobook interface",
		Long: `Starts the Photobook web interface on the specified port.

The web interface allows you to upload photos, generate titles, captions,
album groupings, and tags with vision-capable LLMs (Gemini, OpenAI, or
Ollama), edit the results, and export the book as a photobook document.`,
		Example: `  # Start server on default port 8888
  photobook serve

  # Start server on custom port
  photobook serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			store := storage.New()
			service := captioning.NewService(cfg.Provider, cfg.Model, cfg.Temperature)
			coordinator := processing.New(store, service, cfg.ProgressResetDelay)
			handler := handlers.New(store, coordinator, cfg)

			addr := ":" + cfg.Port
			server := &http.Server{
				Addr:    addr,
				Handler: handler.Routes(),
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Photobook interface available", "addr", addr, "url", "http://localhost"+addr, "provider", service.Provider(), "model", service.Model())
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				coordinator.Wait()
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}

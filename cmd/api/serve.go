package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/markdave123-py/doctranslate/internal/app"
	"github.com/markdave123-py/doctranslate/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and upload page",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Handle SIGINT/SIGTERM for graceful shutdown
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		application, err := app.NewApp(ctx, cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		errCh := make(chan error, 1)
		go func() { errCh <- application.Server.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := application.Server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Println("shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	orreryhttp "github.com/orreryworks/orrery/internal/http"
)

var serveTrain bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the relation engine behind an HTTP server",
	Long: `Build the engine from the catalog and serve its operations over HTTP.

Examples:
  # Serve on the configured host/port
  orrery serve --catalog catalog.json

  # Train embeddings before accepting traffic
  orrery serve --catalog catalog.json --train`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveTrain, "train", false, "train embeddings before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	eng, cfg, metrics, logger, err := setup(ctx, serveTrain)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	server, err := orreryhttp.NewServer(eng, metrics, logger, &orreryhttp.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		FeedbackRPS: cfg.Server.FeedbackRPS,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio/internal/repositories"
	"portfolio/internal/server"
	"portfolio/internal/services"
	"portfolio/pkg/github"
	"portfolio/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := openDatabase(ctx)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := db.Close(closeCtx); err != nil {
			log.Warn("failed to close database", zap.Error(err))
		}
	}()

	// Contact events are optional; the API runs without a broker.
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
		if err != nil {
			log.Warn("contact events disabled", zap.Error(err))
		} else {
			publisher = mq
			defer mq.Close()
		}
	}

	app, err := server.New(server.Dependencies{
		Config:   cfg,
		Database: db,
		GitHub: github.NewClient(github.Config{
			BaseURL: cfg.GitHub.APIURL,
			Token:   cfg.GitHub.Token,
			Timeout: cfg.GitHub.Timeout,
		}),
		Publisher: publisher,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Server.Address()), zap.String("driver", db.Driver()))
		errCh <- app.Listen(cfg.Server.Address())
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server gracefully stopped")
	return nil
}

// openDatabase connects to the configured store. A missing or unreachable
// store is logged and replaced by an unavailable one so the process still
// serves the routes that do not need it.
func openDatabase(ctx context.Context) repositories.Database {
	openCtx, cancel := context.WithTimeout(ctx, cfg.Database.Timeout)
	defer cancel()

	db, err := repositories.Open(openCtx, cfg.Database, log)
	if err != nil {
		log.Error("database unavailable", zap.Error(err))
		return repositories.NewUnavailableDatabase("connection failed")
	}
	if unavailable, ok := db.(*repositories.UnavailableDatabase); ok {
		log.Warn("database unavailable, collection routes will answer 503", zap.String("reason", unavailable.Reason()))
	}
	return db
}

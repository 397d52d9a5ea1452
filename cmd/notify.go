package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"portfolio/internal/services"
	"portfolio/pkg/rabbitmq"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Consume contact message events and log them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfg.RabbitMQ.URL == "" {
			return errors.New("RABBITMQ_URL is required for notify")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mq, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue}, log)
		if err != nil {
			return err
		}
		defer mq.Close()

		return mq.Consume(ctx, func(event rabbitmq.Event) error {
			return handleEvent(log, event)
		})
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
}

// handleEvent logs a contact message event. Unknown event types are
// acknowledged and ignored.
func handleEvent(logger *zap.Logger, event rabbitmq.Event) error {
	if event.Type != services.ContactMessageCreated {
		logger.Debug("ignoring event", zap.String("type", event.Type))
		return nil
	}

	var msg services.ContactEvent
	if err := json.Unmarshal(event.Payload, &msg); err != nil {
		return fmt.Errorf("decode %s payload: %w", event.Type, err)
	}

	fields := []zap.Field{
		zap.String("id", msg.ID),
		zap.String("name", msg.Name),
		zap.String("email", msg.Email),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if msg.Subject != nil {
		fields = append(fields, zap.String("subject", *msg.Subject))
	}
	if msg.Source != nil {
		fields = append(fields, zap.String("source", *msg.Source))
	}
	logger.Info("new contact message", fields...)
	return nil
}

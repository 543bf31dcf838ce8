package notification

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"vitrine/internal/config"
	"vitrine/internal/events"
)

// NewModule builds the dispatcher. Email falls back to DisabledSender without
// an API key; events fall back to the noop publisher without a queue URL.
func NewModule(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dispatcher, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("loading email templates: %w", err)
	}

	var sender Sender = DisabledSender{}
	if cfg.Email.Enabled() {
		sender = NewHTTPSender(&http.Client{Timeout: cfg.Email.Timeout}, cfg.Email.APIURL, cfg.Email.APIKey, cfg.Email.From)
	}

	var publisher events.Publisher = events.NewNoopPublisher(logger)
	if cfg.Events.Enabled() {
		sqsPublisher, err := events.NewSQSPublisherFromRegion(ctx, cfg.Events.AWSRegion, cfg.Events.QueueURL)
		if err != nil {
			return nil, fmt.Errorf("creating sqs publisher: %w", err)
		}
		publisher = sqsPublisher
	}

	logger.Info("notifications configured",
		zap.Bool("email", cfg.Email.Enabled()),
		zap.Bool("events", cfg.Events.Enabled()),
	)
	return NewDispatcher(renderer, sender, publisher, cfg.Order.NotifyTimeout, logger), nil
}

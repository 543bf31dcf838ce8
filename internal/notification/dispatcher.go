package notification

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitrine/internal/events"
)

// Notification is one unit of async work: an email and, optionally, the
// outbox event that goes with it.
type Notification struct {
	Recipient Recipient
	Kind      Kind
	Data      Data
	Event     *events.Event
}

type Dispatcher struct {
	renderer  *Renderer
	sender    Sender
	publisher events.Publisher
	timeout   time.Duration
	logger    *zap.Logger
}

func NewDispatcher(renderer *Renderer, sender Sender, publisher events.Publisher, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{
		renderer:  renderer,
		sender:    sender,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
	}
}

// Send renders and delivers one email. Every failure is logged and reported
// as false.
func (d *Dispatcher) Send(ctx context.Context, recipient Recipient, kind Kind, data Data) bool {
	logger := d.logger.With(
		zap.String("kind", string(kind)),
		zap.Uint("orderId", data.OrderID),
	)

	if strings.TrimSpace(recipient.Email) == "" {
		logger.Warn("notification skipped: recipient has no email")
		return false
	}

	msg, err := d.renderer.Render(kind, data)
	if err != nil {
		logger.Error("failed to render notification", zap.Error(err))
		return false
	}

	if err := d.sender.Send(ctx, recipient, msg); err != nil {
		if errors.Is(err, ErrSenderDisabled) {
			logger.Warn("notification not sent: email provider not configured")
		} else {
			logger.Warn("failed to send notification", zap.Error(err))
		}
		return false
	}

	logger.Info("notification sent")
	return true
}

// DispatchAsync runs the notification detached from the caller's
// cancellation. The returned channel reports the email outcome once. A
// notification without Kind only publishes its event.
func (d *Dispatcher) DispatchAsync(ctx context.Context, n Notification) <-chan bool {
	done := make(chan bool, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(done)
		defer close(errCh)
		defer func() {
			if r := recover(); r != nil {
				errCh <- fmt.Errorf("notification panic: %v", r)
				done <- false
			}
		}()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		if n.Event != nil && d.publisher != nil {
			if err := d.publisher.Publish(ctx, *n.Event); err != nil {
				errCh <- fmt.Errorf("publish %s: %w", n.Event.Type, err)
			}
		}

		if n.Kind == "" {
			done <- false
			return
		}
		done <- d.Send(ctx, n.Recipient, n.Kind, n.Data)
	}()

	go func() {
		for err := range errCh {
			d.logger.Warn("async notification error", zap.Error(err))
		}
	}()

	return done
}

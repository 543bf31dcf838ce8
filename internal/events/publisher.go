package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"
)

type Type string

const (
	OrderCreated             Type = "order.created"
	OrderStatusChanged       Type = "order.status_changed"
	ShipmentTrackingAssigned Type = "shipment.tracking_assigned"
	ShipmentStatusChanged    Type = "shipment.status_changed"
)

// Event is the message written to the order outbox queue.
type Event struct {
	Type       Type              `json:"type"`
	OrderID    uint              `json:"orderId"`
	UserID     string            `json:"userId,omitempty"`
	Status     string            `json:"status,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// SQSAPI is the subset of the SQS client the publisher uses.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type SQSPublisher struct {
	sqs      SQSAPI
	queueURL string
}

func NewSQSPublisher(client SQSAPI, queueURL string) *SQSPublisher {
	return &SQSPublisher{sqs: client, queueURL: queueURL}
}

// NewSQSPublisherFromRegion loads the default AWS credential chain.
func NewSQSPublisherFromRegion(ctx context.Context, region, queueURL string) (*SQSPublisher, error) {
	if region == "" {
		region = "sa-east-1"
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSQSPublisher(sqs.NewFromConfig(cfg), queueURL), nil
}

func (p *SQSPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	attributes := map[string]string{
		"eventType": string(event.Type),
		"orderId":   strconv.FormatUint(uint64(event.OrderID), 10),
	}
	if event.Status != "" {
		attributes["status"] = event.Status
	}

	msgAttrs := make(map[string]sqstypes.MessageAttributeValue, len(attributes))
	for k, v := range attributes {
		msgAttrs[k] = sqstypes.MessageAttributeValue{
			DataType:    sdkaws.String("String"),
			StringValue: sdkaws.String(v),
		}
	}

	_, err = p.sqs.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          sdkaws.String(p.queueURL),
		MessageBody:       sdkaws.String(string(body)),
		MessageAttributes: msgAttrs,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// NoopPublisher is used when no queue is configured.
type NoopPublisher struct {
	logger *zap.Logger
}

func NewNoopPublisher(logger *zap.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, event Event) error {
	p.logger.Debug("event publishing disabled",
		zap.String("eventType", string(event.Type)),
		zap.Uint("orderId", event.OrderID),
	)
	return nil
}

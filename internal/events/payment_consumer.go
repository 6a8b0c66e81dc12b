package events

import (
	"context"
	"errors"

	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// PaymentRecorder applies a captured payment to a reservation.
type PaymentRecorder interface {
	ApplyCapturedPayment(ctx context.Context, reservationID uuid.UUID, amountCents int64, paymentID string) error
}

// PaymentEventConsumer listens to payment events and records them against reservations.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	recorder PaymentRecorder
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a new PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	recorder PaymentRecorder,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		recorder: recorder,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.HandleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

// HandleMessage processes one payment topic message. Only transient failures
// are returned so the consumer retries them.
func (c *PaymentEventConsumer) HandleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentCaptured:
		return c.handlePaymentCaptured(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentCaptured(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentCapturedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentCapturedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment captured event",
		zap.String("reservation_id", evt.ReservationID.String()),
		zap.String("payment_id", evt.PaymentID),
		zap.Int64("amount_cents", evt.AmountCents),
	)

	err := c.recorder.ApplyCapturedPayment(ctx, evt.ReservationID, evt.AmountCents, evt.PaymentID)
	switch {
	case err == nil:
		c.logger.Info("payment recorded on reservation",
			zap.String("reservation_id", evt.ReservationID.String()),
		)
		return nil
	case isPermanent(err):
		c.logger.Warn("discarding payment event that cannot be applied",
			zap.String("reservation_id", evt.ReservationID.String()),
			zap.String("payment_id", evt.PaymentID),
			zap.Error(err),
		)
		return nil
	default:
		c.logger.Error("failed to record payment",
			zap.String("reservation_id", evt.ReservationID.String()),
			zap.Error(err),
		)
		return err
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrForbidden)
}

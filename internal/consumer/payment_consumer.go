package consumer

import (
	"context"
	"encoding/json"
	"errors"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/usecase"
	"hospitality-booking/pkg/mq"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// PaymentRoutingKeys are the payment provider events this consumer binds to.
var PaymentRoutingKeys = []string{"payment.paid", "payment.failed", "payment.refunded"}

var paymentStatuses = map[string]entity.PaymentStatus{
	"payment.paid":     entity.PaymentStatusPaid,
	"payment.failed":   entity.PaymentStatusFailed,
	"payment.refunded": entity.PaymentStatusRefunded,
}

type PaymentEvent struct {
	Event   string `json:"event"`
	Version int    `json:"version"`
	Data    struct {
		PaymentID string `json:"payment_id"`
		BookingID string `json:"booking_id"`
		Amount    int64  `json:"amount"`
		Currency  string `json:"currency"`
	} `json:"data"`
}

type DeliverySource interface {
	Deliveries(ctx context.Context) (<-chan amqp.Delivery, error)
}

type PaymentConsumer struct {
	bookings usecase.BookingService
	source   DeliverySource
	log      *zap.Logger
}

func NewPaymentConsumer(bookings usecase.BookingService, source DeliverySource, log *zap.Logger) *PaymentConsumer {
	return &PaymentConsumer{
		bookings: bookings,
		source:   source,
		log:      log.With(zap.String("consumer", "payment")),
	}
}

// Run consumes until ctx is cancelled or the delivery channel closes.
func (c *PaymentConsumer) Run(ctx context.Context) error {
	msgs, err := c.source.Deliveries(ctx)
	if err != nil {
		return err
	}

	c.log.Info("Payment consumer started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("payment deliveries channel closed")
			}
			c.handle(ctx, d)
		}
	}
}

func (c *PaymentConsumer) handle(ctx context.Context, d amqp.Delivery) {
	ctx = otel.GetTextMapPropagator().Extract(ctx, mq.HeaderCarrier(d.Headers))
	ctx, span := otel.Tracer("hospitality-booking/internal/consumer").Start(ctx, "payment.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.String("messaging.routing_key", d.RoutingKey)),
	)
	defer span.End()

	status, known := paymentStatuses[d.RoutingKey]
	if !known {
		_ = d.Ack(false)
		return
	}

	var evt PaymentEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil {
		c.log.Warn("Dropping malformed payment event", zap.String("routing_key", d.RoutingKey), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	bookingID, err := uuid.Parse(evt.Data.BookingID)
	if err != nil {
		c.log.Warn("Dropping payment event without booking", zap.String("booking_id", evt.Data.BookingID))
		_ = d.Ack(false)
		return
	}

	_, err = c.bookings.RecordPaymentStatus(ctx, bookingID, status)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, usecase.ErrNotFound), errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrInvalidTransition):
		// redelivery cannot fix these
		c.log.Warn("Rejected payment event",
			zap.String("booking_id", bookingID.String()),
			zap.String("payment_id", evt.Data.PaymentID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		_ = d.Ack(false)
	default:
		span.RecordError(err)
		c.log.Error("Failed to record payment status, requeueing",
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
		_ = d.Nack(false, true)
	}
}

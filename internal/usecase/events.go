package usecase

import (
	"context"
	"time"

	"hospitality-booking/internal/data/entity"

	"github.com/google/uuid"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
	EventBookingNoShow    = "booking.no_show"
	EventBookingPayment   = "booking.payment_updated"
	EventBookingDeleted   = "booking.deleted"
)

// EventPublisher delivers lifecycle events after commit.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, payload any) error
}

type noopPublisher struct{}

func (noopPublisher) PublishJSON(context.Context, string, any) error { return nil }

type BookingEvent struct {
	Event            string               `json:"event"`
	BookingID        uuid.UUID            `json:"booking_id"`
	BookingReference string               `json:"booking_reference"`
	CustomerID       uuid.UUID            `json:"customer_id"`
	OwnerID          uuid.UUID            `json:"owner_id"`
	BookableType     entity.ResourceKind  `json:"bookable_type"`
	BookableID       uuid.UUID            `json:"bookable_id"`
	StartDate        time.Time            `json:"start_date"`
	EndDate          time.Time            `json:"end_date"`
	Status           entity.BookingStatus `json:"status"`
	PaymentStatus    entity.PaymentStatus `json:"payment_status"`
	TotalPrice       string               `json:"total_price"`
	OccurredAt       time.Time            `json:"occurred_at"`
}

func newBookingEvent(name string, b *entity.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		Event:            name,
		BookingID:        b.ID,
		BookingReference: b.BookingReference,
		CustomerID:       b.CustomerID,
		OwnerID:          b.OwnerID,
		BookableType:     b.BookableType,
		BookableID:       b.BookableID,
		StartDate:        b.StartDate,
		EndDate:          b.EndDate,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		TotalPrice:       b.TotalPrice.String(),
		OccurredAt:       at,
	}
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusNoShow    BookingStatus = "NO_SHOW"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// bookingTransitions is the lifecycle state machine. Statuses with an empty
// list are terminal.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusNoShow, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusNoShow:    {},
	BookingStatusCancelled: {},
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further lifecycle transition is possible.
// Unknown statuses are treated as terminal.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

// Occupies reports whether a booking in this status blocks its resource.
func (s BookingStatus) Occupies() bool {
	return s != BookingStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:  {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:     {PaymentStatusRefunded},
	PaymentStatusFailed:   {},
	PaymentStatusRefunded: {},
}

func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

type Booking struct {
	Base
	CustomerID         uuid.UUID     `db:"customer_id"`
	OwnerID            uuid.UUID     `db:"owner_id"`
	BookableType       ResourceKind  `db:"bookable_type"`
	BookableID         uuid.UUID     `db:"bookable_id"`
	StartDate          time.Time     `db:"start_date"`
	EndDate            time.Time     `db:"end_date"`
	Guests             int           `db:"guests"`
	BookingReference   string        `db:"booking_reference"`
	TotalPrice         Money         `db:"total_price"`
	CommissionAmount   Money         `db:"commission_amount"`
	OwnerAmount        Money         `db:"owner_amount"`
	Status             BookingStatus `db:"status"`
	PaymentStatus      PaymentStatus `db:"payment_status"`
	Notes              *string       `db:"notes"`
	CancellationReason *string       `db:"cancellation_reason"`
	CancelledAt        *time.Time    `db:"cancelled_at"`
	ConfirmedAt        *time.Time    `db:"confirmed_at"`

	// SubResourceIDs is filled from booking_resource_links on reads.
	SubResourceIDs []uuid.UUID `db:"-"`
}

func (b *Booking) Resource() ResourceRef {
	return ResourceRef{Kind: b.BookableType, ID: b.BookableID}
}

func (b *Booking) Range() TimeRange {
	return TimeRange{Start: b.StartDate, End: b.EndDate}
}

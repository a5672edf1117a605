package response

import (
	"time"

	"hospitality-booking/internal/data/entity"
)

type BookingResponse struct {
	ID                 string               `json:"id"`
	BookingReference   string               `json:"booking_reference"`
	CustomerID         string               `json:"customer_id"`
	OwnerID            string               `json:"owner_id"`
	ResourceKind       entity.ResourceKind  `json:"resource_kind"`
	ResourceID         string               `json:"resource_id"`
	SubResourceIDs     []string             `json:"sub_resource_ids,omitempty"`
	StartDate          time.Time            `json:"start_date"`
	EndDate            time.Time            `json:"end_date"`
	Guests             int                  `json:"guests"`
	TotalPrice         float64              `json:"total_price"`
	CommissionAmount   float64              `json:"commission_amount"`
	OwnerAmount        float64              `json:"owner_amount"`
	Status             entity.BookingStatus `json:"status"`
	PaymentStatus      entity.PaymentStatus `json:"payment_status"`
	Notes              *string              `json:"notes,omitempty"`
	CancellationReason *string              `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	ConfirmedAt        *time.Time           `json:"confirmed_at,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedAt          time.Time            `json:"updated_at"`
}

type QuoteResponse struct {
	ResourceKind     entity.ResourceKind `json:"resource_kind"`
	ResourceID       string              `json:"resource_id"`
	StartDate        time.Time           `json:"start_date"`
	EndDate          time.Time           `json:"end_date"`
	Available        bool                `json:"available"`
	Reason           string              `json:"reason,omitempty"`
	BillingUnit      entity.BillingUnit  `json:"billing_unit"`
	DurationUnits    int                 `json:"duration_units"`
	BasePrice        float64             `json:"base_price"`
	Subtotal         float64             `json:"subtotal"`
	ServiceFee       float64             `json:"service_fee"`
	TotalPrice       float64             `json:"total_price"`
	CommissionRate   float64             `json:"commission_rate_percent"`
	CommissionAmount float64             `json:"commission_amount"`
	OwnerAmount      float64             `json:"owner_amount"`
}

type SweepResponse struct {
	Checked   int `json:"checked"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

type CommissionResponse struct {
	RatePercent float64    `json:"rate_percent"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	var subs []string
	for _, id := range b.SubResourceIDs {
		subs = append(subs, id.String())
	}

	return BookingResponse{
		ID:                 b.ID.String(),
		BookingReference:   b.BookingReference,
		CustomerID:         b.CustomerID.String(),
		OwnerID:            b.OwnerID.String(),
		ResourceKind:       b.BookableType,
		ResourceID:         b.BookableID.String(),
		SubResourceIDs:     subs,
		StartDate:          b.StartDate,
		EndDate:            b.EndDate,
		Guests:             b.Guests,
		TotalPrice:         b.TotalPrice.Float64(),
		CommissionAmount:   b.CommissionAmount.Float64(),
		OwnerAmount:        b.OwnerAmount.Float64(),
		Status:             b.Status,
		PaymentStatus:      b.PaymentStatus,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		ConfirmedAt:        b.ConfirmedAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = BookingToResponse(b)
	}
	return out
}

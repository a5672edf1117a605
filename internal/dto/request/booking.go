package request

import "time"

type CreateBookingRequest struct {
	ResourceKind   string    `json:"resource_kind" validate:"required,resource_kind"`
	ResourceID     string    `json:"resource_id" validate:"required,uuid"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Guests         int       `json:"guests" validate:"required,gt=0"`
	SubResourceIDs []string  `json:"sub_resource_ids" validate:"omitempty,dive,uuid"`
	Notes          *string   `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type QuoteBookingRequest struct {
	ResourceKind   string    `json:"resource_kind" validate:"required,resource_kind"`
	ResourceID     string    `json:"resource_id" validate:"required,uuid"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	Guests         int       `json:"guests" validate:"required,gt=0"`
	SubResourceIDs []string  `json:"sub_resource_ids" validate:"omitempty,dive,uuid"`
}

// ConfirmBookingRequest carries the status the caller last saw. The change
// is rejected if the booking has moved on since.
type ConfirmBookingRequest struct {
	ExpectedStatus string `json:"expected_status" validate:"required,oneof=PENDING CONFIRMED COMPLETED NO_SHOW CANCELLED"`
}

type CancelBookingRequest struct {
	Reason         string `json:"reason" validate:"required,max=500"`
	ExpectedStatus string `json:"expected_status" validate:"required,oneof=PENDING CONFIRMED COMPLETED NO_SHOW CANCELLED"`
}

type PaymentCallbackRequest struct {
	BookingID     string  `json:"booking_id" validate:"required,uuid"`
	Status        string  `json:"status" validate:"required,oneof=PENDING PAID FAILED REFUNDED"`
	TransactionID *string `json:"transaction_id,omitempty"`
}

package response

import (
	"time"

	"hospitality-booking/internal/data/entity"
)

type AvailabilityResponse struct {
	ResourceKind entity.ResourceKind `json:"resource_kind"`
	ResourceID   string              `json:"resource_id"`
	StartDate    time.Time           `json:"start_date"`
	EndDate      time.Time           `json:"end_date"`
	Guests       int                 `json:"guests"`
	Available    bool                `json:"available"`
	Reason       string              `json:"reason,omitempty"`
}

type SubResourceResponse struct {
	ID           string              `json:"id"`
	Kind         entity.ResourceKind `json:"kind"`
	Name         string              `json:"name"`
	Capacity     int                 `json:"capacity"`
	MinimumSpend float64             `json:"minimum_spend"`
}

type NextAvailableResponse struct {
	ResourceKind entity.ResourceKind `json:"resource_kind"`
	ResourceID   string              `json:"resource_id"`
	// Date is nil when the resource is not bookable.
	Date *string `json:"date"`
}

type OccupancyWindowResponse struct {
	BookingID string               `json:"booking_id"`
	StartDate time.Time            `json:"start_date"`
	EndDate   time.Time            `json:"end_date"`
	Status    entity.BookingStatus `json:"status"`
}

func SubResourceToResponse(r *entity.Resource) SubResourceResponse {
	return SubResourceResponse{
		ID:           r.Ref.ID.String(),
		Kind:         r.Ref.Kind,
		Name:         r.Name,
		Capacity:     r.Capacity,
		MinimumSpend: r.BasePrice.Float64(),
	}
}

package entity

import "github.com/google/uuid"

// BookingResourceLink attaches a venue sub-resource (table, area) to a booking.
// Unique per (booking, sub-resource).
type BookingResourceLink struct {
	BaseSimple
	BookingID     uuid.UUID    `db:"booking_id"`
	SubResourceID uuid.UUID    `db:"sub_resource_id"`
	ResourceKind  ResourceKind `db:"resource_kind"`
}

package request

import "time"

// AvailabilityQuery is decoded from the query string.
type AvailabilityQuery struct {
	ResourceKind string    `json:"kind" validate:"required,resource_kind"`
	ResourceID   string    `json:"id" validate:"required,uuid"`
	Start        time.Time `json:"start" validate:"required"`
	End          time.Time `json:"end" validate:"required,gtfield=Start"`
	Guests       int       `json:"guests" validate:"required,gt=0"`
}

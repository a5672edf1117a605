package request

type SetCommissionRequest struct {
	RatePercent *float64 `json:"rate_percent" validate:"required,gte=0,lte=100"`
}

package adaptor

import (
	"encoding/json"
	"net/http"

	"hospitality-booking/internal/dto/request"
	"hospitality-booking/internal/dto/response"
	"hospitality-booking/internal/usecase"
	"hospitality-booking/pkg/utils"

	"go.uber.org/zap"
)

type CommissionHandler struct {
	service usecase.CommissionService
	log     *zap.Logger
}

func NewCommissionHandler(service usecase.CommissionService, log *zap.Logger) *CommissionHandler {
	return &CommissionHandler{
		service: service,
		log:     log.With(zap.String("handler", "commission")),
	}
}

// GetCommission handles GET /api/admin/commission (admin only)
func (h *CommissionHandler) GetCommission(w http.ResponseWriter, r *http.Request) {
	rate, err := h.service.ActiveRate(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "get commission")
		return
	}

	utils.ResponseSuccess(w, "success", response.CommissionResponse{RatePercent: rate.Percent()})
}

// SetCommission handles PUT /api/admin/commission (admin only)
func (h *CommissionHandler) SetCommission(w http.ResponseWriter, r *http.Request) {
	var req request.SetCommissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	config, err := h.service.SetActiveRate(r.Context(), *req.RatePercent)
	if err != nil {
		writeServiceError(w, h.log, err, "set commission")
		return
	}

	updatedAt := config.UpdatedAt
	utils.ResponseSuccess(w, "success", response.CommissionResponse{
		RatePercent: config.Rate.Percent(),
		UpdatedAt:   &updatedAt,
	})
}

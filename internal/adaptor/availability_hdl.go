package adaptor

import (
	"net/http"
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/dto/request"
	"hospitality-booking/internal/dto/response"
	"hospitality-booking/internal/usecase"
	"hospitality-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityHandler struct {
	service usecase.AvailabilityService
	log     *zap.Logger
}

func NewAvailabilityHandler(service usecase.AvailabilityService, log *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log.With(zap.String("handler", "availability")),
	}
}

// CheckAvailability handles GET /api/availability (public)
func (h *AvailabilityHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	ref, window, guests, errs := decodeAvailabilityQuery(r, query.Get("kind"), query.Get("id"))
	if len(errs) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	result, err := h.service.CheckAvailability(r.Context(), ref, window, guests)
	if err != nil {
		writeServiceError(w, h.log, err, "check availability")
		return
	}

	utils.ResponseSuccess(w, "success", response.AvailabilityResponse{
		ResourceKind: result.Resource.Kind,
		ResourceID:   result.Resource.ID.String(),
		StartDate:    result.Window.Start,
		EndDate:      result.Window.End,
		Guests:       result.Guests,
		Available:    result.Available,
		Reason:       result.Reason,
	})
}

// ListAvailableSubResources handles GET /api/venues/{kind}/{id}/sub-resources/available (public)
func (h *AvailabilityHandler) ListAvailableSubResources(w http.ResponseWriter, r *http.Request) {
	venue, window, guests, errs := decodeAvailabilityQuery(r, chi.URLParam(r, "kind"), chi.URLParam(r, "id"))
	if len(errs) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	subs, err := h.service.ListAvailableSubResources(r.Context(), venue, window, guests)
	if err != nil {
		writeServiceError(w, h.log, err, "list available sub-resources")
		return
	}

	out := make([]response.SubResourceResponse, len(subs))
	for i, sub := range subs {
		out[i] = response.SubResourceToResponse(sub)
	}
	utils.ResponseSuccess(w, "success", out)
}

// NextAvailableDate handles GET /api/resources/{kind}/{id}/next-available (public)
func (h *AvailabilityHandler) NextAvailableDate(w http.ResponseWriter, r *http.Request) {
	ref, errs := parseResourceRef(r)
	if len(errs) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	next, err := h.service.NextAvailableDate(r.Context(), ref)
	if err != nil {
		writeServiceError(w, h.log, err, "next available date")
		return
	}

	resp := response.NextAvailableResponse{
		ResourceKind: ref.Kind,
		ResourceID:   ref.ID.String(),
	}
	if next != nil {
		date := next.Format(time.DateOnly)
		resp.Date = &date
	}
	utils.ResponseSuccess(w, "success", resp)
}

// UnavailableWindows handles GET /api/resources/{kind}/{id}/unavailable-windows (public)
func (h *AvailabilityHandler) UnavailableWindows(w http.ResponseWriter, r *http.Request) {
	ref, errs := parseResourceRef(r)
	if len(errs) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", errs)
		return
	}

	windows, err := h.service.UnavailableWindows(r.Context(), ref)
	if err != nil {
		writeServiceError(w, h.log, err, "unavailable windows")
		return
	}

	out := make([]response.OccupancyWindowResponse, len(windows))
	for i, win := range windows {
		out[i] = response.OccupancyWindowResponse{
			BookingID: win.BookingID.String(),
			StartDate: win.Start,
			EndDate:   win.End,
			Status:    win.Status,
		}
	}
	utils.ResponseSuccess(w, "success", out)
}

func decodeAvailabilityQuery(r *http.Request, kind, id string) (entity.ResourceRef, entity.TimeRange, int, map[string]string) {
	query := r.URL.Query()
	req := request.AvailabilityQuery{
		ResourceKind: kind,
		ResourceID:   id,
		Guests:       utils.ParseInt(query.Get("guests"), 0),
	}

	parseErrs := map[string]string{}
	var ok bool
	if req.Start, ok = parseTime(query.Get("start")); !ok {
		parseErrs["start"] = "Must be an RFC3339 timestamp or YYYY-MM-DD date"
	}
	if req.End, ok = parseTime(query.Get("end")); !ok {
		parseErrs["end"] = "Must be an RFC3339 timestamp or YYYY-MM-DD date"
	}

	errs := utils.ValidateStruct(req)
	for field, msg := range parseErrs {
		if errs == nil {
			errs = map[string]string{}
		}
		errs[field] = msg
	}
	if len(errs) > 0 {
		return entity.ResourceRef{}, entity.TimeRange{}, 0, errs
	}

	resourceKind, _ := entity.ParseResourceKind(req.ResourceKind)
	ref := entity.ResourceRef{Kind: resourceKind, ID: uuid.MustParse(req.ResourceID)}
	return ref, entity.TimeRange{Start: req.Start, End: req.End}, req.Guests, nil
}

package adaptor

import (
	"context"
	"encoding/json"
	"net/http"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/dto/request"
	"hospitality-booking/internal/dto/response"
	"hospitality-booking/internal/usecase"
	"hospitality-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// QuoteBooking handles POST /api/bookings/quote (public)
func (h *BookingHandler) QuoteBooking(w http.ResponseWriter, r *http.Request) {
	var req request.QuoteBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	kind, _ := entity.ParseResourceKind(req.ResourceKind)
	quote, err := h.service.QuoteBooking(r.Context(), usecase.QuoteInput{
		Resource:       entity.ResourceRef{Kind: kind, ID: uuid.MustParse(req.ResourceID)},
		Window:         entity.TimeRange{Start: req.StartDate, End: req.EndDate},
		Guests:         req.Guests,
		SubResourceIDs: parseUUIDs(req.SubResourceIDs),
	})
	if err != nil {
		writeServiceError(w, h.log, err, "quote booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.QuoteResponse{
		ResourceKind:     quote.Resource.Kind,
		ResourceID:       quote.Resource.ID.String(),
		StartDate:        quote.Window.Start,
		EndDate:          quote.Window.End,
		Available:        quote.Available,
		Reason:           quote.Reason,
		BillingUnit:      quote.Price.Billing,
		DurationUnits:    quote.Price.DurationUnits,
		BasePrice:        quote.Price.BasePrice.Float64(),
		Subtotal:         quote.Price.Subtotal.Float64(),
		ServiceFee:       quote.Price.ServiceFee.Float64(),
		TotalPrice:       quote.Price.TotalPrice.Float64(),
		CommissionRate:   quote.Commission.Rate.Percent(),
		CommissionAmount: quote.Commission.CommissionAmount.Float64(),
		OwnerAmount:      quote.Commission.OwnerAmount.Float64(),
	})
}

// CreateBooking handles POST /api/bookings (protected)
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		h.log.Debug("Create booking request rejected",
			zap.String("errors", utils.FormatValidationErrors(validationErrors)))
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	kind, _ := entity.ParseResourceKind(req.ResourceKind)
	booking, err := h.service.CreateBooking(r.Context(), usecase.CreateBookingInput{
		CustomerID:     userID,
		Resource:       entity.ResourceRef{Kind: kind, ID: uuid.MustParse(req.ResourceID)},
		Window:         entity.TimeRange{Start: req.StartDate, End: req.EndDate},
		Guests:         req.Guests,
		SubResourceIDs: parseUUIDs(req.SubResourceIDs),
		Notes:          req.Notes,
	})
	if err != nil {
		writeServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", response.BookingToResponse(booking))
}

// GetBooking handles GET /api/bookings/{id} (protected)
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.loadAccessible(w, r, "get booking", canView)
	if !ok {
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingToResponse(booking))
}

// GetUserBookings handles GET /api/user/bookings (protected)
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query := r.URL.Query()
	req := request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	page, err := h.service.ListCustomerBookings(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success",
		response.NewPaginatedResponse(response.BookingsToResponse(page.Items), page.Page, page.PerPage, page.Total))
}

// ConfirmBooking handles PUT /api/bookings/{id}/confirm (owner or admin)
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, ok := h.loadAccessible(w, r, "confirm booking", canManage)
	if !ok {
		return
	}

	confirmed, err := h.service.ConfirmBooking(r.Context(), booking.ID, entity.BookingStatus(req.ExpectedStatus))
	if err != nil {
		writeServiceError(w, h.log, err, "confirm booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingToResponse(confirmed))
}

// CancelBooking handles PUT /api/bookings/{id}/cancel (customer, owner or admin)
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	var req request.CancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	booking, ok := h.loadAccessible(w, r, "cancel booking", canView)
	if !ok {
		return
	}

	cancelled, err := h.service.CancelBooking(r.Context(), booking.ID, req.Reason, entity.BookingStatus(req.ExpectedStatus))
	if err != nil {
		writeServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingToResponse(cancelled))
}

// PaymentCallback handles POST /api/payments/callback (payment gateway)
func (h *BookingHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentCallbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	fields := []zap.Field{zap.String("booking_id", req.BookingID), zap.String("status", req.Status)}
	if req.TransactionID != nil {
		fields = append(fields, zap.String("transaction_id", *req.TransactionID))
	}
	h.log.Info("Payment callback received", fields...)

	booking, err := h.service.RecordPaymentStatus(r.Context(), uuid.MustParse(req.BookingID), entity.PaymentStatus(req.Status))
	if err != nil {
		writeServiceError(w, h.log, err, "payment callback")
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingToResponse(booking))
}

// ==================== ADMIN METHODS ====================

// CompleteBooking handles PUT /api/admin/bookings/{id}/complete (admin only)
func (h *BookingHandler) CompleteBooking(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, "complete booking", h.service.CompleteBooking)
}

// MarkNoShow handles PUT /api/admin/bookings/{id}/no-show (admin only)
func (h *BookingHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.adminTransition(w, r, "mark no-show", h.service.MarkNoShow)
}

// DeleteBooking handles DELETE /api/admin/bookings/{id} (admin only)
func (h *BookingHandler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	if err := h.service.SoftDeleteBooking(r.Context(), id); err != nil {
		writeServiceError(w, h.log, err, "delete booking")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// CompleteDueBookings handles POST /api/admin/bookings/complete-due (admin only)
func (h *BookingHandler) CompleteDueBookings(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.CompleteDueBookings(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "complete due bookings")
		return
	}

	utils.ResponseSuccess(w, "success", response.SweepResponse{
		Checked:   result.Checked,
		Completed: result.Completed,
		Failed:    result.Failed,
	})
}

func (h *BookingHandler) adminTransition(w http.ResponseWriter, r *http.Request, operation string,
	apply func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)) {
	id, ok := parseIDParam(r)
	if !ok {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return
	}

	booking, err := apply(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, operation)
		return
	}

	utils.ResponseSuccess(w, "success", response.BookingToResponse(booking))
}

// loadAccessible fetches the {id} booking and checks the caller may act on it.
// Callers without access get 404 so booking ids do not leak.
func (h *BookingHandler) loadAccessible(w http.ResponseWriter, r *http.Request, operation string,
	allowed func(userID uuid.UUID, role string, b *entity.Booking) bool) (*entity.Booking, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return nil, false
	}

	id, ok := parseIDParam(r)
	if !ok {
		utils.ResponseBadRequest(w, "Invalid booking ID", nil)
		return nil, false
	}

	booking, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.log, err, operation)
		return nil, false
	}

	role, _ := utils.GetRoleFromContext(r.Context())
	if !allowed(userID, role, booking) {
		h.log.Warn(operation+" denied",
			zap.String("user_id", userID.String()),
			zap.String("booking_id", id.String()))
		utils.ResponseNotFound(w, "booking not found")
		return nil, false
	}
	return booking, true
}

func canView(userID uuid.UUID, role string, b *entity.Booking) bool {
	return role == utils.RoleAdmin || b.CustomerID == userID || b.OwnerID == userID
}

func canManage(userID uuid.UUID, role string, b *entity.Booking) bool {
	return role == utils.RoleAdmin || b.OwnerID == userID
}

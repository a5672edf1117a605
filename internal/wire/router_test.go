package wire

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hospitality-booking/internal/adaptor"
	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/dto/request"
	"hospitality-booking/internal/usecase"
	"hospitality-booking/pkg/middleware"
	"hospitality-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	customerID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	ownerID    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	strangerID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	bookingID  = uuid.MustParse("44444444-4444-4444-4444-444444444444")
	roomID     = uuid.MustParse("55555555-5555-5555-5555-555555555555")
)

type fakeBookings struct {
	err         error
	lastInput   usecase.CreateBookingInput
	lastStatus  entity.BookingStatus
	lastPayment entity.PaymentStatus
}

func (f *fakeBookings) booking(status entity.BookingStatus) *entity.Booking {
	b := &entity.Booking{
		BookingReference: "BK-TEST",
		CustomerID:       customerID,
		OwnerID:          ownerID,
		BookableType:     entity.KindHotelRoom,
		BookableID:       roomID,
		Status:           status,
		PaymentStatus:    entity.PaymentStatusPending,
		TotalPrice:       22000,
	}
	b.ID = bookingID
	return b
}

func (f *fakeBookings) CreateBooking(_ context.Context, in usecase.CreateBookingInput) (*entity.Booking, error) {
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	return f.booking(entity.BookingStatusPending), nil
}

func (f *fakeBookings) QuoteBooking(_ context.Context, in usecase.QuoteInput) (*usecase.Quote, error) {
	return &usecase.Quote{
		Resource:  in.Resource,
		Window:    in.Window,
		Available: true,
		Price:     usecase.PriceQuote{Billing: entity.BillingNight, DurationUnits: 2, TotalPrice: 22000},
	}, f.err
}

func (f *fakeBookings) GetBooking(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	if id != bookingID {
		return nil, usecase.ErrNotFound
	}
	return f.booking(entity.BookingStatusPending), nil
}

func (f *fakeBookings) ListCustomerBookings(_ context.Context, _ uuid.UUID, req request.PaginatedRequest) (*usecase.BookingPage, error) {
	return &usecase.BookingPage{
		Items:   []*entity.Booking{f.booking(entity.BookingStatusPending)},
		Total:   1,
		Page:    req.Page,
		PerPage: req.Limit(),
	}, nil
}

func (f *fakeBookings) ConfirmBooking(_ context.Context, _ uuid.UUID, expected entity.BookingStatus) (*entity.Booking, error) {
	f.lastStatus = expected
	if f.err != nil {
		return nil, f.err
	}
	return f.booking(entity.BookingStatusConfirmed), nil
}

func (f *fakeBookings) CancelBooking(_ context.Context, _ uuid.UUID, _ string, expected entity.BookingStatus) (*entity.Booking, error) {
	f.lastStatus = expected
	if f.err != nil {
		return nil, f.err
	}
	return f.booking(entity.BookingStatusCancelled), nil
}

func (f *fakeBookings) CompleteBooking(_ context.Context, _ uuid.UUID) (*entity.Booking, error) {
	return f.booking(entity.BookingStatusCompleted), f.err
}

func (f *fakeBookings) MarkNoShow(_ context.Context, _ uuid.UUID) (*entity.Booking, error) {
	return f.booking(entity.BookingStatusNoShow), f.err
}

func (f *fakeBookings) CompleteDueBookings(context.Context) (*usecase.SweepResult, error) {
	return &usecase.SweepResult{Checked: 3, Completed: 2, Failed: 1}, nil
}

func (f *fakeBookings) RecordPaymentStatus(_ context.Context, _ uuid.UUID, status entity.PaymentStatus) (*entity.Booking, error) {
	f.lastPayment = status
	return f.booking(entity.BookingStatusConfirmed), f.err
}

func (f *fakeBookings) SoftDeleteBooking(context.Context, uuid.UUID) error { return f.err }

type fakeAvailability struct{}

func (fakeAvailability) CheckAvailability(_ context.Context, ref entity.ResourceRef, w entity.TimeRange, guests int) (*usecase.AvailabilityResult, error) {
	return &usecase.AvailabilityResult{Resource: ref, Window: w, Guests: guests, Available: guests <= 4}, nil
}

func (a fakeAvailability) IsAvailable(ctx context.Context, ref entity.ResourceRef, w entity.TimeRange, guests int) (bool, error) {
	result, err := a.CheckAvailability(ctx, ref, w, guests)
	return result.Available, err
}

func (fakeAvailability) ListAvailableSubResources(_ context.Context, venue entity.ResourceRef, _ entity.TimeRange, _ int) ([]*entity.Resource, error) {
	if !venue.Kind.IsVenue() {
		return nil, usecase.ErrValidation
	}
	return []*entity.Resource{{
		Ref:      entity.ResourceRef{Kind: venue.Kind.SubResourceKind(), ID: uuid.New()},
		Name:     "T1",
		Capacity: 4,
	}}, nil
}

func (fakeAvailability) NextAvailableDate(context.Context, entity.ResourceRef) (*time.Time, error) {
	next := time.Date(2030, time.June, 3, 0, 0, 0, 0, time.UTC)
	return &next, nil
}

func (fakeAvailability) UnavailableWindows(context.Context, entity.ResourceRef) ([]usecase.OccupancyWindow, error) {
	return nil, nil
}

type fakeCommission struct{ rate entity.Rate }

func (f *fakeCommission) ActiveRate(context.Context) (entity.Rate, error) { return f.rate, nil }

func (f *fakeCommission) SetActiveRate(_ context.Context, percent float64) (*entity.CommissionConfig, error) {
	f.rate = entity.RateFromPercent(percent)
	return &entity.CommissionConfig{Rate: f.rate, IsActive: true}, nil
}

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newTestRouter(bookings *fakeBookings) http.Handler {
	log := zap.NewNop()
	handler := &adaptor.Handler{
		Availability: adaptor.NewAvailabilityHandler(fakeAvailability{}, log),
		Booking:      adaptor.NewBookingHandler(bookings, log),
		Commission:   adaptor.NewCommissionHandler(&fakeCommission{rate: 1000}, log),
	}
	config := &utils.Config{
		App:     utils.AppConfig{Name: "test"},
		Payment: utils.PaymentConfig{CallbackSecret: callbackSecret},
	}
	return NewRouter(handler, config, log)
}

const callbackSecret = "gateway-secret"

func do(t *testing.T, h http.Handler, method, target, body string, user *uuid.UUID, role string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("X-User-ID", user.String())
	}
	if role != "" {
		req.Header.Set("X-User-Role", role)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: decode body %q: %v", method, target, rec.Body.String(), err)
	}
	return rec.Code, env
}

const createBody = `{"resource_kind":"hotel_room","resource_id":"55555555-5555-5555-5555-555555555555",
	"start_date":"2030-06-02T14:00:00Z","end_date":"2030-06-04T11:00:00Z","guests":2}`

func TestRouter_Health(t *testing.T) {
	t.Parallel()
	code, env := do(t, newTestRouter(&fakeBookings{}), http.MethodGet, "/health", "", nil, "")
	if code != http.StatusOK || !env.Status {
		t.Fatalf("health = %d %+v", code, env)
	}
}

func TestRouter_CreateBooking(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		body    string
		user    *uuid.UUID
		err     error
		want    int
		errsKey string
	}{
		{name: "anonymous", body: createBody, want: http.StatusUnauthorized},
		{name: "created", body: createBody, user: &customerID, want: http.StatusCreated},
		{name: "malformed json", body: `{"guests":`, user: &customerID, want: http.StatusBadRequest},
		{
			name:    "end before start",
			body:    `{"resource_kind":"hotel_room","resource_id":"55555555-5555-5555-5555-555555555555","start_date":"2030-06-04T00:00:00Z","end_date":"2030-06-02T00:00:00Z","guests":2}`,
			user:    &customerID,
			want:    http.StatusBadRequest,
			errsKey: "end_date",
		},
		{
			name:    "unknown kind",
			body:    `{"resource_kind":"yacht","resource_id":"55555555-5555-5555-5555-555555555555","start_date":"2030-06-02T00:00:00Z","end_date":"2030-06-04T00:00:00Z","guests":2}`,
			user:    &customerID,
			want:    http.StatusBadRequest,
			errsKey: "resource_kind",
		},
		{name: "conflict", body: createBody, user: &customerID, err: usecase.ErrConflict, want: http.StatusConflict},
		{name: "not found", body: createBody, user: &customerID, err: usecase.ErrNotFound, want: http.StatusNotFound},
		{name: "references exhausted", body: createBody, user: &customerID, err: usecase.ErrReferenceExhausted, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bookings := &fakeBookings{err: tt.err}
			code, env := do(t, newTestRouter(bookings), http.MethodPost, "/api/bookings", tt.body, tt.user, "")
			if code != tt.want {
				t.Fatalf("status = %d, want %d (%+v)", code, tt.want, env)
			}
			if tt.errsKey != "" {
				if _, ok := env.Errors[tt.errsKey]; !ok {
					t.Fatalf("errors = %v, want key %q", env.Errors, tt.errsKey)
				}
			}
			if tt.want == http.StatusCreated {
				if bookings.lastInput.CustomerID != customerID {
					t.Fatalf("customer = %s, want %s", bookings.lastInput.CustomerID, customerID)
				}
				if bookings.lastInput.Resource.Kind != entity.KindHotelRoom || bookings.lastInput.Guests != 2 {
					t.Fatalf("input = %+v", bookings.lastInput)
				}
			}
		})
	}
}

func TestRouter_ConflictCarriesReason(t *testing.T) {
	t.Parallel()
	err := fmt.Errorf("%w: %s", usecase.ErrConflict, usecase.ReasonOverlap)
	code, env := do(t, newTestRouter(&fakeBookings{err: err}), http.MethodPost, "/api/bookings", createBody, &customerID, "")
	if code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", code)
	}
	if env.Status || !strings.Contains(env.Message, usecase.ReasonOverlap) {
		t.Fatalf("body = %+v, want reason %q", env, usecase.ReasonOverlap)
	}
}

func TestRouter_BookingAccess(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		user   *uuid.UUID
		role   string
		err    error
		want   int
	}{
		{"customer reads own", http.MethodGet, "/api/bookings/" + bookingID.String(), "", &customerID, "", nil, http.StatusOK},
		{"owner reads", http.MethodGet, "/api/bookings/" + bookingID.String(), "", &ownerID, "owner", nil, http.StatusOK},
		{"stranger reads", http.MethodGet, "/api/bookings/" + bookingID.String(), "", &strangerID, "", nil, http.StatusNotFound},
		{"admin reads", http.MethodGet, "/api/bookings/" + bookingID.String(), "", &strangerID, "admin", nil, http.StatusOK},
		{"bad id", http.MethodGet, "/api/bookings/not-a-uuid", "", &customerID, "", nil, http.StatusBadRequest},
		{"unknown id", http.MethodGet, "/api/bookings/" + uuid.NewString(), "", &customerID, "", nil, http.StatusNotFound},
		{"owner confirms", http.MethodPut, "/api/bookings/" + bookingID.String() + "/confirm", `{"expected_status":"PENDING"}`, &ownerID, "", nil, http.StatusOK},
		{"customer cannot confirm", http.MethodPut, "/api/bookings/" + bookingID.String() + "/confirm", `{"expected_status":"PENDING"}`, &customerID, "", nil, http.StatusNotFound},
		{"stale confirm", http.MethodPut, "/api/bookings/" + bookingID.String() + "/confirm", `{"expected_status":"PENDING"}`, &ownerID, "", usecase.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"confirm without expected status", http.MethodPut, "/api/bookings/" + bookingID.String() + "/confirm", `{}`, &ownerID, "", nil, http.StatusBadRequest},
		{"customer cancels", http.MethodPut, "/api/bookings/" + bookingID.String() + "/cancel", `{"reason":"plans changed","expected_status":"PENDING"}`, &customerID, "", nil, http.StatusOK},
		{"cancel without reason", http.MethodPut, "/api/bookings/" + bookingID.String() + "/cancel", `{"expected_status":"PENDING"}`, &customerID, "", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bookings := &fakeBookings{err: tt.err}
			code, env := do(t, newTestRouter(bookings), tt.method, tt.path, tt.body, tt.user, tt.role)
			if code != tt.want {
				t.Fatalf("status = %d, want %d (%+v)", code, tt.want, env)
			}
		})
	}
}

func TestRouter_ConfirmPassesExpectedStatus(t *testing.T) {
	t.Parallel()
	bookings := &fakeBookings{}
	code, env := do(t, newTestRouter(bookings), http.MethodPut, "/api/bookings/"+bookingID.String()+"/confirm",
		`{"expected_status":"PENDING"}`, &ownerID, "")
	if code != http.StatusOK {
		t.Fatalf("status = %d (%+v)", code, env)
	}
	if bookings.lastStatus != entity.BookingStatusPending {
		t.Fatalf("expected status = %q, want PENDING", bookings.lastStatus)
	}

	var got struct {
		Status entity.BookingStatus `json:"status"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Status != entity.BookingStatusConfirmed {
		t.Fatalf("status = %s, want CONFIRMED", got.Status)
	}
}

func TestRouter_AdminRoutes(t *testing.T) {
	t.Parallel()
	complete := "/api/admin/bookings/" + bookingID.String() + "/complete"
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		user   *uuid.UUID
		role   string
		want   int
	}{
		{"anonymous", http.MethodPut, complete, "", nil, "", http.StatusUnauthorized},
		{"customer", http.MethodPut, complete, "", &customerID, "customer", http.StatusForbidden},
		{"admin completes", http.MethodPut, complete, "", &strangerID, "admin", http.StatusOK},
		{"admin no-show", http.MethodPut, "/api/admin/bookings/" + bookingID.String() + "/no-show", "", &strangerID, "ADMIN", http.StatusOK},
		{"admin deletes", http.MethodDelete, "/api/admin/bookings/" + bookingID.String(), "", &strangerID, "admin", http.StatusOK},
		{"admin sweep", http.MethodPost, "/api/admin/bookings/complete-due", "", &strangerID, "admin", http.StatusOK},
		{"read commission", http.MethodGet, "/api/admin/commission", "", &strangerID, "admin", http.StatusOK},
		{"set commission", http.MethodPut, "/api/admin/commission", `{"rate_percent":12.5}`, &strangerID, "admin", http.StatusOK},
		{"commission out of range", http.MethodPut, "/api/admin/commission", `{"rate_percent":150}`, &strangerID, "admin", http.StatusBadRequest},
		{"commission missing", http.MethodPut, "/api/admin/commission", `{}`, &strangerID, "admin", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, env := do(t, newTestRouter(&fakeBookings{}), tt.method, tt.path, tt.body, tt.user, tt.role)
			if code != tt.want {
				t.Fatalf("status = %d, want %d (%+v)", code, tt.want, env)
			}
		})
	}
}

func TestRouter_InvalidIdentityHeader(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodGet, "/api/user/bookings", nil)
	req.Header.Set("X-User-ID", "nobody")
	rec := httptest.NewRecorder()
	newTestRouter(&fakeBookings{}).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRouter_UserBookingsPaginated(t *testing.T) {
	t.Parallel()
	code, env := do(t, newTestRouter(&fakeBookings{}), http.MethodGet, "/api/user/bookings?page=2&per_page=5", "", &customerID, "")
	if code != http.StatusOK {
		t.Fatalf("status = %d (%+v)", code, env)
	}
	var page struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Page    int   `json:"page"`
			PerPage int   `json:"per_page"`
			Total   int64 `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if len(page.Data) != 1 || page.Pagination.Page != 2 || page.Pagination.PerPage != 5 || page.Pagination.Total != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestRouter_Availability(t *testing.T) {
	t.Parallel()
	room := roomID.String()
	tests := []struct {
		name      string
		path      string
		want      int
		available *bool
	}{
		{"available", "/api/availability?kind=hotel_room&id=" + room + "&start=2030-06-02&end=2030-06-04&guests=2", http.StatusOK, boolPtr(true)},
		{"too many guests", "/api/availability?kind=hotel_room&id=" + room + "&start=2030-06-02T14:00:00Z&end=2030-06-04T11:00:00Z&guests=6", http.StatusOK, boolPtr(false)},
		{"missing guests", "/api/availability?kind=hotel_room&id=" + room + "&start=2030-06-02&end=2030-06-04", http.StatusBadRequest, nil},
		{"bad start", "/api/availability?kind=hotel_room&id=" + room + "&start=tomorrow&end=2030-06-04&guests=2", http.StatusBadRequest, nil},
		{"reversed", "/api/availability?kind=hotel_room&id=" + room + "&start=2030-06-04&end=2030-06-02&guests=2", http.StatusBadRequest, nil},
		{"sub-resources", "/api/venues/restaurant/" + room + "/sub-resources/available?start=2030-06-02T19:00:00Z&end=2030-06-02T21:00:00Z&guests=2", http.StatusOK, nil},
		{"sub-resources of a room", "/api/venues/hotel_room/" + room + "/sub-resources/available?start=2030-06-02T19:00:00Z&end=2030-06-02T21:00:00Z&guests=2", http.StatusBadRequest, nil},
		{"windows", "/api/resources/hotel_room/" + room + "/unavailable-windows", http.StatusOK, nil},
		{"windows bad kind", "/api/resources/yacht/" + room + "/unavailable-windows", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, env := do(t, newTestRouter(&fakeBookings{}), http.MethodGet, tt.path, "", nil, "")
			if code != tt.want {
				t.Fatalf("status = %d, want %d (%+v)", code, tt.want, env)
			}
			if tt.available != nil {
				var got struct {
					Available bool `json:"available"`
				}
				if err := json.Unmarshal(env.Data, &got); err != nil {
					t.Fatalf("decode data: %v", err)
				}
				if got.Available != *tt.available {
					t.Fatalf("available = %v, want %v", got.Available, *tt.available)
				}
			}
		})
	}
}

func TestRouter_NextAvailable(t *testing.T) {
	t.Parallel()
	code, env := do(t, newTestRouter(&fakeBookings{}), http.MethodGet, "/api/resources/hotel_room/"+roomID.String()+"/next-available", "", nil, "")
	if code != http.StatusOK {
		t.Fatalf("status = %d (%+v)", code, env)
	}
	var got struct {
		Date *string `json:"date"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Date == nil || *got.Date != "2030-06-03" {
		t.Fatalf("date = %v, want 2030-06-03", got.Date)
	}
}

func TestRouter_PaymentCallback(t *testing.T) {
	t.Parallel()
	paid := `{"booking_id":"` + bookingID.String() + `","status":"PAID","transaction_id":"tx-1"}`
	sign := func(secret, body string) string {
		return hex.EncodeToString(middleware.SignPayload(secret, []byte(body)))
	}

	tests := []struct {
		name      string
		body      string
		signature string
		err       error
		want      int
	}{
		{"paid", paid, sign(callbackSecret, paid), nil, http.StatusOK},
		{"unknown status", `{"booking_id":"` + bookingID.String() + `","status":"LOST"}`, sign(callbackSecret, `{"booking_id":"`+bookingID.String()+`","status":"LOST"}`), nil, http.StatusBadRequest},
		{"illegal move", `{"booking_id":"` + bookingID.String() + `","status":"REFUNDED"}`, sign(callbackSecret, `{"booking_id":"`+bookingID.String()+`","status":"REFUNDED"}`), usecase.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{"unsigned", paid, "", nil, http.StatusUnauthorized},
		{"signature not hex", paid, "not-a-signature", nil, http.StatusUnauthorized},
		{"wrong secret", paid, sign("guessed", paid), nil, http.StatusUnauthorized},
		{"body tampered", strings.Replace(paid, "tx-1", "tx-2", 1), sign(callbackSecret, paid), nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bookings := &fakeBookings{err: tt.err}
			req := httptest.NewRequest(http.MethodPost, "/api/payments/callback", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.signature != "" {
				req.Header.Set(middleware.HeaderPaymentSignature, tt.signature)
			}
			rec := httptest.NewRecorder()
			newTestRouter(bookings).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
			if tt.want == http.StatusOK && bookings.lastPayment != entity.PaymentStatusPaid {
				t.Fatalf("payment status = %q, want PAID", bookings.lastPayment)
			}
			if tt.want == http.StatusUnauthorized && bookings.lastPayment != "" {
				t.Fatalf("unsigned callback reached the service with %q", bookings.lastPayment)
			}
		})
	}
}

func TestRouter_PaymentCallbackWithoutSecret(t *testing.T) {
	t.Parallel()
	log := zap.NewNop()
	bookings := &fakeBookings{}
	handler := &adaptor.Handler{
		Availability: adaptor.NewAvailabilityHandler(fakeAvailability{}, log),
		Booking:      adaptor.NewBookingHandler(bookings, log),
		Commission:   adaptor.NewCommissionHandler(&fakeCommission{}, log),
	}
	router := NewRouter(handler, &utils.Config{App: utils.AppConfig{Name: "test"}}, log)

	body := `{"booking_id":"` + bookingID.String() + `","status":"PAID"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments/callback", strings.NewReader(body))
	req.Header.Set(middleware.HeaderPaymentSignature, hex.EncodeToString(middleware.SignPayload("", []byte(body))))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func boolPtr(v bool) *bool { return &v }

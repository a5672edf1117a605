package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/data/repository"
	"hospitality-booking/internal/dto/request"
	"hospitality-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*entity.Booking, error)
	QuoteBooking(ctx context.Context, in QuoteInput) (*Quote, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	ListCustomerBookings(ctx context.Context, customerID uuid.UUID, req request.PaginatedRequest) (*BookingPage, error)

	// Lifecycle transitions are compare-and-swap on the current status.
	ConfirmBooking(ctx context.Context, id uuid.UUID, expected entity.BookingStatus) (*entity.Booking, error)
	CancelBooking(ctx context.Context, id uuid.UUID, reason string, expected entity.BookingStatus) (*entity.Booking, error)
	CompleteBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	CompleteDueBookings(ctx context.Context) (*SweepResult, error)

	RecordPaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) (*entity.Booking, error)
	SoftDeleteBooking(ctx context.Context, id uuid.UUID) error
}

type CreateBookingInput struct {
	CustomerID     uuid.UUID
	Resource       entity.ResourceRef
	Window         entity.TimeRange
	Guests         int
	SubResourceIDs []uuid.UUID
	Notes          *string
}

type QuoteInput struct {
	Resource       entity.ResourceRef
	Window         entity.TimeRange
	Guests         int
	SubResourceIDs []uuid.UUID
}

type Quote struct {
	Resource       entity.ResourceRef
	Window         entity.TimeRange
	SubResourceIDs []uuid.UUID
	Available      bool
	Reason         string
	Price          PriceQuote
	Commission     CommissionSplit
}

type BookingPage struct {
	Items   []*entity.Booking
	Total   int64
	Page    int
	PerPage int
}

type SweepResult struct {
	Checked   int
	Completed int
	Failed    int
}

const sweepBatchSize = 100

type bookingService struct {
	repo        *repository.Repository
	checker     *availabilityChecker
	pricing     *PricingCalculator
	commission  CommissionService
	events      EventPublisher
	maxAttempts int
	refPrefix   string
	now         func() time.Time
	newRef      func(prefix string, now time.Time) string
	log         *zap.Logger
}

func NewBookingService(repo *repository.Repository, pricing *PricingCalculator, commission CommissionService, events EventPublisher, config utils.BookingConfig, log *zap.Logger) BookingService {
	return newBookingService(repo, pricing, commission, events, config, log)
}

func newBookingService(repo *repository.Repository, pricing *PricingCalculator, commission CommissionService, events EventPublisher, config utils.BookingConfig, log *zap.Logger) *bookingService {
	if events == nil {
		events = noopPublisher{}
	}
	attempts := config.MaxReferenceAttempts
	if attempts < 1 {
		attempts = 1
	}
	prefix := config.ReferencePrefix
	if prefix == "" {
		prefix = "BK"
	}
	return &bookingService{
		repo:        repo,
		checker:     &availabilityChecker{repo: repo, loc: pricing.Location()},
		pricing:     pricing,
		commission:  commission,
		events:      events,
		maxAttempts: attempts,
		refPrefix:   prefix,
		now:         time.Now,
		newRef:      utils.GenerateBookingReference,
		log:         log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (booking *entity.Booking, err error) {
	ctx, span := tracer.Start(ctx, "booking.create", trace.WithAttributes(resourceAttrs(in.Resource)...))
	defer func() { endSpan(span, err) }()

	if err := s.validateCreate(in); err != nil {
		s.log.Warn("Create booking validation failed", zap.Error(err))
		return nil, err
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		booking, err = s.createOnce(ctx, in)
		if !errors.Is(err, repository.ErrDuplicateReference) {
			break
		}
		s.log.Warn("Booking reference collided, regenerating", zap.Int("attempt", attempt))
	}
	if errors.Is(err, repository.ErrDuplicateReference) {
		s.log.Error("Booking reference attempts exhausted", zap.Int("attempts", s.maxAttempts))
		return nil, fmt.Errorf("%w after %d attempts", ErrReferenceExhausted, s.maxAttempts)
	}
	if err != nil {
		return nil, mapStorageError(err)
	}

	span.SetAttributes(attribute.String("booking.id", booking.ID.String()))
	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("reference", booking.BookingReference),
		zap.Stringer("resource", booking.Resource()),
	)
	s.publish(ctx, EventBookingCreated, booking)
	return booking, nil
}

// createOnce runs the critical section: lock, re-check, price, insert.
// Nothing is written unless every check passes.
func (s *bookingService) createOnce(ctx context.Context, in CreateBookingInput) (*entity.Booking, error) {
	var booking *entity.Booking

	err := s.repo.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Resource.LockForBooking(ctx, lockRefs(in)); err != nil {
			return fmt.Errorf("lock %s: %w", in.Resource, err)
		}

		resource, subs, err := s.loadTarget(ctx, in.Resource, in.SubResourceIDs)
		if err != nil {
			return err
		}

		var reason string
		if in.Resource.Kind.IsVenue() {
			reason, err = s.checker.evaluateSelection(ctx, resource, subs, in.Window, in.Guests)
		} else {
			reason, err = s.checker.evaluate(ctx, resource, in.Window, in.Guests)
		}
		if err != nil {
			return err
		}
		if reason != "" {
			return conflictError("%s is not available: %s", in.Resource, reason)
		}

		rate, err := s.commission.ActiveRate(ctx)
		if err != nil {
			return err
		}
		price := s.pricing.ComputePrice(basePrice(resource, subs), in.Resource.Kind.Billing(), in.Window, in.Guests)
		split := ComputeCommissions(price.TotalPrice, rate)

		now := s.now()
		booking = &entity.Booking{
			Base: entity.Base{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			CustomerID:       in.CustomerID,
			OwnerID:          resource.OwnerID,
			BookableType:     in.Resource.Kind,
			BookableID:       in.Resource.ID,
			StartDate:        in.Window.Start,
			EndDate:          in.Window.End,
			Guests:           in.Guests,
			BookingReference: s.newRef(s.refPrefix, now),
			TotalPrice:       split.TotalPrice,
			CommissionAmount: split.CommissionAmount,
			OwnerAmount:      split.OwnerAmount,
			Status:           entity.BookingStatusPending,
			PaymentStatus:    entity.PaymentStatusPending,
			Notes:            in.Notes,
		}
		if err := s.repo.Booking.Create(ctx, booking); err != nil {
			return err
		}

		if len(subs) == 0 {
			return nil
		}
		links := make([]*entity.BookingResourceLink, len(subs))
		for i, sub := range subs {
			links[i] = &entity.BookingResourceLink{
				BaseSimple:    entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
				BookingID:     booking.ID,
				SubResourceID: sub.Ref.ID,
				ResourceKind:  sub.Ref.Kind,
			}
			booking.SubResourceIDs = append(booking.SubResourceIDs, sub.Ref.ID)
		}
		return s.repo.BookingLink.CreateBatch(ctx, links)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *bookingService) QuoteBooking(ctx context.Context, in QuoteInput) (*Quote, error) {
	if err := validateTarget(in.Resource, in.Window, in.Guests, in.SubResourceIDs); err != nil {
		return nil, err
	}

	resource, subs, err := s.loadTarget(ctx, in.Resource, in.SubResourceIDs)
	if err != nil {
		return nil, err
	}

	var reason string
	if len(subs) > 0 {
		reason, err = s.checker.evaluateSelection(ctx, resource, subs, in.Window, in.Guests)
	} else {
		reason, err = s.checker.evaluate(ctx, resource, in.Window, in.Guests)
	}
	if err != nil {
		return nil, err
	}

	rate, err := s.commission.ActiveRate(ctx)
	if err != nil {
		return nil, err
	}
	price := s.pricing.ComputePrice(basePrice(resource, subs), in.Resource.Kind.Billing(), in.Window, in.Guests)

	return &Quote{
		Resource:       in.Resource,
		Window:         in.Window,
		SubResourceIDs: in.SubResourceIDs,
		Available:      reason == "",
		Reason:         reason,
		Price:          price,
		Commission:     ComputeCommissions(price.TotalPrice, rate),
	}, nil
}

func (s *bookingService) GetBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	links, err := s.repo.BookingLink.FindByBookingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find links of booking %s: %w", id, err)
	}
	for _, link := range links {
		booking.SubResourceIDs = append(booking.SubResourceIDs, link.SubResourceID)
	}
	return booking, nil
}

func (s *bookingService) ListCustomerBookings(ctx context.Context, customerID uuid.UUID, req request.PaginatedRequest) (*BookingPage, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	req.PerPage = req.Limit()

	bookings, err := s.repo.Booking.FindByCustomerID(ctx, customerID, req.PerPage, req.Offset())
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Booking.CountByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
	}
	subs, err := s.repo.BookingLink.FindSubResourceIDsByBookingIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find links of customer %s bookings: %w", customerID, err)
	}
	for _, b := range bookings {
		b.SubResourceIDs = subs[b.ID]
	}

	return &BookingPage{
		Items:   bookings,
		Total:   total,
		Page:    req.Page,
		PerPage: req.PerPage,
	}, nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, id uuid.UUID, expected entity.BookingStatus) (*entity.Booking, error) {
	return s.transition(ctx, id, expected, entity.BookingStatusConfirmed, nil, EventBookingConfirmed)
}

func (s *bookingService) CancelBooking(ctx context.Context, id uuid.UUID, reason string, expected entity.BookingStatus) (*entity.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationError("cancellation reason is required")
	}
	return s.transition(ctx, id, expected, entity.BookingStatusCancelled, &reason, EventBookingCancelled)
}

func (s *bookingService) CompleteBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == entity.BookingStatusConfirmed && booking.EndDate.After(s.now()) {
		return nil, transitionError("booking %s has not ended yet", id)
	}
	return s.transition(ctx, id, entity.BookingStatusConfirmed, entity.BookingStatusCompleted, nil, EventBookingCompleted)
}

func (s *bookingService) MarkNoShow(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return s.transition(ctx, id, entity.BookingStatusConfirmed, entity.BookingStatusNoShow, nil, EventBookingNoShow)
}

// transition applies expected -> target as one compare-and-swap. A stale
// expected status or a lost race leaves the booking untouched.
func (s *bookingService) transition(ctx context.Context, id uuid.UUID, expected, target entity.BookingStatus, reason *string, event string) (booking *entity.Booking, err error) {
	ctx, span := tracer.Start(ctx, "booking.transition", trace.WithAttributes(
		attribute.String("booking.id", id.String()),
		attribute.String("booking.target_status", string(target)),
	))
	defer func() { endSpan(span, err) }()

	if !expected.IsValid() {
		return nil, validationError("unknown booking status %q", expected)
	}

	current, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != expected {
		return nil, transitionError("booking %s is %s, not %s", id, current.Status, expected)
	}
	if !current.Status.CanTransitionTo(target) {
		return nil, transitionError("booking %s cannot move from %s to %s", id, current.Status, target)
	}

	booking, err = s.repo.Booking.TransitionStatus(ctx, repository.StatusChange{
		BookingID:          id,
		From:               expected,
		To:                 target,
		At:                 s.now(),
		CancellationReason: reason,
	})
	if errors.Is(err, repository.ErrStatusMismatch) {
		s.log.Warn("Booking transition lost race",
			zap.String("booking_id", id.String()),
			zap.String("from", string(expected)),
			zap.String("to", string(target)),
		)
		return nil, transitionError("booking %s changed status concurrently", id)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", id.String()),
		zap.String("from", string(expected)),
		zap.String("to", string(target)),
	)
	s.publish(ctx, event, booking)
	return booking, nil
}

// CompleteDueBookings completes every CONFIRMED booking whose end has
// passed. A failing booking is logged and skipped.
func (s *bookingService) CompleteDueBookings(ctx context.Context) (*SweepResult, error) {
	now := s.now()
	result := &SweepResult{}
	failed := make(map[uuid.UUID]bool)

	for {
		due, err := s.repo.Booking.FindDueForCompletion(ctx, now, sweepBatchSize+len(failed))
		if err != nil {
			return result, err
		}

		progressed := false
		for _, b := range due {
			if failed[b.ID] {
				continue
			}
			result.Checked++
			if _, err := s.transition(ctx, b.ID, entity.BookingStatusConfirmed, entity.BookingStatusCompleted, nil, EventBookingCompleted); err != nil {
				s.log.Warn("Failed to complete booking", zap.String("booking_id", b.ID.String()), zap.Error(err))
				failed[b.ID] = true
				result.Failed++
				continue
			}
			result.Completed++
			progressed = true
		}

		if !progressed || len(due) < sweepBatchSize+len(failed) {
			break
		}
	}

	s.log.Info("Completion sweep finished",
		zap.Int("checked", result.Checked),
		zap.Int("completed", result.Completed),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// RecordPaymentStatus stores a status reported by the payment provider.
// Re-delivering the current status is a no-op.
func (s *bookingService) RecordPaymentStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) (*entity.Booking, error) {
	if !status.IsValid() {
		return nil, validationError("unknown payment status %q", status)
	}

	current, err := s.findBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.PaymentStatus == status {
		return current, nil
	}
	if !current.PaymentStatus.CanTransitionTo(status) {
		return nil, transitionError("payment of booking %s cannot move from %s to %s", id, current.PaymentStatus, status)
	}

	booking, err := s.repo.Booking.TransitionPaymentStatus(ctx, id, current.PaymentStatus, status, s.now())
	if errors.Is(err, repository.ErrStatusMismatch) {
		return nil, transitionError("payment of booking %s changed concurrently", id)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("Payment status recorded",
		zap.String("booking_id", id.String()),
		zap.String("payment_status", string(status)),
	)
	s.publish(ctx, EventBookingPayment, booking)
	return booking, nil
}

func (s *bookingService) SoftDeleteBooking(ctx context.Context, id uuid.UUID) error {
	booking, err := s.findBooking(ctx, id)
	if err != nil {
		return err
	}
	if !booking.Status.IsTerminal() {
		return transitionError("booking %s is %s; only finished bookings can be deleted", id, booking.Status)
	}

	if err := s.repo.Booking.SoftDelete(ctx, id, s.now()); err != nil {
		return mapStorageError(err)
	}
	s.publish(ctx, EventBookingDeleted, booking)
	return nil
}

func (s *bookingService) findBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, notFoundError("booking %s", id)
	}
	return booking, nil
}

func (s *bookingService) loadTarget(ctx context.Context, ref entity.ResourceRef, subIDs []uuid.UUID) (*entity.Resource, []*entity.Resource, error) {
	resource, err := s.checker.resolve(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	if len(subIDs) == 0 {
		return resource, nil, nil
	}
	subs, err := s.checker.resolveSubResources(ctx, ref, subIDs)
	if err != nil {
		return nil, nil, err
	}
	return resource, subs, nil
}

func (s *bookingService) publish(ctx context.Context, event string, booking *entity.Booking) {
	if err := s.events.PublishJSON(ctx, event, newBookingEvent(event, booking, s.now())); err != nil {
		s.log.Warn("Failed to publish booking event",
			zap.String("event", event),
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err),
		)
	}
}

func (s *bookingService) validateCreate(in CreateBookingInput) error {
	if in.CustomerID == uuid.Nil {
		return validationError("customer is required")
	}
	if err := validateTarget(in.Resource, in.Window, in.Guests, in.SubResourceIDs); err != nil {
		return err
	}
	if in.Window.Start.Before(s.now()) {
		return validationError("start must not be in the past")
	}
	if in.Resource.Kind.IsVenue() && len(in.SubResourceIDs) == 0 {
		return validationError("%s bookings need at least one %s", in.Resource.Kind, in.Resource.Kind.SubResourceKind())
	}
	return nil
}

func validateTarget(ref entity.ResourceRef, window entity.TimeRange, guests int, subIDs []uuid.UUID) error {
	switch {
	case !ref.Kind.IsValid():
		return validationError("unknown resource kind %q", ref.Kind)
	case ref.Kind.IsSubResource():
		return validationError("%s is booked through its %s", ref.Kind, ref.Kind.VenueKind())
	case ref.ID == uuid.Nil:
		return validationError("resource id is required")
	}
	if err := validateWindow(window, guests); err != nil {
		return err
	}

	if ref.Kind.IsWholeUnit() && len(subIDs) > 0 {
		return validationError("%s has no sub-resources", ref.Kind)
	}
	seen := make(map[uuid.UUID]bool, len(subIDs))
	for _, id := range subIDs {
		if seen[id] {
			return validationError("sub-resource %s requested twice", id)
		}
		seen[id] = true
	}
	return nil
}

// lockRefs lists the rows the critical section serializes on: the unit
// itself, or every requested sub-resource.
func lockRefs(in CreateBookingInput) []entity.ResourceRef {
	if !in.Resource.Kind.IsVenue() {
		return []entity.ResourceRef{in.Resource}
	}
	subKind := in.Resource.Kind.SubResourceKind()
	refs := make([]entity.ResourceRef, len(in.SubResourceIDs))
	for i, id := range in.SubResourceIDs {
		refs[i] = entity.ResourceRef{Kind: subKind, ID: id}
	}
	return refs
}

func basePrice(resource *entity.Resource, subs []*entity.Resource) entity.Money {
	total := resource.BasePrice
	for _, sub := range subs {
		total += sub.BasePrice
	}
	return total
}

func mapStorageError(err error) error {
	switch {
	case errors.Is(err, repository.ErrLockTimeout):
		return fmt.Errorf("%w: resource is being booked concurrently: %v", ErrConflict, err)
	case errors.Is(err, repository.ErrResourceGone), errors.Is(err, repository.ErrBookingGone):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/data/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type AvailabilityService interface {
	CheckAvailability(ctx context.Context, ref entity.ResourceRef, window entity.TimeRange, guests int) (*AvailabilityResult, error)
	IsAvailable(ctx context.Context, ref entity.ResourceRef, window entity.TimeRange, guests int) (bool, error)
	ListAvailableSubResources(ctx context.Context, venue entity.ResourceRef, window entity.TimeRange, guests int) ([]*entity.Resource, error)
	// NextAvailableDate returns nil when the resource cannot be booked at all.
	NextAvailableDate(ctx context.Context, ref entity.ResourceRef) (*time.Time, error)
	UnavailableWindows(ctx context.Context, ref entity.ResourceRef) ([]OccupancyWindow, error)
}

type AvailabilityResult struct {
	Resource  entity.ResourceRef
	Window    entity.TimeRange
	Guests    int
	Available bool
	Reason    string
}

type OccupancyWindow struct {
	BookingID uuid.UUID
	Start     time.Time
	End       time.Time
	Status    entity.BookingStatus
}

// farFuture bounds open-ended occupancy queries.
var farFuture = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

type availabilityService struct {
	checker *availabilityChecker
	repo    *repository.Repository
	now     func() time.Time
	log     *zap.Logger
}

// NewAvailabilityService reads opening hours and calendar days on loc.
func NewAvailabilityService(repo *repository.Repository, loc *time.Location, log *zap.Logger) AvailabilityService {
	return newAvailabilityService(repo, loc, time.Now, log)
}

func newAvailabilityService(repo *repository.Repository, loc *time.Location, now func() time.Time, log *zap.Logger) *availabilityService {
	return &availabilityService{
		checker: &availabilityChecker{repo: repo, loc: loc},
		repo:    repo,
		now:     now,
		log:     log.With(zap.String("service", "availability")),
	}
}

func (s *availabilityService) CheckAvailability(ctx context.Context, ref entity.ResourceRef, window entity.TimeRange, guests int) (result *AvailabilityResult, err error) {
	ctx, span := tracer.Start(ctx, "availability.check", trace.WithAttributes(resourceAttrs(ref)...))
	defer func() { endSpan(span, err) }()

	if !ref.Kind.IsValid() {
		return nil, validationError("unknown resource kind %q", ref.Kind)
	}
	if err := validateWindow(window, guests); err != nil {
		return nil, err
	}

	resource, err := s.checker.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	reason, err := s.checker.evaluate(ctx, resource, window, guests)
	if err != nil {
		s.log.Error("Failed to evaluate availability", zap.Stringer("resource", ref), zap.Error(err))
		return nil, err
	}

	span.SetAttributes(attribute.Bool("availability.available", reason == ""))
	return &AvailabilityResult{
		Resource:  ref,
		Window:    window,
		Guests:    guests,
		Available: reason == "",
		Reason:    reason,
	}, nil
}

func (s *availabilityService) IsAvailable(ctx context.Context, ref entity.ResourceRef, window entity.TimeRange, guests int) (bool, error) {
	result, err := s.CheckAvailability(ctx, ref, window, guests)
	if err != nil {
		return false, err
	}
	return result.Available, nil
}

func (s *availabilityService) ListAvailableSubResources(ctx context.Context, venue entity.ResourceRef, window entity.TimeRange, guests int) (subs []*entity.Resource, err error) {
	ctx, span := tracer.Start(ctx, "availability.list_sub_resources", trace.WithAttributes(resourceAttrs(venue)...))
	defer func() { endSpan(span, err) }()

	if !venue.Kind.IsVenue() {
		return nil, validationError("%s is not a venue", venue.Kind)
	}
	if err := validateWindow(window, guests); err != nil {
		return nil, err
	}

	resource, err := s.checker.resolve(ctx, venue)
	if err != nil {
		return nil, err
	}
	// a closed or inactive venue offers nothing
	if reason := s.checker.staticReason(resource, window, 1); reason != "" {
		return []*entity.Resource{}, nil
	}

	return s.checker.freeSubResources(ctx, venue, window, guests)
}

func (s *availabilityService) NextAvailableDate(ctx context.Context, ref entity.ResourceRef) (*time.Time, error) {
	if !ref.Kind.IsWholeUnit() {
		return nil, validationError("next available date is only defined for whole-unit resources")
	}

	resource, err := s.checker.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !resource.Bookable() {
		return nil, nil
	}

	today := entity.StartOfDay(s.now().In(s.checker.location()))
	bookings, err := s.repo.Booking.FindActiveByResource(ctx, ref, entity.TimeRange{Start: today, End: farFuture})
	if err != nil {
		return nil, fmt.Errorf("find bookings of %s: %w", ref, err)
	}

	tomorrow := today.AddDate(0, 0, 1)
	if !(entity.TimeRange{Start: today, End: tomorrow}).ConflictsWith(bookings) {
		return &today, nil
	}

	var latest time.Time
	for _, b := range bookings {
		if b.Status.Occupies() && b.EndDate.After(latest) {
			latest = b.EndDate
		}
	}
	next := entity.StartOfDay(latest.In(today.Location())).AddDate(0, 0, 1)
	return &next, nil
}

func (s *availabilityService) UnavailableWindows(ctx context.Context, ref entity.ResourceRef) ([]OccupancyWindow, error) {
	if !ref.Kind.IsValid() {
		return nil, validationError("unknown resource kind %q", ref.Kind)
	}

	resource, err := s.checker.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	window := entity.TimeRange{Start: s.now(), End: farFuture}
	var bookings []*entity.Booking
	if resource.Ref.Kind.IsSubResource() {
		bookings, err = s.repo.Booking.FindActiveBySubResource(ctx, ref.ID, window)
	} else {
		bookings, err = s.repo.Booking.FindActiveByResource(ctx, ref, window)
	}
	if err != nil {
		return nil, fmt.Errorf("find bookings of %s: %w", ref, err)
	}

	windows := make([]OccupancyWindow, 0, len(bookings))
	for _, b := range bookings {
		if !b.Status.Occupies() || b.DeletedAt != nil {
			continue
		}
		windows = append(windows, OccupancyWindow{
			BookingID: b.ID,
			Start:     b.StartDate,
			End:       b.EndDate,
			Status:    b.Status,
		})
	}
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].Start.Before(windows[j].Start)
	})
	return windows, nil
}

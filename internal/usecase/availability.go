package usecase

import (
	"context"
	"fmt"
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/data/repository"

	"github.com/google/uuid"
)

// Reasons reported when a resource is not available.
const (
	ReasonInactive      = "resource is not active"
	ReasonFlaggedOff    = "resource is marked unavailable"
	ReasonCapacity      = "guests exceed capacity"
	ReasonClosed        = "outside opening hours"
	ReasonOverlap       = "overlaps an existing booking"
	ReasonNoSubResource = "no sub-resource is free for this window"
)

// availabilityChecker holds the checks shared by the read path and the
// booking critical section. Inside a transaction its queries run on the
// transaction's connection. Opening hours are read on the calendar of loc.
type availabilityChecker struct {
	repo *repository.Repository
	loc  *time.Location
}

func (c *availabilityChecker) location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func (c *availabilityChecker) resolve(ctx context.Context, ref entity.ResourceRef) (*entity.Resource, error) {
	resource, err := c.repo.Resource.FindByRef(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("find resource %s: %w", ref, err)
	}
	if resource == nil {
		return nil, notFoundError("resource %s", ref)
	}
	return resource, nil
}

// resolveSubResources loads the requested sub-resources and checks they all
// belong to venue.
func (c *availabilityChecker) resolveSubResources(ctx context.Context, venue entity.ResourceRef, ids []uuid.UUID) ([]*entity.Resource, error) {
	subKind := venue.Kind.SubResourceKind()
	subs := make([]*entity.Resource, 0, len(ids))
	for _, id := range ids {
		sub, err := c.resolve(ctx, entity.ResourceRef{Kind: subKind, ID: id})
		if err != nil {
			return nil, err
		}
		if sub.VenueID == nil || *sub.VenueID != venue.ID {
			return nil, validationError("sub-resource %s does not belong to %s", id, venue)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// staticReason runs the checks that need no booking data. A venue with no
// capacity of its own is limited only by its sub-resources.
func (c *availabilityChecker) staticReason(resource *entity.Resource, window entity.TimeRange, guests int) string {
	unbounded := resource.Ref.Kind.IsVenue() && resource.Capacity == 0
	switch {
	case !resource.IsActive:
		return ReasonInactive
	case resource.IsAvailable != nil && !*resource.IsAvailable:
		return ReasonFlaggedOff
	case !unbounded && guests > resource.Capacity:
		return ReasonCapacity
	case resource.OpeningHours != nil && !resource.OpeningHours.Covers(inLocation(window, c.location())):
		return ReasonClosed
	}
	return ""
}

// occupied reports whether any active booking of resource overlaps window.
func (c *availabilityChecker) occupied(ctx context.Context, resource *entity.Resource, window entity.TimeRange) (bool, error) {
	var (
		bookings []*entity.Booking
		err      error
	)
	if resource.Ref.Kind.IsSubResource() {
		bookings, err = c.repo.Booking.FindActiveBySubResource(ctx, resource.Ref.ID, window)
	} else {
		bookings, err = c.repo.Booking.FindActiveByResource(ctx, resource.Ref, window)
	}
	if err != nil {
		return false, fmt.Errorf("find bookings of %s: %w", resource.Ref, err)
	}
	return window.ConflictsWith(bookings), nil
}

// evaluate returns the reason resource cannot take guests for window, or
// "" when it can. A venue is available when its free sub-resources can seat
// guests together.
func (c *availabilityChecker) evaluate(ctx context.Context, resource *entity.Resource, window entity.TimeRange, guests int) (string, error) {
	if reason := c.staticReason(resource, window, guests); reason != "" {
		return reason, nil
	}

	if resource.Ref.Kind.IsVenue() {
		free, err := c.freeSubResources(ctx, resource.Ref, window, 1)
		if err != nil {
			return "", err
		}
		seats := 0
		for _, sub := range free {
			seats += sub.Capacity
		}
		if len(free) == 0 || seats < guests {
			return ReasonNoSubResource, nil
		}
		return "", nil
	}

	busy, err := c.occupied(ctx, resource, window)
	if err != nil {
		return "", err
	}
	if busy {
		return ReasonOverlap, nil
	}
	return "", nil
}

func (c *availabilityChecker) freeSubResources(ctx context.Context, venue entity.ResourceRef, window entity.TimeRange, guests int) ([]*entity.Resource, error) {
	subs, err := c.repo.Resource.FindSubResources(ctx, venue)
	if err != nil {
		return nil, fmt.Errorf("find sub-resources of %s: %w", venue, err)
	}

	free := make([]*entity.Resource, 0, len(subs))
	for _, sub := range subs {
		reason, err := c.evaluate(ctx, sub, window, guests)
		if err != nil {
			return nil, err
		}
		if reason == "" {
			free = append(free, sub)
		}
	}
	return free, nil
}

// evaluateSelection checks a venue booking over an explicit set of
// sub-resources. Every one must be free; their combined capacity must seat
// guests.
func (c *availabilityChecker) evaluateSelection(ctx context.Context, venue *entity.Resource, subs []*entity.Resource, window entity.TimeRange, guests int) (string, error) {
	if reason := c.staticReason(venue, window, guests); reason != "" {
		return reason, nil
	}

	seats := 0
	for _, sub := range subs {
		if reason := c.staticReason(sub, window, 1); reason != "" {
			return fmt.Sprintf("sub-resource %s: %s", sub.Ref.ID, reason), nil
		}
		busy, err := c.occupied(ctx, sub, window)
		if err != nil {
			return "", err
		}
		if busy {
			return fmt.Sprintf("sub-resource %s: %s", sub.Ref.ID, ReasonOverlap), nil
		}
		seats += sub.Capacity
	}
	if guests > seats {
		return ReasonCapacity, nil
	}
	return "", nil
}

func validateWindow(window entity.TimeRange, guests int) error {
	if window.Start.IsZero() || window.End.IsZero() {
		return validationError("start and end are required")
	}
	if !window.IsValid() {
		return validationError("start must be before end")
	}
	if guests <= 0 {
		return validationError("guests must be positive")
	}
	return nil
}

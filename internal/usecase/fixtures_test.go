package usecase

import (
	"testing"
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// testNow is a Saturday morning.
var testNow = time.Date(2030, time.June, 1, 9, 0, 0, 0, time.UTC)

var testPricing = utils.PricingConfig{
	ServiceFeePercent: 10,
	ServiceFeeMin:     5,
	ServiceFeeMax:     100,
	VenueSlotMinutes:  120,
}

// day returns midnight n days after testNow.
func day(n int) time.Time {
	return time.Date(2030, time.June, 1+n, 0, 0, 0, 0, time.UTC)
}

func at(n, hour int) time.Time {
	return day(n).Add(time.Duration(hour) * time.Hour)
}

func window(start, end time.Time) entity.TimeRange {
	return entity.TimeRange{Start: start, End: end}
}

type testEnv struct {
	store        *memStore
	bookings     *bookingService
	availability *availabilityService
	commission   CommissionService
	events       *recordingPublisher
	clock        *time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := zap.NewNop()
	store := newMemStore()
	repo := store.repository()
	clock := testNow
	now := func() time.Time { return clock }

	commission := NewCommissionService(repo, 10, log)
	events := &recordingPublisher{}
	bookings := newBookingService(repo, NewPricingCalculator(testPricing, time.UTC), commission, events,
		utils.BookingConfig{MaxReferenceAttempts: 5, ReferencePrefix: "BK"}, log)
	bookings.now = now

	return &testEnv{
		store:        store,
		bookings:     bookings,
		availability: newAvailabilityService(repo, time.UTC, now, log),
		commission:   commission,
		events:       events,
		clock:        &clock,
	}
}

func (e *testEnv) advance(d time.Duration) {
	*e.clock = e.clock.Add(d)
}

func (e *testEnv) residence(capacity int, price float64) *entity.Resource {
	available := true
	return e.store.addResource(&entity.Resource{
		Ref:         entity.ResourceRef{Kind: entity.KindResidence, ID: uuid.New()},
		OwnerID:     uuid.New(),
		Name:        "Villa",
		Capacity:    capacity,
		IsActive:    true,
		IsAvailable: &available,
		BasePrice:   entity.NewMoney(price),
	})
}

func (e *testEnv) restaurant(capacity int, hours entity.OpeningHours) *entity.Resource {
	return e.store.addResource(&entity.Resource{
		Ref:          entity.ResourceRef{Kind: entity.KindRestaurant, ID: uuid.New()},
		OwnerID:      uuid.New(),
		Name:         "Bistro",
		Capacity:     capacity,
		IsActive:     true,
		OpeningHours: hours,
	})
}

func (e *testEnv) table(venue *entity.Resource, name string, capacity int, minSpend float64) *entity.Resource {
	venueID := venue.Ref.ID
	return e.store.addResource(&entity.Resource{
		Ref:          entity.ResourceRef{Kind: entity.KindRestaurantTable, ID: uuid.New()},
		OwnerID:      venue.OwnerID,
		VenueID:      &venueID,
		Name:         name,
		Capacity:     capacity,
		IsActive:     true,
		OpeningHours: venue.OpeningHours,
		BasePrice:    entity.NewMoney(minSpend),
	})
}

func (e *testEnv) book(t *testing.T, res *entity.Resource, w entity.TimeRange, guests int, subs ...*entity.Resource) *entity.Booking {
	t.Helper()
	ids := make([]uuid.UUID, len(subs))
	for i, sub := range subs {
		ids[i] = sub.Ref.ID
	}
	b, err := e.bookings.CreateBooking(t.Context(), CreateBookingInput{
		CustomerID:     uuid.New(),
		Resource:       res.Ref,
		Window:         w,
		Guests:         guests,
		SubResourceIDs: ids,
	})
	if err != nil {
		t.Fatalf("CreateBooking(%s, %v-%v) error = %v", res.Ref, w.Start, w.End, err)
	}
	return b
}

func everyDay(open, close string) entity.OpeningHours {
	o, _ := entity.ParseTimeOfDay(open)
	c, _ := entity.ParseTimeOfDay(close)
	hours := make(entity.OpeningHours, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = entity.DailyHours{Open: o, Close: c}
	}
	return hours
}

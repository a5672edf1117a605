package usecase

import (
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/pkg/utils"
)

// PriceQuote is the price breakdown of one reservation.
type PriceQuote struct {
	BasePrice     entity.Money
	Billing       entity.BillingUnit
	DurationUnits int
	Guests        int
	Subtotal      entity.Money
	ServiceFee    entity.Money
	TotalPrice    entity.Money
}

// CommissionSplit is the platform/owner split of a total price.
// CommissionAmount + OwnerAmount == TotalPrice always holds.
type CommissionSplit struct {
	Rate             entity.Rate
	TotalPrice       entity.Money
	CommissionAmount entity.Money
	OwnerAmount      entity.Money
}

// PricingCalculator is a pure function of its configuration and inputs.
type PricingCalculator struct {
	serviceFeeRate entity.Rate
	serviceFeeMin  entity.Money
	serviceFeeMax  entity.Money
	venueSlot      time.Duration
	loc            *time.Location
}

// NewPricingCalculator builds a calculator that counts nights on the calendar
// of loc. A nil loc means UTC.
func NewPricingCalculator(config utils.PricingConfig, loc *time.Location) *PricingCalculator {
	slot := time.Duration(config.VenueSlotMinutes) * time.Minute
	if slot <= 0 {
		slot = 2 * time.Hour
	}
	return &PricingCalculator{
		serviceFeeRate: entity.RateFromPercent(config.ServiceFeePercent),
		serviceFeeMin:  entity.NewMoney(config.ServiceFeeMin),
		serviceFeeMax:  entity.NewMoney(config.ServiceFeeMax),
		venueSlot:      slot,
		loc:            loc,
	}
}

// Location is the calendar reservations are counted on.
func (c *PricingCalculator) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// ComputePrice prices a reservation of basePrice per billing unit.
func (c *PricingCalculator) ComputePrice(basePrice entity.Money, billing entity.BillingUnit, window entity.TimeRange, guests int) PriceQuote {
	units := c.DurationUnits(billing, window)
	subtotal := basePrice * entity.Money(units)

	var fee entity.Money
	// a free reservation carries no fee, the floor only applies to paid ones
	if subtotal > 0 {
		fee = subtotal.ApplyRate(c.serviceFeeRate).Clamp(c.serviceFeeMin, c.serviceFeeMax)
	}

	return PriceQuote{
		BasePrice:     basePrice,
		Billing:       billing,
		DurationUnits: units,
		Guests:        guests,
		Subtotal:      subtotal,
		ServiceFee:    fee,
		TotalPrice:    subtotal + fee,
	}
}

// DurationUnits counts billable units, minimum 1. Nights are calendar days
// between the start and end dates; slots are rounded up.
func (c *PricingCalculator) DurationUnits(billing entity.BillingUnit, window entity.TimeRange) int {
	var units int
	switch billing {
	case entity.BillingNight:
		local := inLocation(window, c.Location())
		units = calendarDays(local.Start, local.End)
	default:
		d := window.End.Sub(window.Start)
		units = int(d / c.venueSlot)
		if d%c.venueSlot != 0 {
			units++
		}
	}
	if units < 1 {
		units = 1
	}
	return units
}

// inLocation moves both ends of window onto the calendar of loc. The
// instants stay the same; only dates and clock readings change.
func inLocation(window entity.TimeRange, loc *time.Location) entity.TimeRange {
	return entity.TimeRange{Start: window.Start.In(loc), End: window.End.In(loc)}
}

func calendarDays(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	start := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	end := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

// ComputeCommissions splits total at rate. The commission is rounded once;
// the owner amount is the exact remainder.
func ComputeCommissions(total entity.Money, rate entity.Rate) CommissionSplit {
	commission := total.ApplyRate(rate)
	return CommissionSplit{
		Rate:             rate,
		TotalPrice:       total,
		CommissionAmount: commission,
		OwnerAmount:      total - commission,
	}
}

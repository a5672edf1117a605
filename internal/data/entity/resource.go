package entity

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ResourceKind tags the bookable resource variant stored in bookings.bookable_type.
type ResourceKind string

const (
	KindResidence       ResourceKind = "residence"
	KindHotelRoom       ResourceKind = "hotel_room"
	KindRestaurant      ResourceKind = "restaurant"
	KindLounge          ResourceKind = "lounge"
	KindNightClub       ResourceKind = "night_club"
	KindRestaurantTable ResourceKind = "restaurant_table"
	KindLoungeTable     ResourceKind = "lounge_table"
	KindNightClubArea   ResourceKind = "night_club_area"
)

type BillingUnit string

const (
	BillingNight BillingUnit = "night"
	BillingSlot  BillingUnit = "slot"
)

type kindTraits struct {
	wholeUnit bool
	venue     bool
	// subKind is the sub-resource kind offered by a venue; parent is the
	// venue kind owning a sub-resource.
	subKind ResourceKind
	parent  ResourceKind
	billing BillingUnit
}

var resourceKinds = map[ResourceKind]kindTraits{
	KindResidence:       {wholeUnit: true, billing: BillingNight},
	KindHotelRoom:       {wholeUnit: true, billing: BillingNight},
	KindRestaurant:      {venue: true, subKind: KindRestaurantTable, billing: BillingSlot},
	KindLounge:          {venue: true, subKind: KindLoungeTable, billing: BillingSlot},
	KindNightClub:       {venue: true, subKind: KindNightClubArea, billing: BillingSlot},
	KindRestaurantTable: {parent: KindRestaurant, billing: BillingSlot},
	KindLoungeTable:     {parent: KindLounge, billing: BillingSlot},
	KindNightClubArea:   {parent: KindNightClub, billing: BillingSlot},
}

func ParseResourceKind(raw string) (ResourceKind, error) {
	kind := ResourceKind(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := resourceKinds[kind]; !ok {
		return "", fmt.Errorf("invalid resource kind %q", raw)
	}
	return kind, nil
}

func (k ResourceKind) IsValid() bool {
	_, ok := resourceKinds[k]
	return ok
}

func (k ResourceKind) IsWholeUnit() bool { return resourceKinds[k].wholeUnit }

func (k ResourceKind) IsVenue() bool { return resourceKinds[k].venue }

func (k ResourceKind) IsSubResource() bool { return resourceKinds[k].parent != "" }

// SubResourceKind returns the kind of table/area a venue offers.
func (k ResourceKind) SubResourceKind() ResourceKind { return resourceKinds[k].subKind }

// VenueKind returns the venue kind a sub-resource belongs to.
func (k ResourceKind) VenueKind() ResourceKind { return resourceKinds[k].parent }

func (k ResourceKind) Billing() BillingUnit { return resourceKinds[k].billing }

// ResourceRef identifies a bookable resource: kind tag + id.
type ResourceRef struct {
	Kind ResourceKind
	ID   uuid.UUID
}

func (r ResourceRef) String() string {
	return string(r.Kind) + ":" + r.ID.String()
}

// Resource is the uniform view of any bookable resource returned by the
// resource adapter.
type Resource struct {
	Ref     ResourceRef
	OwnerID uuid.UUID
	// VenueID is set for sub-resources.
	VenueID  *uuid.UUID
	Name     string
	Capacity int
	// IsActive is false when the resource (or, for sub-resources, its venue)
	// is deactivated.
	IsActive bool
	// IsAvailable is the owner-controlled flag of whole-unit resources; nil
	// for venues and sub-resources.
	IsAvailable *bool
	// OpeningHours is nil when the resource has no opening-hours constraint.
	// Sub-resources carry the hours of their venue.
	OpeningHours OpeningHours
	// BasePrice is the nightly rate, the venue reservation fee or the
	// sub-resource minimum spend.
	BasePrice Money
}

// Bookable reports whether the static flags allow any booking at all.
func (r *Resource) Bookable() bool {
	if !r.IsActive {
		return false
	}
	if r.IsAvailable != nil && !*r.IsAvailable {
		return false
	}
	return true
}

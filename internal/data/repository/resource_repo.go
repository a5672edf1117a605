package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ResourceRepository is the resource adapter: a uniform read view of every
// bookable resource kind over the catalog tables.
type ResourceRepository interface {
	FindByRef(ctx context.Context, ref entity.ResourceRef) (*entity.Resource, error)
	FindSubResources(ctx context.Context, venue entity.ResourceRef) ([]*entity.Resource, error)

	// LockForBooking takes row locks on the given resources inside the
	// caller's transaction, always in the same order.
	LockForBooking(ctx context.Context, refs []entity.ResourceRef) error
}

type resourceRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewResourceRepository(db database.PgxIface, log *zap.Logger) ResourceRepository {
	return &resourceRepository{
		db:  db,
		log: log.With(zap.String("repository", "resource")),
	}
}

// Every query projects the same columns:
// id, owner_id, venue_id, name, capacity, is_active, is_available, opening_hours, base_price
const (
	residenceSelect = `
		SELECT id, owner_id, NULL::uuid, name, capacity, is_active, is_available, NULL::jsonb, price_per_night
		FROM residences
		WHERE deleted_at IS NULL`

	hotelRoomSelect = `
		SELECT id, owner_id, NULL::uuid, name, capacity, is_active, is_available, NULL::jsonb, price_per_night
		FROM hotel_rooms
		WHERE deleted_at IS NULL`

	venueSelect = `
		SELECT id, owner_id, NULL::uuid, name, capacity, is_active, NULL::boolean, opening_hours, reservation_fee
		FROM venues
		WHERE deleted_at IS NULL AND kind = $2`

	subResourceSelect = `
		SELECT s.id, v.owner_id, s.venue_id, s.name, s.capacity, s.is_active AND v.is_active,
		       NULL::boolean, v.opening_hours, s.minimum_spend
		FROM venue_sub_resources s
		INNER JOIN venues v ON v.id = s.venue_id AND v.deleted_at IS NULL
		WHERE s.deleted_at IS NULL AND s.kind = $2`
)

// lockTables maps a kind to the table holding its rows. Tables are locked in
// sorted name order.
var lockTables = map[entity.ResourceKind]string{
	entity.KindResidence:       "residences",
	entity.KindHotelRoom:       "hotel_rooms",
	entity.KindRestaurant:      "venues",
	entity.KindLounge:          "venues",
	entity.KindNightClub:       "venues",
	entity.KindRestaurantTable: "venue_sub_resources",
	entity.KindLoungeTable:     "venue_sub_resources",
	entity.KindNightClubArea:   "venue_sub_resources",
}

func (r *resourceRepository) FindByRef(ctx context.Context, ref entity.ResourceRef) (*entity.Resource, error) {
	var (
		query string
		args  = []any{ref.ID}
	)

	switch {
	case ref.Kind == entity.KindResidence:
		query = residenceSelect + ` AND id = $1`
	case ref.Kind == entity.KindHotelRoom:
		query = hotelRoomSelect + ` AND id = $1`
	case ref.Kind.IsVenue():
		query = venueSelect + ` AND id = $1`
		args = append(args, string(ref.Kind))
	case ref.Kind.IsSubResource():
		query = subResourceSelect + ` AND s.id = $1`
		args = append(args, string(ref.Kind))
	default:
		return nil, fmt.Errorf("unsupported resource kind %q", ref.Kind)
	}

	resource, err := scanResource(database.Conn(ctx, r.db).QueryRow(ctx, query, args...), ref.Kind)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find resource",
			zap.Error(err),
			zap.String("resource", ref.String()),
		)
		return nil, fmt.Errorf("find resource %s: %w", ref.String(), err)
	}

	return resource, nil
}

func (r *resourceRepository) FindSubResources(ctx context.Context, venue entity.ResourceRef) ([]*entity.Resource, error) {
	subKind := venue.Kind.SubResourceKind()
	if subKind == "" {
		return nil, fmt.Errorf("resource kind %q has no sub-resources", venue.Kind)
	}

	query := subResourceSelect + ` AND s.venue_id = $1 ORDER BY s.name, s.id`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, venue.ID, string(subKind))
	if err != nil {
		r.log.Error("Failed to find sub-resources",
			zap.Error(err),
			zap.String("venue", venue.String()),
		)
		return nil, fmt.Errorf("find sub-resources of %s: %w", venue.String(), err)
	}
	defer rows.Close()

	var resources []*entity.Resource
	for rows.Next() {
		resource, err := scanResource(rows, subKind)
		if err != nil {
			r.log.Error("Failed to scan sub-resource row", zap.Error(err))
			return nil, fmt.Errorf("scan sub-resource row: %w", err)
		}
		resources = append(resources, resource)
	}

	return resources, rows.Err()
}

func (r *resourceRepository) LockForBooking(ctx context.Context, refs []entity.ResourceRef) error {
	if !database.InTx(ctx) {
		return fmt.Errorf("lock resources: no transaction in context")
	}

	byTable := make(map[string][]uuid.UUID)
	for _, ref := range refs {
		table, ok := lockTables[ref.Kind]
		if !ok {
			return fmt.Errorf("lock resources: unsupported kind %q", ref.Kind)
		}
		byTable[table] = append(byTable[table], ref.ID)
	}

	tables := make([]string, 0, len(byTable))
	for table := range byTable {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	conn := database.Conn(ctx, r.db)
	for _, table := range tables {
		ids := byTable[table]
		query := fmt.Sprintf(`SELECT id FROM %s WHERE id = ANY($1) ORDER BY id FOR UPDATE`, table)

		rows, err := conn.Query(ctx, query, ids)
		if err != nil {
			return fmt.Errorf("lock %s rows: %w", table, err)
		}
		locked := 0
		for rows.Next() {
			locked++
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("lock %s rows: %w", table, err)
		}

		if locked != len(uniqueIDs(ids)) {
			return fmt.Errorf("lock %s rows: %w", table, ErrResourceGone)
		}
	}

	r.log.Debug("Resources locked", zap.Int("count", len(refs)))
	return nil
}

func scanResource(row pgx.Row, kind entity.ResourceKind) (*entity.Resource, error) {
	var (
		res          entity.Resource
		venueID      *uuid.UUID
		isAvailable  *bool
		openingHours []byte
		basePrice    int64
	)

	err := row.Scan(
		&res.Ref.ID,
		&res.OwnerID,
		&venueID,
		&res.Name,
		&res.Capacity,
		&res.IsActive,
		&isAvailable,
		&openingHours,
		&basePrice,
	)
	if err != nil {
		return nil, err
	}

	res.Ref.Kind = kind
	res.VenueID = venueID
	res.IsAvailable = isAvailable
	res.BasePrice = entity.Money(basePrice)

	if len(openingHours) > 0 {
		if err := json.Unmarshal(openingHours, &res.OpeningHours); err != nil {
			return nil, fmt.Errorf("decode opening hours of %s: %w", res.Ref.String(), err)
		}
	}

	return &res, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

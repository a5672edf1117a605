package repository

import (
	"context"
	"fmt"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingLinkRepository interface {
	CreateBatch(ctx context.Context, links []*entity.BookingResourceLink) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingResourceLink, error)
	FindSubResourceIDsByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
}

type bookingLinkRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingLinkRepository(db database.PgxIface, log *zap.Logger) BookingLinkRepository {
	return &bookingLinkRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking_link")),
	}
}

func (r *bookingLinkRepository) CreateBatch(ctx context.Context, links []*entity.BookingResourceLink) error {
	if len(links) == 0 {
		return nil
	}

	query := `INSERT INTO booking_resource_links (id, booking_id, sub_resource_id, resource_kind, created_at) VALUES `
	args := make([]any, 0, len(links)*5)

	for i, link := range links {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d)", i*5+1, i*5+2, i*5+3, i*5+4, i*5+5)

		args = append(args,
			link.ID,
			link.BookingID,
			link.SubResourceID,
			link.ResourceKind,
			link.CreatedAt,
		)
	}

	_, err := database.Conn(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create booking resource links",
			zap.Error(err),
			zap.String("booking_id", links[0].BookingID.String()),
			zap.Int("count", len(links)),
		)
		return fmt.Errorf("create resource links for booking %s: %w", links[0].BookingID.String(), err)
	}

	return nil
}

func (r *bookingLinkRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.BookingResourceLink, error) {
	query := `
		SELECT id, booking_id, sub_resource_id, resource_kind, created_at
		FROM booking_resource_links
		WHERE booking_id = $1
		ORDER BY created_at, sub_resource_id
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find resource links by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find resource links by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var links []*entity.BookingResourceLink
	for rows.Next() {
		var link entity.BookingResourceLink
		err := rows.Scan(
			&link.ID,
			&link.BookingID,
			&link.SubResourceID,
			&link.ResourceKind,
			&link.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan resource link row", zap.Error(err))
			return nil, fmt.Errorf("scan resource link row: %w", err)
		}
		links = append(links, &link)
	}

	return links, rows.Err()
}

func (r *bookingLinkRepository) FindSubResourceIDsByBookingIDs(ctx context.Context, bookingIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	result := make(map[uuid.UUID][]uuid.UUID, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT booking_id, sub_resource_id
		FROM booking_resource_links
		WHERE booking_id = ANY($1)
		ORDER BY booking_id, sub_resource_id
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, bookingIDs)
	if err != nil {
		r.log.Error("Failed to find resource links by booking IDs",
			zap.Error(err),
			zap.Int("count", len(bookingIDs)),
		)
		return nil, fmt.Errorf("find resource links by booking IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID, subResourceID uuid.UUID
		if err := rows.Scan(&bookingID, &subResourceID); err != nil {
			r.log.Error("Failed to scan resource link row", zap.Error(err))
			return nil, fmt.Errorf("scan resource link row: %w", err)
		}
		result[bookingID] = append(result[bookingID], subResourceID)
	}

	return result, rows.Err()
}

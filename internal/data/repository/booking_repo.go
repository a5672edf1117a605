package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByReference(ctx context.Context, reference string) (*entity.Booking, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error)

	// Occupancy queries return bookings that block the resource
	// (status other than CANCELLED) and overlap [window.Start, window.End).
	FindActiveByResource(ctx context.Context, ref entity.ResourceRef, window entity.TimeRange) ([]*entity.Booking, error)
	FindActiveBySubResource(ctx context.Context, subResourceID uuid.UUID, window entity.TimeRange) ([]*entity.Booking, error)

	FindDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*entity.Booking, error)

	// TransitionStatus moves a booking from one status to another only if it
	// is still in the expected status. Returns ErrStatusMismatch otherwise.
	TransitionStatus(ctx context.Context, change StatusChange) (*entity.Booking, error)
	TransitionPaymentStatus(ctx context.Context, id uuid.UUID, from, to entity.PaymentStatus, at time.Time) (*entity.Booking, error)
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
}

// StatusChange describes a compare-and-swap lifecycle update.
type StatusChange struct {
	BookingID          uuid.UUID
	From               entity.BookingStatus
	To                 entity.BookingStatus
	At                 time.Time
	CancellationReason *string
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `
	id, customer_id, owner_id, bookable_type, bookable_id, start_date, end_date, guests,
	booking_reference, total_price, commission_amount, owner_amount, status, payment_status,
	notes, cancellation_reason, cancelled_at, confirmed_at, created_at, updated_at, deleted_at`

const bookingReferenceConstraint = "bookings_booking_reference_key"

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.CustomerID,
		&b.OwnerID,
		&b.BookableType,
		&b.BookableID,
		&b.StartDate,
		&b.EndDate,
		&b.Guests,
		&b.BookingReference,
		&b.TotalPrice,
		&b.CommissionAmount,
		&b.OwnerAmount,
		&b.Status,
		&b.PaymentStatus,
		&b.Notes,
		&b.CancellationReason,
		&b.CancelledAt,
		&b.ConfirmedAt,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (
			id, customer_id, owner_id, bookable_type, bookable_id, start_date, end_date, guests,
			booking_reference, total_price, commission_amount, owner_amount, status, payment_status,
			notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := database.Conn(ctx, r.db).Exec(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.OwnerID,
		booking.BookableType,
		booking.BookableID,
		booking.StartDate,
		booking.EndDate,
		booking.Guests,
		booking.BookingReference,
		booking.TotalPrice,
		booking.CommissionAmount,
		booking.OwnerAmount,
		booking.Status,
		booking.PaymentStatus,
		booking.Notes,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if database.IsUniqueViolation(err, bookingReferenceConstraint) {
		r.log.Warn("Booking reference collision", zap.String("reference", booking.BookingReference))
		return fmt.Errorf("create booking %s: %w", booking.BookingReference, ErrDuplicateReference)
	}
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("reference", booking.BookingReference),
			zap.String("customer_id", booking.CustomerID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingReference, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 AND deleted_at IS NULL`

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByReference(ctx context.Context, reference string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_reference = $1 AND deleted_at IS NULL`

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, reference))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by reference",
			zap.Error(err),
			zap.String("reference", reference),
		)
		return nil, fmt.Errorf("find booking by reference %s: %w", reference, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, customerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by customer ID",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by customer ID %s: %w", customerID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE customer_id = $1 AND deleted_at IS NULL`

	var count int64
	err := database.Conn(ctx, r.db).QueryRow(ctx, query, customerID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by customer ID",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return 0, fmt.Errorf("count bookings by customer ID %s: %w", customerID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindActiveByResource(ctx context.Context, ref entity.ResourceRef, window entity.TimeRange) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE bookable_type = $1 AND bookable_id = $2
		  AND status <> 'CANCELLED' AND deleted_at IS NULL
		  AND start_date < $4 AND end_date > $3
		ORDER BY start_date
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, ref.Kind, ref.ID, window.Start, window.End)
	if err != nil {
		r.log.Error("Failed to find active bookings by resource",
			zap.Error(err),
			zap.String("resource", ref.String()),
		)
		return nil, fmt.Errorf("find active bookings of %s: %w", ref.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) FindActiveBySubResource(ctx context.Context, subResourceID uuid.UUID, window entity.TimeRange) ([]*entity.Booking, error) {
	query := `
		SELECT ` + prefixed("b", bookingColumns) + `
		FROM bookings b
		INNER JOIN booking_resource_links l ON l.booking_id = b.id
		WHERE l.sub_resource_id = $1
		  AND b.status <> 'CANCELLED' AND b.deleted_at IS NULL
		  AND b.start_date < $3 AND b.end_date > $2
		ORDER BY b.start_date
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, subResourceID, window.Start, window.End)
	if err != nil {
		r.log.Error("Failed to find active bookings by sub-resource",
			zap.Error(err),
			zap.String("sub_resource_id", subResourceID.String()),
		)
		return nil, fmt.Errorf("find active bookings of sub-resource %s: %w", subResourceID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) FindDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'CONFIRMED' AND end_date <= $1 AND deleted_at IS NULL
		ORDER BY end_date
		LIMIT $2
	`

	rows, err := database.Conn(ctx, r.db).Query(ctx, query, now, limit)
	if err != nil {
		r.log.Error("Failed to find bookings due for completion", zap.Error(err))
		return nil, fmt.Errorf("find bookings due for completion: %w", err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, change StatusChange) (*entity.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3,
		    updated_at = $4,
		    confirmed_at = CASE WHEN $3 = 'CONFIRMED' THEN $4 ELSE confirmed_at END,
		    cancelled_at = CASE WHEN $3 = 'CANCELLED' THEN $4 ELSE cancelled_at END,
		    cancellation_reason = COALESCE($5, cancellation_reason)
		WHERE id = $1 AND status = $2 AND deleted_at IS NULL
		RETURNING ` + bookingColumns

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query,
		change.BookingID,
		change.From,
		change.To,
		change.At,
		change.CancellationReason,
	))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("booking %s is not %s: %w", change.BookingID.String(), change.From, ErrStatusMismatch)
	}
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", change.BookingID.String()),
			zap.String("from", string(change.From)),
			zap.String("to", string(change.To)),
		)
		return nil, fmt.Errorf("update booking %s status to %s: %w", change.BookingID.String(), change.To, err)
	}

	return booking, nil
}

func (r *bookingRepository) TransitionPaymentStatus(ctx context.Context, id uuid.UUID, from, to entity.PaymentStatus, at time.Time) (*entity.Booking, error) {
	query := `
		UPDATE bookings
		SET payment_status = $3, updated_at = $4
		WHERE id = $1 AND payment_status = $2 AND deleted_at IS NULL
		RETURNING ` + bookingColumns

	booking, err := scanBooking(database.Conn(ctx, r.db).QueryRow(ctx, query, id, from, to, at))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("booking %s payment is not %s: %w", id.String(), from, ErrStatusMismatch)
	}
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("to", string(to)),
		)
		return nil, fmt.Errorf("update booking %s payment status to %s: %w", id.String(), to, err)
	}

	return booking, nil
}

func (r *bookingRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE bookings SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	result, err := database.Conn(ctx, r.db).Exec(ctx, query, id, at)
	if err != nil {
		r.log.Error("Failed to soft delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s: %w", id.String(), ErrBookingGone)
	}

	r.log.Info("Booking soft deleted", zap.String("booking_id", id.String()))
	return nil
}

// prefixed qualifies a comma separated column list with a table alias.
func prefixed(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

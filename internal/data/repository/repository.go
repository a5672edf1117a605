package repository

import (
	"errors"

	"hospitality-booking/pkg/database"

	"go.uber.org/zap"
)

var (
	// ErrDuplicateReference is returned when a booking reference is already taken.
	ErrDuplicateReference = errors.New("duplicate booking reference")
	// ErrStatusMismatch is returned when a compare-and-swap update finds the
	// row in a different state than expected.
	ErrStatusMismatch = errors.New("status mismatch")
	// ErrLockTimeout is returned when row locks could not be acquired in time.
	ErrLockTimeout = errors.New("lock acquisition timed out")
	// ErrResourceGone is returned when a resource disappears between lookup and lock.
	ErrResourceGone = errors.New("resource no longer exists")
	// ErrBookingGone is returned when a booking row to update is missing or
	// already deleted.
	ErrBookingGone = errors.New("booking no longer exists")
)

type Repository struct {
	Tx          TxManager
	Resource    ResourceRepository
	Booking     BookingRepository
	BookingLink BookingLinkRepository
	Commission  CommissionRepository
}

func NewRepository(db database.PgxIface, lockTimeoutMillis int64, log *zap.Logger) *Repository {
	return &Repository{
		Tx:          NewTxManager(db, lockTimeoutMillis, log),
		Resource:    NewResourceRepository(db, log),
		Booking:     NewBookingRepository(db, log),
		BookingLink: NewBookingLinkRepository(db, log),
		Commission:  NewCommissionRepository(db, log),
	}
}

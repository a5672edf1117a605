package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"hospitality-booking/internal/data/entity"
	"hospitality-booking/internal/data/repository"

	"github.com/google/uuid"
)

// memStore is an in-memory implementation of every repository the services
// use. Transactions hold per-resource locks until they end and roll back
// through an undo log, mirroring the row-lock protocol of the pgx
// repositories.
type memStore struct {
	mu          sync.Mutex
	resources   map[entity.ResourceRef]*entity.Resource
	bookings    map[uuid.UUID]*entity.Booking
	references  map[string]uuid.UUID
	links       []*entity.BookingResourceLink
	commission  *entity.CommissionConfig
	locks       map[entity.ResourceRef]*sync.Mutex
	commitCount int

	// beforeSoftDelete runs ahead of SoftDelete, outside the lock.
	beforeSoftDelete func(id uuid.UUID)
}

type memTxKey struct{}

type memTx struct {
	held []*sync.Mutex
	undo []func()
}

func newMemStore() *memStore {
	return &memStore{
		resources:  make(map[entity.ResourceRef]*entity.Resource),
		bookings:   make(map[uuid.UUID]*entity.Booking),
		references: make(map[string]uuid.UUID),
		locks:      make(map[entity.ResourceRef]*sync.Mutex),
	}
}

func (s *memStore) repository() *repository.Repository {
	return &repository.Repository{
		Tx:          s,
		Resource:    memResources{s},
		Booking:     memBookings{s},
		BookingLink: memLinks{s},
		Commission:  memCommission{s},
	}
}

func (s *memStore) addResource(r *entity.Resource) *entity.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.Ref] = r
	return r
}

// addBooking stores a committed booking directly.
func (s *memStore) addBooking(b *entity.Booking) *entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *b
	s.bookings[b.ID] = &stored
	s.references[b.BookingReference] = b.ID
	return b
}

func (s *memStore) allBookings() []*entity.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		c := *b
		out = append(out, &c)
	}
	return out
}

func (s *memStore) linkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links)
}

// record registers an undo step when ctx carries a transaction.
// Caller holds s.mu.
func (s *memStore) record(ctx context.Context, undo func()) {
	if tx, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		tx.undo = append(tx.undo, undo)
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(memTxKey{}).(*memTx); ok {
		return fn(ctx)
	}

	tx := &memTx{}
	err := fn(context.WithValue(ctx, memTxKey{}, tx))

	s.mu.Lock()
	if err != nil {
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
	} else {
		s.commitCount++
	}
	s.mu.Unlock()

	for i := len(tx.held) - 1; i >= 0; i-- {
		tx.held[i].Unlock()
	}
	return err
}

type memResources struct{ s *memStore }

func (r memResources) FindByRef(_ context.Context, ref entity.ResourceRef) (*entity.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.resources[ref]
	if !ok {
		return nil, nil
	}
	c := *res
	return &c, nil
}

func (r memResources) FindSubResources(_ context.Context, venue entity.ResourceRef) ([]*entity.Resource, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var subs []*entity.Resource
	for _, res := range r.s.resources {
		if res.VenueID != nil && *res.VenueID == venue.ID && res.Ref.Kind.VenueKind() == venue.Kind {
			c := *res
			subs = append(subs, &c)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].Name < subs[j].Name })
	return subs, nil
}

func (r memResources) LockForBooking(ctx context.Context, refs []entity.ResourceRef) error {
	tx, ok := ctx.Value(memTxKey{}).(*memTx)
	if !ok {
		return errors.New("lock outside transaction")
	}

	sorted := append([]entity.ResourceRef(nil), refs...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	for i, ref := range sorted {
		if i > 0 && ref == sorted[i-1] {
			continue
		}
		r.s.mu.Lock()
		if _, exists := r.s.resources[ref]; !exists {
			r.s.mu.Unlock()
			return fmt.Errorf("lock %s: %w", ref, repository.ErrResourceGone)
		}
		m, ok := r.s.locks[ref]
		if !ok {
			m = &sync.Mutex{}
			r.s.locks[ref] = m
		}
		r.s.mu.Unlock()

		m.Lock()
		tx.held = append(tx.held, m)
	}
	return nil
}

type memBookings struct{ s *memStore }

func (r memBookings) Create(ctx context.Context, b *entity.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, taken := r.s.references[b.BookingReference]; taken {
		return fmt.Errorf("create booking %s: %w", b.BookingReference, repository.ErrDuplicateReference)
	}
	stored := *b
	stored.SubResourceIDs = nil
	r.s.bookings[b.ID] = &stored
	r.s.references[b.BookingReference] = b.ID
	r.s.record(ctx, func() {
		delete(r.s.bookings, b.ID)
		delete(r.s.references, b.BookingReference)
	})
	return nil
}

func (r memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.DeletedAt != nil {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r memBookings) FindByReference(_ context.Context, reference string) (*entity.Booking, error) {
	r.s.mu.Lock()
	id, ok := r.s.references[reference]
	r.s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return r.FindByID(context.Background(), id)
}

func (r memBookings) filter(keep func(*entity.Booking) bool) []*entity.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.s.bookings {
		if b.DeletedAt == nil && keep(b) {
			c := *b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

func (r memBookings) FindByCustomerID(_ context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	all := r.filter(func(b *entity.Booking) bool { return b.CustomerID == customerID })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r memBookings) CountByCustomerID(_ context.Context, customerID uuid.UUID) (int64, error) {
	return int64(len(r.filter(func(b *entity.Booking) bool { return b.CustomerID == customerID }))), nil
}

func (r memBookings) FindActiveByResource(_ context.Context, ref entity.ResourceRef, window entity.TimeRange) ([]*entity.Booking, error) {
	return r.filter(func(b *entity.Booking) bool {
		return b.Resource() == ref && b.Status.Occupies() && window.Overlaps(b.Range())
	}), nil
}

func (r memBookings) FindActiveBySubResource(_ context.Context, subID uuid.UUID, window entity.TimeRange) ([]*entity.Booking, error) {
	r.s.mu.Lock()
	linked := make(map[uuid.UUID]bool)
	for _, l := range r.s.links {
		if l.SubResourceID == subID {
			linked[l.BookingID] = true
		}
	}
	r.s.mu.Unlock()

	return r.filter(func(b *entity.Booking) bool {
		return linked[b.ID] && b.Status.Occupies() && window.Overlaps(b.Range())
	}), nil
}

func (r memBookings) FindDueForCompletion(_ context.Context, now time.Time, limit int) ([]*entity.Booking, error) {
	due := r.filter(func(b *entity.Booking) bool {
		return b.Status == entity.BookingStatusConfirmed && !b.EndDate.After(now)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r memBookings) TransitionStatus(ctx context.Context, change repository.StatusChange) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[change.BookingID]
	if !ok || b.DeletedAt != nil || b.Status != change.From {
		return nil, fmt.Errorf("booking %s is not %s: %w", change.BookingID, change.From, repository.ErrStatusMismatch)
	}

	before := *b
	b.Status = change.To
	b.UpdatedAt = change.At
	switch change.To {
	case entity.BookingStatusConfirmed:
		at := change.At
		b.ConfirmedAt = &at
	case entity.BookingStatusCancelled:
		at := change.At
		b.CancelledAt = &at
	}
	if change.CancellationReason != nil {
		reason := *change.CancellationReason
		b.CancellationReason = &reason
	}
	r.s.record(ctx, func() { *b = before })

	c := *b
	return &c, nil
}

func (r memBookings) TransitionPaymentStatus(ctx context.Context, id uuid.UUID, from, to entity.PaymentStatus, at time.Time) (*entity.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.DeletedAt != nil || b.PaymentStatus != from {
		return nil, fmt.Errorf("booking %s payment is not %s: %w", id, from, repository.ErrStatusMismatch)
	}
	before := *b
	b.PaymentStatus = to
	b.UpdatedAt = at
	r.s.record(ctx, func() { *b = before })
	c := *b
	return &c, nil
}

func (r memBookings) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	if r.s.beforeSoftDelete != nil {
		r.s.beforeSoftDelete(id)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.DeletedAt != nil {
		return fmt.Errorf("booking %s: %w", id, repository.ErrBookingGone)
	}
	b.DeletedAt = &at
	r.s.record(ctx, func() { b.DeletedAt = nil })
	return nil
}

type memLinks struct{ s *memStore }

func (r memLinks) CreateBatch(ctx context.Context, links []*entity.BookingResourceLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n := len(r.s.links)
	r.s.links = append(r.s.links, links...)
	r.s.record(ctx, func() { r.s.links = r.s.links[:n] })
	return nil
}

func (r memLinks) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.BookingResourceLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.BookingResourceLink
	for _, l := range r.s.links {
		if l.BookingID == bookingID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memLinks) FindSubResourceIDsByBookingIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := make(map[uuid.UUID][]uuid.UUID)
	for _, l := range r.s.links {
		if want[l.BookingID] {
			out[l.BookingID] = append(out[l.BookingID], l.SubResourceID)
		}
	}
	return out, nil
}

type memCommission struct{ s *memStore }

func (r memCommission) FindActive(context.Context) (*entity.CommissionConfig, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.commission == nil {
		return nil, nil
	}
	c := *r.s.commission
	return &c, nil
}

func (r memCommission) Activate(ctx context.Context, config *entity.CommissionConfig) error {
	if _, ok := ctx.Value(memTxKey{}).(*memTx); !ok {
		return errors.New("activate commission config: no transaction in context")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	previous := r.s.commission
	c := *config
	r.s.commission = &c
	r.s.record(ctx, func() { r.s.commission = previous })
	return nil
}

// recordingPublisher collects published event names.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, key)
	return p.err
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

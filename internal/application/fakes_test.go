package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/audit"
	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/domain/guest"
	"github.com/Rentline-Ops/service-reservation/internal/domain/property"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the database. Do serializes
// transactions and restores the previous state when fn fails.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	reservations map[uuid.UUID]reservation.Snapshot
	days         map[dayKey]calendar.Day
	properties   map[uuid.UUID]*property.Property
	guests       map[uuid.UUID]*guest.Guest
}

type dayKey struct {
	propertyID uuid.UUID
	date       time.Time
}

func newMemStore() *memStore {
	return &memStore{
		reservations: map[uuid.UUID]reservation.Snapshot{},
		days:         map[dayKey]calendar.Day{},
		properties:   map[uuid.UUID]*property.Property{},
		guests:       map[uuid.UUID]*guest.Guest{},
	}
}

func (m *memStore) repositories() Repositories {
	return Repositories{
		Reservations: &memReservationRepo{m},
		Calendar:     &memCalendarRepo{m},
		Properties:   &memPropertyRepo{m},
		Guests:       &memGuestRepo{m},
	}
}

func (m *memStore) Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	savedRes := make(map[uuid.UUID]reservation.Snapshot, len(m.reservations))
	for k, v := range m.reservations {
		savedRes[k] = v
	}
	savedDays := make(map[dayKey]calendar.Day, len(m.days))
	for k, v := range m.days {
		savedDays[k] = v
	}
	m.mu.Unlock()

	if err := fn(ctx, m.repositories()); err != nil {
		m.mu.Lock()
		m.reservations = savedRes
		m.days = savedDays
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) day(propertyID uuid.UUID, date time.Time) calendar.Day {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.days[dayKey{propertyID, calendar.Normalize(date)}]
	if !ok {
		return calendar.Day{PropertyID: propertyID, Date: date, Status: calendar.StatusAvailable}
	}
	return d
}

type memReservationRepo struct{ s *memStore }

func (r *memReservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap, ok := r.s.reservations[id]
	if !ok {
		return nil, domain.NewNotFoundError("Reservation", id.String())
	}
	return reservation.Reconstruct(snap), nil
}

func (r *memReservationRepo) FindByCode(_ context.Context, code string) (*reservation.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, snap := range r.s.reservations {
		if snap.Code == code {
			return reservation.Reconstruct(snap), nil
		}
	}
	return nil, domain.NewNotFoundError("Reservation", code)
}

func (r *memReservationRepo) FindOverlapping(_ context.Context, propertyID uuid.UUID, stay reservation.Stay, excludeID *uuid.UUID) ([]*reservation.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*reservation.Reservation
	for _, snap := range r.s.reservations {
		if snap.PropertyID != propertyID {
			continue
		}
		if excludeID != nil && snap.ID == *excludeID {
			continue
		}
		if (reservation.Stay{CheckIn: snap.CheckIn, CheckOut: snap.CheckOut}).Overlaps(stay) {
			out = append(out, reservation.Reconstruct(snap))
		}
	}
	return out, nil
}

func (r *memReservationRepo) Save(_ context.Context, res *reservation.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reservations[res.ID()]; ok {
		return domain.NewConflictError("reservation already exists")
	}
	r.s.reservations[res.ID()] = res.Snapshot()
	return nil
}

func (r *memReservationRepo) Update(_ context.Context, res *reservation.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.reservations[res.ID()]
	if !ok || stored.Version != res.Version()-1 {
		return domain.NewConflictError("reservation was modified by another request")
	}
	r.s.reservations[res.ID()] = res.Snapshot()
	return nil
}

func (r *memReservationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.reservations[id]; !ok {
		return domain.NewNotFoundError("Reservation", id.String())
	}
	delete(r.s.reservations, id)
	return nil
}

type memCalendarRepo struct{ s *memStore }

func (c *memCalendarRepo) MarkRange(_ context.Context, propertyID, reservationID uuid.UUID, checkIn, checkOut time.Time, status calendar.Status) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	now := time.Now().UTC()
	for _, d := range calendar.Days(checkIn, checkOut) {
		key := dayKey{propertyID, d}
		existing, ok := c.s.days[key]
		switch status {
		case calendar.StatusBooked:
			if ok && existing.Status == calendar.StatusBooked && existing.ReservationID != nil &&
				*existing.ReservationID != reservationID && c.holderBlocks(*existing.ReservationID) {
				return domain.NewConflictError("calendar day already booked")
			}
			id := reservationID
			c.s.days[key] = calendar.Day{PropertyID: propertyID, Date: d, Status: calendar.StatusBooked, ReservationID: &id, UpdatedAt: now}
		case calendar.StatusAvailable:
			if ok && existing.ReservationID != nil && *existing.ReservationID == reservationID {
				c.s.days[key] = calendar.Day{PropertyID: propertyID, Date: d, Status: calendar.StatusAvailable, UpdatedAt: now}
			}
		}
	}
	return nil
}

func (c *memCalendarRepo) holderBlocks(id uuid.UUID) bool {
	snap, ok := c.s.reservations[id]
	return ok && snap.BookingStatus.IsBlocking()
}

func (c *memCalendarRepo) FindRange(_ context.Context, propertyID uuid.UUID, from, to time.Time) ([]calendar.Day, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	var out []calendar.Day
	for _, d := range calendar.Days(from, to) {
		if day, ok := c.s.days[dayKey{propertyID, d}]; ok {
			out = append(out, day)
		}
	}
	return out, nil
}

type memPropertyRepo struct{ s *memStore }

func (p *memPropertyRepo) FindByID(_ context.Context, id uuid.UUID) (*property.Property, error) {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	prop, ok := p.s.properties[id]
	if !ok {
		return nil, domain.NewNotFoundError("Property", id.String())
	}
	return prop, nil
}

func (p *memPropertyRepo) Save(_ context.Context, prop *property.Property) error {
	p.s.mu.Lock()
	defer p.s.mu.Unlock()
	p.s.properties[prop.ID()] = prop
	return nil
}

type memGuestRepo struct{ s *memStore }

func (g *memGuestRepo) FindByID(_ context.Context, id uuid.UUID) (*guest.Guest, error) {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	gst, ok := g.s.guests[id]
	if !ok {
		return nil, domain.NewNotFoundError("Guest", id.String())
	}
	return gst, nil
}

func (g *memGuestRepo) Save(_ context.Context, gst *guest.Guest) error {
	g.s.mu.Lock()
	defer g.s.mu.Unlock()
	g.s.guests[gst.ID()] = gst
	return nil
}

// memQueries answers read-side queries straight from the store.
type memQueries struct{ s *memStore }

func (q *memQueries) matching(propertyID, ownerID *uuid.UUID) []reservation.Snapshot {
	q.s.mu.Lock()
	defer q.s.mu.Unlock()
	var out []reservation.Snapshot
	for _, snap := range q.s.reservations {
		if propertyID != nil && snap.PropertyID != *propertyID {
			continue
		}
		if ownerID != nil {
			prop, ok := q.s.properties[snap.PropertyID]
			if !ok || prop.OwnerID() != *ownerID {
				continue
			}
		}
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.Before(out[j].CheckIn) })
	return out
}

func (q *memQueries) List(_ context.Context, f reservation.ListFilter) ([]reservation.View, int64, error) {
	all := q.matching(f.PropertyID, f.PropertyOwnerID)
	var filtered []reservation.View
	for _, snap := range all {
		if len(f.BookingStatuses) > 0 && !containsStatus(f.BookingStatuses, snap.BookingStatus) {
			continue
		}
		filtered = append(filtered, reservation.View{Snapshot: snap})
	}
	total := int64(len(filtered))
	start := f.Offset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + f.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func containsStatus(list []reservation.BookingStatus, s reservation.BookingStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (q *memQueries) TotalsByStatus(_ context.Context, f reservation.StatsFilter) ([]reservation.StatusTotal, error) {
	byStatus := map[reservation.BookingStatus]*reservation.StatusTotal{}
	var out []reservation.StatusTotal
	for _, snap := range q.matching(f.PropertyID, f.PropertyOwnerID) {
		t, ok := byStatus[snap.BookingStatus]
		if !ok {
			t = &reservation.StatusTotal{Status: snap.BookingStatus}
			byStatus[snap.BookingStatus] = t
		}
		t.Count++
		t.AmountCents += snap.TotalCents
	}
	for _, t := range byStatus {
		out = append(out, *t)
	}
	return out, nil
}

type fakeAuditor struct {
	mu      sync.Mutex
	records []audit.Record
}

func (a *fakeAuditor) Record(_ context.Context, rec audit.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append(a.records, rec)
}

func (a *fakeAuditor) actions() []audit.Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]audit.Action, len(a.records))
	for i, r := range a.records {
		out[i] = r.Action
	}
	return out
}

type publishedEvent struct {
	topic, eventType, subject string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, topic, eventType, subject string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic, eventType, subject})
	return p.err
}

type fakeAuditReader struct {
	records map[uuid.UUID][]audit.Record
}

func (f *fakeAuditReader) ListByEntity(_ context.Context, id uuid.UUID) ([]audit.Record, error) {
	return f.records[id], nil
}

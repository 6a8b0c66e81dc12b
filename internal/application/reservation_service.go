package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/audit"
	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/domain/guest"
	"github.com/Rentline-Ops/service-reservation/internal/domain/property"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/events"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/lock"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// calendarEffect is what a mutation does to the reservation's calendar range.
type calendarEffect int

const (
	calendarNone calendarEffect = iota
	calendarBook
	calendarRelease
)

// ReservationService is the application service orchestrating the reservation lifecycle.
type ReservationService struct {
	uow       UnitOfWork
	repos     Repositories
	queries   reservation.Queries
	pricing   reservation.PricingStrategy
	locker    lock.Locker
	auditor   Auditor
	publisher events.Publisher
	timeout   time.Duration
	logger    *zap.Logger
}

// NewReservationService creates a new ReservationService. repos are used for
// reads outside a transaction. A zero timeout leaves the caller's deadline alone.
func NewReservationService(
	uow UnitOfWork,
	repos Repositories,
	queries reservation.Queries,
	pricing reservation.PricingStrategy,
	locker lock.Locker,
	auditor Auditor,
	publisher events.Publisher,
	timeout time.Duration,
	logger *zap.Logger,
) *ReservationService {
	return &ReservationService{
		uow:       uow,
		repos:     repos,
		queries:   queries,
		pricing:   pricing,
		locker:    locker,
		auditor:   auditor,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
	}
}

// Create books a property for a guest.
func (s *ReservationService) Create(ctx context.Context, actor auth.Actor, req CreateReservationRequest) (*ReservationDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	stay, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}
	guestCount := 1
	if req.GuestCount != nil {
		guestCount = *req.GuestCount
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	unlock, err := lock.LockAll(ctx, s.locker, lock.PropertyKey(req.PropertyID.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to lock property: %w", err)
	}
	defer unlock()

	var (
		res  *reservation.Reservation
		prop *property.Property
		gst  *guest.Guest
	)
	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		if prop, err = repos.Properties.FindByID(ctx, req.PropertyID); err != nil {
			return err
		}
		if err := authorize(actor, prop); err != nil {
			return err
		}
		if gst, err = repos.Guests.FindByID(ctx, req.GuestID); err != nil {
			return err
		}
		if !prop.Accommodates(guestCount) {
			return domain.NewValidationError(fmt.Sprintf("property accommodates at most %d guests", prop.Capacity()))
		}
		if err := s.ensureAvailable(ctx, repos, prop.ID(), stay, nil); err != nil {
			return err
		}

		total, err := s.price(prop, stay)
		if err != nil {
			return err
		}

		res, err = reservation.NewReservation(reservation.NewReservationParams{
			PropertyID:      prop.ID(),
			GuestID:         gst.ID(),
			Stay:            stay,
			GuestCount:      guestCount,
			TotalCents:      total,
			PaidCents:       req.PaidAmount,
			Currency:        prop.Currency(),
			BookingStatus:   reservation.BookingStatus(req.Status),
			PaymentStatus:   reservation.PaymentStatus(req.PaymentStatus),
			OccupancyStatus: reservation.OccupancyStatus(req.GuestStatus),
			Source:          reservation.Source(req.Source),
			ExternalID:      req.ExternalID,
			SpecialRequests: req.SpecialRequests,
		})
		if err != nil {
			return err
		}

		if err := repos.Reservations.Save(ctx, res); err != nil {
			return fmt.Errorf("failed to save reservation: %w", err)
		}
		if res.IsBlocking() {
			return repos.Calendar.MarkRange(ctx, prop.ID(), res.ID(), stay.CheckIn, stay.CheckOut, calendar.StatusBooked)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, actor, audit.ActionCreated, events.ReservationCreated, res.ID(), nil, res)

	result := toReservationDTO(res, prop, gst)
	return &result, nil
}

// Update applies a patch. Changing the dates or the property re-runs the
// conflict check and reprices the stay. A status patch that ends the hold
// releases the calendar range; one that restores it books the range again.
func (s *ReservationService) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, req UpdateReservationRequest) (*ReservationDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	current, err := s.repos.Reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	keys := []string{lock.PropertyKey(current.PropertyID().String())}
	if req.PropertyID != nil {
		keys = append(keys, lock.PropertyKey(req.PropertyID.String()))
	}
	unlock, err := lock.LockAll(ctx, s.locker, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to lock property: %w", err)
	}
	defer unlock()

	var (
		res    *reservation.Reservation
		before reservation.Snapshot
		prop   *property.Property
		gst    *guest.Guest
	)
	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		if res, err = repos.Reservations.FindByID(ctx, id); err != nil {
			return err
		}
		if res.PropertyID() != current.PropertyID() {
			return domain.NewConflictError("reservation was moved concurrently, retry the update")
		}
		before = res.Snapshot()
		oldStay, oldProperty, wasBlocking := res.Stay(), res.PropertyID(), res.IsBlocking()

		if prop, err = repos.Properties.FindByID(ctx, res.PropertyID()); err != nil {
			return err
		}
		if err := authorize(actor, prop); err != nil {
			return err
		}

		if req.reschedules() {
			if prop, err = s.reschedule(ctx, actor, repos, res, prop, req); err != nil {
				return err
			}
		}

		details := reservation.Details{
			GuestID:         req.GuestID,
			GuestCount:      req.GuestCount,
			ExternalID:      req.ExternalID,
			SpecialRequests: req.SpecialRequests,
		}
		if req.Source != nil {
			src := reservation.Source(*req.Source)
			details.Source = &src
		}
		if err := res.ApplyDetails(details); err != nil {
			return err
		}
		if gst, err = repos.Guests.FindByID(ctx, res.GuestID()); err != nil {
			return err
		}
		if !prop.Accommodates(res.GuestCount()) {
			return domain.NewValidationError(fmt.Sprintf("property accommodates at most %d guests", prop.Capacity()))
		}

		if req.PaidAmount != nil {
			if err := res.SetPaid(*req.PaidAmount, req.PaymentStatus == nil); err != nil {
				return err
			}
		}
		if req.Status != nil || req.PaymentStatus != nil || req.GuestStatus != nil {
			b, p, o := statusPointers(req.Status, req.PaymentStatus, req.GuestStatus)
			if err := res.OverwriteStatuses(b, p, o); err != nil {
				return err
			}
		}

		res.IncrementVersion()
		if err := repos.Reservations.Update(ctx, res); err != nil {
			return err
		}

		// A move or a change of blocking status re-syncs the calendar.
		moved := res.PropertyID() != oldProperty || !res.Stay().Equal(oldStay)
		isBlocking := res.IsBlocking()
		if wasBlocking && (moved || !isBlocking) {
			if err := repos.Calendar.MarkRange(ctx, oldProperty, res.ID(), oldStay.CheckIn, oldStay.CheckOut, calendar.StatusAvailable); err != nil {
				return err
			}
		}
		if isBlocking && (moved || !wasBlocking) {
			if !wasBlocking {
				if err := s.ensureAvailable(ctx, repos, res.PropertyID(), res.Stay(), &id); err != nil {
					return err
				}
			}
			return repos.Calendar.MarkRange(ctx, res.PropertyID(), res.ID(), res.Stay().CheckIn, res.Stay().CheckOut, calendar.StatusBooked)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, actor, audit.ActionUpdated, events.ReservationUpdated, res.ID(), before, res)

	result := toReservationDTO(res, prop, gst)
	return &result, nil
}

// reschedule moves res to the patched property and dates and reprices it.
// It returns the property the reservation now belongs to.
func (s *ReservationService) reschedule(
	ctx context.Context,
	actor auth.Actor,
	repos Repositories,
	res *reservation.Reservation,
	prop *property.Property,
	req UpdateReservationRequest,
) (*property.Property, error) {
	target := prop
	if req.PropertyID != nil && *req.PropertyID != prop.ID() {
		var err error
		if target, err = repos.Properties.FindByID(ctx, *req.PropertyID); err != nil {
			return nil, err
		}
		if err := authorize(actor, target); err != nil {
			return nil, err
		}
	}

	checkIn := res.Stay().CheckIn.Format(calendar.DateLayout)
	checkOut := res.Stay().CheckOut.Format(calendar.DateLayout)
	if req.CheckIn != nil {
		checkIn = *req.CheckIn
	}
	if req.CheckOut != nil {
		checkOut = *req.CheckOut
	}
	stay, err := parseStay(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	if res.IsBlocking() {
		id := res.ID()
		if err := s.ensureAvailable(ctx, repos, target.ID(), stay, &id); err != nil {
			return nil, err
		}
	}
	total, err := s.price(target, stay)
	if err != nil {
		return nil, err
	}
	if err := res.Reschedule(target.ID(), stay, total, req.PaidAmount); err != nil {
		return nil, err
	}
	return target, nil
}

// Delete removes a reservation and releases its calendar days.
func (s *ReservationService) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	current, err := s.repos.Reservations.FindByID(ctx, id)
	if err != nil {
		return err
	}
	unlock, err := lock.LockAll(ctx, s.locker, lock.PropertyKey(current.PropertyID().String()))
	if err != nil {
		return fmt.Errorf("failed to lock property: %w", err)
	}
	defer unlock()

	var before reservation.Snapshot
	err = s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		res, err := repos.Reservations.FindByID(ctx, id)
		if err != nil {
			return err
		}
		prop, err := repos.Properties.FindByID(ctx, res.PropertyID())
		if err != nil {
			return err
		}
		if err := authorize(actor, prop); err != nil {
			return err
		}
		before = res.Snapshot()

		stay := res.Stay()
		if err := repos.Calendar.MarkRange(ctx, res.PropertyID(), res.ID(), stay.CheckIn, stay.CheckOut, calendar.StatusAvailable); err != nil {
			return err
		}
		return repos.Reservations.Delete(ctx, res.ID())
	})
	if err != nil {
		return err
	}

	s.record(ctx, actor, audit.ActionDeleted, id, before, nil)
	s.publish(ctx, events.ReservationDeleted, actor, before)
	return nil
}

// UpdateStatus overwrites any subset of the three status axes. No transition
// or cross-axis checks apply and the calendar is left untouched.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor auth.Actor, id uuid.UUID, req UpdateStatusRequest) (*ReservationDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	b, p, o := statusPointers(req.Status, req.PaymentStatus, req.GuestStatus)
	return s.transition(ctx, actor, id, audit.ActionStatusChanged, events.ReservationStatusChanged, calendarNone,
		func(r *reservation.Reservation) error { return r.OverwriteStatuses(b, p, o) })
}

// Confirm moves a pending reservation to confirmed and re-asserts its calendar hold.
func (s *ReservationService) Confirm(ctx context.Context, actor auth.Actor, id uuid.UUID) (*ReservationDTO, error) {
	return s.transition(ctx, actor, id, audit.ActionConfirmed, events.ReservationConfirmed, calendarBook,
		(*reservation.Reservation).Confirm)
}

// Cancel cancels a non-terminal reservation and releases its calendar days.
func (s *ReservationService) Cancel(ctx context.Context, actor auth.Actor, id uuid.UUID, req CancelReservationRequest) (*ReservationDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, audit.ActionCancelled, events.ReservationCancelled, calendarRelease,
		func(r *reservation.Reservation) error { return r.Cancel(req.Reason) })
}

// CheckIn marks the guest of a confirmed reservation as arrived.
func (s *ReservationService) CheckIn(ctx context.Context, actor auth.Actor, id uuid.UUID) (*ReservationDTO, error) {
	return s.transition(ctx, actor, id, audit.ActionCheckedIn, events.ReservationCheckedIn, calendarNone,
		(*reservation.Reservation).CheckIn)
}

// CheckOut completes a checked-in stay and releases its calendar days.
func (s *ReservationService) CheckOut(ctx context.Context, actor auth.Actor, id uuid.UUID) (*ReservationDTO, error) {
	return s.transition(ctx, actor, id, audit.ActionCheckedOut, events.ReservationCheckedOut, calendarRelease,
		(*reservation.Reservation).CheckOut)
}

// MarkNoShow records a guest who never arrived and releases the calendar days.
func (s *ReservationService) MarkNoShow(ctx context.Context, actor auth.Actor, id uuid.UUID) (*ReservationDTO, error) {
	return s.transition(ctx, actor, id, audit.ActionNoShow, events.ReservationNoShow, calendarRelease,
		(*reservation.Reservation).MarkNoShow)
}

// RecordPayment adds a payment to the paid amount.
func (s *ReservationService) RecordPayment(ctx context.Context, actor auth.Actor, id uuid.UUID, req RecordPaymentRequest) (*ReservationDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	return s.transition(ctx, actor, id, audit.ActionPaymentRecorded, events.ReservationPaymentAdded, calendarNone,
		func(r *reservation.Reservation) error { return r.RecordPayment(req.Amount) })
}

// ApplyCapturedPayment records a payment reported by the payment service.
func (s *ReservationService) ApplyCapturedPayment(ctx context.Context, reservationID uuid.UUID, amountCents int64, paymentID string) error {
	_, err := s.RecordPayment(ctx, auth.System(), reservationID, RecordPaymentRequest{Amount: amountCents, Reference: paymentID})
	return err
}

// transition loads a reservation, applies fn, persists it with optimistic
// locking and applies the calendar effect, all in one transaction.
func (s *ReservationService) transition(
	ctx context.Context,
	actor auth.Actor,
	id uuid.UUID,
	action audit.Action,
	eventType string,
	effect calendarEffect,
	fn func(*reservation.Reservation) error,
) (*ReservationDTO, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if effect != calendarNone {
		current, err := s.repos.Reservations.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		unlock, err := lock.LockAll(ctx, s.locker, lock.PropertyKey(current.PropertyID().String()))
		if err != nil {
			return nil, fmt.Errorf("failed to lock property: %w", err)
		}
		defer unlock()
	}

	var (
		res    *reservation.Reservation
		before reservation.Snapshot
		prop   *property.Property
		gst    *guest.Guest
	)
	err := s.uow.Do(ctx, func(ctx context.Context, repos Repositories) error {
		var err error
		if res, err = repos.Reservations.FindByID(ctx, id); err != nil {
			return err
		}
		if prop, err = repos.Properties.FindByID(ctx, res.PropertyID()); err != nil {
			return err
		}
		if err := authorize(actor, prop); err != nil {
			return err
		}
		before = res.Snapshot()

		if err := fn(res); err != nil {
			return err
		}
		res.IncrementVersion()
		if err := repos.Reservations.Update(ctx, res); err != nil {
			return err
		}

		stay := res.Stay()
		switch effect {
		case calendarBook:
			if err := s.ensureAvailable(ctx, repos, res.PropertyID(), stay, &id); err != nil {
				return err
			}
			if err := repos.Calendar.MarkRange(ctx, res.PropertyID(), res.ID(), stay.CheckIn, stay.CheckOut, calendar.StatusBooked); err != nil {
				return err
			}
		case calendarRelease:
			if err := repos.Calendar.MarkRange(ctx, res.PropertyID(), res.ID(), stay.CheckIn, stay.CheckOut, calendar.StatusAvailable); err != nil {
				return err
			}
		}

		gst, err = repos.Guests.FindByID(ctx, res.GuestID())
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, actor, action, eventType, res.ID(), before, res)

	result := toReservationDTO(res, prop, gst)
	return &result, nil
}

// Get retrieves a single reservation.
func (s *ReservationService) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*ReservationDTO, error) {
	res, err := s.repos.Reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	prop, err := s.repos.Properties.FindByID(ctx, res.PropertyID())
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, prop); err != nil {
		return nil, err
	}
	gst, err := s.repos.Guests.FindByID(ctx, res.GuestID())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	result := toReservationDTO(res, prop, gst)
	return &result, nil
}

// List returns one page of reservations. Owner-scoped actors only see their properties.
func (s *ReservationService) List(ctx context.Context, actor auth.Actor, filter reservation.ListFilter) (*domain.PaginatedResult[ReservationDTO], error) {
	filter.Normalize()
	if actor.IsOwnerScoped() {
		owner := actor.ID
		filter.PropertyOwnerID = &owner
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	views, total, err := s.queries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	dtos := make([]ReservationDTO, len(views))
	for i, v := range views {
		dtos[i] = viewToDTO(v)
	}
	result := domain.NewPaginatedResult(dtos, total, filter.Page, filter.Limit)
	return &result, nil
}

// GetCalendar returns one entry per day in [from, to) for a property.
// Days never booked are reported as available.
func (s *ReservationService) GetCalendar(ctx context.Context, actor auth.Actor, propertyID uuid.UUID, from, to string) ([]CalendarDayDTO, error) {
	start, err := calendar.ParseDate(from)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	end, err := calendar.ParseDate(to)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if !end.After(start) {
		return nil, domain.NewValidationError("calendar end must be after its start")
	}
	if end.Sub(start) > maxCalendarSpan {
		return nil, domain.NewValidationError("calendar range must not exceed 366 days")
	}

	prop, err := s.repos.Properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, prop); err != nil {
		return nil, err
	}
	stored, err := s.repos.Calendar.FindRange(ctx, propertyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	return toCalendarDTO(calendar.Fill(propertyID, start, end, stored)), nil
}

const maxCalendarSpan = 366 * 24 * time.Hour

// --- Helpers ---

func (s *ReservationService) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *ReservationService) ensureAvailable(ctx context.Context, repos Repositories, propertyID uuid.UUID, stay reservation.Stay, excludeID *uuid.UUID) error {
	conflict, err := reservation.NewConflictChecker(repos.Reservations).HasConflict(ctx, propertyID, stay, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check availability: %w", err)
	}
	if conflict {
		return domain.NewConflictError(fmt.Sprintf("property is already booked between %s and %s",
			stay.CheckIn.Format(calendar.DateLayout), stay.CheckOut.Format(calendar.DateLayout)))
	}
	return nil
}

func (s *ReservationService) price(prop *property.Property, stay reservation.Stay) (int64, error) {
	total, err := s.pricing.Calculate(reservation.PricingParams{
		NightlyRateCents: prop.NightlyRateCents(),
		Stay:             stay,
	})
	if err != nil {
		return 0, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}
	return total, nil
}

func (s *ReservationService) afterCommit(ctx context.Context, actor auth.Actor, action audit.Action, eventType string, id uuid.UUID, before interface{}, res *reservation.Reservation) {
	snap := res.Snapshot()
	s.record(ctx, actor, action, id, before, snap)
	s.publish(ctx, eventType, actor, snap)
}

func (s *ReservationService) record(ctx context.Context, actor auth.Actor, action audit.Action, id uuid.UUID, before, after interface{}) {
	rec, err := audit.New(actor.ID, action, id, before, after)
	if err != nil {
		s.logger.Error("failed to build audit record",
			zap.String("action", string(action)),
			zap.String("reservation_id", id.String()),
			zap.Error(err),
		)
		return
	}
	s.auditor.Record(ctx, rec)
}

func (s *ReservationService) publish(ctx context.Context, eventType string, actor auth.Actor, snap reservation.Snapshot) {
	evt := events.ReservationEvent{
		ReservationID:   snap.ID,
		Code:            snap.Code,
		PropertyID:      snap.PropertyID,
		GuestID:         snap.GuestID,
		CheckIn:         snap.CheckIn.Format(calendar.DateLayout),
		CheckOut:        snap.CheckOut.Format(calendar.DateLayout),
		BookingStatus:   string(snap.BookingStatus),
		PaymentStatus:   string(snap.PaymentStatus),
		OccupancyStatus: string(snap.OccupancyStatus),
		TotalCents:      snap.TotalCents,
		PaidCents:       snap.PaidCents,
		Currency:        snap.Currency,
		ActorID:         actor.ID,
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, events.TopicReservationEvents, eventType, snap.ID.String(), evt); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", events.TopicReservationEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

func authorize(actor auth.Actor, prop *property.Property) error {
	if actor.IsOwnerScoped() && !prop.IsOwnedBy(actor.ID) {
		return domain.NewForbiddenError("property belongs to another owner")
	}
	return nil
}

func parseStay(checkIn, checkOut string) (reservation.Stay, error) {
	in, err := calendar.ParseDate(checkIn)
	if err != nil {
		return reservation.Stay{}, domain.NewValidationError(err.Error())
	}
	out, err := calendar.ParseDate(checkOut)
	if err != nil {
		return reservation.Stay{}, domain.NewValidationError(err.Error())
	}
	return reservation.NewStay(in, out)
}

func statusPointers(b, p, o *string) (*reservation.BookingStatus, *reservation.PaymentStatus, *reservation.OccupancyStatus) {
	var (
		bs  *reservation.BookingStatus
		ps  *reservation.PaymentStatus
		occ *reservation.OccupancyStatus
	)
	if b != nil {
		v := reservation.BookingStatus(*b)
		bs = &v
	}
	if p != nil {
		v := reservation.PaymentStatus(*p)
		ps = &v
	}
	if o != nil {
		v := reservation.OccupancyStatus(*o)
		occ = &v
	}
	return bs, ps, occ
}

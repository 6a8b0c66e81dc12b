package reservation

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
)

const codeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Reservation is the aggregate root for the reservation domain.
type Reservation struct {
	id         uuid.UUID
	code       string
	propertyID uuid.UUID
	guestID    uuid.UUID
	stay       Stay
	guestCount int

	totalCents int64
	paidCents  int64
	currency   string

	bookingStatus   BookingStatus
	paymentStatus   PaymentStatus
	occupancyStatus OccupancyStatus

	source          Source
	externalID      string
	specialRequests string

	cancelledAt  *time.Time
	cancelReason string
	checkedInAt  *time.Time
	checkedOutAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewReservationParams carries the inputs of NewReservation. Empty statuses
// and source fall back to PENDING, a payment status derived from the amounts,
// UPCOMING and DIRECT.
type NewReservationParams struct {
	PropertyID      uuid.UUID
	GuestID         uuid.UUID
	Stay            Stay
	GuestCount      int
	TotalCents      int64
	PaidCents       int64
	Currency        string
	BookingStatus   BookingStatus
	PaymentStatus   PaymentStatus
	OccupancyStatus OccupancyStatus
	Source          Source
	ExternalID      string
	SpecialRequests string
}

// Snapshot is the flat, serializable state of a reservation. Repositories
// rebuild aggregates from it and the audit trail stores it as before/after.
type Snapshot struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	PropertyID      uuid.UUID       `json:"property_id"`
	GuestID         uuid.UUID       `json:"guest_id"`
	CheckIn         time.Time       `json:"check_in"`
	CheckOut        time.Time       `json:"check_out"`
	GuestCount      int             `json:"guest_count"`
	TotalCents      int64           `json:"total_cents"`
	PaidCents       int64           `json:"paid_cents"`
	Currency        string          `json:"currency"`
	BookingStatus   BookingStatus   `json:"booking_status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	OccupancyStatus OccupancyStatus `json:"occupancy_status"`
	Source          Source          `json:"source"`
	ExternalID      string          `json:"external_id,omitempty"`
	SpecialRequests string          `json:"special_requests,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	CheckedInAt     *time.Time      `json:"checked_in_at,omitempty"`
	CheckedOutAt    *time.Time      `json:"checked_out_at,omitempty"`
	Version         int64           `json:"version"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// generateCode creates a reservation code in the format "RS-XXXXXX".
func generateCode() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate reservation code: %w", err)
		}
		result[i] = codeChars[n.Int64()]
	}
	return "RS-" + string(result), nil
}

// NewReservation creates a new Reservation aggregate.
func NewReservation(p NewReservationParams) (*Reservation, error) {
	if p.PropertyID == uuid.Nil {
		return nil, domain.NewValidationError("property ID is required")
	}
	if p.GuestID == uuid.Nil {
		return nil, domain.NewValidationError("guest ID is required")
	}
	if p.Stay.Nights() <= 0 {
		return nil, domain.NewValidationError("check-out must be after check-in")
	}
	if p.GuestCount < 1 {
		return nil, domain.NewValidationError("guest count must be at least 1")
	}
	if err := validateAmounts(p.TotalCents, p.PaidCents); err != nil {
		return nil, err
	}

	if p.BookingStatus == "" {
		p.BookingStatus = StatusPending
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = DerivePaymentStatus(p.TotalCents, p.PaidCents)
	}
	if p.OccupancyStatus == "" {
		p.OccupancyStatus = OccupancyUpcoming
	}
	if p.Source == "" {
		p.Source = SourceDirect
	}
	if err := validateStatuses(p.BookingStatus, p.PaymentStatus, p.OccupancyStatus); err != nil {
		return nil, err
	}
	if !p.Source.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid source: %s", p.Source))
	}
	if p.Currency == "" {
		p.Currency = domain.DefaultCurrency
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Reservation{
		id:              uuid.New(),
		code:            code,
		propertyID:      p.PropertyID,
		guestID:         p.GuestID,
		stay:            p.Stay,
		guestCount:      p.GuestCount,
		totalCents:      p.TotalCents,
		paidCents:       p.PaidCents,
		currency:        p.Currency,
		bookingStatus:   p.BookingStatus,
		paymentStatus:   p.PaymentStatus,
		occupancyStatus: p.OccupancyStatus,
		source:          p.Source,
		externalID:      p.ExternalID,
		specialRequests: p.SpecialRequests,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Reservation from persistence data (no validation).
func Reconstruct(s Snapshot) *Reservation {
	return &Reservation{
		id:              s.ID,
		code:            s.Code,
		propertyID:      s.PropertyID,
		guestID:         s.GuestID,
		stay:            Stay{CheckIn: s.CheckIn, CheckOut: s.CheckOut},
		guestCount:      s.GuestCount,
		totalCents:      s.TotalCents,
		paidCents:       s.PaidCents,
		currency:        s.Currency,
		bookingStatus:   s.BookingStatus,
		paymentStatus:   s.PaymentStatus,
		occupancyStatus: s.OccupancyStatus,
		source:          s.Source,
		externalID:      s.ExternalID,
		specialRequests: s.SpecialRequests,
		cancelledAt:     s.CancelledAt,
		cancelReason:    s.CancelReason,
		checkedInAt:     s.CheckedInAt,
		checkedOutAt:    s.CheckedOutAt,
		version:         s.Version,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}
}

// Snapshot returns the current state as a flat value.
func (r *Reservation) Snapshot() Snapshot {
	return Snapshot{
		ID:              r.id,
		Code:            r.code,
		PropertyID:      r.propertyID,
		GuestID:         r.guestID,
		CheckIn:         r.stay.CheckIn,
		CheckOut:        r.stay.CheckOut,
		GuestCount:      r.guestCount,
		TotalCents:      r.totalCents,
		PaidCents:       r.paidCents,
		Currency:        r.currency,
		BookingStatus:   r.bookingStatus,
		PaymentStatus:   r.paymentStatus,
		OccupancyStatus: r.occupancyStatus,
		Source:          r.source,
		ExternalID:      r.externalID,
		SpecialRequests: r.specialRequests,
		CancelledAt:     r.cancelledAt,
		CancelReason:    r.cancelReason,
		CheckedInAt:     r.checkedInAt,
		CheckedOutAt:    r.checkedOutAt,
		Version:         r.version,
		CreatedAt:       r.createdAt,
		UpdatedAt:       r.updatedAt,
	}
}

func validateAmounts(totalCents, paidCents int64) error {
	if totalCents < 0 {
		return domain.NewValidationError("total amount cannot be negative")
	}
	if paidCents < 0 {
		return domain.NewValidationError("paid amount cannot be negative")
	}
	if paidCents > totalCents {
		return domain.NewValidationError("paid amount cannot exceed total amount")
	}
	return nil
}

func validateStatuses(b BookingStatus, p PaymentStatus, o OccupancyStatus) error {
	if !b.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", b))
	}
	if !p.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", p))
	}
	if !o.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid occupancy status: %s", o))
	}
	return nil
}

// --- Getters ---

// ID returns the reservation's unique identifier.
func (r *Reservation) ID() uuid.UUID { return r.id }

// Code returns the human-readable reservation code.
func (r *Reservation) Code() string { return r.code }

// PropertyID returns the reserved property.
func (r *Reservation) PropertyID() uuid.UUID { return r.propertyID }

// GuestID returns the booking guest.
func (r *Reservation) GuestID() uuid.UUID { return r.guestID }

// Stay returns the reserved date range.
func (r *Reservation) Stay() Stay { return r.stay }

// GuestCount returns the number of guests.
func (r *Reservation) GuestCount() int { return r.guestCount }

// TotalCents returns the total price in cents.
func (r *Reservation) TotalCents() int64 { return r.totalCents }

// PaidCents returns the amount paid so far in cents.
func (r *Reservation) PaidCents() int64 { return r.paidCents }

// OutstandingCents returns the unpaid remainder of the total.
func (r *Reservation) OutstandingCents() int64 { return r.totalCents - r.paidCents }

// Nights returns the stay length.
func (r *Reservation) Nights() int { return r.stay.Nights() }

// Currency returns the currency code.
func (r *Reservation) Currency() string { return r.currency }

// BookingStatus returns the current booking status.
func (r *Reservation) BookingStatus() BookingStatus { return r.bookingStatus }

// PaymentStatus returns the current payment status.
func (r *Reservation) PaymentStatus() PaymentStatus { return r.paymentStatus }

// OccupancyStatus returns the current occupancy status.
func (r *Reservation) OccupancyStatus() OccupancyStatus { return r.occupancyStatus }

// Source returns the booking channel.
func (r *Reservation) Source() Source { return r.source }

// ExternalID returns the channel's reference for this reservation.
func (r *Reservation) ExternalID() string { return r.externalID }

// SpecialRequests returns free-text guest requests.
func (r *Reservation) SpecialRequests() string { return r.specialRequests }

// CancelledAt returns the time the reservation was cancelled.
func (r *Reservation) CancelledAt() *time.Time { return r.cancelledAt }

// CancelReason returns the cancellation reason.
func (r *Reservation) CancelReason() string { return r.cancelReason }

// CheckedInAt returns the time the guest checked in.
func (r *Reservation) CheckedInAt() *time.Time { return r.checkedInAt }

// CheckedOutAt returns the time the guest checked out.
func (r *Reservation) CheckedOutAt() *time.Time { return r.checkedOutAt }

// Version returns the entity version for optimistic locking.
func (r *Reservation) Version() int64 { return r.version }

// CreatedAt returns the creation timestamp.
func (r *Reservation) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Reservation) UpdatedAt() time.Time { return r.updatedAt }

// IsBlocking reports whether the reservation currently holds its dates.
func (r *Reservation) IsBlocking() bool { return r.bookingStatus.IsBlocking() }

// --- Behavior ---

// Reschedule moves the reservation to a property and stay with a freshly
// computed total. A non-nil paidCents replaces the paid amount in the same
// step; the resulting paid amount must fit within the new total.
func (r *Reservation) Reschedule(propertyID uuid.UUID, stay Stay, totalCents int64, paidCents *int64) error {
	if propertyID == uuid.Nil {
		return domain.NewValidationError("property ID is required")
	}
	if stay.Nights() <= 0 {
		return domain.NewValidationError("check-out must be after check-in")
	}
	paid := r.paidCents
	if paidCents != nil {
		paid = *paidCents
	}
	if err := validateAmounts(totalCents, paid); err != nil {
		return err
	}
	r.propertyID = propertyID
	r.stay = stay
	r.totalCents = totalCents
	r.paidCents = paid
	r.updatedAt = time.Now().UTC()
	return nil
}

// Details holds the optional non-scheduling fields of an update.
type Details struct {
	GuestID         *uuid.UUID
	GuestCount      *int
	Source          *Source
	ExternalID      *string
	SpecialRequests *string
}

// ApplyDetails overwrites every supplied field.
func (r *Reservation) ApplyDetails(d Details) error {
	if d.GuestID != nil && *d.GuestID == uuid.Nil {
		return domain.NewValidationError("guest ID is required")
	}
	if d.GuestCount != nil && *d.GuestCount < 1 {
		return domain.NewValidationError("guest count must be at least 1")
	}
	if d.Source != nil && !d.Source.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid source: %s", *d.Source))
	}
	if d.GuestID != nil {
		r.guestID = *d.GuestID
	}
	if d.GuestCount != nil {
		r.guestCount = *d.GuestCount
	}
	if d.Source != nil {
		r.source = *d.Source
	}
	if d.ExternalID != nil {
		r.externalID = *d.ExternalID
	}
	if d.SpecialRequests != nil {
		r.specialRequests = *d.SpecialRequests
	}
	r.updatedAt = time.Now().UTC()
	return nil
}

// SetPaid overwrites the paid amount. When derive is true the payment status
// follows the new amount.
func (r *Reservation) SetPaid(paidCents int64, derive bool) error {
	if err := validateAmounts(r.totalCents, paidCents); err != nil {
		return err
	}
	r.paidCents = paidCents
	if derive {
		r.paymentStatus = DerivePaymentStatus(r.totalCents, paidCents)
	}
	r.updatedAt = time.Now().UTC()
	return nil
}

// RecordPayment adds a captured payment to the paid amount.
func (r *Reservation) RecordPayment(amountCents int64) error {
	if amountCents <= 0 {
		return domain.NewValidationError("payment amount must be positive")
	}
	if r.bookingStatus == StatusCancelled {
		return domain.NewInvalidStateError(string(r.bookingStatus), "PAYMENT")
	}
	return r.SetPaid(r.paidCents+amountCents, true)
}

// OverwriteStatuses sets any supplied status axis without transition checks.
func (r *Reservation) OverwriteStatuses(b *BookingStatus, p *PaymentStatus, o *OccupancyStatus) error {
	if b == nil && p == nil && o == nil {
		return domain.NewValidationError("at least one status is required")
	}
	if b != nil && !b.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid booking status: %s", *b))
	}
	if p != nil && !p.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid payment status: %s", *p))
	}
	if o != nil && !o.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid occupancy status: %s", *o))
	}
	if b != nil {
		r.bookingStatus = *b
	}
	if p != nil {
		r.paymentStatus = *p
	}
	if o != nil {
		r.occupancyStatus = *o
	}
	r.updatedAt = time.Now().UTC()
	return nil
}

// Confirm transitions the reservation from pending to confirmed.
func (r *Reservation) Confirm() error {
	if !r.bookingStatus.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(r.bookingStatus), string(StatusConfirmed))
	}
	r.bookingStatus = StatusConfirmed
	r.updatedAt = time.Now().UTC()
	return nil
}

// Cancel transitions the reservation to cancelled if it is not in a terminal state.
func (r *Reservation) Cancel(reason string) error {
	if !r.bookingStatus.CanBeCancelled() {
		return domain.NewInvalidStateError(string(r.bookingStatus), string(StatusCancelled))
	}
	now := time.Now().UTC()
	r.bookingStatus = StatusCancelled
	r.cancelReason = reason
	r.cancelledAt = &now
	r.updatedAt = now
	return nil
}

// CheckIn marks the guest as arrived. Only confirmed reservations can check in.
func (r *Reservation) CheckIn() error {
	if r.bookingStatus != StatusConfirmed {
		return domain.NewInvalidStateError(string(r.bookingStatus), string(OccupancyCheckedIn))
	}
	now := time.Now().UTC()
	r.occupancyStatus = OccupancyCheckedIn
	r.checkedInAt = &now
	r.updatedAt = now
	return nil
}

// CheckOut marks the guest as departed and completes the reservation.
func (r *Reservation) CheckOut() error {
	if r.occupancyStatus != OccupancyCheckedIn {
		return domain.NewInvalidStateError(string(r.occupancyStatus), string(OccupancyCheckedOut))
	}
	now := time.Now().UTC()
	r.occupancyStatus = OccupancyCheckedOut
	r.bookingStatus = StatusCompleted
	r.checkedOutAt = &now
	r.updatedAt = now
	return nil
}

// MarkNoShow records that the guest never arrived.
func (r *Reservation) MarkNoShow() error {
	if r.bookingStatus.IsTerminal() {
		return domain.NewInvalidStateError(string(r.bookingStatus), string(StatusNoShow))
	}
	r.bookingStatus = StatusNoShow
	r.occupancyStatus = OccupancyNoShow
	r.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (r *Reservation) IncrementVersion() {
	r.version++
	r.updatedAt = time.Now().UTC()
}

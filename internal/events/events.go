// Package events defines the reservation service's event contracts and the
// broker adapters that carry them.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Source is the CloudEvent source of everything this service publishes.
const Source = "service-reservation"

// Topics.
const (
	TopicReservationEvents = "reservation.events"
	TopicPaymentEvents     = "payment.events"
)

// Reservation lifecycle event types.
const (
	ReservationCreated       = "reservation.created"
	ReservationUpdated       = "reservation.updated"
	ReservationDeleted       = "reservation.deleted"
	ReservationStatusChanged = "reservation.status_changed"
	ReservationConfirmed     = "reservation.confirmed"
	ReservationCancelled     = "reservation.cancelled"
	ReservationCheckedIn     = "reservation.checked_in"
	ReservationCheckedOut    = "reservation.checked_out"
	ReservationNoShow        = "reservation.no_show"
	ReservationPaymentAdded  = "reservation.payment_recorded"
)

// Payment event types consumed from TopicPaymentEvents.
const (
	PaymentCaptured = "payment.captured"
)

// ReservationEvent is the payload of every lifecycle event.
type ReservationEvent struct {
	ReservationID   uuid.UUID `json:"reservation_id"`
	Code            string    `json:"code"`
	PropertyID      uuid.UUID `json:"property_id"`
	GuestID         uuid.UUID `json:"guest_id"`
	CheckIn         string    `json:"check_in"`
	CheckOut        string    `json:"check_out"`
	BookingStatus   string    `json:"booking_status"`
	PaymentStatus   string    `json:"payment_status"`
	OccupancyStatus string    `json:"occupancy_status"`
	TotalCents      int64     `json:"total_cents"`
	PaidCents       int64     `json:"paid_cents"`
	Currency        string    `json:"currency"`
	ActorID         uuid.UUID `json:"actor_id"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// PaymentCapturedEvent is published by the payment service when funds settle.
type PaymentCapturedEvent struct {
	PaymentID     string    `json:"payment_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	AmountCents   int64     `json:"amount_cents"`
	Currency      string    `json:"currency"`
	CapturedAt    time.Time `json:"captured_at"`
}

package reservation

import "fmt"

// BookingStatus is the commercial state of a reservation.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusNoShow    BookingStatus = "NO_SHOW"
)

// validTransitions defines the guarded booking transitions. UpdateStatus
// overwrites statuses without consulting it.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusCompleted: {},
	StatusCancelled: {},
	StatusNoShow:    {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if a transition from this status to the target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions are possible from this status.
func (s BookingStatus) IsTerminal() bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return true
	}
	return len(allowed) == 0
}

// CanBeCancelled returns true if the reservation can be cancelled from this status.
func (s BookingStatus) CanBeCancelled() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// IsBlocking reports whether a reservation in this status holds its dates.
// Only pending and confirmed reservations do; every terminal status has
// released its calendar range.
func (s BookingStatus) IsBlocking() bool {
	return s == StatusPending || s == StatusConfirmed
}

// String returns the string representation of the status.
func (s BookingStatus) String() string {
	return string(s)
}

// ParseBookingStatus converts a string to a BookingStatus, returning an error if invalid.
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

// BlockingStatuses lists every booking status that holds dates.
func BlockingStatuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed}
}

// PaymentStatus tracks settlement of the reservation total.
type PaymentStatus string

const (
	PaymentUnpaid        PaymentStatus = "UNPAID"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentRefunded      PaymentStatus = "REFUNDED"
)

// IsValid returns true if the payment status is recognized.
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentUnpaid, PaymentPartiallyPaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// ParsePaymentStatus converts a string to a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	p := PaymentStatus(s)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid payment status: %s", s)
	}
	return p, nil
}

// DerivePaymentStatus returns the payment status implied by the amounts.
func DerivePaymentStatus(totalCents, paidCents int64) PaymentStatus {
	switch {
	case paidCents <= 0:
		return PaymentUnpaid
	case paidCents >= totalCents:
		return PaymentPaid
	default:
		return PaymentPartiallyPaid
	}
}

// OccupancyStatus tracks the guest's physical presence.
type OccupancyStatus string

const (
	OccupancyUpcoming   OccupancyStatus = "UPCOMING"
	OccupancyCheckedIn  OccupancyStatus = "CHECKED_IN"
	OccupancyCheckedOut OccupancyStatus = "CHECKED_OUT"
	OccupancyNoShow     OccupancyStatus = "NO_SHOW"
)

// IsValid returns true if the occupancy status is recognized.
func (o OccupancyStatus) IsValid() bool {
	switch o {
	case OccupancyUpcoming, OccupancyCheckedIn, OccupancyCheckedOut, OccupancyNoShow:
		return true
	}
	return false
}

// ParseOccupancyStatus converts a string to an OccupancyStatus.
func ParseOccupancyStatus(s string) (OccupancyStatus, error) {
	o := OccupancyStatus(s)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid occupancy status: %s", s)
	}
	return o, nil
}

// Source is the booking channel a reservation came from.
type Source string

const (
	SourceDirect     Source = "DIRECT"
	SourceAirbnb     Source = "AIRBNB"
	SourceBookingCom Source = "BOOKING_COM"
	SourceVrbo       Source = "VRBO"
	SourceExpedia    Source = "EXPEDIA"
	SourceOther      Source = "OTHER"
)

// IsValid returns true if the source is recognized.
func (s Source) IsValid() bool {
	switch s {
	case SourceDirect, SourceAirbnb, SourceBookingCom, SourceVrbo, SourceExpedia, SourceOther:
		return true
	}
	return false
}

package application

import (
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/domain/guest"
	"github.com/Rentline-Ops/service-reservation/internal/domain/property"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/google/uuid"
)

// Amounts are integer minor units (cents) of the reservation currency.

// CreateReservationRequest holds the data needed to create a reservation.
type CreateReservationRequest struct {
	PropertyID      uuid.UUID `json:"propertyId" validate:"required"`
	GuestID         uuid.UUID `json:"guestId" validate:"required"`
	CheckIn         string    `json:"checkIn" validate:"required,datetime=2006-01-02"`
	CheckOut        string    `json:"checkOut" validate:"required,datetime=2006-01-02"`
	GuestCount      *int      `json:"guestCount" validate:"omitempty,min=1"`
	Status          string    `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED NO_SHOW"`
	PaymentStatus   string    `json:"paymentStatus" validate:"omitempty,oneof=UNPAID PARTIALLY_PAID PAID REFUNDED"`
	GuestStatus     string    `json:"guestStatus" validate:"omitempty,oneof=UPCOMING CHECKED_IN CHECKED_OUT NO_SHOW"`
	SpecialRequests string    `json:"specialRequests" validate:"max=2000"`
	Source          string    `json:"source" validate:"omitempty,oneof=DIRECT AIRBNB BOOKING_COM VRBO EXPEDIA OTHER"`
	ExternalID      string    `json:"externalId" validate:"max=255"`
	PaidAmount      int64     `json:"paidAmount" validate:"min=0"`
}

// UpdateReservationRequest is a patch; nil fields are left unchanged.
type UpdateReservationRequest struct {
	PropertyID      *uuid.UUID `json:"propertyId"`
	GuestID         *uuid.UUID `json:"guestId"`
	CheckIn         *string    `json:"checkIn" validate:"omitempty,datetime=2006-01-02"`
	CheckOut        *string    `json:"checkOut" validate:"omitempty,datetime=2006-01-02"`
	GuestCount      *int       `json:"guestCount" validate:"omitempty,min=1"`
	Status          *string    `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED NO_SHOW"`
	PaymentStatus   *string    `json:"paymentStatus" validate:"omitempty,oneof=UNPAID PARTIALLY_PAID PAID REFUNDED"`
	GuestStatus     *string    `json:"guestStatus" validate:"omitempty,oneof=UPCOMING CHECKED_IN CHECKED_OUT NO_SHOW"`
	SpecialRequests *string    `json:"specialRequests" validate:"omitempty,max=2000"`
	Source          *string    `json:"source" validate:"omitempty,oneof=DIRECT AIRBNB BOOKING_COM VRBO EXPEDIA OTHER"`
	ExternalID      *string    `json:"externalId" validate:"omitempty,max=255"`
	PaidAmount      *int64     `json:"paidAmount" validate:"omitempty,min=0"`
}

// reschedules reports whether the patch touches the dates or the property.
func (r UpdateReservationRequest) reschedules() bool {
	return r.PropertyID != nil || r.CheckIn != nil || r.CheckOut != nil
}

// UpdateStatusRequest overwrites any subset of the three status axes.
type UpdateStatusRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED NO_SHOW"`
	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=UNPAID PARTIALLY_PAID PAID REFUNDED"`
	GuestStatus   *string `json:"guestStatus" validate:"omitempty,oneof=UPCOMING CHECKED_IN CHECKED_OUT NO_SHOW"`
}

// CancelReservationRequest carries an optional cancellation reason.
type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// RecordPaymentRequest adds a payment to a reservation.
type RecordPaymentRequest struct {
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Reference string `json:"reference" validate:"max=255"`
}

// ReservationDTO is the response representation of a reservation.
type ReservationDTO struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	PropertyID         uuid.UUID  `json:"propertyId"`
	PropertyName       string     `json:"propertyName,omitempty"`
	GuestID            uuid.UUID  `json:"guestId"`
	GuestName          string     `json:"guestName,omitempty"`
	CheckIn            string     `json:"checkIn"`
	CheckOut           string     `json:"checkOut"`
	Nights             int        `json:"nights"`
	GuestCount         int        `json:"guestCount"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"paymentStatus"`
	GuestStatus        string     `json:"guestStatus"`
	TotalAmount        int64      `json:"totalAmount"`
	PaidAmount         int64      `json:"paidAmount"`
	OutstandingBalance int64      `json:"outstandingBalance"`
	Currency           string     `json:"currency"`
	Source             string     `json:"source"`
	ExternalID         string     `json:"externalId,omitempty"`
	SpecialRequests    string     `json:"specialRequests,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CancelReason       string     `json:"cancelReason,omitempty"`
	CheckedInAt        *time.Time `json:"checkedInAt,omitempty"`
	CheckedOutAt       *time.Time `json:"checkedOutAt,omitempty"`
	Version            int64      `json:"version"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// ReservationStatsDTO is the aggregate over a reservation set.
type ReservationStatsDTO struct {
	TotalReservations int64            `json:"totalReservations"`
	ByStatus          map[string]int64 `json:"byStatus"`
	TotalRevenue      int64            `json:"totalRevenue"`
	AverageAmount     int64            `json:"averageAmount"`
	OccupancyRate     float64          `json:"occupancyRate"`
}

// CalendarDayDTO is one day of a property calendar.
type CalendarDayDTO struct {
	Date          string     `json:"date"`
	Status        string     `json:"status"`
	ReservationID *uuid.UUID `json:"reservationId,omitempty"`
}

// PropertyDTO is the response representation of a property.
type PropertyDTO struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId"`
	Name        string    `json:"name"`
	NightlyRate int64     `json:"nightlyRate"`
	Currency    string    `json:"currency"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreatePropertyRequest holds the data needed to register a property.
type CreatePropertyRequest struct {
	OwnerID     *uuid.UUID `json:"ownerId"`
	Name        string     `json:"name" validate:"required,max=255"`
	NightlyRate int64      `json:"nightlyRate" validate:"min=0"`
	Currency    string     `json:"currency" validate:"omitempty,len=3"`
	Capacity    int        `json:"capacity" validate:"min=0"`
}

// GuestDTO is the response representation of a guest.
type GuestDTO struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateGuestRequest holds the data needed to register a guest.
type CreateGuestRequest struct {
	FullName string `json:"fullName" validate:"required,max=255"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=50"`
}

// --- Mapping ---

func toReservationDTO(r *reservation.Reservation, p *property.Property, g *guest.Guest) ReservationDTO {
	dto := snapshotToDTO(r.Snapshot())
	if p != nil {
		dto.PropertyName = p.Name()
	}
	if g != nil {
		dto.GuestName = g.FullName()
	}
	return dto
}

func viewToDTO(v reservation.View) ReservationDTO {
	dto := snapshotToDTO(v.Snapshot)
	dto.PropertyName = v.PropertyName
	dto.GuestName = v.GuestName
	return dto
}

func snapshotToDTO(s reservation.Snapshot) ReservationDTO {
	stay := reservation.Stay{CheckIn: s.CheckIn, CheckOut: s.CheckOut}
	return ReservationDTO{
		ID:                 s.ID,
		Code:               s.Code,
		PropertyID:         s.PropertyID,
		GuestID:            s.GuestID,
		CheckIn:            s.CheckIn.Format(calendar.DateLayout),
		CheckOut:           s.CheckOut.Format(calendar.DateLayout),
		Nights:             stay.Nights(),
		GuestCount:         s.GuestCount,
		Status:             string(s.BookingStatus),
		PaymentStatus:      string(s.PaymentStatus),
		GuestStatus:        string(s.OccupancyStatus),
		TotalAmount:        s.TotalCents,
		PaidAmount:         s.PaidCents,
		OutstandingBalance: s.TotalCents - s.PaidCents,
		Currency:           s.Currency,
		Source:             string(s.Source),
		ExternalID:         s.ExternalID,
		SpecialRequests:    s.SpecialRequests,
		CancelledAt:        s.CancelledAt,
		CancelReason:       s.CancelReason,
		CheckedInAt:        s.CheckedInAt,
		CheckedOutAt:       s.CheckedOutAt,
		Version:            s.Version,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func toPropertyDTO(p *property.Property) PropertyDTO {
	return PropertyDTO{
		ID:          p.ID(),
		OwnerID:     p.OwnerID(),
		Name:        p.Name(),
		NightlyRate: p.NightlyRateCents(),
		Currency:    p.Currency(),
		Capacity:    p.Capacity(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func toGuestDTO(g *guest.Guest) GuestDTO {
	return GuestDTO{
		ID:        g.ID(),
		FullName:  g.FullName(),
		Email:     g.Email(),
		Phone:     g.Phone(),
		CreatedAt: g.CreatedAt(),
		UpdatedAt: g.UpdatedAt(),
	}
}

func toCalendarDTO(days []calendar.Day) []CalendarDayDTO {
	out := make([]CalendarDayDTO, len(days))
	for i, d := range days {
		out[i] = CalendarDayDTO{
			Date:          d.Date.Format(calendar.DateLayout),
			Status:        string(d.Status),
			ReservationID: d.ReservationID,
		}
	}
	return out
}

package reservation

import (
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/validation"
	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// ListFilter selects reservations for listing. Nil or empty fields do not filter.
type ListFilter struct {
	PropertyID        *uuid.UUID
	GuestID           *uuid.UUID
	BookingStatuses   []BookingStatus   `validate:"dive,oneof=PENDING CONFIRMED CANCELLED COMPLETED NO_SHOW"`
	PaymentStatuses   []PaymentStatus   `validate:"dive,oneof=UNPAID PARTIALLY_PAID PAID REFUNDED"`
	OccupancyStatuses []OccupancyStatus `validate:"dive,oneof=UPCOMING CHECKED_IN CHECKED_OUT NO_SHOW"`
	Sources           []Source          `validate:"dive,oneof=DIRECT AIRBNB BOOKING_COM VRBO EXPEDIA OTHER"`
	CheckInFrom       *time.Time
	CheckInTo         *time.Time
	MinTotalCents     *int64 `validate:"omitempty,min=0"`
	MaxTotalCents     *int64 `validate:"omitempty,min=0"`
	PropertyOwnerID   *uuid.UUID
	Page              int `validate:"min=1"`
	Limit             int `validate:"min=1,max=100"`
}

// Normalize applies paging defaults.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
}

// Validate checks tags and the cross-field ranges.
func (f ListFilter) Validate() error {
	if err := validation.Struct(f); err != nil {
		return err
	}
	if f.CheckInFrom != nil && f.CheckInTo != nil && f.CheckInTo.Before(*f.CheckInFrom) {
		return domain.NewValidationError("check-in window end must not be before its start")
	}
	if f.MinTotalCents != nil && f.MaxTotalCents != nil && *f.MaxTotalCents < *f.MinTotalCents {
		return domain.NewValidationError("maximum amount must not be below minimum amount")
	}
	return nil
}

// Offset returns the number of rows to skip.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// StatsFilter narrows the set aggregated by stats queries.
type StatsFilter struct {
	PropertyID      *uuid.UUID
	PropertyOwnerID *uuid.UUID
	CheckInFrom     *time.Time
	CheckInTo       *time.Time
}

// Validate checks the date window.
func (f StatsFilter) Validate() error {
	if f.CheckInFrom != nil && f.CheckInTo != nil && f.CheckInTo.Before(*f.CheckInFrom) {
		return domain.NewValidationError("check-in window end must not be before its start")
	}
	return nil
}

// Stats is the aggregate over a reservation set.
type Stats struct {
	Total         int64
	ByStatus      map[BookingStatus]int64
	RevenueCents  int64
	AverageCents  int64
	OccupancyRate float64
}

// RevenueStatuses are the booking statuses counted as earned revenue.
func RevenueStatuses() []BookingStatus {
	return []BookingStatus{StatusConfirmed, StatusCompleted}
}

// StatusTotal is the reservation count and summed total of one booking status.
type StatusTotal struct {
	Status      BookingStatus
	Count       int64
	AmountCents int64
}

// StatsFromTotals derives Stats from per-status totals. Revenue is the
// amount sum of the RevenueStatuses rows.
func StatsFromTotals(totals []StatusTotal) Stats {
	byStatus := make(map[BookingStatus]int64, len(totals))
	var revenue int64
	for _, t := range totals {
		byStatus[t.Status] += t.Count
		for _, earning := range RevenueStatuses() {
			if t.Status == earning {
				revenue += t.AmountCents
			}
		}
	}
	return ComputeStats(byStatus, revenue)
}

// ComputeStats fills the derived fields from raw counts and the revenue sum.
// An empty set yields zero rates and averages.
func ComputeStats(byStatus map[BookingStatus]int64, revenueCents int64) Stats {
	s := Stats{ByStatus: make(map[BookingStatus]int64, len(validTransitions))}
	for status := range validTransitions {
		s.ByStatus[status] = 0
	}
	for status, n := range byStatus {
		s.ByStatus[status] = n
		s.Total += n
	}
	earning := s.ByStatus[StatusConfirmed] + s.ByStatus[StatusCompleted]
	s.RevenueCents = revenueCents
	if earning > 0 {
		s.AverageCents = revenueCents / earning
	}
	if s.Total > 0 {
		s.OccupancyRate = float64(earning) / float64(s.Total) * 100
	}
	return s
}

// View is a reservation row joined with the display names of its property and guest.
type View struct {
	Snapshot
	PropertyName string
	GuestName    string
}

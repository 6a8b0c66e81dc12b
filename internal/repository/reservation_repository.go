package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationModel is the GORM model for the reservations table.
type ReservationModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code            string     `gorm:"type:varchar(20);uniqueIndex;not null"`
	PropertyID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	GuestID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	CheckIn         time.Time  `gorm:"type:date;not null"`
	CheckOut        time.Time  `gorm:"type:date;not null"`
	GuestCount      int        `gorm:"not null"`
	TotalCents      int64      `gorm:"not null"`
	PaidCents       int64      `gorm:"not null;default:0"`
	Currency        string     `gorm:"type:varchar(3);not null"`
	BookingStatus   string     `gorm:"type:varchar(20);not null;index"`
	PaymentStatus   string     `gorm:"type:varchar(20);not null"`
	OccupancyStatus string     `gorm:"type:varchar(20);not null"`
	Source          string     `gorm:"type:varchar(20);not null"`
	ExternalID      string     `gorm:"type:varchar(100)"`
	SpecialRequests string     `gorm:"type:text"`
	CancelledAt     *time.Time `gorm:"type:timestamptz"`
	CancelReason    string     `gorm:"type:text"`
	CheckedInAt     *time.Time `gorm:"type:timestamptz"`
	CheckedOutAt    *time.Time `gorm:"type:timestamptz"`
	Version         int64      `gorm:"not null;default:1"`
	CreatedAt       time.Time  `gorm:"type:timestamptz;not null"`
	UpdatedAt       time.Time  `gorm:"type:timestamptz;not null"`
}

func (ReservationModel) TableName() string { return "reservations" }

// GormReservationRepository implements reservation.Repository using GORM.
type GormReservationRepository struct {
	db *gorm.DB
}

func NewGormReservationRepository(db *gorm.DB) *GormReservationRepository {
	return &GormReservationRepository{db: db}
}

func (r *GormReservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	var model ReservationModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Reservation", id.String())
		}
		return nil, translateError(err, "failed to find reservation")
	}
	return toReservationDomain(&model), nil
}

func (r *GormReservationRepository) FindByCode(ctx context.Context, code string) (*reservation.Reservation, error) {
	var model ReservationModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Reservation", code)
		}
		return nil, translateError(err, "failed to find reservation by code")
	}
	return toReservationDomain(&model), nil
}

// FindOverlapping returns blocking reservations on the property whose stay
// intersects [stay.CheckIn, stay.CheckOut).
func (r *GormReservationRepository) FindOverlapping(
	ctx context.Context,
	propertyID uuid.UUID,
	stay reservation.Stay,
	excludeID *uuid.UUID,
) ([]*reservation.Reservation, error) {
	query := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("check_in < ? AND check_out > ?", stay.CheckOut, stay.CheckIn).
		Where("booking_status IN ?", stringsOf(reservation.BlockingStatuses()))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var models []ReservationModel
	if err := query.Order("check_in").Find(&models).Error; err != nil {
		return nil, translateError(err, "failed to find overlapping reservations")
	}
	out := make([]*reservation.Reservation, len(models))
	for i := range models {
		out[i] = toReservationDomain(&models[i])
	}
	return out, nil
}

func (r *GormReservationRepository) Save(ctx context.Context, res *reservation.Reservation) error {
	model := toReservationModel(res)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return translateError(err, "failed to save reservation")
	}
	return nil
}

// Update writes the aggregate only if the stored version is the one it was
// loaded at. The caller has already incremented the version.
func (r *GormReservationRepository) Update(ctx context.Context, res *reservation.Reservation) error {
	model := toReservationModel(res)
	expectedVersion := res.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&ReservationModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Select("*").
		Omit("id", "code", "created_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error, "failed to update reservation")
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("reservation was modified by another transaction")
	}
	return nil
}

func (r *GormReservationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ReservationModel{})
	if result.Error != nil {
		return translateError(result.Error, "failed to delete reservation")
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Reservation", id.String())
	}
	return nil
}

func toReservationModel(res *reservation.Reservation) *ReservationModel {
	s := res.Snapshot()
	return &ReservationModel{
		ID:              s.ID,
		Code:            s.Code,
		PropertyID:      s.PropertyID,
		GuestID:         s.GuestID,
		CheckIn:         s.CheckIn,
		CheckOut:        s.CheckOut,
		GuestCount:      s.GuestCount,
		TotalCents:      s.TotalCents,
		PaidCents:       s.PaidCents,
		Currency:        s.Currency,
		BookingStatus:   string(s.BookingStatus),
		PaymentStatus:   string(s.PaymentStatus),
		OccupancyStatus: string(s.OccupancyStatus),
		Source:          string(s.Source),
		ExternalID:      s.ExternalID,
		SpecialRequests: s.SpecialRequests,
		CancelledAt:     s.CancelledAt,
		CancelReason:    s.CancelReason,
		CheckedInAt:     s.CheckedInAt,
		CheckedOutAt:    s.CheckedOutAt,
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toReservationDomain(m *ReservationModel) *reservation.Reservation {
	return reservation.Reconstruct(reservation.Snapshot{
		ID:              m.ID,
		Code:            m.Code,
		PropertyID:      m.PropertyID,
		GuestID:         m.GuestID,
		CheckIn:         calendar.Normalize(m.CheckIn),
		CheckOut:        calendar.Normalize(m.CheckOut),
		GuestCount:      m.GuestCount,
		TotalCents:      m.TotalCents,
		PaidCents:       m.PaidCents,
		Currency:        m.Currency,
		BookingStatus:   reservation.BookingStatus(m.BookingStatus),
		PaymentStatus:   reservation.PaymentStatus(m.PaymentStatus),
		OccupancyStatus: reservation.OccupancyStatus(m.OccupancyStatus),
		Source:          reservation.Source(m.Source),
		ExternalID:      m.ExternalID,
		SpecialRequests: m.SpecialRequests,
		CancelledAt:     m.CancelledAt,
		CancelReason:    m.CancelReason,
		CheckedInAt:     m.CheckedInAt,
		CheckedOutAt:    m.CheckedOutAt,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	})
}

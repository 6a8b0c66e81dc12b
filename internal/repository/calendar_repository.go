package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/domain/calendar"
	"github.com/Rentline-Ops/service-reservation/internal/domain/reservation"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AvailabilityDayModel is the GORM model for the availability_days table.
// Rows are created lazily on first booking; a missing row is AVAILABLE.
type AvailabilityDayModel struct {
	PropertyID    uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Date          time.Time  `gorm:"type:date;primaryKey"`
	Status        string     `gorm:"type:varchar(20);not null"`
	ReservationID *uuid.UUID `gorm:"type:uuid;index"`
	UpdatedAt     time.Time  `gorm:"type:timestamptz;not null"`
}

func (AvailabilityDayModel) TableName() string { return "availability_days" }

// GormCalendarRepository implements calendar.Repository using GORM.
type GormCalendarRepository struct {
	db *gorm.DB
}

func NewGormCalendarRepository(db *gorm.DB) *GormCalendarRepository {
	return &GormCalendarRepository{db: db}
}

func (r *GormCalendarRepository) MarkRange(
	ctx context.Context,
	propertyID, reservationID uuid.UUID,
	checkIn, checkOut time.Time,
	status calendar.Status,
) error {
	from, to := calendar.Normalize(checkIn), calendar.Normalize(checkOut)
	days := calendar.Days(from, to)
	if len(days) == 0 {
		return nil
	}

	switch status {
	case calendar.StatusBooked:
		return r.book(ctx, propertyID, reservationID, from, to, days)
	case calendar.StatusAvailable:
		return r.release(ctx, propertyID, reservationID, from, to)
	default:
		return domain.NewValidationError(fmt.Sprintf("invalid calendar status: %s", status))
	}
}

// book claims every day for reservationID. Days still pointing at a
// reservation that stopped blocking are reclaimed first; a day held by
// another blocking reservation makes the upsert skip it, which surfaces
// as a conflict.
func (r *GormCalendarRepository) book(
	ctx context.Context,
	propertyID, reservationID uuid.UUID,
	from, to time.Time,
	days []time.Time,
) error {
	db := r.db.WithContext(ctx)
	now := time.Now().UTC()

	reclaim := db.Exec(`
		UPDATE availability_days AS d
		SET status = ?, reservation_id = NULL, updated_at = ?
		FROM reservations AS r
		WHERE d.reservation_id = r.id
		  AND d.property_id = ? AND d.date >= ? AND d.date < ?
		  AND r.booking_status NOT IN ?`,
		string(calendar.StatusAvailable), now,
		propertyID, from, to,
		stringsOf(reservation.BlockingStatuses()),
	)
	if reclaim.Error != nil {
		return translateError(reclaim.Error, "failed to reclaim stale calendar days")
	}

	holder := reservationID
	models := make([]AvailabilityDayModel, len(days))
	for i, d := range days {
		models[i] = AvailabilityDayModel{
			PropertyID:    propertyID,
			Date:          d,
			Status:        string(calendar.StatusBooked),
			ReservationID: &holder,
			UpdatedAt:     now,
		}
	}

	result := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "property_id"}, {Name: "date"}},
		Where: clause.Where{Exprs: []clause.Expression{clause.Expr{
			SQL:  "availability_days.status = ? OR availability_days.reservation_id IS NULL OR availability_days.reservation_id = excluded.reservation_id",
			Vars: []interface{}{string(calendar.StatusAvailable)},
		}}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "reservation_id", "updated_at"}),
	}).Create(&models)
	if result.Error != nil {
		return translateError(result.Error, "failed to book calendar days")
	}
	if result.RowsAffected < int64(len(days)) {
		return domain.NewConflictError("property is already booked for part of the requested dates")
	}
	return nil
}

func (r *GormCalendarRepository) release(
	ctx context.Context,
	propertyID, reservationID uuid.UUID,
	from, to time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&AvailabilityDayModel{}).
		Where("property_id = ? AND reservation_id = ? AND date >= ? AND date < ?", propertyID, reservationID, from, to).
		Updates(map[string]interface{}{
			"status":         string(calendar.StatusAvailable),
			"reservation_id": nil,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return translateError(result.Error, "failed to release calendar days")
	}
	return nil
}

func (r *GormCalendarRepository) FindRange(ctx context.Context, propertyID uuid.UUID, from, to time.Time) ([]calendar.Day, error) {
	var models []AvailabilityDayModel
	if err := r.db.WithContext(ctx).
		Where("property_id = ? AND date >= ? AND date < ?", propertyID, calendar.Normalize(from), calendar.Normalize(to)).
		Order("date").
		Find(&models).Error; err != nil {
		return nil, translateError(err, "failed to load calendar")
	}
	days := make([]calendar.Day, len(models))
	for i, m := range models {
		days[i] = calendar.Day{
			PropertyID:    m.PropertyID,
			Date:          calendar.Normalize(m.Date),
			Status:        calendar.Status(m.Status),
			ReservationID: m.ReservationID,
			UpdatedAt:     m.UpdatedAt,
		}
	}
	return days, nil
}

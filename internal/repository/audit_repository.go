package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/audit"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AuditRecordModel is the GORM model for the append-only audit_records table.
type AuditRecordModel struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ActorID    uuid.UUID      `gorm:"type:uuid;not null"`
	Action     string         `gorm:"type:varchar(50);not null"`
	EntityType string         `gorm:"type:varchar(50);not null"`
	EntityID   uuid.UUID      `gorm:"type:uuid;not null;index"`
	Before     datatypes.JSON `gorm:"type:jsonb"`
	After      datatypes.JSON `gorm:"type:jsonb"`
	OccurredAt time.Time      `gorm:"type:timestamptz;not null"`
}

func (AuditRecordModel) TableName() string { return "audit_records" }

// GormAuditRepository implements audit.Sink and audit.Reader using GORM.
type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts rec. Replaying an already stored record is a no-op.
func (r *GormAuditRepository) Append(ctx context.Context, rec audit.Record) error {
	m := &AuditRecordModel{
		ID:         rec.ID,
		ActorID:    rec.ActorID,
		Action:     string(rec.Action),
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Before:     datatypes.JSON(rec.Before),
		After:      datatypes.JSON(rec.After),
		OccurredAt: rec.OccurredAt,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m).Error; err != nil {
		return translateError(err, "failed to append audit record")
	}
	return nil
}

func (r *GormAuditRepository) ListByEntity(ctx context.Context, entityID uuid.UUID) ([]audit.Record, error) {
	var models []AuditRecordModel
	if err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID).
		Order("occurred_at, id").
		Find(&models).Error; err != nil {
		return nil, translateError(err, "failed to list audit records")
	}
	out := make([]audit.Record, len(models))
	for i, m := range models {
		out[i] = audit.Record{
			ID:         m.ID,
			ActorID:    m.ActorID,
			Action:     audit.Action(m.Action),
			EntityType: m.EntityType,
			EntityID:   m.EntityID,
			Before:     json.RawMessage(m.Before),
			After:      json.RawMessage(m.After),
			OccurredAt: m.OccurredAt,
		}
	}
	return out, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/domain/property"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyModel is the GORM model for the properties table.
type PropertyModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(200);not null"`
	NightlyRateCents int64     `gorm:"not null"`
	Currency         string    `gorm:"type:varchar(3);not null"`
	Capacity         int       `gorm:"not null;default:0"`
	CreatedAt        time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt        time.Time `gorm:"type:timestamptz;not null"`
}

func (PropertyModel) TableName() string { return "properties" }

// GormPropertyRepository implements property.Repository using GORM.
type GormPropertyRepository struct {
	db *gorm.DB
}

func NewGormPropertyRepository(db *gorm.DB) *GormPropertyRepository {
	return &GormPropertyRepository{db: db}
}

func (r *GormPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	var m PropertyModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Property", id.String())
		}
		return nil, translateError(err, "failed to find property")
	}
	return property.Reconstruct(m.ID, m.OwnerID, m.Name, m.NightlyRateCents, m.Currency, m.Capacity, m.CreatedAt, m.UpdatedAt), nil
}

func (r *GormPropertyRepository) Save(ctx context.Context, p *property.Property) error {
	m := &PropertyModel{
		ID:               p.ID(),
		OwnerID:          p.OwnerID(),
		Name:             p.Name(),
		NightlyRateCents: p.NightlyRateCents(),
		Currency:         p.Currency(),
		Capacity:         p.Capacity(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err, "failed to save property")
	}
	return nil
}

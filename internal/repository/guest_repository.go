package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Rentline-Ops/service-reservation/internal/domain/guest"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestModel is the GORM model for the guests table.
type GuestModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName  string    `gorm:"type:varchar(200);not null"`
	Email     string    `gorm:"type:varchar(254);not null;index"`
	Phone     string    `gorm:"type:varchar(40)"`
	CreatedAt time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (GuestModel) TableName() string { return "guests" }

// GormGuestRepository implements guest.Repository using GORM.
type GormGuestRepository struct {
	db *gorm.DB
}

func NewGormGuestRepository(db *gorm.DB) *GormGuestRepository {
	return &GormGuestRepository{db: db}
}

func (r *GormGuestRepository) FindByID(ctx context.Context, id uuid.UUID) (*guest.Guest, error) {
	var m GuestModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Guest", id.String())
		}
		return nil, translateError(err, "failed to find guest")
	}
	return guest.Reconstruct(m.ID, m.FullName, m.Email, m.Phone, m.CreatedAt, m.UpdatedAt), nil
}

func (r *GormGuestRepository) Save(ctx context.Context, g *guest.Guest) error {
	m := &GuestModel{
		ID:        g.ID(),
		FullName:  g.FullName(),
		Email:     g.Email(),
		Phone:     g.Phone(),
		CreatedAt: g.CreatedAt(),
		UpdatedAt: g.UpdatedAt(),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err, "failed to save guest")
	}
	return nil
}

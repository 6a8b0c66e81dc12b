package repository

import (
	"context"

	"github.com/Rentline-Ops/service-reservation/internal/application"
	"gorm.io/gorm"
)

// NewRepositories binds every write-side repository to db, which may be a
// transaction handle.
func NewRepositories(db *gorm.DB) application.Repositories {
	return application.Repositories{
		Reservations: NewGormReservationRepository(db),
		Calendar:     NewGormCalendarRepository(db),
		Properties:   NewGormPropertyRepository(db),
		Guests:       NewGormGuestRepository(db),
	}
}

// GormUnitOfWork implements application.UnitOfWork with one database
// transaction per call.
type GormUnitOfWork struct {
	db *gorm.DB
}

func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

func (u *GormUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos application.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepositories(tx))
	})
}

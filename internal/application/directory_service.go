package application

import (
	"context"
	"fmt"

	"github.com/Rentline-Ops/service-reservation/internal/domain/guest"
	"github.com/Rentline-Ops/service-reservation/internal/domain/property"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/auth"
	"github.com/Rentline-Ops/service-reservation/internal/pkg/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DirectoryService manages the properties and guests reservations refer to.
type DirectoryService struct {
	properties property.Repository
	guests     guest.Repository
	logger     *zap.Logger
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(properties property.Repository, guests guest.Repository, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{properties: properties, guests: guests, logger: logger}
}

// CreateProperty registers a property. Owner-scoped actors always own what they create.
func (s *DirectoryService) CreateProperty(ctx context.Context, actor auth.Actor, req CreatePropertyRequest) (*PropertyDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	ownerID := actor.ID
	if req.OwnerID != nil && !actor.IsOwnerScoped() {
		ownerID = *req.OwnerID
	}

	p, err := property.NewProperty(ownerID, req.Name, req.NightlyRate, req.Currency, req.Capacity)
	if err != nil {
		return nil, err
	}
	if err := s.properties.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save property: %w", err)
	}

	s.logger.Info("property created", zap.String("property_id", p.ID().String()))
	result := toPropertyDTO(p)
	return &result, nil
}

// GetProperty retrieves a property.
func (s *DirectoryService) GetProperty(ctx context.Context, actor auth.Actor, id uuid.UUID) (*PropertyDTO, error) {
	p, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(actor, p); err != nil {
		return nil, err
	}
	result := toPropertyDTO(p)
	return &result, nil
}

// CreateGuest registers a guest.
func (s *DirectoryService) CreateGuest(ctx context.Context, req CreateGuestRequest) (*GuestDTO, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	g, err := guest.NewGuest(req.FullName, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.guests.Save(ctx, g); err != nil {
		return nil, fmt.Errorf("failed to save guest: %w", err)
	}
	result := toGuestDTO(g)
	return &result, nil
}

// GetGuest retrieves a guest.
func (s *DirectoryService) GetGuest(ctx context.Context, id uuid.UUID) (*GuestDTO, error) {
	g, err := s.guests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toGuestDTO(g)
	return &result, nil
}

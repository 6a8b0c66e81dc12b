package property

import (
	"errors"
	"testing"

	"github.com/Rentline-Ops/service-reservation/internal/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProperty(t *testing.T) {
	owner := uuid.New()
	p, err := NewProperty(owner, "Sea View Loft", 12500, "", 4)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCurrency, p.Currency())
	assert.True(t, p.IsOwnedBy(owner))
	assert.False(t, p.IsOwnedBy(uuid.New()))
	assert.True(t, p.Accommodates(4))
	assert.False(t, p.Accommodates(5))
}

func TestNewProperty_UnlimitedCapacity(t *testing.T) {
	p, err := NewProperty(uuid.New(), "Barn", 0, "EUR", 0)
	require.NoError(t, err)
	assert.True(t, p.Accommodates(50))
}

func TestNewProperty_Validation(t *testing.T) {
	_, err := NewProperty(uuid.Nil, "x", 1, "", 0)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = NewProperty(uuid.New(), "", 1, "", 0)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = NewProperty(uuid.New(), "x", -1, "", 0)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	_, err = NewProperty(uuid.New(), "x", 1, "", -2)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

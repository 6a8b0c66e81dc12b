package reservation

import "fmt"

// PricingStrategy calculates the total price of a stay.
type PricingStrategy interface {
	// Calculate returns the total price in cents for the given parameters.
	Calculate(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	NightlyRateCents int64
	Stay             Stay
}

// NightlyPricingStrategy charges the property's nightly rate for every night.
type NightlyPricingStrategy struct{}

// NewNightlyPricingStrategy creates a new NightlyPricingStrategy.
func NewNightlyPricingStrategy() *NightlyPricingStrategy {
	return &NightlyPricingStrategy{}
}

// Calculate computes nights × nightly rate.
func (s *NightlyPricingStrategy) Calculate(params PricingParams) (int64, error) {
	if params.NightlyRateCents < 0 {
		return 0, fmt.Errorf("nightly rate cannot be negative")
	}
	nights := params.Stay.Nights()
	if nights <= 0 {
		return 0, fmt.Errorf("stay must cover at least one night")
	}
	return int64(nights) * params.NightlyRateCents, nil
}

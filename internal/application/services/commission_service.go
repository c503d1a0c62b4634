package services

import (
	"context"

	"housebroker/internal/domain/repository"
)

// Fallback commission tiers, applied when no configured slab covers the price.
// Rates are percentages of the price.
const (
	fallbackTierOneLimit = 5_000_000.0
	fallbackTierTwoLimit = 10_000_000.0

	fallbackTierOneRate   = 2.0
	fallbackTierTwoRate   = 1.75
	fallbackTierThreeRate = 1.5
)

// CommissionConfigService computes the commission owed on a sale price from
// configured slabs, with a hard-coded tiered schedule as fallback.
type CommissionConfigService struct {
	configs repository.CommissionConfigRepository
}

// NewCommissionConfigService creates a new commission config service
func NewCommissionConfigService(configs repository.CommissionConfigRepository) *CommissionConfigService {
	return &CommissionConfigService{configs: configs}
}

// CalculateCommission returns the commission amount for price. A configured
// slab whose inclusive range covers the price wins; otherwise the fallback
// tiers apply. The only error path is the slab lookup itself.
func (s *CommissionConfigService) CalculateCommission(ctx context.Context, price float64) (float64, error) {
	slab, err := s.configs.FindSlabForPrice(ctx, price)
	if err != nil {
		return 0, err
	}
	if slab != nil {
		return slab.CommissionRate() * price / 100, nil
	}

	switch {
	case price < fallbackTierOneLimit:
		return fallbackTierOneRate * price / 100, nil
	case price <= fallbackTierTwoLimit:
		return fallbackTierTwoRate * price / 100, nil
	default:
		return fallbackTierThreeRate * price / 100, nil
	}
}

package aggregate

import "fmt"

// CommissionConfig is a price-range commission slab. Slabs are expected to be
// non-overlapping; the first matching slab wins.
type CommissionConfig struct {
	Entity
	startingPrice  float64
	endingPrice    float64
	commissionRate float64
}

// NewCommissionConfig creates a slab covering [startingPrice, endingPrice]
// inclusive, with rate expressed as a percentage of price.
func NewCommissionConfig(startingPrice, endingPrice, commissionRate float64) (*CommissionConfig, error) {
	if startingPrice < 0 || endingPrice < startingPrice {
		return nil, fmt.Errorf("invalid price range: %f-%f", startingPrice, endingPrice)
	}
	if commissionRate < 0 {
		return nil, fmt.Errorf("commission rate cannot be negative: %f", commissionRate)
	}
	return &CommissionConfig{
		Entity:         newEntity(),
		startingPrice:  startingPrice,
		endingPrice:    endingPrice,
		commissionRate: commissionRate,
	}, nil
}

func (c *CommissionConfig) StartingPrice() float64  { return c.startingPrice }
func (c *CommissionConfig) EndingPrice() float64    { return c.endingPrice }
func (c *CommissionConfig) CommissionRate() float64 { return c.commissionRate }

// Covers reports whether price falls inside this slab.
func (c *CommissionConfig) Covers(price float64) bool {
	return c.startingPrice <= price && price <= c.endingPrice
}

// CommissionConfigState is the persistence snapshot of a CommissionConfig.
type CommissionConfigState struct {
	ID             string
	StartingPrice  float64
	EndingPrice    float64
	CommissionRate float64
}

// RestoreCommissionConfig rebuilds a slab from its stored state.
func RestoreCommissionConfig(s CommissionConfigState) *CommissionConfig {
	return &CommissionConfig{
		Entity:         restoreEntity(s.ID),
		startingPrice:  s.StartingPrice,
		endingPrice:    s.EndingPrice,
		commissionRate: s.CommissionRate,
	}
}

// State captures the slab for persistence.
func (c *CommissionConfig) State() CommissionConfigState {
	return CommissionConfigState{
		ID:             c.id,
		StartingPrice:  c.startingPrice,
		EndingPrice:    c.endingPrice,
		CommissionRate: c.commissionRate,
	}
}

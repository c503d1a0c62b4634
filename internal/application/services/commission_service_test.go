package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housebroker/internal/domain/aggregate"
	"housebroker/internal/domain/repository"
)

type fakeCommissionRepo struct {
	slabs   []*aggregate.CommissionConfig
	slabErr error
}

func (r *fakeCommissionRepo) Add(ctx context.Context, c *aggregate.CommissionConfig) error {
	r.slabs = append(r.slabs, c)
	return nil
}

func (r *fakeCommissionRepo) Update(ctx context.Context, c *aggregate.CommissionConfig) error {
	return nil
}

func (r *fakeCommissionRepo) Delete(ctx context.Context, c *aggregate.CommissionConfig) error {
	return nil
}

func (r *fakeCommissionRepo) GetByID(ctx context.Context, id string) (*aggregate.CommissionConfig, error) {
	for _, slab := range r.slabs {
		if slab.ID() == id {
			return slab, nil
		}
	}
	return nil, nil
}

func (r *fakeCommissionRepo) GetBySpecification(ctx context.Context, spec repository.Specification) ([]*aggregate.CommissionConfig, error) {
	return r.slabs, nil
}

func (r *fakeCommissionRepo) GetSingleBySpecification(ctx context.Context, spec repository.Specification) (*aggregate.CommissionConfig, error) {
	if len(r.slabs) == 0 {
		return nil, nil
	}
	return r.slabs[0], nil
}

func (r *fakeCommissionRepo) FindSlabForPrice(ctx context.Context, price float64) (*aggregate.CommissionConfig, error) {
	if r.slabErr != nil {
		return nil, r.slabErr
	}
	for _, slab := range r.slabs {
		if slab.Covers(price) {
			return slab, nil
		}
	}
	return nil, nil
}

func TestCalculateCommissionFallbackTiers(t *testing.T) {
	service := NewCommissionConfigService(&fakeCommissionRepo{})
	ctx := context.Background()

	cases := []struct {
		name     string
		price    float64
		expected float64
	}{
		{"below first limit", 4_000_000, 80_000},
		{"at first limit", 5_000_000, 87_500},
		{"between limits", 7_000_000, 122_500},
		{"at second limit", 10_000_000, 175_000},
		{"above second limit", 15_000_000, 225_000},
		{"zero price", 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := service.CalculateCommission(ctx, tc.price)
			require.NoError(t, err)
			assert.InDelta(t, tc.expected, got, 0.001)
		})
	}
}

func TestCalculateCommissionPrefersConfiguredSlab(t *testing.T) {
	slab, err := aggregate.NewCommissionConfig(3_000_000, 6_000_000, 2.5)
	require.NoError(t, err)

	service := NewCommissionConfigService(&fakeCommissionRepo{slabs: []*aggregate.CommissionConfig{slab}})
	ctx := context.Background()

	// Covered by the slab, fallback would have used 2.0%
	got, err := service.CalculateCommission(ctx, 4_000_000)
	require.NoError(t, err)
	assert.InDelta(t, 100_000, got, 0.001)

	// Outside the slab range the fallback tiers apply
	got, err = service.CalculateCommission(ctx, 8_000_000)
	require.NoError(t, err)
	assert.InDelta(t, 140_000, got, 0.001)
}

func TestCalculateCommissionSlabBoundariesInclusive(t *testing.T) {
	slab, err := aggregate.NewCommissionConfig(3_000_000, 6_000_000, 2.5)
	require.NoError(t, err)

	service := NewCommissionConfigService(&fakeCommissionRepo{slabs: []*aggregate.CommissionConfig{slab}})
	ctx := context.Background()

	got, err := service.CalculateCommission(ctx, 3_000_000)
	require.NoError(t, err)
	assert.InDelta(t, 75_000, got, 0.001)

	got, err = service.CalculateCommission(ctx, 6_000_000)
	require.NoError(t, err)
	assert.InDelta(t, 150_000, got, 0.001)
}

func TestCalculateCommissionLookupFailure(t *testing.T) {
	service := NewCommissionConfigService(&fakeCommissionRepo{slabErr: errors.New("connection reset")})

	_, err := service.CalculateCommission(context.Background(), 1_000_000)
	assert.Error(t, err)
}

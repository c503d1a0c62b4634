package repository

import (
	"context"

	"housebroker/internal/domain/aggregate"
)

// Typed repository aliases, one per aggregate root.
type (
	ListingRepository  = Repository[*aggregate.Listing]
	UserInfoRepository = Repository[*aggregate.UserInfo]
	FileInfoRepository = Repository[*aggregate.FileInfo]
)

// CommissionConfigRepository adds the slab lookup the commission policy needs.
type CommissionConfigRepository interface {
	Repository[*aggregate.CommissionConfig]

	// FindSlabForPrice returns the slab whose inclusive price range covers
	// price, or nil when no slab matches.
	FindSlabForPrice(ctx context.Context, price float64) (*aggregate.CommissionConfig, error)
}

// UnitOfWork scopes repository work to a single transactional boundary. Each
// use case creates one, mutates aggregates through its repositories and
// commits once; a failed SaveChanges leaves the store at the last committed
// state and is never retried.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	Listings() ListingRepository
	Users() UserInfoRepository
	Files() FileInfoRepository
	CommissionConfigs() CommissionConfigRepository

	// SaveChanges flushes pending writes inside the current transaction.
	SaveChanges(ctx context.Context) error

	Close() error
	IsInTransaction() bool
}

// UnitOfWorkFactory creates a fresh unit of work per use case.
type UnitOfWorkFactory interface {
	CreateUnitOfWork() UnitOfWork
}

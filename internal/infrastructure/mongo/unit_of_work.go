package mongo

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	"housebroker/internal/domain/repository"
)

// MongoUnitOfWork implements the Unit of Work pattern for MongoDB
type MongoUnitOfWork struct {
	client        *mongo.Client
	database      *mongo.Database
	session       mongo.Session
	mutex         sync.RWMutex
	inTransaction bool

	// Repository instances
	listingRepo    *MongoListingRepository
	userRepo       *MongoUserInfoRepository
	fileRepo       *MongoFileInfoRepository
	commissionRepo *MongoCommissionConfigRepository
}

// NewMongoUnitOfWork creates a new MongoDB unit of work
func NewMongoUnitOfWork(client *mongo.Client, database *mongo.Database) *MongoUnitOfWork {
	return &MongoUnitOfWork{
		client:   client,
		database: database,
	}
}

// Begin starts a new transaction
func (uow *MongoUnitOfWork) Begin(ctx context.Context) error {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.inTransaction {
		return fmt.Errorf("unit of work is already in transaction")
	}

	session, err := uow.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	if err := session.StartTransaction(); err != nil {
		session.EndSession(ctx)
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	uow.session = session
	uow.inTransaction = true
	uow.bindSession(session)

	return nil
}

// Commit commits the current transaction
func (uow *MongoUnitOfWork) Commit(ctx context.Context) error {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if !uow.inTransaction {
		return fmt.Errorf("no active transaction to commit")
	}

	if err := uow.session.CommitTransaction(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	uow.endTransaction(ctx)
	return nil
}

// Rollback rolls back the current transaction
func (uow *MongoUnitOfWork) Rollback(ctx context.Context) error {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if !uow.inTransaction {
		return fmt.Errorf("no active transaction to rollback")
	}

	if err := uow.session.AbortTransaction(ctx); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	uow.endTransaction(ctx)
	return nil
}

// Listings returns the listing repository
func (uow *MongoUnitOfWork) Listings() repository.ListingRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.listingRepo == nil {
		uow.listingRepo = NewMongoListingRepository(uow.database)
		if uow.inTransaction {
			uow.listingRepo.SetSession(uow.session)
		}
	}
	return uow.listingRepo
}

// Users returns the user repository
func (uow *MongoUnitOfWork) Users() repository.UserInfoRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.userRepo == nil {
		uow.userRepo = NewMongoUserInfoRepository(uow.database)
		if uow.inTransaction {
			uow.userRepo.SetSession(uow.session)
		}
	}
	return uow.userRepo
}

// Files returns the stored-file repository
func (uow *MongoUnitOfWork) Files() repository.FileInfoRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.fileRepo == nil {
		uow.fileRepo = NewMongoFileInfoRepository(uow.database)
		if uow.inTransaction {
			uow.fileRepo.SetSession(uow.session)
		}
	}
	return uow.fileRepo
}

// CommissionConfigs returns the commission slab repository
func (uow *MongoUnitOfWork) CommissionConfigs() repository.CommissionConfigRepository {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.commissionRepo == nil {
		uow.commissionRepo = NewMongoCommissionConfigRepository(uow.database)
		if uow.inTransaction {
			uow.commissionRepo.SetSession(uow.session)
		}
	}
	return uow.commissionRepo
}

// SaveChanges persists all changes in the current unit of work
func (uow *MongoUnitOfWork) SaveChanges(ctx context.Context) error {
	// With MongoDB transactions writes are applied on commit, so there is
	// nothing to flush here.
	return nil
}

// Close closes the unit of work and cleans up resources
func (uow *MongoUnitOfWork) Close() error {
	uow.mutex.Lock()
	defer uow.mutex.Unlock()

	if uow.inTransaction && uow.session != nil {
		ctx := context.Background()
		uow.session.AbortTransaction(ctx)
		uow.endTransaction(ctx)
	}

	return nil
}

// IsInTransaction returns whether the unit of work is in a transaction
func (uow *MongoUnitOfWork) IsInTransaction() bool {
	uow.mutex.RLock()
	defer uow.mutex.RUnlock()
	return uow.inTransaction
}

// endTransaction cleans up transaction resources
func (uow *MongoUnitOfWork) endTransaction(ctx context.Context) {
	if uow.session != nil {
		uow.session.EndSession(ctx)
		uow.session = nil
	}
	uow.inTransaction = false
	uow.bindSession(nil)
}

// bindSession propagates the session to every constructed repository.
func (uow *MongoUnitOfWork) bindSession(session mongo.Session) {
	if uow.listingRepo != nil {
		uow.listingRepo.SetSession(session)
	}
	if uow.userRepo != nil {
		uow.userRepo.SetSession(session)
	}
	if uow.fileRepo != nil {
		uow.fileRepo.SetSession(session)
	}
	if uow.commissionRepo != nil {
		uow.commissionRepo.SetSession(session)
	}
}

// MongoUnitOfWorkFactory creates MongoDB unit of work instances
type MongoUnitOfWorkFactory struct {
	client   *mongo.Client
	database *mongo.Database
}

// NewMongoUnitOfWorkFactory creates a new MongoDB unit of work factory
func NewMongoUnitOfWorkFactory(client *mongo.Client, database *mongo.Database) *MongoUnitOfWorkFactory {
	return &MongoUnitOfWorkFactory{
		client:   client,
		database: database,
	}
}

// CreateUnitOfWork creates a new unit of work instance
func (f *MongoUnitOfWorkFactory) CreateUnitOfWork() repository.UnitOfWork {
	return NewMongoUnitOfWork(f.client, f.database)
}

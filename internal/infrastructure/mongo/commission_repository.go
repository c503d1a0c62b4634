package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"housebroker/internal/domain/aggregate"
	"housebroker/internal/domain/repository"
)

const commissionConfigsCollection = "commission_configs"

// MongoCommissionConfigRepository persists commission rate slabs.
type MongoCommissionConfigRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoCommissionConfigRepository creates a new commission config repository
func NewMongoCommissionConfigRepository(database *mongo.Database) *MongoCommissionConfigRepository {
	return &MongoCommissionConfigRepository{collection: database.Collection(commissionConfigsCollection)}
}

// SetSession binds the repository to a unit-of-work transaction.
func (r *MongoCommissionConfigRepository) SetSession(session mongo.Session) {
	r.session = session
}

func (r *MongoCommissionConfigRepository) Add(ctx context.Context, config *aggregate.CommissionConfig) error {
	ctx = sessionContext(ctx, r.session)
	if _, err := r.collection.InsertOne(ctx, toCommissionConfigDocument(config)); err != nil {
		return fmt.Errorf("failed to insert commission config: %w", err)
	}
	return nil
}

func (r *MongoCommissionConfigRepository) Update(ctx context.Context, config *aggregate.CommissionConfig) error {
	ctx = sessionContext(ctx, r.session)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": config.ID()}, toCommissionConfigDocument(config))
	if err != nil {
		return fmt.Errorf("failed to update commission config: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("commission config %s not found", config.ID())
	}
	return nil
}

func (r *MongoCommissionConfigRepository) Delete(ctx context.Context, config *aggregate.CommissionConfig) error {
	ctx = sessionContext(ctx, r.session)
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": config.ID()}); err != nil {
		return fmt.Errorf("failed to delete commission config: %w", err)
	}
	return nil
}

func (r *MongoCommissionConfigRepository) GetByID(ctx context.Context, id string) (*aggregate.CommissionConfig, error) {
	ctx = sessionContext(ctx, r.session)
	var doc commissionConfigDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find commission config: %w", err)
	}
	return doc.toAggregate(), nil
}

func (r *MongoCommissionConfigRepository) GetBySpecification(ctx context.Context, spec repository.Specification) ([]*aggregate.CommissionConfig, error) {
	ctx = sessionContext(ctx, r.session)
	cursor, err := r.collection.Find(ctx, evaluateFilter(spec), evaluateFindOptions(spec))
	if err != nil {
		return nil, fmt.Errorf("failed to query commission configs: %w", err)
	}
	defer cursor.Close(ctx)

	var configs []*aggregate.CommissionConfig
	for cursor.Next(ctx) {
		var doc commissionConfigDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode commission config: %w", err)
		}
		configs = append(configs, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate commission configs: %w", err)
	}
	return configs, nil
}

func (r *MongoCommissionConfigRepository) GetSingleBySpecification(ctx context.Context, spec repository.Specification) (*aggregate.CommissionConfig, error) {
	ctx = sessionContext(ctx, r.session)
	var doc commissionConfigDocument
	err := r.collection.FindOne(ctx, evaluateFilter(spec)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find commission config: %w", err)
	}
	return doc.toAggregate(), nil
}

// FindSlabForPrice returns the slab whose inclusive price range contains
// the given price, or nil when no slab covers it.
func (r *MongoCommissionConfigRepository) FindSlabForPrice(ctx context.Context, price float64) (*aggregate.CommissionConfig, error) {
	ctx = sessionContext(ctx, r.session)
	filter := bson.M{
		"starting_price": bson.M{"$lte": price},
		"ending_price":   bson.M{"$gte": price},
	}
	var doc commissionConfigDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find commission slab: %w", err)
	}
	return doc.toAggregate(), nil
}

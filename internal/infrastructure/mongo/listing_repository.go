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

const listingsCollection = "listings"

// MongoListingRepository persists listing aggregates as single documents.
type MongoListingRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoListingRepository creates a new listing repository
func NewMongoListingRepository(database *mongo.Database) *MongoListingRepository {
	return &MongoListingRepository{collection: database.Collection(listingsCollection)}
}

// SetSession binds the repository to a unit-of-work transaction.
func (r *MongoListingRepository) SetSession(session mongo.Session) {
	r.session = session
}

func (r *MongoListingRepository) Add(ctx context.Context, listing *aggregate.Listing) error {
	ctx = sessionContext(ctx, r.session)
	if _, err := r.collection.InsertOne(ctx, toListingDocument(listing)); err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (r *MongoListingRepository) Update(ctx context.Context, listing *aggregate.Listing) error {
	ctx = sessionContext(ctx, r.session)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": listing.ID()}, toListingDocument(listing))
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("listing %s not found", listing.ID())
	}
	return nil
}

func (r *MongoListingRepository) Delete(ctx context.Context, listing *aggregate.Listing) error {
	ctx = sessionContext(ctx, r.session)
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": listing.ID()}); err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

func (r *MongoListingRepository) GetByID(ctx context.Context, id string) (*aggregate.Listing, error) {
	ctx = sessionContext(ctx, r.session)
	var doc listingDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return doc.toAggregate(), nil
}

func (r *MongoListingRepository) GetBySpecification(ctx context.Context, spec repository.Specification) ([]*aggregate.Listing, error) {
	ctx = sessionContext(ctx, r.session)
	cursor, err := r.collection.Find(ctx, evaluateFilter(spec), evaluateFindOptions(spec))
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []*aggregate.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode listing: %w", err)
		}
		listings = append(listings, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return listings, nil
}

func (r *MongoListingRepository) GetSingleBySpecification(ctx context.Context, spec repository.Specification) (*aggregate.Listing, error) {
	ctx = sessionContext(ctx, r.session)
	var doc listingDocument
	err := r.collection.FindOne(ctx, evaluateFilter(spec)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return doc.toAggregate(), nil
}

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

const usersCollection = "users"

// MongoUserInfoRepository persists user accounts.
type MongoUserInfoRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoUserInfoRepository creates a new user repository
func NewMongoUserInfoRepository(database *mongo.Database) *MongoUserInfoRepository {
	return &MongoUserInfoRepository{collection: database.Collection(usersCollection)}
}

// SetSession binds the repository to a unit-of-work transaction.
func (r *MongoUserInfoRepository) SetSession(session mongo.Session) {
	r.session = session
}

func (r *MongoUserInfoRepository) Add(ctx context.Context, user *aggregate.UserInfo) error {
	ctx = sessionContext(ctx, r.session)
	if _, err := r.collection.InsertOne(ctx, toUserInfoDocument(user)); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *MongoUserInfoRepository) Update(ctx context.Context, user *aggregate.UserInfo) error {
	ctx = sessionContext(ctx, r.session)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID()}, toUserInfoDocument(user))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s not found", user.ID())
	}
	return nil
}

func (r *MongoUserInfoRepository) Delete(ctx context.Context, user *aggregate.UserInfo) error {
	ctx = sessionContext(ctx, r.session)
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": user.ID()}); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *MongoUserInfoRepository) GetByID(ctx context.Context, id string) (*aggregate.UserInfo, error) {
	ctx = sessionContext(ctx, r.session)
	var doc userInfoDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toAggregate(), nil
}

func (r *MongoUserInfoRepository) GetBySpecification(ctx context.Context, spec repository.Specification) ([]*aggregate.UserInfo, error) {
	ctx = sessionContext(ctx, r.session)
	cursor, err := r.collection.Find(ctx, evaluateFilter(spec), evaluateFindOptions(spec))
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*aggregate.UserInfo
	for cursor.Next(ctx) {
		var doc userInfoDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

func (r *MongoUserInfoRepository) GetSingleBySpecification(ctx context.Context, spec repository.Specification) (*aggregate.UserInfo, error) {
	ctx = sessionContext(ctx, r.session)
	var doc userInfoDocument
	err := r.collection.FindOne(ctx, evaluateFilter(spec)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toAggregate(), nil
}

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

const filesCollection = "files"

// MongoFileInfoRepository persists stored-file records.
type MongoFileInfoRepository struct {
	collection *mongo.Collection
	session    mongo.Session
}

// NewMongoFileInfoRepository creates a new file repository
func NewMongoFileInfoRepository(database *mongo.Database) *MongoFileInfoRepository {
	return &MongoFileInfoRepository{collection: database.Collection(filesCollection)}
}

// SetSession binds the repository to a unit-of-work transaction.
func (r *MongoFileInfoRepository) SetSession(session mongo.Session) {
	r.session = session
}

func (r *MongoFileInfoRepository) Add(ctx context.Context, file *aggregate.FileInfo) error {
	ctx = sessionContext(ctx, r.session)
	if _, err := r.collection.InsertOne(ctx, toFileInfoDocument(file)); err != nil {
		return fmt.Errorf("failed to insert file record: %w", err)
	}
	return nil
}

func (r *MongoFileInfoRepository) Update(ctx context.Context, file *aggregate.FileInfo) error {
	ctx = sessionContext(ctx, r.session)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": file.ID()}, toFileInfoDocument(file))
	if err != nil {
		return fmt.Errorf("failed to update file record: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("file record %s not found", file.ID())
	}
	return nil
}

func (r *MongoFileInfoRepository) Delete(ctx context.Context, file *aggregate.FileInfo) error {
	ctx = sessionContext(ctx, r.session)
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": file.ID()}); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}
	return nil
}

func (r *MongoFileInfoRepository) GetByID(ctx context.Context, id string) (*aggregate.FileInfo, error) {
	ctx = sessionContext(ctx, r.session)
	var doc fileInfoDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find file record: %w", err)
	}
	return doc.toAggregate(), nil
}

func (r *MongoFileInfoRepository) GetBySpecification(ctx context.Context, spec repository.Specification) ([]*aggregate.FileInfo, error) {
	ctx = sessionContext(ctx, r.session)
	cursor, err := r.collection.Find(ctx, evaluateFilter(spec), evaluateFindOptions(spec))
	if err != nil {
		return nil, fmt.Errorf("failed to query file records: %w", err)
	}
	defer cursor.Close(ctx)

	var files []*aggregate.FileInfo
	for cursor.Next(ctx) {
		var doc fileInfoDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode file record: %w", err)
		}
		files = append(files, doc.toAggregate())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate file records: %w", err)
	}
	return files, nil
}

func (r *MongoFileInfoRepository) GetSingleBySpecification(ctx context.Context, spec repository.Specification) (*aggregate.FileInfo, error) {
	ctx = sessionContext(ctx, r.session)
	var doc fileInfoDocument
	err := r.collection.FindOne(ctx, evaluateFilter(spec)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find file record: %w", err)
	}
	return doc.toAggregate(), nil
}

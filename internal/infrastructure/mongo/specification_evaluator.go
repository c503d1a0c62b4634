package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"housebroker/internal/domain/repository"
)

// evaluateFilter translates a Specification into a Mongo filter document.
func evaluateFilter(spec repository.Specification) bson.M {
	filter := bson.M{}
	for field, value := range spec.Filters {
		filter[field] = value
	}
	price := bson.M{}
	if spec.MinPrice != nil {
		price["$gte"] = *spec.MinPrice
	}
	if spec.MaxPrice != nil {
		price["$lte"] = *spec.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

// evaluateFindOptions translates ordering and paging into find options.
func evaluateFindOptions(spec repository.Specification) *options.FindOptions {
	opts := options.Find()
	if spec.OrderBy != "" {
		direction := 1
		if spec.Order == repository.SortDescending {
			direction = -1
		}
		opts.SetSort(bson.D{{Key: spec.OrderBy, Value: direction}})
	}
	if spec.Skip > 0 {
		opts.SetSkip(int64(spec.Skip))
	}
	if spec.Take > 0 {
		opts.SetLimit(int64(spec.Take))
	}
	return opts
}

// sessionContext binds repository calls to the unit of work's transaction
// when one is active.
func sessionContext(ctx context.Context, session mongo.Session) context.Context {
	if session == nil {
		return ctx
	}
	return mongo.NewSessionContext(ctx, session)
}

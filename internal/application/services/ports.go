package services

import (
	"context"

	"housebroker/internal/domain/aggregate"
)

// CurrentUserService exposes the authenticated user's identity for the
// request scope. The second return is false for anonymous requests.
type CurrentUserService interface {
	UserID(ctx context.Context) (string, bool)
}

// FileService stores uploaded bytes and records them as a FileInfo aggregate.
type FileService interface {
	Upload(ctx context.Context, data []byte, fileName string) (*aggregate.FileInfo, error)
}

// ListingCache is a read-through cache over listing projections. A nil,nil
// return is a cache miss; failures are treated as misses by callers.
type ListingCache interface {
	Get(ctx context.Context, id string) (*ListingResponse, error)
	Set(ctx context.Context, listing *ListingResponse) error
	Delete(ctx context.Context, id string) error
}

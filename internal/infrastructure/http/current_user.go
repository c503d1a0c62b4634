package http

import (
	"context"

	"housebroker/pkg/middleware"
)

// ContextCurrentUserService resolves the authenticated user from the request
// context populated by the JWT middleware.
type ContextCurrentUserService struct{}

// NewContextCurrentUserService creates a new context-backed current user service
func NewContextCurrentUserService() *ContextCurrentUserService {
	return &ContextCurrentUserService{}
}

func (s *ContextCurrentUserService) UserID(ctx context.Context) (string, bool) {
	return middleware.GetUserIDFromContext(ctx)
}

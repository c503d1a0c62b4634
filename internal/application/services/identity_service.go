package services

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"housebroker/internal/domain/aggregate"
	"housebroker/internal/domain/repository"
	"housebroker/pkg/jwt"
	"housebroker/pkg/result"
)

// RegisterUserRequest is the registration payload.
type RegisterUserRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Password     string `json:"password"`
	Role         string `json:"role"`
}

func (r RegisterUserRequest) validate() map[string][]string {
	fieldErrors := make(map[string][]string)
	if strings.TrimSpace(r.FirstName) == "" {
		fieldErrors["first_name"] = append(fieldErrors["first_name"], "first name is required")
	}
	if strings.TrimSpace(r.ContactEmail) == "" || !strings.Contains(r.ContactEmail, "@") {
		fieldErrors["contact_email"] = append(fieldErrors["contact_email"], "a valid contact email is required")
	}
	if len(r.Password) < 8 {
		fieldErrors["password"] = append(fieldErrors["password"], "password must be at least 8 characters")
	}
	role := aggregate.UserRole(strings.ToUpper(r.Role))
	if role != aggregate.RoleBroker && role != aggregate.RoleHouseSeeker {
		fieldErrors["role"] = append(fieldErrors["role"], "role must be BROKER or HOUSESEEKER")
	}
	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public projection of a user account.
type UserResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ContactPhone string `json:"contact_phone"`
	ContactEmail string `json:"contact_email"`
	Role         string `json:"role"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserIdentityService registers accounts and issues tokens.
type UserIdentityService struct {
	uowFactory repository.UnitOfWorkFactory
	users      repository.UserInfoRepository
	jwtManager *jwt.JWTManager
}

// NewUserIdentityService creates a new user identity service
func NewUserIdentityService(uowFactory repository.UnitOfWorkFactory, users repository.UserInfoRepository, jwtManager *jwt.JWTManager) *UserIdentityService {
	return &UserIdentityService{
		uowFactory: uowFactory,
		users:      users,
		jwtManager: jwtManager,
	}
}

// Register creates a new broker or home-seeker account.
func (s *UserIdentityService) Register(ctx context.Context, req RegisterUserRequest) result.Result[*UserResponse] {
	if fieldErrors := req.validate(); fieldErrors != nil {
		return result.ValidationError[*UserResponse](fieldErrors)
	}

	existing, err := s.users.GetSingleBySpecification(ctx,
		repository.NewSpecification().WithFilter("contact_email", strings.ToLower(req.ContactEmail)))
	if err != nil {
		return result.Failure[*UserResponse]("Failed to register user")
	}
	if existing != nil {
		return result.Failure[*UserResponse]("Email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return result.Failure[*UserResponse]("Failed to register user")
	}

	user, err := aggregate.NewUserInfo(req.FirstName, req.LastName, req.ContactPhone,
		strings.ToLower(req.ContactEmail), string(hash), aggregate.UserRole(strings.ToUpper(req.Role)))
	if err != nil {
		return result.Failure[*UserResponse](err.Error())
	}

	uow := s.uowFactory.CreateUnitOfWork()
	defer uow.Close()

	if err := uow.Begin(ctx); err != nil {
		return result.Failure[*UserResponse]("Failed to register user")
	}
	if err := uow.Users().Add(ctx, user); err != nil {
		uow.Rollback(ctx)
		return result.Failure[*UserResponse]("Failed to register user")
	}
	if err := uow.SaveChanges(ctx); err != nil {
		uow.Rollback(ctx)
		return result.Failure[*UserResponse]("Failed to register user")
	}
	if err := uow.Commit(ctx); err != nil {
		return result.Failure[*UserResponse]("Failed to register user")
	}

	return result.Success("Registered successfully", toUserResponse(user))
}

// Login verifies credentials and issues a JWT carrying the user id and role.
func (s *UserIdentityService) Login(ctx context.Context, req LoginRequest) result.Result[*LoginResponse] {
	user, err := s.users.GetSingleBySpecification(ctx,
		repository.NewSpecification().WithFilter("contact_email", strings.ToLower(req.Email)))
	if err != nil {
		return result.Failure[*LoginResponse]("Failed to log in")
	}
	if user == nil {
		return result.Unauthorized[*LoginResponse]("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(req.Password)); err != nil {
		return result.Unauthorized[*LoginResponse]("Invalid email or password")
	}

	token, err := s.jwtManager.GenerateToken(user.ID(), user.ContactEmail(), user.FullName(), string(user.Role()))
	if err != nil {
		return result.Failure[*LoginResponse]("Failed to log in")
	}

	return result.Success("Logged in successfully", &LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	})
}

func toUserResponse(u *aggregate.UserInfo) *UserResponse {
	return &UserResponse{
		ID:           u.ID(),
		FirstName:    u.FirstName(),
		LastName:     u.LastName(),
		ContactPhone: u.ContactPhone(),
		ContactEmail: u.ContactEmail(),
		Role:         string(u.Role()),
	}
}

package aggregate

import (
	"fmt"
	"time"
)

// UserInfo is the account aggregate for brokers and home seekers. Listings
// reference users by id only; deleting a user never cascades into listings.
type UserInfo struct {
	AuditedEntity
	firstName    string
	lastName     string
	contactPhone string
	contactEmail string
	passwordHash string
	role         UserRole
}

// NewUserInfo registers a new account. The password hash is produced by the
// identity service; the aggregate never sees the plaintext.
func NewUserInfo(firstName, lastName, contactPhone, contactEmail, passwordHash string, role UserRole) (*UserInfo, error) {
	if firstName == "" {
		return nil, fmt.Errorf("first name cannot be empty")
	}
	if contactEmail == "" {
		return nil, fmt.Errorf("contact email cannot be empty")
	}
	if role != RoleBroker && role != RoleHouseSeeker {
		return nil, fmt.Errorf("unknown role: %s", role)
	}
	return &UserInfo{
		AuditedEntity: newAuditedEntity(),
		firstName:     firstName,
		lastName:      lastName,
		contactPhone:  contactPhone,
		contactEmail:  contactEmail,
		passwordHash:  passwordHash,
		role:          role,
	}, nil
}

func (u *UserInfo) FirstName() string    { return u.firstName }
func (u *UserInfo) LastName() string     { return u.lastName }
func (u *UserInfo) ContactPhone() string { return u.contactPhone }
func (u *UserInfo) ContactEmail() string { return u.contactEmail }
func (u *UserInfo) PasswordHash() string { return u.passwordHash }
func (u *UserInfo) Role() UserRole       { return u.role }

func (u *UserInfo) FullName() string {
	return u.firstName + " " + u.lastName
}

func (u *UserInfo) IsBroker() bool {
	return u.role == RoleBroker
}

// UserInfoState is the persistence snapshot of a UserInfo.
type UserInfoState struct {
	ID           string
	FirstName    string
	LastName     string
	ContactPhone string
	ContactEmail string
	PasswordHash string
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RestoreUserInfo rebuilds a user from its stored state.
func RestoreUserInfo(s UserInfoState) *UserInfo {
	return &UserInfo{
		AuditedEntity: restoreAuditedEntity(s.ID, s.CreatedAt, s.UpdatedAt),
		firstName:     s.FirstName,
		lastName:      s.LastName,
		contactPhone:  s.ContactPhone,
		contactEmail:  s.ContactEmail,
		passwordHash:  s.PasswordHash,
		role:          s.Role,
	}
}

// State captures the user for persistence.
func (u *UserInfo) State() UserInfoState {
	return UserInfoState{
		ID:           u.id,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		ContactPhone: u.contactPhone,
		ContactEmail: u.contactEmail,
		PasswordHash: u.passwordHash,
		Role:         u.role,
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
	}
}

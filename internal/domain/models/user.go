package models

import (
	"time"

	"github.com/google/uuid"
)

// UserType is the flat account classification used for authorization
// decisions. There is no hierarchy between types.
type UserType string

const (
	UserTypeParticipant UserType = "participant"
	UserTypeOrganizer   UserType = "organizer"
	UserTypeJudge       UserType = "judge"
)

// AllUserTypes lists every recognized account type.
func AllUserTypes() []UserType {
	return []UserType{UserTypeParticipant, UserTypeOrganizer, UserTypeJudge}
}

// IsValid reports whether t is one of the recognized account types.
func (t UserType) IsValid() bool {
	switch t {
	case UserTypeParticipant, UserTypeOrganizer, UserTypeJudge:
		return true
	}
	return false
}

// User is the account entity. PasswordHash and RefreshToken are secret
// fields: the repository only populates them through the explicit
// *WithPassword / *WithRefreshToken query variants, and they never appear
// in API responses (see PublicUser).
type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	PasswordHash   string
	UserType       UserType
	Phone          *string
	ProfilePicture *string
	IsActive       bool
	RefreshToken   *string
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicUser is the client-facing projection of a User with all secret
// fields stripped.
type PublicUser struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	UserType       UserType   `json:"userType"`
	Phone          *string    `json:"phone"`
	ProfilePicture *string    `json:"profilePicture"`
	IsActive       bool       `json:"isActive"`
	LastLoginAt    *time.Time `json:"lastLogin"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Public returns the safe projection of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		UserType:       u.UserType,
		Phone:          u.Phone,
		ProfilePicture: u.ProfilePicture,
		IsActive:       u.IsActive,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// Package repository declares the persistence contracts the services
// depend on. Secret fields (password hash, stored refresh token) are only
// returned by the query variants that name them, so every exposure of a
// secret is an explicit choice at the call site.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hackhub/auth-service/internal/domain/models"
)

// UserRepository is the account store.
type UserRepository interface {
	// Create persists a new user. The store assigns the ID and
	// timestamps. Returns ErrEmailExists on a duplicate email.
	Create(ctx context.Context, user *models.User) error

	// FindByID loads a user without secret fields.
	// Returns ErrUserNotFound when no row matches.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// FindByEmailWithPassword loads a user including the password hash,
	// for the signin path. Email is matched against the normalized form.
	FindByEmailWithPassword(ctx context.Context, email string) (*models.User, error)

	// FindByIDWithRefreshToken loads a user including the stored refresh
	// token, for the rotation path.
	FindByIDWithRefreshToken(ctx context.Context, id uuid.UUID) (*models.User, error)

	// UpdateRefreshToken overwrites the stored refresh token in a single
	// statement; nil clears it. Last write wins. Updating a missing user
	// is not an error (logout is idempotent).
	UpdateRefreshToken(ctx context.Context, id uuid.UUID, token *string) error

	// UpdateLastLogin stamps the last successful signin.
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

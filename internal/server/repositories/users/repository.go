// Package users is the credential store: persistence of user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/shipagency/internal/models"
)

type Repository interface {
	// Create inserts user and fills in ID (when empty) and CreatedAt.
	// A duplicate e-mail yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// DeleteAllExceptRole removes every user whose role differs from keep.
	DeleteAllExceptRole(ctx context.Context, keep models.Role) (int64, error)
	ExistsWithRole(ctx context.Context, role models.Role) (bool, error)
}

// Package vessels is the vessel record store.
package vessels

import (
	"context"

	"github.com/dmitrijs2005/shipagency/internal/models"
)

type Repository interface {
	// List returns all vessels, newest created first.
	List(ctx context.Context) ([]*models.Vessel, error)
	Get(ctx context.Context, id string) (*models.Vessel, error)
	// GetForUpdate is Get with a row lock; call it inside a transaction.
	GetForUpdate(ctx context.Context, id string) (*models.Vessel, error)
	Create(ctx context.Context, v *models.Vessel) error
	// Update overwrites every mutable column of v.ID.
	Update(ctx context.Context, v *models.Vessel) error
	Delete(ctx context.Context, id string) error
}

package category

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	// FindByID returns nil, nil when the category does not exist.
	FindByID(ctx context.Context, id string) (*model.Category, error)
	// FindAll returns every category, flat, in creation order.
	FindAll(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error

	// Occupancy counts direct items (plus subcategory items for a top-level
	// category) and direct subcategories of id.
	Occupancy(ctx context.Context, id string) (model.Occupancy, error)
	// Delete removes a category that has no dependents.
	Delete(ctx context.Context, id string) error
	// DeleteCascade removes the category with its subcategories and every item
	// linked to any of them, as one atomic unit.
	DeleteCascade(ctx context.Context, id string) (model.CascadeResult, error)
}

package item

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, item *model.Item) error
	// FindByID returns nil, nil when the item does not exist.
	FindByID(ctx context.Context, id string) (*model.Item, error)
	// FindAll returns every item in creation order.
	FindAll(ctx context.Context) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id string) error
}

// CategoryReader resolves item category links. category.Repository satisfies it.
type CategoryReader interface {
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context) ([]model.Category, error)
}

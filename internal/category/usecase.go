package category

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/category/dto"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// UseCase methods that mutate take the admin credential explicitly.
type UseCase interface {
	CreateCategory(ctx context.Context, credential string, input *dto.CreateCategoryInput) (*model.Category, error)
	RenameCategory(ctx context.Context, credential string, input *dto.RenameCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListTree(ctx context.Context) ([]model.Category, error)

	// DeleteCategory is the safe delete: it refuses with an
	// *apperror.ConflictError while dependents exist.
	DeleteCategory(ctx context.Context, credential string, id string) error
	ForceDeleteCategory(ctx context.Context, credential string, id string) (*model.CascadeResult, error)
}

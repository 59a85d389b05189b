package usecase

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/fekuna/omnipos-menu-service/internal/category"
	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// deletionPolicy decides between safe and forced category removal.
// Callers hold the subtree lock for the category.
type deletionPolicy struct {
	repo category.Repository
}

func (p *deletionPolicy) resolve(ctx context.Context, id string) (*model.Category, error) {
	cat, err := p.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NewNotFound("category", id)
	}
	return cat, nil
}

// requestDelete removes the category only when nothing depends on it.
// Otherwise it leaves state untouched and reports the counts.
func (p *deletionPolicy) requestDelete(ctx context.Context, id string) error {
	if _, err := p.resolve(ctx, id); err != nil {
		return err
	}

	occ, err := p.repo.Occupancy(ctx, id)
	if err != nil {
		return err
	}
	if !occ.IsEmpty() {
		return &apperror.ConflictError{
			ItemsCount:         occ.Items,
			SubcategoriesCount: occ.Subcategories,
		}
	}

	return p.repo.Delete(ctx, id)
}

// forceDelete removes the category and everything below it in one unit.
func (p *deletionPolicy) forceDelete(ctx context.Context, id string) (model.CascadeResult, error) {
	if _, err := p.resolve(ctx, id); err != nil {
		return model.CascadeResult{}, err
	}
	return p.repo.DeleteCascade(ctx, id)
}

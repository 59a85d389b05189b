package catalog

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/model"
)

// Snapshot is the whole catalog as the display frontends consume it.
type Snapshot struct {
	Items      []model.ItemView `json:"items"`
	Categories []model.Category `json:"categories"`
}

type UseCase interface {
	// GetCatalog is the public listing. It may be served from cache.
	GetCatalog(ctx context.Context) (*Snapshot, error)
	// GetAdminCatalog always reads storage and requires the admin credential.
	GetAdminCatalog(ctx context.Context, credential string) (*Snapshot, error)
	// View returns the items visible for a selection.
	View(ctx context.Context, sel Selection) ([]model.ItemView, error)
	// ViewByNames resolves a name-based selection first; unknown names give an empty view.
	ViewByNames(ctx context.Context, category, subcategory string) ([]model.ItemView, error)
}

// Reader returns every category and item as of one point in time, each in
// creation order.
type Reader interface {
	ReadAll(ctx context.Context) ([]model.Category, []model.Item, error)
}

// Cache stores the public snapshot. Every Invalidate bumps a generation; Get
// reports the current one (nil snapshot on a miss) and Set stores only while
// the generation it was given is still current.
type Cache interface {
	Get(ctx context.Context) (*Snapshot, int64, error)
	Set(ctx context.Context, s *Snapshot, generation int64) error
	Invalidate(ctx context.Context) error
}

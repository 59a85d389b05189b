package usecase

import (
	"context"

	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/catalog"
	catUC "github.com/fekuna/omnipos-menu-service/internal/category/usecase"
	itemUC "github.com/fekuna/omnipos-menu-service/internal/item/usecase"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"go.uber.org/zap"
)

type catalogUseCase struct {
	reader catalog.Reader
	gate   *auth.Gate
	cache  catalog.Cache
	logger logger.ZapLogger
}

// NewCatalogUseCase builds the read side. cache may be nil.
func NewCatalogUseCase(reader catalog.Reader, gate *auth.Gate, cache catalog.Cache, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		reader: reader,
		gate:   gate,
		cache:  cache,
		logger: log,
	}
}

func (uc *catalogUseCase) load(ctx context.Context) (*catalog.Snapshot, error) {
	categories, items, err := uc.reader.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return &catalog.Snapshot{
		Items:      itemUC.Label(items, categories),
		Categories: catUC.BuildTree(categories),
	}, nil
}

func (uc *catalogUseCase) GetCatalog(ctx context.Context) (*catalog.Snapshot, error) {
	if uc.cache == nil {
		return uc.load(ctx)
	}

	cached, generation, err := uc.cache.Get(ctx)
	if err != nil {
		uc.logger.Warn("catalog cache read failed, falling back to storage", zap.Error(err))
		return uc.load(ctx)
	}
	if cached != nil {
		return cached, nil
	}

	s, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	// Dropped by the cache if a mutation invalidated it since Get.
	if err := uc.cache.Set(ctx, s, generation); err != nil {
		uc.logger.Warn("catalog cache write failed", zap.Error(err))
	}
	return s, nil
}

func (uc *catalogUseCase) GetAdminCatalog(ctx context.Context, credential string) (*catalog.Snapshot, error) {
	if err := uc.gate.Authorize(credential); err != nil {
		return nil, err
	}
	return uc.load(ctx)
}

func (uc *catalogUseCase) View(ctx context.Context, sel catalog.Selection) ([]model.ItemView, error) {
	s, err := uc.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Filter(s.Items, s.Categories, sel), nil
}

func (uc *catalogUseCase) ViewByNames(ctx context.Context, categoryName, subcategoryName string) ([]model.ItemView, error) {
	s, err := uc.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	sel, ok := catalog.SelectionFromNames(s.Categories, categoryName, subcategoryName)
	if !ok {
		return []model.ItemView{}, nil
	}
	return catalog.Filter(s.Items, s.Categories, sel), nil
}

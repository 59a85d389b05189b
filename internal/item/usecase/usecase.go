package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/events"
	"github.com/fekuna/omnipos-menu-service/internal/item"
	"github.com/fekuna/omnipos-menu-service/internal/item/dto"
	"github.com/fekuna/omnipos-menu-service/internal/lock"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type itemUseCase struct {
	repo       item.Repository
	categories item.CategoryReader
	gate       *auth.Gate
	locker     lock.Locker
	publisher  events.Publisher
	logger     logger.ZapLogger
}

func NewItemUseCase(
	repo item.Repository,
	categories item.CategoryReader,
	gate *auth.Gate,
	locker lock.Locker,
	publisher events.Publisher,
	log logger.ZapLogger,
) item.UseCase {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &itemUseCase{
		repo:       repo,
		categories: categories,
		gate:       gate,
		locker:     locker,
		publisher:  publisher,
		logger:     log,
	}
}

type itemFields struct {
	name        string
	categoryID  string
	description string
	price       float64
	imageURL    string
}

func validateFields(name, categoryID, description, imageURL string, price any) (itemFields, error) {
	f := itemFields{
		name:        strings.TrimSpace(name),
		categoryID:  strings.TrimSpace(categoryID),
		description: description,
		price:       CoercePrice(price),
		imageURL:    strings.TrimSpace(imageURL),
	}
	if f.name == "" {
		return f, apperror.NewValidation("name", "name and category_id are required")
	}
	if f.categoryID == "" {
		return f, apperror.NewValidation("category_id", "name and category_id are required")
	}
	return f, nil
}

func (uc *itemUseCase) resolveCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NewValidation("category_id", "invalid category_id")
	}
	return cat, nil
}

func (uc *itemUseCase) CreateItem(ctx context.Context, credential string, input *dto.CreateItemInput) (*model.Item, error) {
	if err := uc.gate.Authorize(credential); err != nil {
		return nil, err
	}

	f, err := validateFields(input.Name, input.CategoryID, input.Description, input.ImageURL, input.Price)
	if err != nil {
		return nil, err
	}

	cat, err := uc.resolveCategory(ctx, f.categoryID)
	if err != nil {
		return nil, err
	}

	unlock, err := uc.locker.Lock(ctx, cat.RootID())
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-check under the lock: a forced delete may have won the race.
	if _, err := uc.resolveCategory(ctx, f.categoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	it := &model.Item{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CategoryID:  f.categoryID,
		Name:        f.name,
		Description: f.description,
		Price:       f.price,
		ImageURL:    f.imageURL,
	}

	if err := uc.repo.Create(ctx, it); err != nil {
		uc.logger.Error("failed to create item", zap.String("name", f.name), zap.Error(err))
		return nil, err
	}

	uc.publish(ctx, events.New(events.ItemCreated, it.ID, it))
	return it, nil
}

func (uc *itemUseCase) UpdateItem(ctx context.Context, credential string, input *dto.UpdateItemInput) (*model.Item, error) {
	if err := uc.gate.Authorize(credential); err != nil {
		return nil, err
	}

	f, err := validateFields(input.Name, input.CategoryID, input.Description, input.ImageURL, input.Price)
	if err != nil {
		return nil, err
	}

	current, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, apperror.NewNotFound("item", input.ID)
	}

	target, err := uc.resolveCategory(ctx, f.categoryID)
	if err != nil {
		return nil, err
	}

	keys := []string{input.ID, target.RootID()}
	if old, err := uc.categories.FindByID(ctx, current.CategoryID); err == nil && old != nil {
		keys = append(keys, old.RootID())
	}
	unlock, err := uc.locker.Lock(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer unlock()

	it, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperror.NewNotFound("item", input.ID)
	}
	if _, err := uc.resolveCategory(ctx, f.categoryID); err != nil {
		return nil, err
	}

	it.CategoryID = f.categoryID
	it.Name = f.name
	it.Description = f.description
	it.Price = f.price
	it.ImageURL = f.imageURL
	it.UpdatedAt = time.Now().UTC()

	if err := uc.repo.Update(ctx, it); err != nil {
		if !apperror.IsNotFound(err) {
			uc.logger.Error("failed to update item", zap.String("item_id", it.ID), zap.Error(err))
		}
		return nil, err
	}

	uc.publish(ctx, events.New(events.ItemUpdated, it.ID, it))
	return it, nil
}

func (uc *itemUseCase) DeleteItem(ctx context.Context, credential string, id string) error {
	if err := uc.gate.Authorize(credential); err != nil {
		return err
	}

	it, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if it == nil {
		return apperror.NewNotFound("item", id)
	}

	keys := []string{id}
	if cat, err := uc.categories.FindByID(ctx, it.CategoryID); err == nil && cat != nil {
		keys = append(keys, cat.RootID())
	}
	unlock, err := uc.locker.Lock(ctx, keys...)
	if err != nil {
		return err
	}
	defer unlock()

	if err := uc.repo.Delete(ctx, id); err != nil {
		if !apperror.IsNotFound(err) {
			uc.logger.Error("failed to delete item", zap.String("item_id", id), zap.Error(err))
		}
		return err
	}

	uc.publish(ctx, events.New(events.ItemDeleted, id, nil))
	return nil
}

func (uc *itemUseCase) GetItem(ctx context.Context, id string) (*model.ItemView, error) {
	it, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, apperror.NewNotFound("item", id)
	}

	categories, err := uc.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	view := Label([]model.Item{*it}, categories)[0]
	return &view, nil
}

func (uc *itemUseCase) ListItems(ctx context.Context) ([]model.ItemView, error) {
	items, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := uc.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return Label(items, categories), nil
}

func (uc *itemUseCase) publish(ctx context.Context, e events.Event) {
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.logger.Warn("failed to publish catalog event",
			zap.String("event_type", string(e.EventType)),
			zap.String("entity_id", e.EntityID),
			zap.Error(err),
		)
	}
}

// Label attaches category display names to items. An item whose category no
// longer resolves keeps empty labels instead of being dropped.
func Label(items []model.Item, categories []model.Category) []model.ItemView {
	byID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	views := make([]model.ItemView, 0, len(items))
	for _, it := range items {
		v := model.ItemView{Item: it}
		if c, ok := byID[it.CategoryID]; ok {
			v.CategoryName = c.Name
			if c.ParentID != nil {
				v.Subcategory = c.Name
				if p, ok := byID[*c.ParentID]; ok {
					v.ParentCategory = p.Name
				}
			}
		}
		views = append(views, v)
	}
	return views
}

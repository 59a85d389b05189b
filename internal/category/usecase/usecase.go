package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/category"
	"github.com/fekuna/omnipos-menu-service/internal/category/dto"
	"github.com/fekuna/omnipos-menu-service/internal/events"
	"github.com/fekuna/omnipos-menu-service/internal/lock"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo      category.Repository
	policy    *deletionPolicy
	gate      *auth.Gate
	locker    lock.Locker
	publisher events.Publisher
	logger    logger.ZapLogger
}

func NewCategoryUseCase(
	repo category.Repository,
	gate *auth.Gate,
	locker lock.Locker,
	publisher events.Publisher,
	log logger.ZapLogger,
) category.UseCase {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &categoryUseCase{
		repo:      repo,
		policy:    &deletionPolicy{repo: repo},
		gate:      gate,
		locker:    locker,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, credential string, input *dto.CreateCategoryInput) (*model.Category, error) {
	if err := uc.gate.Authorize(credential); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidation("name", "name is required")
	}

	var parentID *string
	if input.ParentID != nil && strings.TrimSpace(*input.ParentID) != "" {
		id := strings.TrimSpace(*input.ParentID)
		parentID = &id

		// Hold the parent's subtree so a concurrent forced delete cannot
		// remove it between the check and the insert.
		unlock, err := uc.locker.Lock(ctx, id)
		if err != nil {
			return nil, err
		}
		defer unlock()

		parent, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperror.NewValidation("parent_id", "parent category not found")
		}
		if !parent.IsTopLevel() {
			return nil, apperror.NewValidation("parent_id", "subcategories cannot have subcategories")
		}
	}

	now := time.Now().UTC()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		ParentID: parentID,
		Name:     name,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		uc.logger.Error("failed to create category", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	uc.publish(ctx, events.New(events.CategoryCreated, cat.ID, cat))
	return cat, nil
}

func (uc *categoryUseCase) RenameCategory(ctx context.Context, credential string, input *dto.RenameCategoryInput) (*model.Category, error) {
	if err := uc.gate.Authorize(credential); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewValidation("name", "name is required")
	}

	unlock, err := uc.lockSubtree(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	cat, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	cat.Name = name
	cat.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, cat); err != nil {
		return nil, err
	}

	uc.publish(ctx, events.New(events.CategoryRenamed, cat.ID, cat))
	return cat, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, apperror.NewNotFound("category", id)
	}
	return cat, nil
}

func (uc *categoryUseCase) ListTree(ctx context.Context) ([]model.Category, error) {
	categories, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(categories), nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, credential string, id string) error {
	if err := uc.gate.Authorize(credential); err != nil {
		return err
	}

	unlock, err := uc.lockSubtree(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	if err := uc.policy.requestDelete(ctx, id); err != nil {
		if _, ok := apperror.AsConflict(err); !ok && !apperror.IsNotFound(err) {
			uc.logger.Error("failed to delete category", zap.String("category_id", id), zap.Error(err))
		}
		return err
	}

	uc.publish(ctx, events.New(events.CategoryDeleted, id, nil))
	return nil
}

func (uc *categoryUseCase) ForceDeleteCategory(ctx context.Context, credential string, id string) (*model.CascadeResult, error) {
	if err := uc.gate.Authorize(credential); err != nil {
		return nil, err
	}

	unlock, err := uc.lockSubtree(ctx, id)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result, err := uc.policy.forceDelete(ctx, id)
	if err != nil {
		if !apperror.IsNotFound(err) {
			uc.logger.Error("failed to force delete category", zap.String("category_id", id), zap.Error(err))
		}
		return nil, err
	}

	uc.logger.Info("category force deleted",
		zap.String("category_id", id),
		zap.Int("items_deleted", result.ItemsDeleted),
		zap.Int("subcategories_deleted", result.SubcategoriesDeleted),
	)
	uc.publish(ctx, events.New(events.CategoryForceDeleted, id, result))
	return &result, nil
}

// lockSubtree locks the top-level category owning id. An unknown id still
// gets a lock on itself so the caller can report not-found consistently.
func (uc *categoryUseCase) lockSubtree(ctx context.Context, id string) (func(), error) {
	key := id
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		key = cat.RootID()
	}
	return uc.locker.Lock(ctx, key)
}

func (uc *categoryUseCase) publish(ctx context.Context, e events.Event) {
	if err := uc.publisher.Publish(ctx, e); err != nil {
		uc.logger.Warn("failed to publish catalog event",
			zap.String("event_type", string(e.EventType)),
			zap.String("entity_id", e.EntityID),
			zap.Error(err),
		)
	}
}

// BuildTree nests subcategories under their parents. Input order is kept at
// both levels. Subcategories whose parent is missing are dropped from the tree.
func BuildTree(flat []model.Category) []model.Category {
	children := make(map[string][]model.Category)
	for _, c := range flat {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	tree := make([]model.Category, 0, len(flat))
	for _, c := range flat {
		if c.ParentID != nil {
			continue
		}
		c.Subcategories = children[c.ID]
		tree = append(tree, c)
	}
	return tree
}

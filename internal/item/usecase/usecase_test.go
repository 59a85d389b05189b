package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/fekuna/omnipos-menu-service/internal/auth"
	"github.com/fekuna/omnipos-menu-service/internal/item"
	"github.com/fekuna/omnipos-menu-service/internal/item/dto"
	"github.com/fekuna/omnipos-menu-service/internal/lock"
	"github.com/fekuna/omnipos-menu-service/internal/logger"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/storage/memory"
)

const secret = "secret123"

type fixture struct {
	store *memory.Store
	uc    item.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	return &fixture{
		store: store,
		uc: NewItemUseCase(store.Items(), store.Categories(), auth.NewGate(secret),
			lock.NewLocal(), nil, logger.NewNop()),
	}
}

func (f *fixture) category(t *testing.T, id, name string, parentID *string) *model.Category {
	t.Helper()
	now := time.Now().UTC()
	c := &model.Category{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		ParentID:  parentID,
		Name:      name,
	}
	if err := f.store.Categories().Create(context.Background(), c); err != nil {
		t.Fatalf("create category %s: %v", id, err)
	}
	return c
}

func TestCreateItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	drinks := f.category(t, "drinks", "Drinks", nil)

	it, err := f.uc.CreateItem(ctx, secret, &dto.CreateItemInput{
		CategoryID:  drinks.ID,
		Name:        " Latte ",
		Description: "with oat milk",
		Price:       "250",
		ImageURL:    "/img/latte.png",
	})
	if err != nil {
		t.Fatalf("CreateItem() error = %v", err)
	}
	if it.ID == "" || it.Name != "Latte" || it.Price != 250 || it.CategoryID != drinks.ID {
		t.Errorf("item = %+v", it)
	}

	tests := []struct {
		name string
		cred string
		in   *dto.CreateItemInput
		want func(error) bool
	}{
		{"missing name", secret, &dto.CreateItemInput{CategoryID: drinks.ID}, apperror.IsValidation},
		{"missing category", secret, &dto.CreateItemInput{Name: "Tea"}, apperror.IsValidation},
		{"unknown category", secret, &dto.CreateItemInput{Name: "Tea", CategoryID: "nope"}, apperror.IsValidation},
		{"bad credential", "nope", &dto.CreateItemInput{Name: "Tea", CategoryID: drinks.ID}, func(err error) bool {
			return errors.Is(err, apperror.ErrUnauthorized)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.uc.CreateItem(ctx, tt.cred, tt.in); !tt.want(err) {
				t.Errorf("CreateItem() error = %v", err)
			}
		})
	}

	items, _ := f.uc.ListItems(ctx)
	if len(items) != 1 {
		t.Errorf("items = %d, want 1", len(items))
	}
}

func TestCreateItem_ValidationMessage(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.uc.CreateItem(context.Background(), secret, &dto.CreateItemInput{Name: "Tea"})
	if err == nil || err.Error() != "name and category_id are required" {
		t.Errorf("error = %v, want the required-fields message", err)
	}
}

func TestCreateItem_LenientPrice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	drinks := f.category(t, "drinks", "Drinks", nil)

	for _, price := range []any{nil, "free", -3.0} {
		it, err := f.uc.CreateItem(ctx, secret, &dto.CreateItemInput{Name: "Water", CategoryID: drinks.ID, Price: price})
		if err != nil {
			t.Fatalf("CreateItem(price=%v) error = %v", price, err)
		}
		if it.Price != 0 {
			t.Errorf("price %v stored as %v, want 0", price, it.Price)
		}
	}
}

func TestUpdateItem_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	drinks := f.category(t, "drinks", "Drinks", nil)
	hot := f.category(t, "hot", "Hot", &drinks.ID)
	food := f.category(t, "food", "Food", nil)

	first, err := f.uc.CreateItem(ctx, secret, &dto.CreateItemInput{Name: "Tea", CategoryID: hot.ID, Price: 90.0})
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.uc.CreateItem(ctx, secret, &dto.CreateItemInput{Name: "Soup", CategoryID: food.ID, Price: 300.0})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.uc.UpdateItem(ctx, secret, &dto.UpdateItemInput{
		ID:          first.ID,
		CategoryID:  drinks.ID,
		Name:        "Green tea",
		Description: "sencha",
		Price:       "110,5",
	})
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
	if updated.Name != "Green tea" || updated.Price != 110.5 || updated.CategoryID != drinks.ID {
		t.Errorf("updated = %+v", updated)
	}

	items, err := f.uc.ListItems(ctx)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != first.ID || items[1].ID != second.ID {
		t.Fatalf("items = %+v, want creation order kept after update", items)
	}
	if items[0].Description != "sencha" || items[0].CategoryName != "Drinks" || items[0].Subcategory != "" {
		t.Errorf("items[0] = %+v", items[0])
	}
}

func TestUpdateItem_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	drinks := f.category(t, "drinks", "Drinks", nil)
	it, err := f.uc.CreateItem(ctx, secret, &dto.CreateItemInput{Name: "Tea", CategoryID: drinks.ID})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.uc.UpdateItem(ctx, secret, &dto.UpdateItemInput{ID: "missing", Name: "X", CategoryID: drinks.ID}); !apperror.IsNotFound(err) {
		t.Errorf("update missing error = %v, want not found", err)
	}
	if _, err := f.uc.UpdateItem(ctx, secret, &dto.UpdateItemInput{ID: it.ID, Name: "X", CategoryID: "gone"}); !apperror.IsValidation(err) {
		t.Errorf("update to unknown category error = %v, want validation", err)
	}
	if _, err := f.uc.UpdateItem(ctx, "bad", &dto.UpdateItemInput{ID: it.ID, Name: "X", CategoryID: drinks.ID}); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("update with bad credential error = %v, want unauthorized", err)
	}

	got, _ := f.uc.GetItem(ctx, it.ID)
	if got.Name != "Tea" {
		t.Errorf("rejected updates changed the item: %+v", got)
	}
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	drinks := f.category(t, "drinks", "Drinks", nil)
	it, err := f.uc.CreateItem(ctx, secret, &dto.CreateItemInput{Name: "Tea", CategoryID: drinks.ID})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.uc.DeleteItem(ctx, "", it.ID); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("DeleteItem() without credential error = %v", err)
	}
	if err := f.uc.DeleteItem(ctx, secret, it.ID); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if _, err := f.uc.GetItem(ctx, it.ID); !apperror.IsNotFound(err) {
		t.Errorf("GetItem() after delete error = %v, want not found", err)
	}
	if err := f.uc.DeleteItem(ctx, secret, it.ID); !apperror.IsNotFound(err) {
		t.Errorf("second delete error = %v, want not found", err)
	}
}

func TestGetItem_Labels(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	drinks := f.category(t, "drinks", "Drinks", nil)
	hot := f.category(t, "hot", "Hot", &drinks.ID)
	it, err := f.uc.CreateItem(ctx, secret, &dto.CreateItemInput{Name: "Tea", CategoryID: hot.ID})
	if err != nil {
		t.Fatal(err)
	}

	view, err := f.uc.GetItem(ctx, it.ID)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if view.CategoryName != "Hot" || view.ParentCategory != "Drinks" || view.Subcategory != "Hot" {
		t.Errorf("view = %+v", view)
	}
}

func TestLabel_MissingCategoryKeepsItem(t *testing.T) {
	t.Parallel()

	items := []model.Item{
		{BaseModel: model.BaseModel{ID: "1"}, CategoryID: "x", Name: "Orphan"},
		{BaseModel: model.BaseModel{ID: "2"}, CategoryID: "a", Name: "Bread"},
	}
	cats := []model.Category{{BaseModel: model.BaseModel{ID: "a"}, Name: "Food"}}

	views := Label(items, cats)
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}
	if views[0].CategoryName != "" || views[0].ParentCategory != "" {
		t.Errorf("orphan labels = %+v, want empty", views[0])
	}
	if views[1].CategoryName != "Food" || views[1].ParentCategory != "" || views[1].Subcategory != "" {
		t.Errorf("top-level labels = %+v", views[1])
	}
}

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	catalogRepo "github.com/fekuna/omnipos-menu-service/internal/catalog/repository"
	catRepo "github.com/fekuna/omnipos-menu-service/internal/category/repository"
	itemRepo "github.com/fekuna/omnipos-menu-service/internal/item/repository"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/fekuna/omnipos-menu-service/internal/storage/postgres"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_DSN not set")
	}
	ctx := context.Background()
	db, err := postgres.Open(ctx, dsn, nil)
	if err != nil {
		t.Skipf("postgres unreachable: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := postgres.Migrate(ctx, db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if _, err := db.ExecContext(ctx, `TRUNCATE menu_items, categories`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

func category(id string, parent *string) *model.Category {
	now := time.Now().UTC()
	return &model.Category{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		ParentID:  parent,
		Name:      "cat-" + id[:8],
	}
}

func item(categoryID string) *model.Item {
	now := time.Now().UTC()
	return &model.Item{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID: categoryID,
		Name:       "item",
		Price:      12.5,
	}
}

func TestRepositories(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	cats := catRepo.NewPGRepository(db)
	items := itemRepo.NewPGRepository(db)

	top := category(uuid.New().String(), nil)
	sub := category(uuid.New().String(), &top.ID)
	other := category(uuid.New().String(), nil)
	for _, c := range []*model.Category{top, sub, other} {
		if err := cats.Create(ctx, c); err != nil {
			t.Fatalf("Create(category) error = %v", err)
		}
	}
	if sub.Seq <= top.Seq {
		t.Errorf("seq not increasing: %d then %d", top.Seq, sub.Seq)
	}

	for _, it := range []*model.Item{item(top.ID), item(sub.ID), item(other.ID)} {
		if err := items.Create(ctx, it); err != nil {
			t.Fatalf("Create(item) error = %v", err)
		}
	}

	allCats, allItems, err := catalogRepo.NewPGRepository(db).ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(allCats) != 3 || len(allItems) != 3 || allCats[0].ID != top.ID {
		t.Errorf("ReadAll() = %d categories, %d items", len(allCats), len(allItems))
	}

	missing, err := cats.FindByID(ctx, "missing")
	if missing != nil || err != nil {
		t.Errorf("FindByID(missing) = %v, %v", missing, err)
	}

	occ, err := cats.Occupancy(ctx, top.ID)
	if err != nil {
		t.Fatal(err)
	}
	if occ.Items != 2 || occ.Subcategories != 1 {
		t.Errorf("Occupancy() = %+v", occ)
	}

	if err := cats.Delete(ctx, top.ID); err == nil || apperror.IsNotFound(err) {
		t.Errorf("Delete() of referenced category error = %v, want FK violation", err)
	}

	res, err := cats.DeleteCascade(ctx, top.ID)
	if err != nil {
		t.Fatalf("DeleteCascade() error = %v", err)
	}
	if res.ItemsDeleted != 2 || res.SubcategoriesDeleted != 1 {
		t.Errorf("DeleteCascade() = %+v", res)
	}

	left, _ := items.FindAll(ctx)
	if len(left) != 1 || left[0].CategoryID != other.ID || left[0].Price != 12.5 {
		t.Errorf("remaining items = %+v", left)
	}

	if _, err := cats.DeleteCascade(ctx, top.ID); !apperror.IsNotFound(err) {
		t.Errorf("second DeleteCascade() error = %v, want not found", err)
	}
	if err := items.Delete(ctx, "missing"); !apperror.IsNotFound(err) {
		t.Errorf("Delete(missing item) error = %v, want not found", err)
	}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// ReadAll reads categories and items in one repeatable-read transaction so
// both lists come from the same snapshot.
func (r *PGRepository) ReadAll(ctx context.Context) ([]model.Category, []model.Item, error) {
	tx, err := r.DB.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var categories []model.Category
	if err := tx.SelectContext(ctx, &categories,
		`SELECT id, seq, parent_id, name, created_at, updated_at FROM categories ORDER BY seq ASC`); err != nil {
		return nil, nil, fmt.Errorf("select categories: %w", err)
	}

	var items []model.Item
	if err := tx.SelectContext(ctx, &items,
		`SELECT id, seq, category_id, name, description, price, image_url, created_at, updated_at
         FROM menu_items ORDER BY seq ASC`); err != nil {
		return nil, nil, fmt.Errorf("select items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit: %w", err)
	}
	return categories, items, nil
}

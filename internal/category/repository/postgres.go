package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, parent_id, name, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING seq
    `
	return r.DB.QueryRowxContext(ctx, query, c.ID, c.ParentID, c.Name, c.CreatedAt, c.UpdatedAt).Scan(&c.Seq)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	query := `SELECT id, seq, parent_id, name, created_at, updated_at FROM categories WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	query := `SELECT id, seq, parent_id, name, created_at, updated_at FROM categories ORDER BY seq ASC`
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PGRepository) Update(ctx context.Context, c *model.Category) error {
	query := `UPDATE categories SET name = :name, updated_at = :updated_at WHERE id = :id`
	res, err := r.DB.NamedExecContext(ctx, query, c)
	if err != nil {
		return err
	}
	return requireRow(res, c.ID)
}

func (r *PGRepository) Occupancy(ctx context.Context, id string) (model.Occupancy, error) {
	var occ model.Occupancy
	query := `
        SELECT
            (SELECT count(*) FROM menu_items
              WHERE category_id = $1
                 OR category_id IN (SELECT id FROM categories WHERE parent_id = $1)) AS items_count,
            (SELECT count(*) FROM categories WHERE parent_id = $1) AS subcategories_count
    `
	if err := r.DB.GetContext(ctx, &occ, query, id); err != nil {
		return model.Occupancy{}, err
	}
	return occ, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	// parent_id and menu_items.category_id are ON DELETE RESTRICT, so a
	// category with dependents cannot disappear here either.
	res, err := r.DB.ExecContext(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func (r *PGRepository) DeleteCascade(ctx context.Context, id string) (model.CascadeResult, error) {
	var result model.CascadeResult

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Items first, then subcategories, then the category, so every step keeps the FKs valid.
	res, err := tx.ExecContext(ctx, `
        DELETE FROM menu_items
        WHERE category_id = $1
           OR category_id IN (SELECT id FROM categories WHERE parent_id = $1)`, id)
	if err != nil {
		return result, fmt.Errorf("delete items: %w", err)
	}
	result.ItemsDeleted = affected(res)

	res, err = tx.ExecContext(ctx, `DELETE FROM categories WHERE parent_id = $1`, id)
	if err != nil {
		return result, fmt.Errorf("delete subcategories: %w", err)
	}
	result.SubcategoriesDeleted = affected(res)

	res, err = tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return result, fmt.Errorf("delete category: %w", err)
	}
	if err := requireRow(res, id); err != nil {
		return model.CascadeResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.CascadeResult{}, fmt.Errorf("commit: %w", err)
	}
	return result, nil
}

func affected(res sql.Result) int {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return int(n)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("category", id)
	}
	return nil
}

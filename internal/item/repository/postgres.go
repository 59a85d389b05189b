package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-menu-service/internal/apperror"
	"github.com/fekuna/omnipos-menu-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const itemColumns = `id, seq, category_id, name, description, price, image_url, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, it *model.Item) error {
	query := `
        INSERT INTO menu_items (id, category_id, name, description, price, image_url, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING seq
    `
	return r.DB.QueryRowxContext(ctx, query,
		it.ID, it.CategoryID, it.Name, it.Description, it.Price, it.ImageURL, it.CreatedAt, it.UpdatedAt,
	).Scan(&it.Seq)
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	var it model.Item
	query := `SELECT ` + itemColumns + ` FROM menu_items WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &it, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	query := `SELECT ` + itemColumns + ` FROM menu_items ORDER BY seq ASC`
	if err := r.DB.SelectContext(ctx, &items, query); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PGRepository) Update(ctx context.Context, it *model.Item) error {
	query := `
        UPDATE menu_items
        SET category_id = :category_id,
            name = :name,
            description = :description,
            price = :price,
            image_url = :image_url,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, it)
	if err != nil {
		return err
	}
	return requireRow(res, it.ID)
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM menu_items WHERE id = $1", id)
	if err != nil {
		return err
	}
	return requireRow(res, id)
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperror.NewNotFound("item", id)
	}
	return nil
}

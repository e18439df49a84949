package repositories

import (
	"context"

	"shiftstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, storeID string, id uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	ListByStore(ctx context.Context, storeID string, includeInactive bool) ([]*models.Item, error)
	CountByStore(ctx context.Context, storeID string) (int, error)
	SetActive(ctx context.Context, storeID string, id uuid.UUID, active bool) error
	Delete(ctx context.Context, storeID string, id uuid.UUID) error
}

type itemRepo struct {
	db DB
}

func NewItemRepo(db DB) ItemRepository {
	return &itemRepo{db: db}
}

func (r *itemRepo) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (id, store_id, name, category, category_order, default_unit, low_stock_threshold, is_active, sort_order, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.StoreID, item.Name, item.Category, item.CategoryOrder, item.DefaultUnit, item.LowStockThreshold, item.IsActive, item.SortOrder)
	return err
}

func (r *itemRepo) GetByID(ctx context.Context, storeID string, id uuid.UUID) (*models.Item, error) {
	item := &models.Item{}
	query := `
		SELECT id, store_id, name, category, category_order, default_unit, low_stock_threshold, is_active, sort_order, updated_at
		FROM items
		WHERE store_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, storeID, id).Scan(&item.ID, &item.StoreID, &item.Name, &item.Category, &item.CategoryOrder, &item.DefaultUnit, &item.LowStockThreshold, &item.IsActive, &item.SortOrder, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *itemRepo) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET name = $1, category = $2, category_order = $3, default_unit = $4, low_stock_threshold = $5, is_active = $6, sort_order = $7, updated_at = NOW()
		WHERE store_id = $8 AND id = $9
	`
	_, err := r.db.Exec(ctx, query, item.Name, item.Category, item.CategoryOrder, item.DefaultUnit, item.LowStockThreshold, item.IsActive, item.SortOrder, item.StoreID, item.ID)
	return err
}

func (r *itemRepo) ListByStore(ctx context.Context, storeID string, includeInactive bool) ([]*models.Item, error) {
	query := `
		SELECT id, store_id, name, category, category_order, default_unit, low_stock_threshold, is_active, sort_order, updated_at
		FROM items
		WHERE store_id = $1
	`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY category_order, sort_order, name`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		if err := rows.Scan(&item.ID, &item.StoreID, &item.Name, &item.Category, &item.CategoryOrder, &item.DefaultUnit, &item.LowStockThreshold, &item.IsActive, &item.SortOrder, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepo) CountByStore(ctx context.Context, storeID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM items WHERE store_id = $1`
	err := r.db.QueryRow(ctx, query, storeID).Scan(&count)
	return count, err
}

func (r *itemRepo) SetActive(ctx context.Context, storeID string, id uuid.UUID, active bool) error {
	query := `UPDATE items SET is_active = $1, updated_at = NOW() WHERE store_id = $2 AND id = $3`
	_, err := r.db.Exec(ctx, query, active, storeID, id)
	return err
}

// Delete removes the item row for good. Past submissions keep their own item
// snapshots, so history survives the delete.
func (r *itemRepo) Delete(ctx context.Context, storeID string, id uuid.UUID) error {
	query := `DELETE FROM items WHERE store_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, storeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

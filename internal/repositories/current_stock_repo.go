package repositories

import (
	"context"

	"shiftstock/internal/models"
)

type CurrentStockRepository interface {
	Get(ctx context.Context, storeID, itemID string) (*models.CurrentStock, error)
	ListByStore(ctx context.Context, storeID string) ([]*models.CurrentStock, error)
	ListLowOut(ctx context.Context, storeID string) ([]*models.LowOutRow, error)
}

type currentStockRepo struct {
	db DB
}

func NewCurrentStockRepo(db DB) CurrentStockRepository {
	return &currentStockRepo{db: db}
}

func (r *currentStockRepo) Get(ctx context.Context, storeID, itemID string) (*models.CurrentStock, error) {
	stock := &models.CurrentStock{}
	query := `
		SELECT store_id, item_id, quantity, unit, status, updated_at, updated_by_id, updated_by_name
		FROM current_stock
		WHERE store_id = $1 AND item_id = $2
	`
	err := r.db.QueryRow(ctx, query, storeID, itemID).Scan(&stock.StoreID, &stock.ItemID, &stock.Quantity, &stock.Unit, &stock.Status, &stock.UpdatedAt, &stock.UpdatedByID, &stock.UpdatedByName)
	if err != nil {
		return nil, err
	}
	return stock, nil
}

func (r *currentStockRepo) ListByStore(ctx context.Context, storeID string) ([]*models.CurrentStock, error) {
	query := `
		SELECT store_id, item_id, quantity, unit, status, updated_at, updated_by_id, updated_by_name
		FROM current_stock
		WHERE store_id = $1
	`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []*models.CurrentStock
	for rows.Next() {
		stock := &models.CurrentStock{}
		if err := rows.Scan(&stock.StoreID, &stock.ItemID, &stock.Quantity, &stock.Unit, &stock.Status, &stock.UpdatedAt, &stock.UpdatedByID, &stock.UpdatedByName); err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}
	return stocks, rows.Err()
}

// ListLowOut joins current stock against the item catalog for the dashboard
// alert list. Out-of-stock rows come first, then low rows, each alphabetical.
// Inactive items are excluded.
func (r *currentStockRepo) ListLowOut(ctx context.Context, storeID string) ([]*models.LowOutRow, error) {
	query := `
		SELECT cs.item_id, i.name, cs.status, cs.quantity, cs.unit, i.category, i.category_order
		FROM current_stock cs
		JOIN items i ON i.store_id = cs.store_id AND i.id::text = cs.item_id
		WHERE cs.store_id = $1 AND i.is_active = TRUE AND cs.status IN ('out_of_stock', 'need_stock')
		ORDER BY CASE cs.status WHEN 'out_of_stock' THEN 0 ELSE 1 END, i.name
	`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.LowOutRow
	for rows.Next() {
		row := &models.LowOutRow{}
		if err := rows.Scan(&row.ItemID, &row.Name, &row.Status, &row.Quantity, &row.Unit, &row.Category, &row.CategoryOrder); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

package repositories

import (
	"context"

	"shiftstock/internal/models"
)

type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id string) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	List(ctx context.Context, includeInactive bool) ([]*models.Store, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type storeRepo struct {
	db DB
}

func NewStoreRepo(db DB) StoreRepository {
	return &storeRepo{db: db}
}

func (r *storeRepo) Create(ctx context.Context, store *models.Store) error {
	query := `
		INSERT INTO stores (id, name, is_active, temperature_equipment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, store.ID, store.Name, store.IsActive, store.TemperatureEquipment)
	return err
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*models.Store, error) {
	store := &models.Store{}
	query := `
		SELECT id, name, is_active, temperature_equipment, created_at, updated_at
		FROM stores
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&store.ID, &store.Name, &store.IsActive, &store.TemperatureEquipment, &store.CreatedAt, &store.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (r *storeRepo) Update(ctx context.Context, store *models.Store) error {
	query := `
		UPDATE stores
		SET name = $1, is_active = $2, temperature_equipment = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, store.Name, store.IsActive, store.TemperatureEquipment, store.ID)
	return err
}

func (r *storeRepo) List(ctx context.Context, includeInactive bool) ([]*models.Store, error) {
	query := `
		SELECT id, name, is_active, temperature_equipment, created_at, updated_at
		FROM stores
	`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*models.Store
	for rows.Next() {
		store := &models.Store{}
		if err := rows.Scan(&store.ID, &store.Name, &store.IsActive, &store.TemperatureEquipment, &store.CreatedAt, &store.UpdatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, store)
	}
	return stores, rows.Err()
}

func (r *storeRepo) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE stores SET is_active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, active, id)
	return err
}

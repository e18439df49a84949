package repositories

import (
	"context"
	"fmt"

	"shiftstock/internal/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type userRepo struct {
	db DB
}

func NewUserRepo(db DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, role, store_ids, default_store_id, name, employee_id, pin_hash, is_active, created_at, updated_at`

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	// Employee IDs are the login credential, so they must be unique globally.
	var count int
	checkQuery := `SELECT COUNT(*) FROM users WHERE employee_id = $1`
	err := r.db.QueryRow(ctx, checkQuery, user.EmployeeID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check employee id uniqueness: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("user with employee id '%s' already exists", user.EmployeeID)
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err = r.db.Exec(ctx, query, user.ID, user.Role, user.StoreIDs, user.DefaultStoreID, user.Name, user.EmployeeID, user.PinHash, user.IsActive)
	return err
}

func scanUser(row interface{ Scan(dest ...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Role, &user.StoreIDs, &user.DefaultStoreID, &user.Name, &user.EmployeeID, &user.PinHash, &user.IsActive, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE employee_id = $1`
	return scanUser(r.db.QueryRow(ctx, query, employeeID))
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET role = $1, store_ids = $2, default_store_id = $3, name = $4, pin_hash = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`
	_, err := r.db.Exec(ctx, query, user.Role, user.StoreIDs, user.DefaultStoreID, user.Name, user.PinHash, user.IsActive, user.ID)
	return err
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, active, id)
	return err
}

package repositories

import (
	"context"

	"shiftstock/internal/models"
)

type TemperatureRepository interface {
	GetDay(ctx context.Context, storeID, date string) (*models.TemperatureDay, error)
	ListDays(ctx context.Context, storeID, sinceDate string) ([]*models.TemperatureDay, error)
	ListUnreadDays(ctx context.Context, storeID string) ([]*models.TemperatureDay, error)
	CountUnreadDays(ctx context.Context, storeID string) (int, error)
	CountNeedsReviewDays(ctx context.Context, storeID string) (int, error)
	UpsertDay(ctx context.Context, day *models.TemperatureDay) error
	MarkDayRead(ctx context.Context, storeID, date string) error
	ConfirmDay(ctx context.Context, storeID, date string) error
	GetCheck(ctx context.Context, storeID, date, slot string) (*models.TemperatureCheck, error)
	ListChecks(ctx context.Context, storeID, date string) ([]*models.TemperatureCheck, error)
	UpsertCheck(ctx context.Context, check *models.TemperatureCheck) error
}

type temperatureRepo struct {
	db DB
}

func NewTemperatureRepo(db DB) TemperatureRepository {
	return &temperatureRepo{db: db}
}

const temperatureDayColumns = `store_id, submitted_date, check_count, has_out_of_range, last_check_at,
	updated_at, updated_by_name, is_read_by_admin, needs_admin_review`

func scanTemperatureDay(row interface{ Scan(dest ...any) error }) (*models.TemperatureDay, error) {
	day := &models.TemperatureDay{}
	err := row.Scan(&day.StoreID, &day.SubmittedDate, &day.CheckCount, &day.HasOutOfRange, &day.LastCheckAt,
		&day.UpdatedAt, &day.UpdatedByName, &day.IsReadByAdmin, &day.NeedsAdminReview)
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (r *temperatureRepo) GetDay(ctx context.Context, storeID, date string) (*models.TemperatureDay, error) {
	query := `
		SELECT ` + temperatureDayColumns + `
		FROM temperature_days
		WHERE store_id = $1 AND submitted_date = $2
	`
	return scanTemperatureDay(r.db.QueryRow(ctx, query, storeID, date))
}

func (r *temperatureRepo) ListDays(ctx context.Context, storeID, sinceDate string) ([]*models.TemperatureDay, error) {
	query := `
		SELECT ` + temperatureDayColumns + `
		FROM temperature_days
		WHERE store_id = $1 AND submitted_date >= $2
		ORDER BY submitted_date DESC
	`
	rows, err := r.db.Query(ctx, query, storeID, sinceDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []*models.TemperatureDay
	for rows.Next() {
		day, err := scanTemperatureDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *temperatureRepo) ListUnreadDays(ctx context.Context, storeID string) ([]*models.TemperatureDay, error) {
	query := `
		SELECT ` + temperatureDayColumns + `
		FROM temperature_days
		WHERE store_id = $1 AND is_read_by_admin = FALSE
		ORDER BY submitted_date DESC
	`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []*models.TemperatureDay
	for rows.Next() {
		day, err := scanTemperatureDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

func (r *temperatureRepo) CountUnreadDays(ctx context.Context, storeID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM temperature_days WHERE store_id = $1 AND is_read_by_admin = FALSE`
	err := r.db.QueryRow(ctx, query, storeID).Scan(&count)
	return count, err
}

func (r *temperatureRepo) CountNeedsReviewDays(ctx context.Context, storeID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM temperature_days WHERE store_id = $1 AND needs_admin_review = TRUE`
	err := r.db.QueryRow(ctx, query, storeID).Scan(&count)
	return count, err
}

// UpsertDay replaces the derived day summary wholesale. The summary is always
// recomputed from the slot documents, never patched in place.
func (r *temperatureRepo) UpsertDay(ctx context.Context, day *models.TemperatureDay) error {
	query := `
		INSERT INTO temperature_days (` + temperatureDayColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (store_id, submitted_date) DO UPDATE
		SET check_count = EXCLUDED.check_count,
		    has_out_of_range = EXCLUDED.has_out_of_range,
		    last_check_at = EXCLUDED.last_check_at,
		    updated_at = EXCLUDED.updated_at,
		    updated_by_name = EXCLUDED.updated_by_name,
		    is_read_by_admin = EXCLUDED.is_read_by_admin,
		    needs_admin_review = EXCLUDED.needs_admin_review
	`
	_, err := r.db.Exec(ctx, query, day.StoreID, day.SubmittedDate, day.CheckCount, day.HasOutOfRange, day.LastCheckAt,
		day.UpdatedAt, day.UpdatedByName, day.IsReadByAdmin, day.NeedsAdminReview)
	return err
}

func (r *temperatureRepo) MarkDayRead(ctx context.Context, storeID, date string) error {
	query := `
		UPDATE temperature_days
		SET is_read_by_admin = TRUE
		WHERE store_id = $1 AND submitted_date = $2
	`
	_, err := r.db.Exec(ctx, query, storeID, date)
	return err
}

func (r *temperatureRepo) ConfirmDay(ctx context.Context, storeID, date string) error {
	query := `
		UPDATE temperature_days
		SET needs_admin_review = FALSE, is_read_by_admin = TRUE
		WHERE store_id = $1 AND submitted_date = $2
	`
	_, err := r.db.Exec(ctx, query, storeID, date)
	return err
}

func (r *temperatureRepo) GetCheck(ctx context.Context, storeID, date, slot string) (*models.TemperatureCheck, error) {
	check := &models.TemperatureCheck{}
	query := `
		SELECT store_id, submitted_date, slot, check_at, created_by_id, created_by_name, updated_at, updated_by_name, equipment, has_out_of_range
		FROM temperature_checks
		WHERE store_id = $1 AND submitted_date = $2 AND slot = $3
	`
	err := r.db.QueryRow(ctx, query, storeID, date, slot).Scan(&check.StoreID, &check.SubmittedDate, &check.Slot, &check.CheckAt,
		&check.CreatedByID, &check.CreatedByName, &check.UpdatedAt, &check.UpdatedByName, &check.Equipment, &check.HasOutOfRange)
	if err != nil {
		return nil, err
	}
	return check, nil
}

func (r *temperatureRepo) ListChecks(ctx context.Context, storeID, date string) ([]*models.TemperatureCheck, error) {
	query := `
		SELECT store_id, submitted_date, slot, check_at, created_by_id, created_by_name, updated_at, updated_by_name, equipment, has_out_of_range
		FROM temperature_checks
		WHERE store_id = $1 AND submitted_date = $2
		ORDER BY slot
	`
	rows, err := r.db.Query(ctx, query, storeID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checks []*models.TemperatureCheck
	for rows.Next() {
		check := &models.TemperatureCheck{}
		if err := rows.Scan(&check.StoreID, &check.SubmittedDate, &check.Slot, &check.CheckAt,
			&check.CreatedByID, &check.CreatedByName, &check.UpdatedAt, &check.UpdatedByName, &check.Equipment, &check.HasOutOfRange); err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	return checks, rows.Err()
}

func (r *temperatureRepo) UpsertCheck(ctx context.Context, check *models.TemperatureCheck) error {
	query := `
		INSERT INTO temperature_checks (store_id, submitted_date, slot, check_at, created_by_id, created_by_name, updated_at, updated_by_name, equipment, has_out_of_range)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (store_id, submitted_date, slot) DO UPDATE
		SET check_at = EXCLUDED.check_at,
		    updated_at = EXCLUDED.updated_at,
		    updated_by_name = EXCLUDED.updated_by_name,
		    equipment = EXCLUDED.equipment,
		    has_out_of_range = EXCLUDED.has_out_of_range
	`
	_, err := r.db.Exec(ctx, query, check.StoreID, check.SubmittedDate, check.Slot, check.CheckAt,
		check.CreatedByID, check.CreatedByName, check.UpdatedAt, check.UpdatedByName, check.Equipment, check.HasOutOfRange)
	return err
}

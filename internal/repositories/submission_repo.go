package repositories

import (
	"context"
	"time"

	"shiftstock/internal/models"
)

type SubmissionRepository interface {
	GetByDay(ctx context.Context, storeID, date string) (*models.StockSubmission, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*models.StockSubmission, error)
	ListBetween(ctx context.Context, storeID, startDate, endDate string) ([]*models.StockSubmission, error)
	ListUnread(ctx context.Context, storeID string) ([]*models.StockSubmission, error)
	CountUnread(ctx context.Context, storeID string) (int, error)
	CountNeedsReview(ctx context.Context, storeID string) (int, error)
	MarkRead(ctx context.Context, storeID, date string) error
	Confirm(ctx context.Context, storeID, date string, at time.Time) error
	ListRevisions(ctx context.Context, storeID, date string) ([]*models.Revision, error)
	SaveDay(ctx context.Context, sub *models.StockSubmission, rev *models.Revision, stock []*models.CurrentStock) error
}

type submissionRepo struct {
	db DB
}

func NewSubmissionRepo(db DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

const submissionColumns = `store_id, submitted_date, submitted_at, submitted_by_id, submitted_by_name,
	last_edited_at, last_edited_by_id, last_edited_by_name,
	is_read_by_admin, needs_admin_review, admin_confirmed_at,
	low_count, out_count, items`

func scanSubmission(row interface{ Scan(dest ...any) error }) (*models.StockSubmission, error) {
	sub := &models.StockSubmission{}
	err := row.Scan(&sub.StoreID, &sub.SubmittedDate, &sub.SubmittedAt, &sub.SubmittedByID, &sub.SubmittedByName,
		&sub.LastEditedAt, &sub.LastEditedByID, &sub.LastEditedByName,
		&sub.IsReadByAdmin, &sub.NeedsAdminReview, &sub.AdminConfirmedAt,
		&sub.LowOutSummary.LowCount, &sub.LowOutSummary.OutCount, &sub.Items)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *submissionRepo) GetByDay(ctx context.Context, storeID, date string) (*models.StockSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM stock_submissions
		WHERE store_id = $1 AND submitted_date = $2
	`
	return scanSubmission(r.db.QueryRow(ctx, query, storeID, date))
}

func (r *submissionRepo) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*models.StockSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM stock_submissions
		WHERE store_id = $1
		ORDER BY submitted_date DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.StockSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *submissionRepo) ListBetween(ctx context.Context, storeID, startDate, endDate string) ([]*models.StockSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM stock_submissions
		WHERE store_id = $1 AND submitted_date >= $2 AND submitted_date <= $3
		ORDER BY submitted_date
	`
	rows, err := r.db.Query(ctx, query, storeID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.StockSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *submissionRepo) ListUnread(ctx context.Context, storeID string) ([]*models.StockSubmission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM stock_submissions
		WHERE store_id = $1 AND is_read_by_admin = FALSE
		ORDER BY submitted_date DESC
	`
	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*models.StockSubmission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *submissionRepo) CountUnread(ctx context.Context, storeID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM stock_submissions WHERE store_id = $1 AND is_read_by_admin = FALSE`
	err := r.db.QueryRow(ctx, query, storeID).Scan(&count)
	return count, err
}

func (r *submissionRepo) CountNeedsReview(ctx context.Context, storeID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM stock_submissions WHERE store_id = $1 AND needs_admin_review = TRUE`
	err := r.db.QueryRow(ctx, query, storeID).Scan(&count)
	return count, err
}

func (r *submissionRepo) MarkRead(ctx context.Context, storeID, date string) error {
	query := `
		UPDATE stock_submissions
		SET is_read_by_admin = TRUE
		WHERE store_id = $1 AND submitted_date = $2
	`
	_, err := r.db.Exec(ctx, query, storeID, date)
	return err
}

// Confirm records the admin sign-off on an edited day: the review flag comes
// down and the confirmation timestamp is kept for the audit trail.
func (r *submissionRepo) Confirm(ctx context.Context, storeID, date string, at time.Time) error {
	query := `
		UPDATE stock_submissions
		SET needs_admin_review = FALSE, is_read_by_admin = TRUE, admin_confirmed_at = $1
		WHERE store_id = $2 AND submitted_date = $3
	`
	_, err := r.db.Exec(ctx, query, at, storeID, date)
	return err
}

func (r *submissionRepo) ListRevisions(ctx context.Context, storeID, date string) ([]*models.Revision, error) {
	query := `
		SELECT id, store_id, submitted_date, edited_at, edited_by_id, edited_by_name, low_count, out_count, items
		FROM stock_revisions
		WHERE store_id = $1 AND submitted_date = $2
		ORDER BY edited_at DESC
	`
	rows, err := r.db.Query(ctx, query, storeID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revs []*models.Revision
	for rows.Next() {
		rev := &models.Revision{}
		if err := rows.Scan(&rev.ID, &rev.StoreID, &rev.SubmittedDate, &rev.EditedAt, &rev.EditedByID, &rev.EditedByName, &rev.LowOutSummary.LowCount, &rev.LowOutSummary.OutCount, &rev.Items); err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

// SaveDay persists the day document, the optional revision snapshot and the
// current-stock write-through in one transaction. Either everything lands or
// nothing does, so the live view can never drift from the submitted day.
func (r *submissionRepo) SaveDay(ctx context.Context, sub *models.StockSubmission, rev *models.Revision, stock []*models.CurrentStock) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	upsertSub := `
		INSERT INTO stock_submissions (` + submissionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (store_id, submitted_date) DO UPDATE
		SET last_edited_at = EXCLUDED.last_edited_at,
		    last_edited_by_id = EXCLUDED.last_edited_by_id,
		    last_edited_by_name = EXCLUDED.last_edited_by_name,
		    is_read_by_admin = EXCLUDED.is_read_by_admin,
		    needs_admin_review = EXCLUDED.needs_admin_review,
		    low_count = EXCLUDED.low_count,
		    out_count = EXCLUDED.out_count,
		    items = EXCLUDED.items
	`
	_, err = tx.Exec(ctx, upsertSub, sub.StoreID, sub.SubmittedDate, sub.SubmittedAt, sub.SubmittedByID, sub.SubmittedByName,
		sub.LastEditedAt, sub.LastEditedByID, sub.LastEditedByName,
		sub.IsReadByAdmin, sub.NeedsAdminReview, sub.AdminConfirmedAt,
		sub.LowOutSummary.LowCount, sub.LowOutSummary.OutCount, sub.Items)
	if err != nil {
		return err
	}

	if rev != nil {
		insertRev := `
			INSERT INTO stock_revisions (id, store_id, submitted_date, edited_at, edited_by_id, edited_by_name, low_count, out_count, items)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err = tx.Exec(ctx, insertRev, rev.ID, rev.StoreID, rev.SubmittedDate, rev.EditedAt, rev.EditedByID, rev.EditedByName,
			rev.LowOutSummary.LowCount, rev.LowOutSummary.OutCount, rev.Items)
		if err != nil {
			return err
		}
	}

	upsertStock := `
		INSERT INTO current_stock (store_id, item_id, quantity, unit, status, updated_at, updated_by_id, updated_by_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (store_id, item_id) DO UPDATE
		SET quantity = EXCLUDED.quantity,
		    unit = EXCLUDED.unit,
		    status = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at,
		    updated_by_id = EXCLUDED.updated_by_id,
		    updated_by_name = EXCLUDED.updated_by_name
	`
	for _, s := range stock {
		_, err = tx.Exec(ctx, upsertStock, s.StoreID, s.ItemID, s.Quantity, s.Unit, s.Status, s.UpdatedAt, s.UpdatedByID, s.UpdatedByName)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

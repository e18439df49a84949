package models

import (
	"time"

	"github.com/google/uuid"
)

// CurrentStock is the latest known on-hand count for one item. It is
// overwritten on every stock submission and is independent of the
// date-scoped submission documents.
type CurrentStock struct {
	StoreID       string    `json:"store_id" db:"store_id"`
	ItemID        string    `json:"item_id" db:"item_id"`
	Quantity      float64   `json:"quantity" db:"quantity"`
	Unit          string    `json:"unit" db:"unit"`
	Status        string    `json:"status" db:"status"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
	UpdatedByID   string    `json:"updated_by_id" db:"updated_by_id"`
	UpdatedByName string    `json:"updated_by_name" db:"updated_by_name"`
}

// SubmissionItem is one entry of a submission's item map, stored fully
// denormalized so readers never need to re-join item configuration.
type SubmissionItem struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Status   string  `json:"status"`
}

type LowOutSummary struct {
	LowCount int `json:"low_count"`
	OutCount int `json:"out_count"`
}

// StockSubmission is the single per-store, per-day end-of-shift document,
// keyed by the YYYY-MM-DD day key.
type StockSubmission struct {
	StoreID          string                    `json:"store_id" db:"store_id"`
	SubmittedDate    string                    `json:"submitted_date" db:"submitted_date"`
	SubmittedAt      time.Time                 `json:"submitted_at" db:"submitted_at"`
	SubmittedByID    string                    `json:"submitted_by_id" db:"submitted_by_id"`
	SubmittedByName  string                    `json:"submitted_by_name" db:"submitted_by_name"`
	LastEditedAt     *time.Time                `json:"last_edited_at" db:"last_edited_at"`
	LastEditedByID   *string                   `json:"last_edited_by_id" db:"last_edited_by_id"`
	LastEditedByName *string                   `json:"last_edited_by_name" db:"last_edited_by_name"`
	IsReadByAdmin    bool                      `json:"is_read_by_admin" db:"is_read_by_admin"`
	NeedsAdminReview bool                      `json:"needs_admin_review" db:"needs_admin_review"`
	AdminConfirmedAt *time.Time                `json:"admin_confirmed_at" db:"admin_confirmed_at"`
	LowOutSummary    LowOutSummary             `json:"low_out_summary"`
	Items            map[string]SubmissionItem `json:"items" db:"items"`
}

// Revision is the append-only audit record written on every edit after the
// first submission of a day. Revisions are never mutated or deleted.
type Revision struct {
	ID            uuid.UUID                 `json:"id" db:"id"`
	StoreID       string                    `json:"store_id" db:"store_id"`
	SubmittedDate string                    `json:"submitted_date" db:"submitted_date"`
	EditedAt      time.Time                 `json:"edited_at" db:"edited_at"`
	EditedByID    string                    `json:"edited_by_id" db:"edited_by_id"`
	EditedByName  string                    `json:"edited_by_name" db:"edited_by_name"`
	Items         map[string]SubmissionItem `json:"items" db:"items"`
	LowOutSummary LowOutSummary             `json:"low_out_summary"`
}

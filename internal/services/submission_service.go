package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"shiftstock/internal/caching"
	"shiftstock/internal/models"
	"shiftstock/internal/repositories"
	"shiftstock/internal/status"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// ErrValidation marks input the caller can fix. Handlers map it to a 400.
var ErrValidation = errors.New("validation failed")

// ErrStoreAccess is returned when the acting user is not granted the store.
var ErrStoreAccess = errors.New("store access denied")

// SubmittedEntry is one raw item line of an incoming stock submission.
type SubmittedEntry struct {
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

type SubmissionService interface {
	Submit(ctx context.Context, user *models.User, storeID, date string, entries map[string]SubmittedEntry, now time.Time) (*models.StockSubmission, error)
	GetByDay(ctx context.Context, storeID, date string) (*models.StockSubmission, error)
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*models.StockSubmission, error)
	ListRevisions(ctx context.Context, storeID, date string) ([]*models.Revision, error)
	CurrentStock(ctx context.Context, storeID string) ([]*models.CurrentStock, error)
}

type submissionService struct {
	submissionRepo repositories.SubmissionRepository
	stockRepo      repositories.CurrentStockRepository
	itemRepo       repositories.ItemRepository
	cacheService   caching.CacheService
}

func NewSubmissionService(submissionRepo repositories.SubmissionRepository, stockRepo repositories.CurrentStockRepository, itemRepo repositories.ItemRepository, cacheService caching.CacheService) SubmissionService {
	return &submissionService{
		submissionRepo: submissionRepo,
		stockRepo:      stockRepo,
		itemRepo:       itemRepo,
		cacheService:   cacheService,
	}
}

// buildStockPayload derives the statused item map, the low/out counters and
// the current-stock write-through rows from a validated set of entries.
func (s *submissionService) buildStockPayload(storeID string, entries map[string]SubmittedEntry, items map[string]*models.Item, by *models.User, at time.Time) (map[string]models.SubmissionItem, models.LowOutSummary, []*models.CurrentStock) {
	payload := make(map[string]models.SubmissionItem, len(entries))
	var summary models.LowOutSummary
	stock := make([]*models.CurrentStock, 0, len(entries))

	// Deterministic iteration keeps the write-through order stable.
	itemIDs := make([]string, 0, len(entries))
	for id := range entries {
		itemIDs = append(itemIDs, id)
	}
	sort.Strings(itemIDs)

	for _, itemID := range itemIDs {
		entry := entries[itemID]
		item := items[itemID]

		unit := entry.Unit
		var threshold *float64
		if item != nil {
			threshold = item.LowStockThreshold
			if unit == "" {
				unit = item.DefaultUnit
			}
		}

		st := status.StockStatus(entry.Quantity, threshold)
		switch st {
		case status.OutOfStock:
			summary.OutCount++
		case status.NeedStock:
			summary.LowCount++
		}

		payload[itemID] = models.SubmissionItem{
			Quantity: entry.Quantity,
			Unit:     unit,
			Status:   st,
		}
		stock = append(stock, &models.CurrentStock{
			StoreID:       storeID,
			ItemID:        itemID,
			Quantity:      entry.Quantity,
			Unit:          unit,
			Status:        st,
			UpdatedAt:     at,
			UpdatedByID:   by.ID.String(),
			UpdatedByName: by.Name,
		})
	}

	return payload, summary, stock
}

func validateEntries(entries map[string]SubmittedEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: submission has no items", ErrValidation)
	}
	for itemID, entry := range entries {
		if itemID == "" {
			return fmt.Errorf("%w: empty item id", ErrValidation)
		}
		if math.IsNaN(entry.Quantity) || math.IsInf(entry.Quantity, 0) {
			return fmt.Errorf("%w: quantity for item %s is not a number", ErrValidation, itemID)
		}
		if entry.Quantity < 0 {
			return fmt.Errorf("%w: quantity for item %s is negative", ErrValidation, itemID)
		}
	}
	return nil
}

// Submit runs the daily document state machine. A day's first submission
// lands clean; any later submission for the same day is an edit that raises
// the review flag, resets the read flag and appends a revision snapshot.
// Every active item must carry an entry; one bad or missing entry rejects
// the whole submission.
func (s *submissionService) Submit(ctx context.Context, user *models.User, storeID, date string, entries map[string]SubmittedEntry, now time.Time) (*models.StockSubmission, error) {
	if !user.HasStore(storeID) && user.Role != models.RoleAdmin {
		return nil, ErrStoreAccess
	}
	if err := validateEntries(entries); err != nil {
		return nil, err
	}

	catalog, err := s.itemRepo.ListByStore(ctx, storeID, true)
	if err != nil {
		return nil, err
	}
	items := make(map[string]*models.Item, len(catalog))
	for _, item := range catalog {
		items[item.ID.String()] = item
	}
	for itemID := range entries {
		if _, ok := items[itemID]; !ok {
			return nil, fmt.Errorf("%w: unknown item %s", ErrValidation, itemID)
		}
	}
	// A day document always covers the whole active catalog. A partial
	// submission would silently shrink the day on edit, so it is rejected
	// outright rather than merged.
	for _, item := range catalog {
		if !item.IsActive {
			continue
		}
		if _, ok := entries[item.ID.String()]; !ok {
			return nil, fmt.Errorf("%w: missing quantity for %s", ErrValidation, item.Name)
		}
	}

	payload, summary, stock := s.buildStockPayload(storeID, entries, items, user, now)

	existing, err := s.submissionRepo.GetByDay(ctx, storeID, date)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	var sub *models.StockSubmission
	var rev *models.Revision

	if existing == nil {
		sub = &models.StockSubmission{
			StoreID:          storeID,
			SubmittedDate:    date,
			SubmittedAt:      now,
			SubmittedByID:    user.ID.String(),
			SubmittedByName:  user.Name,
			IsReadByAdmin:    false,
			NeedsAdminReview: false,
			LowOutSummary:    summary,
			Items:            payload,
		}
	} else {
		editorID := user.ID.String()
		editorName := user.Name
		sub = existing
		sub.LastEditedAt = &now
		sub.LastEditedByID = &editorID
		sub.LastEditedByName = &editorName
		sub.IsReadByAdmin = false
		sub.NeedsAdminReview = true
		sub.LowOutSummary = summary
		sub.Items = payload

		rev = &models.Revision{
			ID:            uuid.New(),
			StoreID:       storeID,
			SubmittedDate: date,
			EditedAt:      now,
			EditedByID:    editorID,
			EditedByName:  editorName,
			LowOutSummary: summary,
			Items:         payload,
		}
	}

	if err := s.submissionRepo.SaveDay(ctx, sub, rev, stock); err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.DeleteCurrentStock(ctx, storeID); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", storeID).Warn("failed to invalidate current-stock cache")
	}
	if cacheErr := s.cacheService.DeleteUnreadCounts(ctx, storeID); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", storeID).Warn("failed to invalidate badge cache")
	}
	if pubErr := s.cacheService.PublishChange(ctx, storeID, "stock"); pubErr != nil {
		log.WithError(pubErr).WithField("store_id", storeID).Warn("failed to publish stock change")
	}

	return sub, nil
}

func (s *submissionService) GetByDay(ctx context.Context, storeID, date string) (*models.StockSubmission, error) {
	return s.submissionRepo.GetByDay(ctx, storeID, date)
}

func (s *submissionService) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*models.StockSubmission, error) {
	return s.submissionRepo.ListByStore(ctx, storeID, limit, offset)
}

func (s *submissionService) ListRevisions(ctx context.Context, storeID, date string) ([]*models.Revision, error) {
	return s.submissionRepo.ListRevisions(ctx, storeID, date)
}

// CurrentStock serves the live view, cache first.
func (s *submissionService) CurrentStock(ctx context.Context, storeID string) ([]*models.CurrentStock, error) {
	cached, err := s.cacheService.GetCurrentStock(ctx, storeID)
	if err != nil {
		log.WithError(err).WithField("store_id", storeID).Warn("current-stock cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	stock, err := s.stockRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.SetCurrentStock(ctx, storeID, stock, 5*time.Minute); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", storeID).Warn("current-stock cache write failed")
	}
	return stock, nil
}

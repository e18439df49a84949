package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"shiftstock/internal/caching"
	"shiftstock/internal/common"
	"shiftstock/internal/models"
	"shiftstock/internal/repositories"
	"shiftstock/internal/status"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const (
	DocumentKindStock       = "stock"
	DocumentKindTemperature = "temp"
)

type SignalService interface {
	UnreadCounts(ctx context.Context, storeID string) (*models.UnreadCounts, error)
	NeedsReviewCounts(ctx context.Context, storeID string) (*models.NeedsReviewCounts, error)
	Inbox(ctx context.Context, storeID string) ([]*models.InboxEntry, error)
	MarkRead(ctx context.Context, storeID, kind, date string) error
	Confirm(ctx context.Context, storeID, kind, date string, now time.Time) error
	TodayAlertRows(ctx context.Context, storeID string, now time.Time) ([]*models.AlertRow, error)
	LowOutRows(ctx context.Context, storeID string) ([]*models.LowOutRow, error)
}

type signalService struct {
	submissionRepo  repositories.SubmissionRepository
	temperatureRepo repositories.TemperatureRepository
	stockRepo       repositories.CurrentStockRepository
	storeRepo       repositories.StoreRepository
	cacheService    caching.CacheService
}

func NewSignalService(submissionRepo repositories.SubmissionRepository, temperatureRepo repositories.TemperatureRepository, stockRepo repositories.CurrentStockRepository, storeRepo repositories.StoreRepository, cacheService caching.CacheService) SignalService {
	return &signalService{
		submissionRepo:  submissionRepo,
		temperatureRepo: temperatureRepo,
		stockRepo:       stockRepo,
		storeRepo:       storeRepo,
		cacheService:    cacheService,
	}
}

// UnreadCounts serves the admin badge numbers, cache first. The combined
// badge is always the sum of the two parts.
func (s *signalService) UnreadCounts(ctx context.Context, storeID string) (*models.UnreadCounts, error) {
	cached, err := s.cacheService.GetUnreadCounts(ctx, storeID)
	if err != nil {
		log.WithError(err).WithField("store_id", storeID).Warn("badge cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	stock, err := s.submissionRepo.CountUnread(ctx, storeID)
	if err != nil {
		return nil, err
	}
	temp, err := s.temperatureRepo.CountUnreadDays(ctx, storeID)
	if err != nil {
		return nil, err
	}

	counts := &models.UnreadCounts{
		Stock:    stock,
		Temp:     temp,
		Combined: stock + temp,
	}

	if cacheErr := s.cacheService.SetUnreadCounts(ctx, storeID, counts, time.Minute); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", storeID).Warn("badge cache write failed")
	}
	return counts, nil
}

func (s *signalService) NeedsReviewCounts(ctx context.Context, storeID string) (*models.NeedsReviewCounts, error) {
	stock, err := s.submissionRepo.CountNeedsReview(ctx, storeID)
	if err != nil {
		return nil, err
	}
	temp, err := s.temperatureRepo.CountNeedsReviewDays(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &models.NeedsReviewCounts{
		Stock:    stock,
		Temp:     temp,
		Combined: stock + temp,
	}, nil
}

// Inbox merges unread stock submissions and unread temperature days into one
// list, newest day first.
func (s *signalService) Inbox(ctx context.Context, storeID string) ([]*models.InboxEntry, error) {
	subs, err := s.submissionRepo.ListUnread(ctx, storeID)
	if err != nil {
		return nil, err
	}
	days, err := s.temperatureRepo.ListUnreadDays(ctx, storeID)
	if err != nil {
		return nil, err
	}

	entries := make([]*models.InboxEntry, 0, len(subs)+len(days))
	for _, sub := range subs {
		badge := "new"
		if sub.NeedsAdminReview {
			badge = "edited"
		}
		by := sub.SubmittedByName
		if sub.LastEditedByName != nil {
			by = *sub.LastEditedByName
		}
		entries = append(entries, &models.InboxEntry{
			Type:        DocumentKindStock,
			Date:        sub.SubmittedDate,
			By:          by,
			NeedsReview: sub.NeedsAdminReview,
			Badge:       badge,
		})
	}
	for _, day := range days {
		badge := "new"
		if day.HasOutOfRange {
			badge = "alert"
		}
		entries = append(entries, &models.InboxEntry{
			Type:          DocumentKindTemperature,
			Date:          day.SubmittedDate,
			By:            day.UpdatedByName,
			NeedsReview:   day.NeedsAdminReview,
			HasOutOfRange: day.HasOutOfRange,
			Badge:         badge,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		// Stock before temperature on the same day.
		return entries[i].Type < entries[j].Type
	})

	return entries, nil
}

func (s *signalService) MarkRead(ctx context.Context, storeID, kind, date string) error {
	var err error
	switch kind {
	case DocumentKindStock:
		err = s.submissionRepo.MarkRead(ctx, storeID, date)
	case DocumentKindTemperature:
		err = s.temperatureRepo.MarkDayRead(ctx, storeID, date)
	default:
		return fmt.Errorf("%w: unknown document kind %q", ErrValidation, kind)
	}
	if err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteUnreadCounts(ctx, storeID); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", storeID).Warn("failed to invalidate badge cache")
	}
	return nil
}

// Confirm is the admin sign-off: it clears the review flag and marks the
// document read in one step.
func (s *signalService) Confirm(ctx context.Context, storeID, kind, date string, now time.Time) error {
	var err error
	switch kind {
	case DocumentKindStock:
		err = s.submissionRepo.Confirm(ctx, storeID, date, now)
	case DocumentKindTemperature:
		err = s.temperatureRepo.ConfirmDay(ctx, storeID, date)
	default:
		return fmt.Errorf("%w: unknown document kind %q", ErrValidation, kind)
	}
	if err != nil {
		return err
	}

	if cacheErr := s.cacheService.DeleteUnreadCounts(ctx, storeID); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", storeID).Warn("failed to invalidate badge cache")
	}
	return nil
}

// TodayAlertRows renders one normalized row per configured equipment for the
// current day. The latest slot wins when both carry a reading; equipment with
// no reading yet shows as out of range so it stands out on the dashboard.
func (s *signalService) TodayAlertRows(ctx context.Context, storeID string, now time.Time) ([]*models.AlertRow, error) {
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	date := common.DayKey(now)
	checks, err := s.temperatureRepo.ListChecks(ctx, storeID, date)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	type latest struct {
		reading models.EquipmentReading
		at      time.Time
	}
	latestByEq := make(map[string]latest)
	for _, check := range checks {
		for eqID, reading := range check.Equipment {
			if cur, ok := latestByEq[eqID]; !ok || check.CheckAt.After(cur.at) {
				latestByEq[eqID] = latest{reading: reading, at: check.CheckAt}
			}
		}
	}

	rows := make([]*models.AlertRow, 0, len(store.TemperatureEquipment))
	for _, eq := range store.TemperatureEquipment {
		rng := status.ResolveRange(eq)
		minV, maxV := rng.Min, rng.Max
		row := &models.AlertRow{
			ID:    eq.ID,
			Label: eq.Label,
			Min:   &minV,
			Max:   &maxV,
		}
		if cur, ok := latestByEq[eq.ID]; ok {
			row.Temp = cur.reading.Temp
			if cur.reading.Min != nil {
				row.Min = cur.reading.Min
			}
			if cur.reading.Max != nil {
				row.Max = cur.reading.Max
			}
			row.InRange = !cur.reading.OutOfRange
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *signalService) LowOutRows(ctx context.Context, storeID string) ([]*models.LowOutRow, error) {
	return s.stockRepo.ListLowOut(ctx, storeID)
}

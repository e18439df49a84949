package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"shiftstock/internal/caching"
	"shiftstock/internal/models"
	"shiftstock/internal/repositories"
	"shiftstock/internal/status"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// TemperatureEntry is one raw equipment reading of an incoming check.
type TemperatureEntry struct {
	Temp *float64 `json:"temp"`
	Unit string   `json:"unit,omitempty"`
	Note string   `json:"note,omitempty"`
}

type TemperatureService interface {
	SaveCheck(ctx context.Context, user *models.User, storeID, date, slot string, entries map[string]TemperatureEntry, now time.Time) (*models.TemperatureCheck, error)
	AdminUpdateCheck(ctx context.Context, admin *models.User, storeID, date, slot string, entries map[string]TemperatureEntry, now time.Time) (*models.TemperatureCheck, error)
	GetDay(ctx context.Context, storeID, date string) (*models.TemperatureDay, error)
	GetCheck(ctx context.Context, storeID, date, slot string) (*models.TemperatureCheck, error)
	ListChecks(ctx context.Context, storeID, date string) ([]*models.TemperatureCheck, error)
	ListRecentDays(ctx context.Context, storeID string, now time.Time) ([]*models.TemperatureDay, error)
	ReconcileDay(ctx context.Context, storeID, date, updatedByName string, now time.Time) (*models.TemperatureDay, error)
}

type temperatureService struct {
	temperatureRepo repositories.TemperatureRepository
	storeRepo       repositories.StoreRepository
	cacheService    caching.CacheService
}

func NewTemperatureService(temperatureRepo repositories.TemperatureRepository, storeRepo repositories.StoreRepository, cacheService caching.CacheService) TemperatureService {
	return &temperatureService{
		temperatureRepo: temperatureRepo,
		storeRepo:       storeRepo,
		cacheService:    cacheService,
	}
}

// buildTemperaturePayload stamps each reading with the equipment label and
// the resolved safe range, so stored checks stay readable even after the
// store's equipment configuration changes.
func buildTemperaturePayload(store *models.Store, entries map[string]TemperatureEntry) (map[string]models.EquipmentReading, bool, error) {
	config := make(map[string]models.EquipmentConfig, len(store.TemperatureEquipment))
	for _, eq := range store.TemperatureEquipment {
		config[eq.ID] = eq
	}

	equipment := make(map[string]models.EquipmentReading, len(entries))
	hasOutOfRange := false

	for eqID, entry := range entries {
		eq, ok := config[eqID]
		if !ok {
			return nil, false, fmt.Errorf("%w: unknown equipment %s", ErrValidation, eqID)
		}
		if entry.Temp == nil {
			return nil, false, fmt.Errorf("%w: missing temperature for %s", ErrValidation, eqID)
		}
		if math.IsNaN(*entry.Temp) || math.IsInf(*entry.Temp, 0) {
			return nil, false, fmt.Errorf("%w: temperature for %s is not a number", ErrValidation, eqID)
		}

		rng := status.ResolveRange(eq)
		outOfRange := !status.TemperatureInRange(entry.Temp, rng.Min, rng.Max)
		if outOfRange {
			hasOutOfRange = true
		}

		unit := entry.Unit
		if unit == "" {
			unit = "C"
		}

		minV, maxV := rng.Min, rng.Max
		equipment[eqID] = models.EquipmentReading{
			Label:      eq.Label,
			Temp:       entry.Temp,
			Unit:       unit,
			Note:       entry.Note,
			Min:        &minV,
			Max:        &maxV,
			OutOfRange: outOfRange,
		}
	}

	// A slot covers every configured equipment or none. A partial check
	// would overwrite the stored slot with a subset on re-submit.
	for _, eq := range store.TemperatureEquipment {
		if _, ok := entries[eq.ID]; !ok {
			return nil, false, fmt.Errorf("%w: missing reading for %s", ErrValidation, eq.ID)
		}
	}

	return equipment, hasOutOfRange, nil
}

func (s *temperatureService) saveCheck(ctx context.Context, user *models.User, storeID, date, slot string, entries map[string]TemperatureEntry, now time.Time) (*models.TemperatureCheck, error) {
	if !models.ValidSlot(slot) {
		return nil, fmt.Errorf("%w: invalid slot %q", ErrValidation, slot)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: check has no readings", ErrValidation)
	}

	store, err := s.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}

	equipment, hasOutOfRange, err := buildTemperaturePayload(store, entries)
	if err != nil {
		return nil, err
	}

	check := &models.TemperatureCheck{
		StoreID:       storeID,
		SubmittedDate: date,
		Slot:          slot,
		CheckAt:       now,
		CreatedByID:   user.ID.String(),
		CreatedByName: user.Name,
		UpdatedAt:     now,
		UpdatedByName: user.Name,
		Equipment:     equipment,
		HasOutOfRange: hasOutOfRange,
	}

	// A re-submitted slot keeps its original author.
	existing, err := s.temperatureRepo.GetCheck(ctx, storeID, date, slot)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if existing != nil {
		check.CreatedByID = existing.CreatedByID
		check.CreatedByName = existing.CreatedByName
	}

	if err := s.temperatureRepo.UpsertCheck(ctx, check); err != nil {
		return nil, err
	}

	if _, err := s.ReconcileDay(ctx, storeID, date, user.Name, now); err != nil {
		return nil, err
	}

	if pubErr := s.cacheService.PublishChange(ctx, storeID, "temperature"); pubErr != nil {
		log.WithError(pubErr).WithField("store_id", storeID).Warn("failed to publish temperature change")
	}

	return check, nil
}

func (s *temperatureService) SaveCheck(ctx context.Context, user *models.User, storeID, date, slot string, entries map[string]TemperatureEntry, now time.Time) (*models.TemperatureCheck, error) {
	if !user.HasStore(storeID) && user.Role != models.RoleAdmin {
		return nil, ErrStoreAccess
	}
	return s.saveCheck(ctx, user, storeID, date, slot, entries, now)
}

// AdminUpdateCheck lets an admin correct a slot for any store without the
// grant check. It still reconciles the day like any other write.
func (s *temperatureService) AdminUpdateCheck(ctx context.Context, admin *models.User, storeID, date, slot string, entries map[string]TemperatureEntry, now time.Time) (*models.TemperatureCheck, error) {
	if admin.Role != models.RoleAdmin {
		return nil, ErrStoreAccess
	}
	return s.saveCheck(ctx, admin, storeID, date, slot, entries, now)
}

// ReconcileDay recomputes the day summary from the slot documents. The count
// only includes slots that actually carry readings, the out-of-range flag is
// the OR across slots and the last-check time is the latest slot time. Every
// reconcile puts the day back in front of the admin.
func (s *temperatureService) ReconcileDay(ctx context.Context, storeID, date, updatedByName string, now time.Time) (*models.TemperatureDay, error) {
	checks, err := s.temperatureRepo.ListChecks(ctx, storeID, date)
	if err != nil {
		return nil, err
	}

	day := &models.TemperatureDay{
		StoreID:          storeID,
		SubmittedDate:    date,
		UpdatedAt:        now,
		UpdatedByName:    updatedByName,
		IsReadByAdmin:    false,
		NeedsAdminReview: true,
	}

	for _, check := range checks {
		if len(check.Equipment) == 0 {
			continue
		}
		day.CheckCount++
		if check.HasOutOfRange {
			day.HasOutOfRange = true
		}
		if day.LastCheckAt == nil || check.CheckAt.After(*day.LastCheckAt) {
			at := check.CheckAt
			day.LastCheckAt = &at
		}
	}

	if err := s.temperatureRepo.UpsertDay(ctx, day); err != nil {
		return nil, err
	}

	if cacheErr := s.cacheService.DeleteUnreadCounts(ctx, storeID); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", storeID).Warn("failed to invalidate badge cache")
	}

	return day, nil
}

func (s *temperatureService) GetDay(ctx context.Context, storeID, date string) (*models.TemperatureDay, error) {
	return s.temperatureRepo.GetDay(ctx, storeID, date)
}

func (s *temperatureService) GetCheck(ctx context.Context, storeID, date, slot string) (*models.TemperatureCheck, error) {
	return s.temperatureRepo.GetCheck(ctx, storeID, date, slot)
}

func (s *temperatureService) ListChecks(ctx context.Context, storeID, date string) ([]*models.TemperatureCheck, error) {
	return s.temperatureRepo.ListChecks(ctx, storeID, date)
}

// ListRecentDays returns the trailing 90 days of summaries.
func (s *temperatureService) ListRecentDays(ctx context.Context, storeID string, now time.Time) ([]*models.TemperatureDay, error) {
	since := now.AddDate(0, 0, -90).Format("2006-01-02")
	return s.temperatureRepo.ListDays(ctx, storeID, since)
}

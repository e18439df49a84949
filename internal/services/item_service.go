package services

import (
	"context"
	"fmt"

	"shiftstock/internal/caching"
	"shiftstock/internal/common"
	"shiftstock/internal/models"
	"shiftstock/internal/repositories"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type ItemService interface {
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	GetByID(ctx context.Context, storeID string, id uuid.UUID) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	ListByStore(ctx context.Context, storeID string, includeInactive bool) ([]*models.Item, error)
	Deactivate(ctx context.Context, storeID string, id uuid.UUID) error
	Delete(ctx context.Context, storeID string, id uuid.UUID) error
}

type itemService struct {
	itemRepo     repositories.ItemRepository
	cacheService caching.CacheService
}

func NewItemService(itemRepo repositories.ItemRepository, cacheService caching.CacheService) ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		cacheService: cacheService,
	}
}

func validateItem(item *models.Item) error {
	if err := common.ValidateRequiredString(item.Name, "name"); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if item.LowStockThreshold != nil && *item.LowStockThreshold < 0 {
		return fmt.Errorf("%w: low stock threshold cannot be negative", ErrValidation)
	}
	return nil
}

// Create appends the item to the end of its store's list. Sort order is
// spaced in tens so items can later be moved between neighbours without
// renumbering the whole catalog.
func (s *itemService) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := common.ValidateStoreID(item.StoreID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validateItem(item); err != nil {
		return nil, err
	}

	count, err := s.itemRepo.CountByStore(ctx, item.StoreID)
	if err != nil {
		return nil, err
	}

	item.ID = uuid.New()
	item.SortOrder = (count + 1) * 10
	item.IsActive = true

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) GetByID(ctx context.Context, storeID string, id uuid.UUID) (*models.Item, error) {
	return s.itemRepo.GetByID(ctx, storeID, id)
}

func (s *itemService) Update(ctx context.Context, item *models.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return err
	}

	// Thresholds feed the status derivation, so the cached live view is
	// stale after any item change.
	if cacheErr := s.cacheService.DeleteCurrentStock(ctx, item.StoreID); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", item.StoreID).Warn("failed to invalidate current-stock cache")
	}
	return nil
}

func (s *itemService) ListByStore(ctx context.Context, storeID string, includeInactive bool) ([]*models.Item, error) {
	return s.itemRepo.ListByStore(ctx, storeID, includeInactive)
}

func (s *itemService) Deactivate(ctx context.Context, storeID string, id uuid.UUID) error {
	if err := s.itemRepo.SetActive(ctx, storeID, id, false); err != nil {
		return err
	}
	if cacheErr := s.cacheService.DeleteCurrentStock(ctx, storeID); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", storeID).Warn("failed to invalidate current-stock cache")
	}
	return nil
}

// Delete is the permanent path. Deactivate is preferred; this exists for
// items created by mistake that should never appear in the catalog again.
func (s *itemService) Delete(ctx context.Context, storeID string, id uuid.UUID) error {
	if err := s.itemRepo.Delete(ctx, storeID, id); err != nil {
		return err
	}
	if cacheErr := s.cacheService.DeleteCurrentStock(ctx, storeID); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", storeID).Warn("failed to invalidate current-stock cache")
	}
	return nil
}

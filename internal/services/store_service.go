package services

import (
	"context"
	"fmt"

	"shiftstock/internal/caching"
	"shiftstock/internal/common"
	"shiftstock/internal/models"
	"shiftstock/internal/repositories"

	log "github.com/sirupsen/logrus"
)

type StoreService interface {
	Create(ctx context.Context, store *models.Store) (*models.Store, error)
	GetByID(ctx context.Context, id string) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
	List(ctx context.Context, includeInactive bool) ([]*models.Store, error)
	Deactivate(ctx context.Context, id string) error
}

type storeService struct {
	storeRepo    repositories.StoreRepository
	cacheService caching.CacheService
}

func NewStoreService(storeRepo repositories.StoreRepository, cacheService caching.CacheService) StoreService {
	return &storeService{
		storeRepo:    storeRepo,
		cacheService: cacheService,
	}
}

func validateEquipment(equipment []models.EquipmentConfig) error {
	seen := make(map[string]bool, len(equipment))
	for _, eq := range equipment {
		if eq.ID == "" {
			return fmt.Errorf("%w: equipment id is required", ErrValidation)
		}
		if seen[eq.ID] {
			return fmt.Errorf("%w: duplicate equipment id %s", ErrValidation, eq.ID)
		}
		seen[eq.ID] = true
		if eq.Min != nil && eq.Max != nil && *eq.Min > *eq.Max {
			return fmt.Errorf("%w: equipment %s has min above max", ErrValidation, eq.ID)
		}
	}
	return nil
}

func (s *storeService) Create(ctx context.Context, store *models.Store) (*models.Store, error) {
	if err := common.ValidateStoreID(store.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := common.ValidateRequiredString(store.Name, "name"); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validateEquipment(store.TemperatureEquipment); err != nil {
		return nil, err
	}

	store.IsActive = true
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetByID(ctx context.Context, id string) (*models.Store, error) {
	return s.storeRepo.GetByID(ctx, id)
}

func (s *storeService) Update(ctx context.Context, store *models.Store) error {
	if err := common.ValidateRequiredString(store.Name, "name"); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validateEquipment(store.TemperatureEquipment); err != nil {
		return err
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return err
	}

	if cacheErr := s.cacheService.InvalidateStoreCache(ctx, store.ID); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", store.ID).Warn("failed to invalidate store cache")
	}
	return nil
}

func (s *storeService) List(ctx context.Context, includeInactive bool) ([]*models.Store, error) {
	return s.storeRepo.List(ctx, includeInactive)
}

func (s *storeService) Deactivate(ctx context.Context, id string) error {
	if err := s.storeRepo.SetActive(ctx, id, false); err != nil {
		return err
	}
	if cacheErr := s.cacheService.InvalidateStoreCache(ctx, id); cacheErr != nil {
		log.WithError(cacheErr).WithField("store_id", id).Warn("failed to invalidate store cache")
	}
	return nil
}

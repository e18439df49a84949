package services

import (
	"context"
	"io"
	"time"

	"shiftstock/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services shared by the service tests.

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) GetByDay(ctx context.Context, storeID, date string) (*models.StockSubmission, error) {
	args := m.Called(ctx, storeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]*models.StockSubmission, error) {
	args := m.Called(ctx, storeID, limit, offset)
	return args.Get(0).([]*models.StockSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) ListBetween(ctx context.Context, storeID, startDate, endDate string) ([]*models.StockSubmission, error) {
	args := m.Called(ctx, storeID, startDate, endDate)
	return args.Get(0).([]*models.StockSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) ListUnread(ctx context.Context, storeID string) ([]*models.StockSubmission, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]*models.StockSubmission), args.Error(1)
}

func (m *MockSubmissionRepository) CountUnread(ctx context.Context, storeID string) (int, error) {
	args := m.Called(ctx, storeID)
	return args.Int(0), args.Error(1)
}

func (m *MockSubmissionRepository) CountNeedsReview(ctx context.Context, storeID string) (int, error) {
	args := m.Called(ctx, storeID)
	return args.Int(0), args.Error(1)
}

func (m *MockSubmissionRepository) MarkRead(ctx context.Context, storeID, date string) error {
	args := m.Called(ctx, storeID, date)
	return args.Error(0)
}

func (m *MockSubmissionRepository) Confirm(ctx context.Context, storeID, date string, at time.Time) error {
	args := m.Called(ctx, storeID, date, at)
	return args.Error(0)
}

func (m *MockSubmissionRepository) ListRevisions(ctx context.Context, storeID, date string) ([]*models.Revision, error) {
	args := m.Called(ctx, storeID, date)
	return args.Get(0).([]*models.Revision), args.Error(1)
}

func (m *MockSubmissionRepository) SaveDay(ctx context.Context, sub *models.StockSubmission, rev *models.Revision, stock []*models.CurrentStock) error {
	args := m.Called(ctx, sub, rev, stock)
	return args.Error(0)
}

type MockCurrentStockRepository struct {
	mock.Mock
}

func (m *MockCurrentStockRepository) Get(ctx context.Context, storeID, itemID string) (*models.CurrentStock, error) {
	args := m.Called(ctx, storeID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CurrentStock), args.Error(1)
}

func (m *MockCurrentStockRepository) ListByStore(ctx context.Context, storeID string) ([]*models.CurrentStock, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]*models.CurrentStock), args.Error(1)
}

func (m *MockCurrentStockRepository) ListLowOut(ctx context.Context, storeID string) ([]*models.LowOutRow, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]*models.LowOutRow), args.Error(1)
}

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, storeID string, id uuid.UUID) (*models.Item, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, item *models.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) ListByStore(ctx context.Context, storeID string, includeInactive bool) ([]*models.Item, error) {
	args := m.Called(ctx, storeID, includeInactive)
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemRepository) CountByStore(ctx context.Context, storeID string) (int, error) {
	args := m.Called(ctx, storeID)
	return args.Int(0), args.Error(1)
}

func (m *MockItemRepository) SetActive(ctx context.Context, storeID string, id uuid.UUID, active bool) error {
	args := m.Called(ctx, storeID, id, active)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, storeID string, id uuid.UUID) error {
	args := m.Called(ctx, storeID, id)
	return args.Error(0)
}

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) Create(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) GetByID(ctx context.Context, id string) (*models.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Store), args.Error(1)
}

func (m *MockStoreRepository) Update(ctx context.Context, store *models.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) List(ctx context.Context, includeInactive bool) ([]*models.Store, error) {
	args := m.Called(ctx, includeInactive)
	return args.Get(0).([]*models.Store), args.Error(1)
}

func (m *MockStoreRepository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type MockTemperatureRepository struct {
	mock.Mock
}

func (m *MockTemperatureRepository) GetDay(ctx context.Context, storeID, date string) (*models.TemperatureDay, error) {
	args := m.Called(ctx, storeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TemperatureDay), args.Error(1)
}

func (m *MockTemperatureRepository) ListDays(ctx context.Context, storeID, sinceDate string) ([]*models.TemperatureDay, error) {
	args := m.Called(ctx, storeID, sinceDate)
	return args.Get(0).([]*models.TemperatureDay), args.Error(1)
}

func (m *MockTemperatureRepository) ListUnreadDays(ctx context.Context, storeID string) ([]*models.TemperatureDay, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).([]*models.TemperatureDay), args.Error(1)
}

func (m *MockTemperatureRepository) CountUnreadDays(ctx context.Context, storeID string) (int, error) {
	args := m.Called(ctx, storeID)
	return args.Int(0), args.Error(1)
}

func (m *MockTemperatureRepository) CountNeedsReviewDays(ctx context.Context, storeID string) (int, error) {
	args := m.Called(ctx, storeID)
	return args.Int(0), args.Error(1)
}

func (m *MockTemperatureRepository) UpsertDay(ctx context.Context, day *models.TemperatureDay) error {
	args := m.Called(ctx, day)
	return args.Error(0)
}

func (m *MockTemperatureRepository) MarkDayRead(ctx context.Context, storeID, date string) error {
	args := m.Called(ctx, storeID, date)
	return args.Error(0)
}

func (m *MockTemperatureRepository) ConfirmDay(ctx context.Context, storeID, date string) error {
	args := m.Called(ctx, storeID, date)
	return args.Error(0)
}

func (m *MockTemperatureRepository) GetCheck(ctx context.Context, storeID, date, slot string) (*models.TemperatureCheck, error) {
	args := m.Called(ctx, storeID, date, slot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TemperatureCheck), args.Error(1)
}

func (m *MockTemperatureRepository) ListChecks(ctx context.Context, storeID, date string) ([]*models.TemperatureCheck, error) {
	args := m.Called(ctx, storeID, date)
	return args.Get(0).([]*models.TemperatureCheck), args.Error(1)
}

func (m *MockTemperatureRepository) UpsertCheck(ctx context.Context, check *models.TemperatureCheck) error {
	args := m.Called(ctx, check)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetCurrentStock(ctx context.Context, storeID string) ([]*models.CurrentStock, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CurrentStock), args.Error(1)
}

func (m *MockCacheService) SetCurrentStock(ctx context.Context, storeID string, stock []*models.CurrentStock, ttl time.Duration) error {
	args := m.Called(ctx, storeID, stock, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteCurrentStock(ctx context.Context, storeID string) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}

func (m *MockCacheService) GetUnreadCounts(ctx context.Context, storeID string) (*models.UnreadCounts, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UnreadCounts), args.Error(1)
}

func (m *MockCacheService) SetUnreadCounts(ctx context.Context, storeID string, counts *models.UnreadCounts, ttl time.Duration) error {
	args := m.Called(ctx, storeID, counts, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteUnreadCounts(ctx context.Context, storeID string) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}

func (m *MockCacheService) PublishChange(ctx context.Context, storeID, kind string) error {
	args := m.Called(ctx, storeID, kind)
	return args.Error(0)
}

func (m *MockCacheService) Subscribe(ctx context.Context, storeID string) *redis.PubSub {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*redis.PubSub)
}

func (m *MockCacheService) InvalidateStoreCache(ctx context.Context, storeID string) error {
	args := m.Called(ctx, storeID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockObjectStoreService struct {
	mock.Mock
}

func (m *MockObjectStoreService) UploadCSV(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize)
	return args.Error(0)
}

func (m *MockObjectStoreService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStoreService) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockObjectStoreService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

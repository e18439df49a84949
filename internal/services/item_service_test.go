package services

import (
	"context"
	"errors"
	"testing"

	"shiftstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ItemServiceTestSuite struct {
	suite.Suite
	itemRepo *MockItemRepository
	cache    *MockCacheService
	service  ItemService

	itemID uuid.UUID
}

func (suite *ItemServiceTestSuite) SetupTest() {
	suite.itemRepo = new(MockItemRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewItemService(suite.itemRepo, suite.cache)
	suite.itemID = uuid.New()
}

func TestItemServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ItemServiceTestSuite))
}

func (suite *ItemServiceTestSuite) TestCreate_AppendsToEndOfCatalog() {
	suite.itemRepo.On("CountByStore", mock.Anything, "store_1").Return(4, nil)
	suite.itemRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	created, err := suite.service.Create(context.Background(), &models.Item{StoreID: "store_1", Name: "Flour", DefaultUnit: "kg"})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 50, created.SortOrder)
	assert.True(suite.T(), created.IsActive)
	assert.NotEqual(suite.T(), uuid.Nil, created.ID)
}

func (suite *ItemServiceTestSuite) TestCreate_NegativeThresholdRejected() {
	threshold := -1.0
	_, err := suite.service.Create(context.Background(), &models.Item{StoreID: "store_1", Name: "Flour", LowStockThreshold: &threshold})
	assert.ErrorIs(suite.T(), err, ErrValidation)
	suite.itemRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *ItemServiceTestSuite) TestDeactivate_InvalidatesStockCache() {
	suite.itemRepo.On("SetActive", mock.Anything, "store_1", suite.itemID, false).Return(nil)
	suite.cache.On("DeleteCurrentStock", mock.Anything, "store_1").Return(nil)

	err := suite.service.Deactivate(context.Background(), "store_1", suite.itemID)
	assert.NoError(suite.T(), err)
	suite.cache.AssertExpectations(suite.T())
}

func (suite *ItemServiceTestSuite) TestDelete_RemovesRowAndInvalidatesStockCache() {
	suite.itemRepo.On("Delete", mock.Anything, "store_1", suite.itemID).Return(nil)
	suite.cache.On("DeleteCurrentStock", mock.Anything, "store_1").Return(nil)

	err := suite.service.Delete(context.Background(), "store_1", suite.itemID)
	assert.NoError(suite.T(), err)
	suite.itemRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func (suite *ItemServiceTestSuite) TestDelete_UnknownItemSurfacesNotFound() {
	suite.itemRepo.On("Delete", mock.Anything, "store_1", suite.itemID).Return(pgx.ErrNoRows)

	err := suite.service.Delete(context.Background(), "store_1", suite.itemID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	suite.cache.AssertNotCalled(suite.T(), "DeleteCurrentStock", mock.Anything, mock.Anything)
}

func (suite *ItemServiceTestSuite) TestDelete_CacheFailureIsSwallowed() {
	suite.itemRepo.On("Delete", mock.Anything, "store_1", suite.itemID).Return(nil)
	suite.cache.On("DeleteCurrentStock", mock.Anything, "store_1").Return(errors.New("redis down"))

	err := suite.service.Delete(context.Background(), "store_1", suite.itemID)
	assert.NoError(suite.T(), err)
}

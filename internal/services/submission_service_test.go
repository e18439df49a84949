package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"shiftstock/internal/models"
	"shiftstock/internal/status"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SubmissionServiceTestSuite struct {
	suite.Suite
	submissionRepo *MockSubmissionRepository
	stockRepo      *MockCurrentStockRepository
	itemRepo       *MockItemRepository
	cache          *MockCacheService
	service        SubmissionService

	user     *models.User
	itemFlour *models.Item
	itemMilk  *models.Item
	now      time.Time
}

func (suite *SubmissionServiceTestSuite) SetupTest() {
	suite.submissionRepo = new(MockSubmissionRepository)
	suite.stockRepo = new(MockCurrentStockRepository)
	suite.itemRepo = new(MockItemRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewSubmissionService(suite.submissionRepo, suite.stockRepo, suite.itemRepo, suite.cache)

	threshold := 5.0
	suite.itemFlour = &models.Item{ID: uuid.New(), StoreID: "store_1", Name: "Flour", DefaultUnit: "kg", LowStockThreshold: &threshold, IsActive: true}
	suite.itemMilk = &models.Item{ID: uuid.New(), StoreID: "store_1", Name: "Milk", DefaultUnit: "l", IsActive: true}

	suite.user = &models.User{
		ID:       uuid.New(),
		Role:     models.RoleEmployee,
		StoreIDs: []string{"store_1"},
		Name:     "Dana",
	}
	suite.now = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
}

func TestSubmissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SubmissionServiceTestSuite))
}

func (suite *SubmissionServiceTestSuite) catalog() []*models.Item {
	return []*models.Item{suite.itemFlour, suite.itemMilk}
}

func (suite *SubmissionServiceTestSuite) expectCacheInvalidation() {
	suite.cache.On("DeleteCurrentStock", mock.Anything, "store_1").Return(nil)
	suite.cache.On("DeleteUnreadCounts", mock.Anything, "store_1").Return(nil)
	suite.cache.On("PublishChange", mock.Anything, "store_1", "stock").Return(nil)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_FirstSubmissionLandsClean() {
	suite.itemRepo.On("ListByStore", mock.Anything, "store_1", true).Return(suite.catalog(), nil)
	suite.submissionRepo.On("GetByDay", mock.Anything, "store_1", "2026-03-10").Return(nil, pgx.ErrNoRows)
	suite.submissionRepo.On("SaveDay", mock.Anything, mock.Anything, (*models.Revision)(nil), mock.Anything).Return(nil)
	suite.expectCacheInvalidation()

	entries := map[string]SubmittedEntry{
		suite.itemFlour.ID.String(): {Quantity: 3},  // at or below threshold 5
		suite.itemMilk.ID.String():  {Quantity: 0},  // zero is always out
	}

	sub, err := suite.service.Submit(context.Background(), suite.user, "store_1", "2026-03-10", entries, suite.now)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), sub.NeedsAdminReview)
	assert.False(suite.T(), sub.IsReadByAdmin)
	assert.Nil(suite.T(), sub.LastEditedAt)
	assert.Equal(suite.T(), 1, sub.LowOutSummary.LowCount)
	assert.Equal(suite.T(), 1, sub.LowOutSummary.OutCount)
	assert.Equal(suite.T(), status.NeedStock, sub.Items[suite.itemFlour.ID.String()].Status)
	assert.Equal(suite.T(), status.OutOfStock, sub.Items[suite.itemMilk.ID.String()].Status)
	assert.Equal(suite.T(), "kg", sub.Items[suite.itemFlour.ID.String()].Unit, "default unit filled from catalog")

	suite.submissionRepo.AssertExpectations(suite.T())
}

func (suite *SubmissionServiceTestSuite) TestSubmit_EditRaisesReviewFlagAndAppendsRevision() {
	existing := &models.StockSubmission{
		StoreID:         "store_1",
		SubmittedDate:   "2026-03-10",
		SubmittedAt:     suite.now.Add(-2 * time.Hour),
		SubmittedByID:   "original-author",
		SubmittedByName: "Morgan",
		IsReadByAdmin:   true,
	}

	suite.itemRepo.On("ListByStore", mock.Anything, "store_1", true).Return(suite.catalog(), nil)
	suite.submissionRepo.On("GetByDay", mock.Anything, "store_1", "2026-03-10").Return(existing, nil)

	var savedRev *models.Revision
	var savedStock []*models.CurrentStock
	suite.submissionRepo.On("SaveDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedRev = args.Get(2).(*models.Revision)
			savedStock = args.Get(3).([]*models.CurrentStock)
		}).Return(nil)
	suite.expectCacheInvalidation()

	entries := map[string]SubmittedEntry{
		suite.itemFlour.ID.String(): {Quantity: 10, Unit: "bags"},
		suite.itemMilk.ID.String():  {Quantity: 2},
	}

	sub, err := suite.service.Submit(context.Background(), suite.user, "store_1", "2026-03-10", entries, suite.now)
	assert.NoError(suite.T(), err)

	// The day keeps its original author but flips into review state.
	assert.Equal(suite.T(), "original-author", sub.SubmittedByID)
	assert.True(suite.T(), sub.NeedsAdminReview)
	assert.False(suite.T(), sub.IsReadByAdmin)
	assert.Equal(suite.T(), suite.now, *sub.LastEditedAt)
	assert.Equal(suite.T(), "Dana", *sub.LastEditedByName)

	assert.NotNil(suite.T(), savedRev)
	assert.Equal(suite.T(), "Dana", savedRev.EditedByName)
	assert.Equal(suite.T(), sub.Items, savedRev.Items)

	// Write-through happens on edits exactly like first submissions.
	assert.Len(suite.T(), savedStock, 2)
	var flourStock *models.CurrentStock
	for _, st := range savedStock {
		if st.ItemID == suite.itemFlour.ID.String() {
			flourStock = st
		}
	}
	assert.Equal(suite.T(), status.InStock, flourStock.Status)
	assert.Equal(suite.T(), "bags", flourStock.Unit, "explicit unit wins over catalog default")
}

func (suite *SubmissionServiceTestSuite) TestSubmit_PartialCatalogRejected() {
	suite.itemRepo.On("ListByStore", mock.Anything, "store_1", true).Return(suite.catalog(), nil)

	// Only one of the two active items is counted.
	entries := map[string]SubmittedEntry{
		suite.itemFlour.ID.String(): {Quantity: 3},
	}

	_, err := suite.service.Submit(context.Background(), suite.user, "store_1", "2026-03-10", entries, suite.now)
	assert.True(suite.T(), errors.Is(err, ErrValidation))
	suite.submissionRepo.AssertNotCalled(suite.T(), "SaveDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_InactiveItemsNotRequired() {
	retired := &models.Item{ID: uuid.New(), StoreID: "store_1", Name: "Retired", IsActive: false}
	suite.itemRepo.On("ListByStore", mock.Anything, "store_1", true).Return(append(suite.catalog(), retired), nil)
	suite.submissionRepo.On("GetByDay", mock.Anything, "store_1", "2026-03-10").Return(nil, pgx.ErrNoRows)
	suite.submissionRepo.On("SaveDay", mock.Anything, mock.Anything, (*models.Revision)(nil), mock.Anything).Return(nil)
	suite.expectCacheInvalidation()

	entries := map[string]SubmittedEntry{
		suite.itemFlour.ID.String(): {Quantity: 3},
		suite.itemMilk.ID.String():  {Quantity: 1},
	}

	_, err := suite.service.Submit(context.Background(), suite.user, "store_1", "2026-03-10", entries, suite.now)
	assert.NoError(suite.T(), err)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_NegativeQuantityRejectsWholeSubmission() {
	entries := map[string]SubmittedEntry{
		suite.itemFlour.ID.String(): {Quantity: 3},
		suite.itemMilk.ID.String():  {Quantity: -1},
	}

	_, err := suite.service.Submit(context.Background(), suite.user, "store_1", "2026-03-10", entries, suite.now)
	assert.True(suite.T(), errors.Is(err, ErrValidation))
	suite.submissionRepo.AssertNotCalled(suite.T(), "SaveDay", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SubmissionServiceTestSuite) TestSubmit_UnknownItemRejected() {
	suite.itemRepo.On("ListByStore", mock.Anything, "store_1", true).Return(suite.catalog(), nil)

	entries := map[string]SubmittedEntry{
		uuid.NewString(): {Quantity: 2},
	}

	_, err := suite.service.Submit(context.Background(), suite.user, "store_1", "2026-03-10", entries, suite.now)
	assert.True(suite.T(), errors.Is(err, ErrValidation))
}

func (suite *SubmissionServiceTestSuite) TestSubmit_EmptySubmissionRejected() {
	_, err := suite.service.Submit(context.Background(), suite.user, "store_1", "2026-03-10", map[string]SubmittedEntry{}, suite.now)
	assert.True(suite.T(), errors.Is(err, ErrValidation))
}

func (suite *SubmissionServiceTestSuite) TestSubmit_UngrantedStoreDenied() {
	entries := map[string]SubmittedEntry{
		suite.itemFlour.ID.String(): {Quantity: 3},
	}

	_, err := suite.service.Submit(context.Background(), suite.user, "store_2", "2026-03-10", entries, suite.now)
	assert.True(suite.T(), errors.Is(err, ErrStoreAccess))
}

func (suite *SubmissionServiceTestSuite) TestCurrentStock_CacheHitSkipsRepo() {
	cached := []*models.CurrentStock{{StoreID: "store_1", ItemID: "item-1", Quantity: 2}}
	suite.cache.On("GetCurrentStock", mock.Anything, "store_1").Return(cached, nil)

	stock, err := suite.service.CurrentStock(context.Background(), "store_1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, stock)
	suite.stockRepo.AssertNotCalled(suite.T(), "ListByStore", mock.Anything, mock.Anything)
}

func (suite *SubmissionServiceTestSuite) TestCurrentStock_CacheMissFallsThrough() {
	fromDB := []*models.CurrentStock{{StoreID: "store_1", ItemID: "item-1", Quantity: 2}}
	suite.cache.On("GetCurrentStock", mock.Anything, "store_1").Return(nil, nil)
	suite.stockRepo.On("ListByStore", mock.Anything, "store_1").Return(fromDB, nil)
	suite.cache.On("SetCurrentStock", mock.Anything, "store_1", fromDB, mock.Anything).Return(nil)

	stock, err := suite.service.CurrentStock(context.Background(), "store_1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), fromDB, stock)
}

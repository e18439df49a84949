package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"shiftstock/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type SignalServiceTestSuite struct {
	suite.Suite
	submissionRepo  *MockSubmissionRepository
	temperatureRepo *MockTemperatureRepository
	stockRepo       *MockCurrentStockRepository
	storeRepo       *MockStoreRepository
	cache           *MockCacheService
	service         SignalService
}

func (suite *SignalServiceTestSuite) SetupTest() {
	suite.submissionRepo = new(MockSubmissionRepository)
	suite.temperatureRepo = new(MockTemperatureRepository)
	suite.stockRepo = new(MockCurrentStockRepository)
	suite.storeRepo = new(MockStoreRepository)
	suite.cache = new(MockCacheService)
	suite.service = NewSignalService(suite.submissionRepo, suite.temperatureRepo, suite.stockRepo, suite.storeRepo, suite.cache)
}

func TestSignalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SignalServiceTestSuite))
}

func (suite *SignalServiceTestSuite) TestUnreadCounts_CombinedIsAlwaysTheSum() {
	suite.cache.On("GetUnreadCounts", mock.Anything, "store_1").Return(nil, nil)
	suite.submissionRepo.On("CountUnread", mock.Anything, "store_1").Return(2, nil)
	suite.temperatureRepo.On("CountUnreadDays", mock.Anything, "store_1").Return(3, nil)
	suite.cache.On("SetUnreadCounts", mock.Anything, "store_1", mock.Anything, mock.Anything).Return(nil)

	counts, err := suite.service.UnreadCounts(context.Background(), "store_1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, counts.Stock)
	assert.Equal(suite.T(), 3, counts.Temp)
	assert.Equal(suite.T(), 5, counts.Combined)
}

func (suite *SignalServiceTestSuite) TestUnreadCounts_CacheHitSkipsRepos() {
	cached := &models.UnreadCounts{Stock: 1, Temp: 1, Combined: 2}
	suite.cache.On("GetUnreadCounts", mock.Anything, "store_1").Return(cached, nil)

	counts, err := suite.service.UnreadCounts(context.Background(), "store_1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), cached, counts)
	suite.submissionRepo.AssertNotCalled(suite.T(), "CountUnread", mock.Anything, mock.Anything)
}

func (suite *SignalServiceTestSuite) TestInbox_MergesNewestFirst() {
	editor := "Morgan"
	subs := []*models.StockSubmission{
		{SubmittedDate: "2026-03-10", SubmittedByName: "Dana", NeedsAdminReview: true, LastEditedByName: &editor},
		{SubmittedDate: "2026-03-08", SubmittedByName: "Dana"},
	}
	days := []*models.TemperatureDay{
		{SubmittedDate: "2026-03-09", UpdatedByName: "Dana", HasOutOfRange: true, NeedsAdminReview: true},
	}

	suite.submissionRepo.On("ListUnread", mock.Anything, "store_1").Return(subs, nil)
	suite.temperatureRepo.On("ListUnreadDays", mock.Anything, "store_1").Return(days, nil)

	entries, err := suite.service.Inbox(context.Background(), "store_1")
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), entries, 3)

	assert.Equal(suite.T(), "2026-03-10", entries[0].Date)
	assert.Equal(suite.T(), DocumentKindStock, entries[0].Type)
	assert.Equal(suite.T(), "edited", entries[0].Badge)
	assert.Equal(suite.T(), "Morgan", entries[0].By, "edited entries show the editor")

	assert.Equal(suite.T(), "2026-03-09", entries[1].Date)
	assert.Equal(suite.T(), DocumentKindTemperature, entries[1].Type)
	assert.Equal(suite.T(), "alert", entries[1].Badge)

	assert.Equal(suite.T(), "2026-03-08", entries[2].Date)
	assert.Equal(suite.T(), "new", entries[2].Badge)
}

func (suite *SignalServiceTestSuite) TestMarkRead_StockInvalidatesBadges() {
	suite.submissionRepo.On("MarkRead", mock.Anything, "store_1", "2026-03-10").Return(nil)
	suite.cache.On("DeleteUnreadCounts", mock.Anything, "store_1").Return(nil)

	err := suite.service.MarkRead(context.Background(), "store_1", DocumentKindStock, "2026-03-10")
	assert.NoError(suite.T(), err)
	suite.submissionRepo.AssertExpectations(suite.T())
	suite.cache.AssertExpectations(suite.T())
}

func (suite *SignalServiceTestSuite) TestMarkRead_UnknownKindRejected() {
	err := suite.service.MarkRead(context.Background(), "store_1", "invoices", "2026-03-10")
	assert.True(suite.T(), errors.Is(err, ErrValidation))
}

func (suite *SignalServiceTestSuite) TestConfirm_TemperatureClearsReview() {
	suite.temperatureRepo.On("ConfirmDay", mock.Anything, "store_1", "2026-03-10").Return(nil)
	suite.cache.On("DeleteUnreadCounts", mock.Anything, "store_1").Return(nil)

	err := suite.service.Confirm(context.Background(), "store_1", DocumentKindTemperature, "2026-03-10", time.Now())
	assert.NoError(suite.T(), err)
	suite.temperatureRepo.AssertExpectations(suite.T())
}

func (suite *SignalServiceTestSuite) TestTodayAlertRows_LatestSlotWins() {
	now := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	store := &models.Store{
		ID: "store_1",
		TemperatureEquipment: []models.EquipmentConfig{
			{ID: "fridge1", Label: "Prep Fridge"},
			{ID: "freezer1", Label: "Walk-in Freezer"},
		},
	}

	morning := now.Add(-6 * time.Hour)
	checks := []*models.TemperatureCheck{
		{
			Slot:    models.SlotLog1,
			CheckAt: morning,
			Equipment: map[string]models.EquipmentReading{
				"fridge1": {Label: "Prep Fridge", Temp: tempPtr(7), Min: tempPtr(0), Max: tempPtr(5), OutOfRange: true},
			},
		},
		{
			Slot:    models.SlotLog2,
			CheckAt: now,
			Equipment: map[string]models.EquipmentReading{
				"fridge1": {Label: "Prep Fridge", Temp: tempPtr(3), Min: tempPtr(0), Max: tempPtr(5), OutOfRange: false},
			},
		},
	}

	suite.storeRepo.On("GetByID", mock.Anything, "store_1").Return(store, nil)
	suite.temperatureRepo.On("ListChecks", mock.Anything, "store_1", "2026-03-10").Return(checks, nil)

	rows, err := suite.service.TodayAlertRows(context.Background(), "store_1", now)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), rows, 2)

	// The afternoon reading supersedes the morning alert.
	assert.Equal(suite.T(), "fridge1", rows[0].ID)
	assert.Equal(suite.T(), 3.0, *rows[0].Temp)
	assert.True(suite.T(), rows[0].InRange)

	// Unchecked equipment shows without a reading, flagged not in range.
	assert.Equal(suite.T(), "freezer1", rows[1].ID)
	assert.Nil(suite.T(), rows[1].Temp)
	assert.False(suite.T(), rows[1].InRange)
	assert.Equal(suite.T(), -25.0, *rows[1].Min)
	assert.Equal(suite.T(), -15.0, *rows[1].Max)
}

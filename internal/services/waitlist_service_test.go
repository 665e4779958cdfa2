package services

import (
	"context"
	"testing"

	"denimops/internal/common"
	"denimops/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type WaitlistServiceTestSuite struct {
	suite.Suite
	mockRepo *MockWaitlistRepo
	service  WaitlistService
}

func (s *WaitlistServiceTestSuite) SetupTest() {
	s.mockRepo = &MockWaitlistRepo{}
	s.service = NewWaitlistService(s.mockRepo)
}

func (s *WaitlistServiceTestSuite) TearDownTest() {
	s.mockRepo.AssertExpectations(s.T())
}

func TestWaitlistServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WaitlistServiceTestSuite))
}

func (s *WaitlistServiceTestSuite) TestAddAppendsAtTailOfRawGroup() {
	orderID := uuid.New()
	orderItemID := uuid.New()
	// ONX is a brown-family wash, so the raw form is the max-inseam BRW SKU.
	s.mockRepo.On("CountByRawSKU", mock.Anything, "ST-32-S-36-BRW").Return(2, nil).Once()
	s.mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *models.WaitlistEntry) bool {
		return e.Position == 3 && e.RawSKU == "ST-32-S-36-BRW" && e.SKU == "ST-32-S-30-ONX"
	})).Return(nil).Once()

	entry, err := s.service.AddToWaitlist(context.Background(), orderID, orderItemID, "ST-32-S-30-ONX", 1)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 3, entry.Position)
	assert.Equal(s.T(), "ST-32-S-36-BRW", entry.RawSKU)
}

func (s *WaitlistServiceTestSuite) TestAddRejectsInvalidSKU() {
	_, err := s.service.AddToWaitlist(context.Background(), uuid.New(), uuid.New(), "bogus", 1)

	assert.True(s.T(), common.IsCode(err, common.CodeInvalidSKU))
	s.mockRepo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *WaitlistServiceTestSuite) TestRemoveRenumbersGroup() {
	orderID := uuid.New()
	s.mockRepo.On("DeleteByOrderAndSKU", mock.Anything, orderID, "ST-32-S-30-STA").
		Return("ST-32-S-36-RAW", nil).Once()
	s.mockRepo.On("Renumber", mock.Anything, "ST-32-S-36-RAW").Return(nil).Once()

	err := s.service.RemoveFromWaitlist(context.Background(), orderID, "ST-32-S-30-STA")

	assert.NoError(s.T(), err)
}

func (s *WaitlistServiceTestSuite) TestPendingQuantitySumsEntries() {
	orderItemID := uuid.New()
	s.mockRepo.On("SumQuantityByOrderItem", mock.Anything, orderItemID).Return(3, nil).Once()

	total, err := s.service.PendingQuantity(context.Background(), orderItemID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 3, total)
}

func (s *WaitlistServiceTestSuite) TestRemoveMissingEntryIsNoop() {
	orderID := uuid.New()
	s.mockRepo.On("DeleteByOrderAndSKU", mock.Anything, orderID, "ST-32-S-30-STA").
		Return("", nil).Once()

	err := s.service.RemoveFromWaitlist(context.Background(), orderID, "ST-32-S-30-STA")

	assert.NoError(s.T(), err)
	s.mockRepo.AssertNotCalled(s.T(), "Renumber", mock.Anything, mock.Anything)
}

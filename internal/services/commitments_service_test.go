package services

import (
	"context"
	"testing"
	"time"

	"denimops/internal/common"
	"denimops/internal/models"
	"denimops/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CommitmentServiceTestSuite struct {
	suite.Suite
	mockLedger *MockCommitmentRepo
	mockItems  *MockInventoryItemRepo
	mockCache  *MockCacheService
	service    CommitmentService
}

func (s *CommitmentServiceTestSuite) SetupTest() {
	s.mockLedger = &MockCommitmentRepo{}
	s.mockItems = &MockInventoryItemRepo{}
	s.mockCache = &MockCacheService{}
	s.service = NewCommitmentService(s.mockLedger, s.mockItems, s.mockCache)
}

func (s *CommitmentServiceTestSuite) TearDownTest() {
	s.mockLedger.AssertExpectations(s.T())
	s.mockItems.AssertExpectations(s.T())
	s.mockCache.AssertExpectations(s.T())
}

func TestCommitmentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommitmentServiceTestSuite))
}

const testSKU = "ST-32-S-30-STA"

func (s *CommitmentServiceTestSuite) TestCacheHitSkipsLedger() {
	cached := &models.Commitment{SKU: testSKU, Committed: 2, Uncommitted: 5}
	s.mockCache.On("GetCommitment", mock.Anything, testSKU).Return(cached, nil).Once()

	got, err := s.service.GetCommitments(context.Background(), testSKU)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), cached, got)
}

func (s *CommitmentServiceTestSuite) TestLedgerRowServed() {
	row := &models.Commitment{SKU: testSKU, Committed: 1, Uncommitted: 3, UpdatedAt: time.Now()}
	s.mockCache.On("GetCommitment", mock.Anything, testSKU).Return(nil, nil).Once()
	s.mockLedger.On("Get", mock.Anything, testSKU).Return(row, nil).Once()
	s.mockCache.On("SetCommitment", mock.Anything, row, commitmentCacheTTL).Return(nil).Once()

	got, err := s.service.GetCommitments(context.Background(), testSKU)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 1, got.Committed)
	assert.Equal(s.T(), 3, got.Uncommitted)
}

func (s *CommitmentServiceTestSuite) TestRecountFallbackForUnseenSKU() {
	s.mockCache.On("GetCommitment", mock.Anything, testSKU).Return(nil, nil).Once()
	s.mockLedger.On("Get", mock.Anything, testSKU).Return(nil, nil).Once()
	s.mockItems.On("CountBySKUAndStatus2", mock.Anything, testSKU,
		[]string{models.Status2Committed, models.Status2Assigned}).Return(4, nil).Once()
	s.mockItems.On("CountBySKUAndStatus2", mock.Anything, testSKU,
		[]string{models.Status2Uncommitted}).Return(7, nil).Once()
	s.mockCache.On("SetCommitment", mock.Anything, mock.Anything, commitmentCacheTTL).Return(nil).Once()

	got, err := s.service.GetCommitments(context.Background(), testSKU)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 4, got.Committed)
	assert.Equal(s.T(), 7, got.Uncommitted)
}

func (s *CommitmentServiceTestSuite) TestNegativeResultRejectedBeforeWrite() {
	current := &models.Commitment{SKU: testSKU, Committed: 0, Uncommitted: 2}
	s.mockLedger.On("Get", mock.Anything, testSKU).Return(current, nil).Once()

	_, err := s.service.UpdateCommitments(context.Background(), testSKU, -1, 0)

	assert.True(s.T(), common.IsCode(err, common.CodeInvalidQuantity))
	s.mockLedger.AssertNotCalled(s.T(), "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *CommitmentServiceTestSuite) TestUpdateInvalidatesCache() {
	current := &models.Commitment{SKU: testSKU, Committed: 1, Uncommitted: 2}
	updated := &models.Commitment{SKU: testSKU, Committed: 2, Uncommitted: 1}
	s.mockLedger.On("Get", mock.Anything, testSKU).Return(current, nil).Once()
	s.mockLedger.On("ApplyDelta", mock.Anything, testSKU, 1, -1).Return(updated, nil).Once()
	s.mockCache.On("DeleteCommitment", mock.Anything, testSKU).Return(nil).Once()

	got, err := s.service.UpdateCommitments(context.Background(), testSKU, 1, -1)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), updated, got)
}

func (s *CommitmentServiceTestSuite) TestUpdatePrecheckBypassesCache() {
	// A cached snapshot can predate allocator writes; the update pre-check
	// must read the live ledger row instead.
	current := &models.Commitment{SKU: testSKU, Committed: 3, Uncommitted: 0}
	updated := &models.Commitment{SKU: testSKU, Committed: 2, Uncommitted: 1}
	s.mockLedger.On("Get", mock.Anything, testSKU).Return(current, nil).Once()
	s.mockLedger.On("ApplyDelta", mock.Anything, testSKU, -1, 1).Return(updated, nil).Once()
	s.mockCache.On("DeleteCommitment", mock.Anything, testSKU).Return(nil).Once()

	got, err := s.service.UpdateCommitments(context.Background(), testSKU, -1, 1)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), updated, got)
	s.mockCache.AssertNotCalled(s.T(), "GetCommitment", mock.Anything, mock.Anything)
}

func (s *CommitmentServiceTestSuite) TestUnderflowMappedToInvalidQuantity() {
	// The pre-check passes on data a concurrent writer has already moved
	// past; the guarded write still refuses.
	current := &models.Commitment{SKU: testSKU, Committed: 1, Uncommitted: 1}
	s.mockLedger.On("Get", mock.Anything, testSKU).Return(current, nil).Once()
	s.mockLedger.On("ApplyDelta", mock.Anything, testSKU, -1, 0).
		Return(nil, repositories.ErrLedgerUnderflow).Once()

	_, err := s.service.UpdateCommitments(context.Background(), testSKU, -1, 0)

	assert.True(s.T(), common.IsCode(err, common.CodeInvalidQuantity))
}

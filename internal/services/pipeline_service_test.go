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

type PipelineServiceTestSuite struct {
	suite.Suite
	mockRequests *MockRequestRepo
	mockItems    *MockInventoryItemRepo
	mockEvents   *MockInventoryEventRepo
	mockWaitlist *MockWaitlistService
	mockNotifier *MockNotificationService
	service      PipelineService
}

func (s *PipelineServiceTestSuite) SetupTest() {
	s.mockRequests = &MockRequestRepo{}
	s.mockItems = &MockInventoryItemRepo{}
	s.mockEvents = &MockInventoryEventRepo{}
	s.mockWaitlist = &MockWaitlistService{}
	s.mockNotifier = &MockNotificationService{}
	s.service = NewPipelineService(fakeDB{}, s.mockRequests, s.mockItems, s.mockEvents,
		s.mockWaitlist, s.mockNotifier)
}

func (s *PipelineServiceTestSuite) TearDownTest() {
	s.mockRequests.AssertExpectations(s.T())
	s.mockItems.AssertExpectations(s.T())
	s.mockEvents.AssertExpectations(s.T())
	s.mockWaitlist.AssertExpectations(s.T())
}

func TestPipelineServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PipelineServiceTestSuite))
}

// requestWith builds a request whose first n steps are already completed.
func requestWith(itemID uuid.UUID, requestType models.RequestType, completed int) *models.ProductionRequest {
	req := BuildRequest(itemID, requestType, nil, 0)
	if completed > 0 {
		req.Status = models.RequestStatusInProgress
	}
	for i := 0; i < completed && i < len(req.Steps); i++ {
		req.Steps[i].Status = models.StepStatusCompleted
	}
	return req
}

func (s *PipelineServiceTestSuite) TestBuildRequestPopulatesSteps() {
	itemID := uuid.New()
	prev := uuid.New()

	req := BuildRequest(itemID, models.RequestTypeQC, &prev, 2)

	assert.Equal(s.T(), models.RequestStatusPending, req.Status)
	assert.Equal(s.T(), &prev, req.PreviousRequestID)
	assert.Len(s.T(), req.Steps, 3)
	for i, step := range req.Steps {
		assert.Equal(s.T(), i+1, step.Sequence)
		assert.Equal(s.T(), models.StepStatusPending, step.Status)
	}
}

func (s *PipelineServiceTestSuite) TestIntermediateStepMarksInProgress() {
	req := requestWith(uuid.New(), models.RequestTypeCutting, 0)
	s.mockRequests.On("GetByID", mock.Anything, req.ID).Return(req, nil)
	s.mockRequests.On("CompleteStep", mock.Anything, req.Steps[0].ID).Return(nil).Once()
	s.mockRequests.On("UpdateStatus", mock.Anything, req.ID, models.RequestStatusInProgress).
		Return(nil).Once()

	_, err := s.service.CompleteStep(context.Background(), req.ID, req.Steps[0].ID)

	assert.NoError(s.T(), err)
}

func (s *PipelineServiceTestSuite) TestStepsCompleteInSequence() {
	req := requestWith(uuid.New(), models.RequestTypeCutting, 0)
	s.mockRequests.On("GetByID", mock.Anything, req.ID).Return(req, nil).Once()

	_, err := s.service.CompleteStep(context.Background(), req.ID, req.Steps[2].ID)

	assert.True(s.T(), common.IsCode(err, common.CodeInvalidStateTransition))
	s.mockRequests.AssertNotCalled(s.T(), "CompleteStep", mock.Anything, mock.Anything)
}

func (s *PipelineServiceTestSuite) TestWashCompletionSpawnsQC() {
	item := &models.InventoryItem{
		ID:          uuid.New(),
		SKU:         "ST-32-S-36-RAW",
		Status1:     models.Status1Stock,
		Status2:     models.Status2Assigned,
		ActiveStage: models.StageWashing,
		Location:    models.LocationFactory,
	}
	req := requestWith(item.ID, models.RequestTypeWash, 2)
	lastStep := req.Steps[2]

	s.mockRequests.On("GetByID", mock.Anything, req.ID).Return(req, nil)
	s.mockItems.On("GetByID", mock.Anything, item.ID).Return(item, nil).Once()
	s.mockRequests.On("CompleteStep", mock.Anything, lastStep.ID).Return(nil).Once()
	s.mockRequests.On("MarkCompleted", mock.Anything, req.ID).Return(nil).Once()
	s.mockItems.On("UpdateStage", mock.Anything, item.ID, models.Status1Wash, models.StageQC).
		Return(nil).Once()
	s.mockEvents.On("Create", mock.Anything, mock.MatchedBy(func(e *models.InventoryEvent) bool {
		return e.Type == models.EventStageTransition && e.ItemID == item.ID
	})).Return(nil).Once()
	s.mockRequests.On("Create", mock.Anything, mock.MatchedBy(func(next *models.ProductionRequest) bool {
		return next.Type == models.RequestTypeQC && next.ItemID == item.ID &&
			next.PreviousRequestID != nil && *next.PreviousRequestID == req.ID
	})).Return(nil).Once()
	s.mockNotifier.On("Notify", mock.Anything, models.NotifyStageAdvanced, mock.Anything).Once()

	_, err := s.service.CompleteStep(context.Background(), req.ID, lastStep.ID)

	assert.NoError(s.T(), err)
}

func (s *PipelineServiceTestSuite) TestWashBlockedAtLaundry() {
	item := &models.InventoryItem{
		ID:          uuid.New(),
		SKU:         "ST-32-S-36-RAW",
		Status1:     models.Status1Stock,
		Status2:     models.Status2Assigned,
		ActiveStage: models.StageWashing,
		Location:    models.LocationLaundry,
	}
	req := requestWith(item.ID, models.RequestTypeWash, 2)

	s.mockRequests.On("GetByID", mock.Anything, req.ID).Return(req, nil).Once()
	s.mockItems.On("GetByID", mock.Anything, item.ID).Return(item, nil).Once()

	_, err := s.service.CompleteStep(context.Background(), req.ID, req.Steps[2].ID)

	assert.True(s.T(), common.IsCode(err, common.CodeRequestBlocked))
	s.mockRequests.AssertNotCalled(s.T(), "MarkCompleted", mock.Anything, mock.Anything)
}

func (s *PipelineServiceTestSuite) TestFinishingCompletionIsTerminal() {
	orderID := uuid.New()
	item := &models.InventoryItem{
		ID:          uuid.New(),
		SKU:         "ST-32-S-30-STA",
		Status1:     models.Status1Finishing,
		Status2:     models.Status2Assigned,
		ActiveStage: models.StageFinishing,
		OrderID:     &orderID,
		Location:    models.LocationFactory,
	}
	req := requestWith(item.ID, models.RequestTypeFinishing, 2)
	lastStep := req.Steps[2]

	s.mockRequests.On("GetByID", mock.Anything, req.ID).Return(req, nil)
	s.mockItems.On("GetByID", mock.Anything, item.ID).Return(item, nil).Once()
	s.mockRequests.On("CompleteStep", mock.Anything, lastStep.ID).Return(nil).Once()
	s.mockRequests.On("MarkCompleted", mock.Anything, req.ID).Return(nil).Once()
	s.mockItems.On("UpdateStage", mock.Anything, item.ID, models.Status1Packing, models.StageComplete).
		Return(nil).Once()
	s.mockEvents.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	s.mockWaitlist.On("RemoveFromWaitlist", mock.Anything, orderID, item.SKU).Return(nil).Once()
	s.mockNotifier.On("Notify", mock.Anything, models.NotifyItemCompleted, mock.Anything).Once()

	_, err := s.service.CompleteStep(context.Background(), req.ID, lastStep.ID)

	assert.NoError(s.T(), err)
	s.mockRequests.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *PipelineServiceTestSuite) TestCompletedRequestRefusesSteps() {
	req := requestWith(uuid.New(), models.RequestTypeQC, 3)
	req.Status = models.RequestStatusCompleted
	s.mockRequests.On("GetByID", mock.Anything, req.ID).Return(req, nil).Once()

	_, err := s.service.CompleteStep(context.Background(), req.ID, req.Steps[0].ID)

	assert.True(s.T(), common.IsCode(err, common.CodeInvalidStateTransition))
}

func (s *PipelineServiceTestSuite) TestUnknownRequestRejected() {
	id := uuid.New()
	s.mockRequests.On("GetByID", mock.Anything, id).Return(nil, nil).Once()

	_, err := s.service.CompleteStep(context.Background(), id, uuid.New())

	assert.True(s.T(), common.IsCode(err, common.CodeRequestNotFound))
}

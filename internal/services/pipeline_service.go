package services

import (
	"context"
	"fmt"
	"log"

	"denimops/internal/common"
	"denimops/internal/models"
	"denimops/internal/repositories"

	"github.com/google/uuid"
)

// stageTransition describes what completing one request type does to the
// item and which request type follows it, if any.
type stageTransition struct {
	NewStatus1 string
	NextStage  string
	Next       models.RequestType
}

// productionFlow is the closed transition table for the pipeline
// PATTERN → CUTTING → SEWING → WASHING → QC → FINISHING → done.
// A committed STOCK item enters at WASHING; accepted production at PATTERN.
var productionFlow = map[models.RequestType]stageTransition{
	models.RequestTypePattern:   {NewStatus1: models.Status1Production, NextStage: models.StageCutting, Next: models.RequestTypeCutting},
	models.RequestTypeCutting:   {NewStatus1: models.Status1Production, NextStage: models.StageSewing, Next: models.RequestTypeSewing},
	models.RequestTypeSewing:    {NewStatus1: models.Status1Production, NextStage: models.StageWashing, Next: models.RequestTypeWash},
	models.RequestTypeWash:      {NewStatus1: models.Status1Wash, NextStage: models.StageQC, Next: models.RequestTypeQC},
	models.RequestTypeQC:        {NewStatus1: models.Status1QC, NextStage: models.StageFinishing, Next: models.RequestTypeFinishing},
	models.RequestTypeFinishing: {NewStatus1: models.Status1Packing, NextStage: models.StageComplete},
}

// blockingLocations maps a request type to the location in which its
// completion must be refused: a wash cannot be confirmed done while the
// garment still sits at the laundry.
var blockingLocations = map[models.RequestType]string{
	models.RequestTypeWash: models.LocationLaundry,
}

// requestStepNames pre-populates the ordered steps of each request type.
var requestStepNames = map[models.RequestType][]string{
	models.RequestTypePattern:   {"Pull Pattern", "Scan Item", "Confirm"},
	models.RequestTypeCutting:   {"Scan Item", "Cut To Length", "Confirm"},
	models.RequestTypeSewing:    {"Scan Item", "Sew", "Confirm"},
	models.RequestTypeWash:      {"Scan Item", "Scan Laundry Bin", "Confirm"},
	models.RequestTypeQC:        {"Scan Item", "Inspect", "Confirm"},
	models.RequestTypeFinishing: {"Scan Item", "Scan Bin", "Confirm"},
}

// BuildRequest constructs a request of the given type with its steps
// pre-populated, optionally chained to the request it follows.
func BuildRequest(itemID uuid.UUID, requestType models.RequestType, previous *uuid.UUID, priority int) *models.ProductionRequest {
	req := &models.ProductionRequest{
		ID:                uuid.New(),
		ItemID:            itemID,
		Type:              requestType,
		Status:            models.RequestStatusPending,
		Priority:          priority,
		PreviousRequestID: previous,
	}
	for i, name := range requestStepNames[requestType] {
		req.Steps = append(req.Steps, &models.RequestStep{
			ID:        uuid.New(),
			RequestID: req.ID,
			Sequence:  i + 1,
			Name:      name,
			Status:    models.StepStatusPending,
		})
	}
	return req
}

// PipelineService advances items through the manufacturing pipeline by
// completing request steps.
type PipelineService interface {
	GetRequest(ctx context.Context, requestID uuid.UUID) (*models.ProductionRequest, error)
	ListRequestsForItem(ctx context.Context, itemID uuid.UUID) ([]*models.ProductionRequest, error)
	CompleteStep(ctx context.Context, requestID, stepID uuid.UUID) (*models.ProductionRequest, error)
}

type pipelineService struct {
	db       repositories.Database
	requests repositories.RequestRepository
	items    repositories.InventoryItemRepository
	events   repositories.InventoryEventRepository
	waitlist WaitlistService
	notifier NotificationService
}

func NewPipelineService(db repositories.Database, requests repositories.RequestRepository,
	items repositories.InventoryItemRepository, events repositories.InventoryEventRepository,
	waitlist WaitlistService, notifier NotificationService) PipelineService {
	return &pipelineService{
		db:       db,
		requests: requests,
		items:    items,
		events:   events,
		waitlist: waitlist,
		notifier: notifier,
	}
}

func (s *pipelineService) GetRequest(ctx context.Context, requestID uuid.UUID) (*models.ProductionRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get request %s: %w", requestID, err)
	}
	if req == nil {
		return nil, common.NewDomainError(common.CodeRequestNotFound, "request %s not found", requestID)
	}
	return req, nil
}

func (s *pipelineService) ListRequestsForItem(ctx context.Context, itemID uuid.UUID) ([]*models.ProductionRequest, error) {
	return s.requests.ListByItem(ctx, itemID)
}

// CompleteStep marks one step done. Steps complete strictly in sequence;
// completing the last step applies the stage transition, records the event,
// and spawns the next request in the chain, all in one transaction.
func (s *pipelineService) CompleteStep(ctx context.Context, requestID, stepID uuid.UUID) (*models.ProductionRequest, error) {
	req, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status == models.RequestStatusCompleted || req.Status == models.RequestStatusCancelled {
		return nil, common.NewDomainError(common.CodeInvalidStateTransition,
			"request %s is %s and cannot accept step completions", requestID, req.Status)
	}

	var step *models.RequestStep
	remaining := 0
	for _, st := range req.Steps {
		if st.ID == stepID {
			step = st
		}
		if st.Status != models.StepStatusCompleted {
			remaining++
			if step == nil && st.ID != stepID {
				return nil, common.NewDomainError(common.CodeInvalidStateTransition,
					"step %q must be completed before later steps of request %s", st.Name, requestID)
			}
		}
	}
	if step == nil {
		return nil, common.NewDomainError(common.CodeRequestNotFound,
			"step %s does not belong to request %s", stepID, requestID)
	}
	if step.Status == models.StepStatusCompleted {
		return nil, common.NewDomainError(common.CodeInvalidStateTransition,
			"step %q of request %s is already completed", step.Name, requestID)
	}

	if remaining > 1 {
		return s.completeIntermediateStep(ctx, req, step)
	}
	return s.completeFinalStep(ctx, req, step)
}

func (s *pipelineService) completeIntermediateStep(ctx context.Context, req *models.ProductionRequest, step *models.RequestStep) (*models.ProductionRequest, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin step completion: %w", err)
	}
	defer tx.Rollback(ctx)

	requestsTx := s.requests.WithTx(tx)
	if err := requestsTx.CompleteStep(ctx, step.ID); err != nil {
		return nil, fmt.Errorf("complete step %s: %w", step.ID, err)
	}
	if req.Status == models.RequestStatusPending {
		if err := requestsTx.UpdateStatus(ctx, req.ID, models.RequestStatusInProgress); err != nil {
			return nil, fmt.Errorf("mark request %s in progress: %w", req.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit step completion: %w", err)
	}
	return s.GetRequest(ctx, req.ID)
}

func (s *pipelineService) completeFinalStep(ctx context.Context, req *models.ProductionRequest, step *models.RequestStep) (*models.ProductionRequest, error) {
	item, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", req.ItemID, err)
	}
	if item == nil {
		return nil, common.NewDomainError(common.CodeRequestNotFound,
			"item %s referenced by request %s not found", req.ItemID, req.ID)
	}

	if blocked, ok := blockingLocations[req.Type]; ok && item.Location == blocked {
		return nil, common.NewDomainError(common.CodeRequestBlocked,
			"%s cannot be completed while item %s is at %s", req.Type, item.ID, blocked)
	}

	transition, ok := productionFlow[req.Type]
	if !ok {
		return nil, common.NewDomainError(common.CodeInvalidStateTransition,
			"request type %s has no pipeline transition", req.Type)
	}

	event, err := models.NewInventoryEvent(item.ID, models.StageTransitionPayload{
		RequestID:   req.ID,
		RequestType: req.Type,
		FromStage:   item.ActiveStage,
		ToStage:     transition.NextStage,
		NewStatus1:  transition.NewStatus1,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin stage transition: %w", err)
	}
	defer tx.Rollback(ctx)

	requestsTx := s.requests.WithTx(tx)
	if err := requestsTx.CompleteStep(ctx, step.ID); err != nil {
		return nil, fmt.Errorf("complete step %s: %w", step.ID, err)
	}
	if err := requestsTx.MarkCompleted(ctx, req.ID); err != nil {
		return nil, fmt.Errorf("complete request %s: %w", req.ID, err)
	}
	if err := s.items.WithTx(tx).UpdateStage(ctx, item.ID, transition.NewStatus1, transition.NextStage); err != nil {
		return nil, fmt.Errorf("advance item %s: %w", item.ID, err)
	}
	if err := s.events.WithTx(tx).Create(ctx, event); err != nil {
		return nil, fmt.Errorf("record stage transition for item %s: %w", item.ID, err)
	}
	if transition.Next != "" {
		next := BuildRequest(item.ID, transition.Next, &req.ID, req.Priority)
		if err := requestsTx.Create(ctx, next); err != nil {
			return nil, fmt.Errorf("spawn %s for item %s: %w", transition.Next, item.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit stage transition: %w", err)
	}

	if transition.Next == "" {
		// Terminal: the garment is physically done. Release the waitlist
		// slot it was holding, if any.
		if item.OrderID != nil {
			if err := s.waitlist.RemoveFromWaitlist(ctx, *item.OrderID, item.SKU); err != nil {
				log.Printf("Failed to release waitlist entry for order %s sku %s: %v", item.OrderID, item.SKU, err)
			}
		}
		s.notifier.Notify(ctx, models.NotifyItemCompleted,
			fmt.Sprintf("item %s (%s) completed the pipeline", item.ID, item.SKU))
	} else {
		s.notifier.Notify(ctx, models.NotifyStageAdvanced,
			fmt.Sprintf("item %s advanced to %s", item.ID, transition.NextStage))
	}

	return s.GetRequest(ctx, req.ID)
}

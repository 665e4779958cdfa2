package services

import (
	"context"
	"fmt"
	"log"

	"denimops/internal/caching"
	"denimops/internal/common"
	"denimops/internal/models"
	"denimops/internal/repositories"

	"github.com/google/uuid"
)

// ProductionService manages the handoff to manufacturing: listing escalated
// demand and accepting it into a batch of real inventory items.
type ProductionService interface {
	ListPendingProduction(ctx context.Context, status string, limit, offset int) ([]*models.PendingProductionRequest, error)
	AcceptPendingProduction(ctx context.Context, pendingID uuid.UUID) (*models.ProductionBatch, error)
}

type productionService struct {
	db       repositories.Database
	pending  repositories.PendingProductionRepository
	batches  repositories.ProductionBatchRepository
	items    repositories.InventoryItemRepository
	requests repositories.RequestRepository
	events   repositories.InventoryEventRepository
	ledger   repositories.CommitmentRepository
	alloc    AllocationService
	cache    caching.CacheService
	notifier NotificationService
}

func NewProductionService(db repositories.Database, pending repositories.PendingProductionRepository,
	batches repositories.ProductionBatchRepository, items repositories.InventoryItemRepository,
	requests repositories.RequestRepository, events repositories.InventoryEventRepository,
	ledger repositories.CommitmentRepository, alloc AllocationService,
	cache caching.CacheService, notifier NotificationService) ProductionService {
	return &productionService{
		db:       db,
		pending:  pending,
		batches:  batches,
		items:    items,
		requests: requests,
		events:   events,
		ledger:   ledger,
		alloc:    alloc,
		cache:    cache,
		notifier: notifier,
	}
}

func (s *productionService) ListPendingProduction(ctx context.Context, status string, limit, offset int) ([]*models.PendingProductionRequest, error) {
	return s.pending.List(ctx, status, limit, offset)
}

// AcceptPendingProduction turns a pending request into a production batch:
// one inventory item per requested unit, each starting at the PATTERN stage
// of the factory pipeline. New items immediately flow back through the
// waitlist so queued orders claim them first.
func (s *productionService) AcceptPendingProduction(ctx context.Context, pendingID uuid.UUID) (*models.ProductionBatch, error) {
	pending, err := s.pending.GetByID(ctx, pendingID)
	if err != nil {
		return nil, fmt.Errorf("get pending production %s: %w", pendingID, err)
	}
	if pending == nil {
		return nil, common.NewDomainError(common.CodeProductionRequestNotFound,
			"pending production request %s not found", pendingID)
	}
	if pending.Status != models.PendingProductionStatusPending {
		return nil, common.NewDomainError(common.CodeInvalidStateTransition,
			"pending production request %s is already %s", pendingID, pending.Status)
	}

	batch := &models.ProductionBatch{
		ID:               uuid.New(),
		PendingRequestID: pending.ID,
		SKU:              pending.SKU,
		Quantity:         pending.Quantity,
	}

	newItems := make([]*models.InventoryItem, 0, pending.Quantity)
	for i := 0; i < pending.Quantity; i++ {
		newItems = append(newItems, &models.InventoryItem{
			ID:          uuid.New(),
			SKU:         pending.SKU,
			Status1:     models.Status1Production,
			Status2:     models.Status2Uncommitted,
			ActiveStage: models.StagePattern,
			BatchID:     &batch.ID,
			Location:    models.LocationFactory,
		})
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin production acceptance: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.pending.WithTx(tx).UpdateStatus(ctx, pending.ID, models.PendingProductionStatusAccepted); err != nil {
		return nil, fmt.Errorf("accept pending production %s: %w", pending.ID, err)
	}
	if err := s.batches.WithTx(tx).Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("create production batch: %w", err)
	}
	if err := s.items.WithTx(tx).BulkCreate(ctx, newItems); err != nil {
		return nil, fmt.Errorf("create batch inventory: %w", err)
	}

	requestsTx := s.requests.WithTx(tx)
	eventsTx := s.events.WithTx(tx)
	for _, item := range newItems {
		if err := requestsTx.Create(ctx, BuildRequest(item.ID, models.RequestTypePattern, nil, pending.Priority)); err != nil {
			return nil, fmt.Errorf("create pattern request for item %s: %w", item.ID, err)
		}
		event, err := models.NewInventoryEvent(item.ID, models.ProductionCreatedPayload{
			BatchID:  batch.ID,
			SKU:      pending.SKU,
			Quantity: pending.Quantity,
		})
		if err != nil {
			return nil, err
		}
		if err := eventsTx.Create(ctx, event); err != nil {
			return nil, fmt.Errorf("record production of item %s: %w", item.ID, err)
		}
	}

	if _, err := s.ledger.WithTx(tx).ApplyDelta(ctx, pending.SKU, 0, pending.Quantity); err != nil {
		return nil, fmt.Errorf("register batch in ledger for %s: %w", pending.SKU, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit production acceptance: %w", err)
	}

	if err := s.cache.DeleteCommitment(ctx, pending.SKU); err != nil {
		log.Printf("Commitment cache invalidation failed for %s: %v", pending.SKU, err)
	}
	s.notifier.Notify(ctx, models.NotifyProductionAccepted,
		fmt.Sprintf("batch %s started: %d x %s", batch.ID, batch.Quantity, batch.SKU))

	if err := s.alloc.ProcessNewProductionItems(ctx, newItems); err != nil {
		return nil, fmt.Errorf("pair batch %s with waitlist: %w", batch.ID, err)
	}
	return batch, nil
}

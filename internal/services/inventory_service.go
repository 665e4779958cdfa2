package services

import (
	"context"
	"fmt"
	"log"

	"denimops/internal/caching"
	"denimops/internal/common"
	"denimops/internal/models"
	"denimops/internal/repositories"
	"denimops/internal/sku"

	"github.com/google/uuid"
)

// InventoryService covers direct inventory operations: stock entry,
// lookups, search, and physical moves between locations.
type InventoryService interface {
	CreateStockItem(ctx context.Context, skuStr, location string) (*models.InventoryItem, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	GetItemHistory(ctx context.Context, id uuid.UUID) ([]*models.InventoryEvent, error)
	Search(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error)
	MoveLocation(ctx context.Context, id uuid.UUID, location string) (*models.InventoryItem, error)
}

type inventoryService struct {
	db     repositories.Database
	items  repositories.InventoryItemRepository
	events repositories.InventoryEventRepository
	ledger repositories.CommitmentRepository
	cache  caching.CacheService
}

func NewInventoryService(db repositories.Database, items repositories.InventoryItemRepository,
	events repositories.InventoryEventRepository, ledger repositories.CommitmentRepository,
	cache caching.CacheService) InventoryService {
	return &inventoryService{
		db:     db,
		items:  items,
		events: events,
		ledger: ledger,
		cache:  cache,
	}
}

// CreateStockItem registers one finished unit as free stock and books it
// into the ledger as uncommitted.
func (s *inventoryService) CreateStockItem(ctx context.Context, skuStr, location string) (*models.InventoryItem, error) {
	if _, err := sku.Parse(skuStr); err != nil {
		return nil, err
	}
	if location == "" {
		location = models.LocationFactory
	}

	item := &models.InventoryItem{
		ID:          uuid.New(),
		SKU:         skuStr,
		Status1:     models.Status1Stock,
		Status2:     models.Status2Uncommitted,
		ActiveStage: models.StageComplete,
		Location:    location,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin stock entry: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.items.WithTx(tx).Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create stock item %s: %w", skuStr, err)
	}
	if _, err := s.ledger.WithTx(tx).ApplyDelta(ctx, skuStr, 0, 1); err != nil {
		return nil, fmt.Errorf("register stock in ledger for %s: %w", skuStr, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit stock entry: %w", err)
	}

	if err := s.cache.DeleteCommitment(ctx, skuStr); err != nil {
		log.Printf("Commitment cache invalidation failed for %s: %v", skuStr, err)
	}
	return item, nil
}

func (s *inventoryService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}
	if item == nil {
		return nil, common.NewDomainError(common.CodeRequestNotFound, "inventory item %s not found", id)
	}
	return item, nil
}

func (s *inventoryService) GetItemHistory(ctx context.Context, id uuid.UUID) ([]*models.InventoryEvent, error) {
	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}
	return s.events.ListByItem(ctx, id)
}

func (s *inventoryService) Search(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error) {
	limit, offset, err := common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	filter.Limit = limit
	filter.Offset = offset
	return s.items.AdvancedSearch(ctx, filter)
}

// MoveLocation records a physical move and its audit event.
func (s *inventoryService) MoveLocation(ctx context.Context, id uuid.UUID, location string) (*models.InventoryItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Location == location {
		return item, nil
	}

	event, err := models.NewInventoryEvent(item.ID, models.LocationMovedPayload{
		FromLocation: item.Location,
		ToLocation:   location,
	})
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin location move: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.items.WithTx(tx).UpdateLocation(ctx, id, location); err != nil {
		return nil, fmt.Errorf("move item %s: %w", id, err)
	}
	if err := s.events.WithTx(tx).Create(ctx, event); err != nil {
		return nil, fmt.Errorf("record move of item %s: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit location move: %w", err)
	}

	item.Location = location
	return item, nil
}

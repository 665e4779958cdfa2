package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"denimops/internal/caching"
	"denimops/internal/common"
	"denimops/internal/models"
	"denimops/internal/repositories"
	"denimops/internal/sku"

	"github.com/google/uuid"
)

// maxCommitRetries bounds how often one unit re-runs the matcher after
// losing an item to a concurrent allocation.
const maxCommitRetries = 3

// AllocationService pairs order demand with inventory. Each order item is
// allocated unit by unit; units no inventory can satisfy are escalated to
// the waitlist and to pending production.
type AllocationService interface {
	ProcessOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ProcessNewProductionItems(ctx context.Context, items []*models.InventoryItem) error
}

type allocationService struct {
	db          repositories.Database
	orders      repositories.OrderRepository
	orderItems  repositories.OrderItemRepository
	items       repositories.InventoryItemRepository
	requests    repositories.RequestRepository
	pending     repositories.PendingProductionRepository
	commitments repositories.CommitmentRepository
	events      repositories.InventoryEventRepository
	matcher     MatcherService
	waitlist    WaitlistService
	cache       caching.CacheService
	notifier    NotificationService
}

func NewAllocationService(db repositories.Database, orders repositories.OrderRepository,
	orderItems repositories.OrderItemRepository, items repositories.InventoryItemRepository,
	requests repositories.RequestRepository, pending repositories.PendingProductionRepository,
	commitments repositories.CommitmentRepository, events repositories.InventoryEventRepository,
	matcher MatcherService, waitlist WaitlistService, cache caching.CacheService,
	notifier NotificationService) AllocationService {
	return &allocationService{
		db:          db,
		orders:      orders,
		orderItems:  orderItems,
		items:       items,
		requests:    requests,
		pending:     pending,
		commitments: commitments,
		events:      events,
		matcher:     matcher,
		waitlist:    waitlist,
		cache:       cache,
		notifier:    notifier,
	}
}

// ProcessOrder allocates inventory to every unfulfilled unit of the order.
// It is safe to re-run: already-committed order items are skipped, and
// units committed by an earlier run are counted before matching resumes.
func (s *allocationService) ProcessOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, common.NewDomainError(common.CodeOrderNotFound, "order %s not found", orderID)
	}

	orderItems, err := s.orderItems.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list items of order %s: %w", orderID, err)
	}

	for _, orderItem := range orderItems {
		if orderItem.Status == models.OrderStatusCommitted {
			continue
		}
		if err := s.allocateOrderItem(ctx, orderID, orderItem); err != nil {
			return nil, err
		}
	}

	return s.refreshOrderStatus(ctx, orderID)
}

func (s *allocationService) allocateOrderItem(ctx context.Context, orderID uuid.UUID, orderItem *models.OrderItem) error {
	target, err := sku.Parse(orderItem.SKU)
	if err != nil {
		return err
	}

	alreadyCommitted, err := s.items.CountByOrderItem(ctx, orderItem.ID)
	if err != nil {
		return fmt.Errorf("count committed units of order item %s: %w", orderItem.ID, err)
	}

	remaining := orderItem.Quantity - alreadyCommitted
	shortfall := 0
	for unit := 0; unit < remaining; unit++ {
		matched, err := s.matchAndCommit(ctx, orderID, orderItem, target)
		if err != nil {
			return err
		}
		if !matched {
			shortfall = remaining - unit
			break
		}
	}

	if shortfall > 0 {
		// Demand already recorded by an earlier run is still on the
		// waitlist; only the delta escalates, so re-running allocation
		// while inventory stays short is a no-op.
		queued, err := s.waitlist.PendingQuantity(ctx, orderItem.ID)
		if err != nil {
			return fmt.Errorf("count queued units of order item %s: %w", orderItem.ID, err)
		}
		shortfall -= queued
		if shortfall > 0 {
			if err := s.escalate(ctx, orderID, orderItem, target, shortfall); err != nil {
				return err
			}
		}
	}
	return nil
}

// matchAndCommit allocates one unit. A false return with nil error means no
// inventory can serve the unit; losing a race for an item retries the match
// a bounded number of times. Exhausting the retries is an error, not a
// shortfall: matching inventory exists, so escalating would manufacture
// demand that real garments can already cover.
func (s *allocationService) matchAndCommit(ctx context.Context, orderID uuid.UUID, orderItem *models.OrderItem, target sku.Components) (bool, error) {
	for attempt := 0; attempt <= maxCommitRetries; attempt++ {
		item, matchType, err := s.matcher.FindMatch(ctx, target)
		if err != nil {
			if common.IsCode(err, common.CodeNoInventoryAvailable) {
				return false, nil
			}
			return false, err
		}

		err = s.commitItem(ctx, item, orderID, orderItem.ID, matchType)
		if err == nil {
			return true, nil
		}
		if errors.Is(err, repositories.ErrItemNotCommittable) {
			log.Printf("Item %s was taken by a concurrent allocation, rematching (attempt %d)", item.ID, attempt+1)
			continue
		}
		return false, err
	}
	return false, fmt.Errorf("unit of %s lost %d consecutive allocation races: %w",
		orderItem.SKU, maxCommitRetries+1, repositories.ErrItemNotCommittable)
}

// commitItem binds one inventory item to an order item inside a single
// transaction: the guarded commit, the ledger move, the audit event, and
// for stock items the wash request that starts finishing work.
func (s *allocationService) commitItem(ctx context.Context, item *models.InventoryItem, orderID, orderItemID uuid.UUID, matchType MatchType) error {
	status2 := models.Status2Committed
	stage := item.ActiveStage
	if item.Status1 == models.Status1Stock {
		// Stock needs washing and finishing before it can ship, so it is
		// ASSIGNED to the pipeline rather than merely reserved.
		status2 = models.Status2Assigned
		stage = models.StageWashing
	}

	event, err := models.NewInventoryEvent(item.ID, models.ItemCommittedPayload{
		OrderID:     orderID,
		OrderItemID: orderItemID,
		SKU:         item.SKU,
		MatchType:   string(matchType),
	})
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin commit of item %s: %w", item.ID, err)
	}
	defer tx.Rollback(ctx)

	if err := s.items.WithTx(tx).Commit(ctx, item.ID, orderID, orderItemID, status2, stage); err != nil {
		return err
	}
	if _, err := s.commitments.WithTx(tx).ApplyDelta(ctx, item.SKU, 1, -1); err != nil {
		return fmt.Errorf("move %s from uncommitted to committed: %w", item.SKU, err)
	}
	if err := s.events.WithTx(tx).Create(ctx, event); err != nil {
		return fmt.Errorf("record commitment of item %s: %w", item.ID, err)
	}
	if item.Status1 == models.Status1Stock {
		washRequest := BuildRequest(item.ID, models.RequestTypeWash, nil, 0)
		if err := s.requests.WithTx(tx).Create(ctx, washRequest); err != nil {
			return fmt.Errorf("create wash request for item %s: %w", item.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit item %s: %w", item.ID, err)
	}

	if err := s.cache.DeleteCommitment(ctx, item.SKU); err != nil {
		log.Printf("Commitment cache invalidation failed for %s: %v", item.SKU, err)
	}
	s.notifier.Notify(ctx, models.NotifyItemCommitted,
		fmt.Sprintf("item %s (%s) committed to order %s", item.ID, item.SKU, orderID))
	return nil
}

// escalate records unmet demand: one waitlist entry for the order item and
// a raise-or-extend of the pending production request for the universal SKU.
// Exactly one notification goes out per escalated order item.
func (s *allocationService) escalate(ctx context.Context, orderID uuid.UUID, orderItem *models.OrderItem, target sku.Components, shortfall int) error {
	universal, err := sku.UniversalSKU(target)
	if err != nil {
		return err
	}
	universalSKU, err := sku.Build(universal)
	if err != nil {
		return err
	}

	if _, err := s.waitlist.AddToWaitlist(ctx, orderID, orderItem.ID, orderItem.SKU, shortfall); err != nil {
		return err
	}

	existing, err := s.pending.FindPendingBySKU(ctx, universalSKU)
	if err != nil {
		return fmt.Errorf("find pending production for %s: %w", universalSKU, err)
	}
	if existing != nil {
		if err := s.pending.AddQuantity(ctx, existing.ID, shortfall); err != nil {
			return fmt.Errorf("extend pending production %s: %w", existing.ID, err)
		}
	} else {
		req := &models.PendingProductionRequest{
			ID:       uuid.New(),
			SKU:      universalSKU,
			Quantity: shortfall,
			OrderID:  &orderID,
			Status:   models.PendingProductionStatusPending,
		}
		if err := s.pending.Create(ctx, req); err != nil {
			return fmt.Errorf("create pending production for %s: %w", universalSKU, err)
		}
	}

	s.notifier.Notify(ctx, models.NotifyProductionRequested,
		fmt.Sprintf("%d unit(s) of %s need production (universal %s)", shortfall, orderItem.SKU, universalSKU))
	return nil
}

// ProcessNewProductionItems pairs freshly produced inventory with the
// waitlist, oldest entry first per raw SKU group. Matched entries stay on
// the waitlist; they are released when the garment finishes the pipeline.
func (s *allocationService) ProcessNewProductionItems(ctx context.Context, newItems []*models.InventoryItem) error {
	bySKU := map[string][]*models.InventoryItem{}
	for _, item := range newItems {
		if item.Status2 != models.Status2Uncommitted {
			continue
		}
		bySKU[item.SKU] = append(bySKU[item.SKU], item)
	}

	touchedOrderItems := map[uuid.UUID]uuid.UUID{}
	for skuStr, items := range bySKU {
		rawSKU, err := sku.ConvertToRawSKU(skuStr)
		if err != nil {
			log.Printf("Skipping production items with unconvertible sku %q: %v", skuStr, err)
			continue
		}

		entries, err := s.waitlist.ListByRawSKU(ctx, rawSKU)
		if err != nil {
			return fmt.Errorf("list waitlist for %s: %w", rawSKU, err)
		}

		idx := 0
		for _, entry := range entries {
			if idx >= len(items) {
				break
			}

			orderItem, err := s.orderItems.GetByID(ctx, entry.OrderItemID)
			if err != nil {
				return fmt.Errorf("get order item %s: %w", entry.OrderItemID, err)
			}
			if orderItem == nil {
				continue
			}
			committed, err := s.items.CountByOrderItem(ctx, entry.OrderItemID)
			if err != nil {
				return fmt.Errorf("count committed units of order item %s: %w", entry.OrderItemID, err)
			}

			// Entries stay on the waitlist until their garments leave the
			// pipeline, so an already-served entry must not consume more
			// items on a later run.
			needed := orderItem.Quantity - committed
			for needed > 0 && idx < len(items) {
				err := s.commitItem(ctx, items[idx], entry.OrderID, entry.OrderItemID, MatchUniversal)
				if err != nil {
					if errors.Is(err, repositories.ErrItemNotCommittable) {
						idx++
						continue
					}
					return err
				}
				idx++
				needed--
				touchedOrderItems[entry.OrderItemID] = entry.OrderID
			}
		}
	}

	for orderItemID, orderID := range touchedOrderItems {
		if err := s.refreshOrderItemStatus(ctx, orderItemID); err != nil {
			return err
		}
		if _, err := s.refreshOrderStatus(ctx, orderID); err != nil {
			return err
		}
	}
	return nil
}

func (s *allocationService) refreshOrderItemStatus(ctx context.Context, orderItemID uuid.UUID) error {
	orderItem, err := s.orderItems.GetByID(ctx, orderItemID)
	if err != nil {
		return fmt.Errorf("get order item %s: %w", orderItemID, err)
	}
	if orderItem == nil {
		return nil
	}

	committed, err := s.items.CountByOrderItem(ctx, orderItemID)
	if err != nil {
		return fmt.Errorf("count committed units of order item %s: %w", orderItemID, err)
	}
	status := orderItemStatus(committed, orderItem.Quantity)
	if status == orderItem.Status {
		return nil
	}
	return s.orderItems.UpdateStatus(ctx, orderItemID, status)
}

// refreshOrderStatus recomputes every order item status from committed unit
// counts, then derives and stores the order-level status.
func (s *allocationService) refreshOrderStatus(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if order == nil {
		return nil, common.NewDomainError(common.CodeOrderNotFound, "order %s not found", orderID)
	}

	orderItems, err := s.orderItems.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list items of order %s: %w", orderID, err)
	}

	for _, orderItem := range orderItems {
		committed, err := s.items.CountByOrderItem(ctx, orderItem.ID)
		if err != nil {
			return nil, fmt.Errorf("count committed units of order item %s: %w", orderItem.ID, err)
		}
		status := orderItemStatus(committed, orderItem.Quantity)
		if status != orderItem.Status {
			if err := s.orderItems.UpdateStatus(ctx, orderItem.ID, status); err != nil {
				return nil, fmt.Errorf("update order item %s: %w", orderItem.ID, err)
			}
			orderItem.Status = status
		}
	}

	status := models.AggregateOrderStatus(orderItems)
	if status != order.Status {
		if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
			return nil, fmt.Errorf("update order %s: %w", orderID, err)
		}
		order.Status = status
	}
	order.Items = orderItems
	return order, nil
}

func orderItemStatus(committed, quantity int) string {
	switch {
	case committed >= quantity:
		return models.OrderStatusCommitted
	case committed > 0:
		return models.OrderStatusPartiallyCommitted
	default:
		return models.OrderStatusPendingProduction
	}
}

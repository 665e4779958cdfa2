package services

import (
	"context"
	"fmt"

	"denimops/internal/models"
	"denimops/internal/repositories"
	"denimops/internal/sku"

	"github.com/google/uuid"
)

// WaitlistService tracks order items waiting for production, grouped by the
// raw (universal) form of their SKU so one production run can serve every
// wash variant queued under it.
type WaitlistService interface {
	AddToWaitlist(ctx context.Context, orderID, orderItemID uuid.UUID, skuStr string, quantity int) (*models.WaitlistEntry, error)
	RemoveFromWaitlist(ctx context.Context, orderID uuid.UUID, skuStr string) error
	ListByRawSKU(ctx context.Context, rawSKU string) ([]*models.WaitlistEntry, error)
	PendingQuantity(ctx context.Context, orderItemID uuid.UUID) (int, error)
}

type waitlistService struct {
	waitlist repositories.WaitlistRepository
}

func NewWaitlistService(waitlist repositories.WaitlistRepository) WaitlistService {
	return &waitlistService{waitlist: waitlist}
}

// AddToWaitlist appends an entry at the tail of its raw SKU queue.
func (s *waitlistService) AddToWaitlist(ctx context.Context, orderID, orderItemID uuid.UUID, skuStr string, quantity int) (*models.WaitlistEntry, error) {
	rawSKU, err := sku.ConvertToRawSKU(skuStr)
	if err != nil {
		return nil, err
	}

	count, err := s.waitlist.CountByRawSKU(ctx, rawSKU)
	if err != nil {
		return nil, fmt.Errorf("count waitlist for %s: %w", rawSKU, err)
	}

	entry := &models.WaitlistEntry{
		ID:          uuid.New(),
		OrderID:     orderID,
		OrderItemID: orderItemID,
		SKU:         skuStr,
		RawSKU:      rawSKU,
		Quantity:    quantity,
		Position:    count + 1,
	}
	if err := s.waitlist.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create waitlist entry for %s: %w", skuStr, err)
	}
	return entry, nil
}

// RemoveFromWaitlist drops one entry for the order and SKU (exact or raw
// form) and renumbers the survivors so positions stay gapless. Removing an
// entry that does not exist is a no-op.
func (s *waitlistService) RemoveFromWaitlist(ctx context.Context, orderID uuid.UUID, skuStr string) error {
	rawSKU, err := s.waitlist.DeleteByOrderAndSKU(ctx, orderID, skuStr)
	if err != nil {
		return fmt.Errorf("remove waitlist entry for order %s sku %s: %w", orderID, skuStr, err)
	}
	if rawSKU == "" {
		return nil
	}
	if err := s.waitlist.Renumber(ctx, rawSKU); err != nil {
		return fmt.Errorf("renumber waitlist for %s: %w", rawSKU, err)
	}
	return nil
}

func (s *waitlistService) ListByRawSKU(ctx context.Context, rawSKU string) ([]*models.WaitlistEntry, error) {
	return s.waitlist.ListByRawSKU(ctx, rawSKU)
}

// PendingQuantity reports how many units an order item already has on the
// waitlist, so re-running allocation does not record the same demand twice.
func (s *waitlistService) PendingQuantity(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	return s.waitlist.SumQuantityByOrderItem(ctx, orderItemID)
}

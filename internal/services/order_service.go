package services

import (
	"context"
	"fmt"

	"denimops/internal/common"
	"denimops/internal/models"
	"denimops/internal/repositories"
	"denimops/internal/sku"

	"github.com/google/uuid"
)

// OrderLineInput is one requested SKU with its quantity.
type OrderLineInput struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// OrderInput is a new order as submitted by the dashboard.
type OrderInput struct {
	CustomerName string           `json:"customer_name"`
	Notes        *string          `json:"notes,omitempty"`
	Lines        []OrderLineInput `json:"lines"`
}

// OrderService validates and persists orders, then hands them straight to
// the allocator.
type OrderService interface {
	PlaceOrder(ctx context.Context, input OrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error)
}

type orderService struct {
	db         repositories.Database
	orders     repositories.OrderRepository
	orderItems repositories.OrderItemRepository
	alloc      AllocationService
}

func NewOrderService(db repositories.Database, orders repositories.OrderRepository,
	orderItems repositories.OrderItemRepository, alloc AllocationService) OrderService {
	return &orderService{
		db:         db,
		orders:     orders,
		orderItems: orderItems,
		alloc:      alloc,
	}
}

// PlaceOrder validates every line, persists the order atomically, and runs
// allocation. The returned order reflects post-allocation statuses.
func (s *orderService) PlaceOrder(ctx context.Context, input OrderInput) (*models.Order, error) {
	if len(input.Lines) == 0 {
		return nil, common.NewDomainError(common.CodeInvalidQuantity, "order has no lines")
	}
	for _, line := range input.Lines {
		if _, err := sku.Parse(line.SKU); err != nil {
			return nil, err
		}
		if line.Quantity <= 0 {
			return nil, common.NewDomainError(common.CodeInvalidQuantity,
				"quantity for %s must be positive, got %d", line.SKU, line.Quantity)
		}
	}

	order := &models.Order{
		ID:           uuid.New(),
		CustomerName: input.CustomerName,
		Status:       models.OrderStatusPending,
		Notes:        input.Notes,
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin order creation: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	orderItemsTx := s.orderItems.WithTx(tx)
	for _, line := range input.Lines {
		item := &models.OrderItem{
			ID:       uuid.New(),
			OrderID:  order.ID,
			SKU:      line.SKU,
			Quantity: line.Quantity,
			Status:   models.OrderStatusPending,
		}
		if err := orderItemsTx.Create(ctx, item); err != nil {
			return nil, fmt.Errorf("create order line %s: %w", line.SKU, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order creation: %w", err)
	}

	return s.alloc.ProcessOrder(ctx, order.ID)
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	if order == nil {
		return nil, common.NewDomainError(common.CodeOrderNotFound, "order %s not found", id)
	}
	order.Items, err = s.orderItems.ListByOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list items of order %s: %w", id, err)
	}
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	limit, offset, err := common.ValidatePaginationParams(limit, offset)
	if err != nil {
		return nil, err
	}
	return s.orders.List(ctx, limit, offset)
}

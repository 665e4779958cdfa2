package repositories

import (
	"context"
	"errors"

	"denimops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderItemRepository interface {
	WithTx(tx pgx.Tx) OrderItemRepository
	Create(ctx context.Context, item *models.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type orderItemRepo struct {
	db Database
}

func NewOrderItemRepo(db Database) OrderItemRepository {
	return &orderItemRepo{db: db}
}

func (r *orderItemRepo) WithTx(tx pgx.Tx) OrderItemRepository {
	return &orderItemRepo{db: tx}
}

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	query := `
		INSERT INTO order_items (id, order_id, sku, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.OrderID, item.SKU, item.Quantity, item.Status)
	return err
}

func (r *orderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	query := `
		SELECT id, order_id, sku, quantity, status, created_at, updated_at
		FROM order_items
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&item.ID, &item.OrderID, &item.SKU,
		&item.Quantity, &item.Status, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (r *orderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, sku, quantity, status, created_at, updated_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.SKU,
			&item.Quantity, &item.Status, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderItemRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE order_items SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

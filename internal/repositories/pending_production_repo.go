package repositories

import (
	"context"
	"errors"

	"denimops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PendingProductionRepository interface {
	WithTx(tx pgx.Tx) PendingProductionRepository
	Create(ctx context.Context, req *models.PendingProductionRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PendingProductionRequest, error)
	FindPendingBySKU(ctx context.Context, sku string) (*models.PendingProductionRequest, error)
	AddQuantity(ctx context.Context, id uuid.UUID, delta int) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	List(ctx context.Context, status string, limit, offset int) ([]*models.PendingProductionRequest, error)
}

type pendingProductionRepo struct {
	db Database
}

func NewPendingProductionRepo(db Database) PendingProductionRepository {
	return &pendingProductionRepo{db: db}
}

func (r *pendingProductionRepo) WithTx(tx pgx.Tx) PendingProductionRepository {
	return &pendingProductionRepo{db: tx}
}

const pendingColumns = `id, sku, quantity, priority, order_id, status, created_at, updated_at`

func (r *pendingProductionRepo) Create(ctx context.Context, req *models.PendingProductionRequest) error {
	query := `
		INSERT INTO pending_production_requests (id, sku, quantity, priority, order_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.SKU, req.Quantity, req.Priority, req.OrderID, req.Status)
	return err
}

func (r *pendingProductionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PendingProductionRequest, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_production_requests WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *pendingProductionRepo) FindPendingBySKU(ctx context.Context, sku string) (*models.PendingProductionRequest, error) {
	query := `
		SELECT ` + pendingColumns + `
		FROM pending_production_requests
		WHERE sku = $1 AND status = $2
		ORDER BY created_at
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, sku, models.PendingProductionStatusPending))
}

func (r *pendingProductionRepo) AddQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	query := `UPDATE pending_production_requests SET quantity = quantity + $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, delta, id)
	return err
}

func (r *pendingProductionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE pending_production_requests SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *pendingProductionRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.PendingProductionRequest, error) {
	query := `
		SELECT ` + pendingColumns + `
		FROM pending_production_requests
		WHERE ($1 = '' OR status = $1)
		ORDER BY priority DESC, created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*models.PendingProductionRequest
	for rows.Next() {
		req := &models.PendingProductionRequest{}
		if err := rows.Scan(&req.ID, &req.SKU, &req.Quantity, &req.Priority,
			&req.OrderID, &req.Status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

func (r *pendingProductionRepo) scanOne(row pgx.Row) (*models.PendingProductionRequest, error) {
	req := &models.PendingProductionRequest{}
	err := row.Scan(&req.ID, &req.SKU, &req.Quantity, &req.Priority,
		&req.OrderID, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

package repositories

import (
	"context"
	"errors"

	"denimops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductionBatchRepository interface {
	WithTx(tx pgx.Tx) ProductionBatchRepository
	Create(ctx context.Context, batch *models.ProductionBatch) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductionBatch, error)
}

type productionBatchRepo struct {
	db Database
}

func NewProductionBatchRepo(db Database) ProductionBatchRepository {
	return &productionBatchRepo{db: db}
}

func (r *productionBatchRepo) WithTx(tx pgx.Tx) ProductionBatchRepository {
	return &productionBatchRepo{db: tx}
}

func (r *productionBatchRepo) Create(ctx context.Context, batch *models.ProductionBatch) error {
	query := `
		INSERT INTO production_batches (id, pending_request_id, sku, quantity, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, batch.ID, batch.PendingRequestID, batch.SKU, batch.Quantity)
	return err
}

func (r *productionBatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductionBatch, error) {
	batch := &models.ProductionBatch{}
	query := `
		SELECT id, pending_request_id, sku, quantity, created_at
		FROM production_batches
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&batch.ID, &batch.PendingRequestID,
		&batch.SKU, &batch.Quantity, &batch.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return batch, nil
}

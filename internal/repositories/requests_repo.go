package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"denimops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RequestRepository interface {
	WithTx(tx pgx.Tx) RequestRepository
	Create(ctx context.Context, req *models.ProductionRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductionRequest, error)
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.ProductionRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	MarkCompleted(ctx context.Context, id uuid.UUID) error
	CompleteStep(ctx context.Context, stepID uuid.UUID) error
	ListInProgressOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*models.ProductionRequest, error)
}

type requestRepo struct {
	db Database
}

func NewRequestRepo(db Database) RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) WithTx(tx pgx.Tx) RequestRepository {
	return &requestRepo{db: tx}
}

const requestColumns = `id, item_id, request_type, status, priority, previous_request_id, created_at, updated_at, completed_at`

// Create inserts the request and its steps together.
func (r *requestRepo) Create(ctx context.Context, req *models.ProductionRequest) error {
	query := `
		INSERT INTO production_requests (id, item_id, request_type, status, priority, previous_request_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, req.ID, req.ItemID, req.Type, req.Status, req.Priority, req.PreviousRequestID)
	if err != nil {
		return err
	}

	stepQuery := `
		INSERT INTO request_steps (id, request_id, sequence, name, status)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, step := range req.Steps {
		if _, err := r.db.Exec(ctx, stepQuery, step.ID, step.RequestID, step.Sequence, step.Name, step.Status); err != nil {
			return fmt.Errorf("insert step %d of request %s: %w", step.Sequence, req.ID, err)
		}
	}
	return nil
}

func (r *requestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductionRequest, error) {
	req := &models.ProductionRequest{}
	query := `SELECT ` + requestColumns + ` FROM production_requests WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&req.ID, &req.ItemID, &req.Type, &req.Status,
		&req.Priority, &req.PreviousRequestID, &req.CreatedAt, &req.UpdatedAt, &req.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	steps, err := r.listSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Steps = steps
	return req, nil
}

func (r *requestRepo) listSteps(ctx context.Context, requestID uuid.UUID) ([]*models.RequestStep, error) {
	query := `
		SELECT id, request_id, sequence, name, status, completed_at
		FROM request_steps
		WHERE request_id = $1
		ORDER BY sequence
	`
	rows, err := r.db.Query(ctx, query, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []*models.RequestStep
	for rows.Next() {
		step := &models.RequestStep{}
		if err := rows.Scan(&step.ID, &step.RequestID, &step.Sequence,
			&step.Name, &step.Status, &step.CompletedAt); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func (r *requestRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.ProductionRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM production_requests WHERE item_id = $1 ORDER BY created_at`
	reqs, err := r.listRequests(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	for _, req := range reqs {
		steps, err := r.listSteps(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		req.Steps = steps
	}
	return reqs, nil
}

func (r *requestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE production_requests SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, status, id)
	return err
}

func (r *requestRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE production_requests
		SET status = $1, completed_at = NOW(), updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(ctx, query, models.RequestStatusCompleted, id)
	return err
}

func (r *requestRepo) CompleteStep(ctx context.Context, stepID uuid.UUID) error {
	query := `
		UPDATE request_steps
		SET status = $1, completed_at = NOW()
		WHERE id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, models.StepStatusCompleted, stepID, models.StepStatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("step %s is not pending", stepID)
	}
	return nil
}

func (r *requestRepo) ListInProgressOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*models.ProductionRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM production_requests
		WHERE status IN ($1, $2) AND created_at < $3
		ORDER BY created_at
		LIMIT $4
	`
	return r.listRequests(ctx, query, models.RequestStatusPending, models.RequestStatusInProgress, cutoff, limit)
}

func (r *requestRepo) listRequests(ctx context.Context, query string, args ...interface{}) ([]*models.ProductionRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*models.ProductionRequest
	for rows.Next() {
		req := &models.ProductionRequest{}
		if err := rows.Scan(&req.ID, &req.ItemID, &req.Type, &req.Status, &req.Priority,
			&req.PreviousRequestID, &req.CreatedAt, &req.UpdatedAt, &req.CompletedAt); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

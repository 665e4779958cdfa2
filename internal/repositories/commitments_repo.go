package repositories

import (
	"context"
	"errors"

	"denimops/internal/models"

	"github.com/jackc/pgx/v5"
)

// ErrLedgerUnderflow is returned when a delta would drive either quantity
// negative. The guarded UPDATE leaves the row untouched in that case.
var ErrLedgerUnderflow = errors.New("commitment ledger update would go negative")

type CommitmentRepository interface {
	WithTx(tx pgx.Tx) CommitmentRepository
	Get(ctx context.Context, sku string) (*models.Commitment, error)
	ApplyDelta(ctx context.Context, sku string, deltaCommitted, deltaUncommitted int) (*models.Commitment, error)
}

type commitmentRepo struct {
	db Database
}

func NewCommitmentRepo(db Database) CommitmentRepository {
	return &commitmentRepo{db: db}
}

func (r *commitmentRepo) WithTx(tx pgx.Tx) CommitmentRepository {
	return &commitmentRepo{db: tx}
}

func (r *commitmentRepo) Get(ctx context.Context, sku string) (*models.Commitment, error) {
	c := &models.Commitment{}
	query := `
		SELECT sku, committed_quantity, uncommitted_quantity, updated_at
		FROM sku_commitments
		WHERE sku = $1
	`
	err := r.db.QueryRow(ctx, query, sku).Scan(&c.SKU, &c.Committed, &c.Uncommitted, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ApplyDelta atomically adjusts both quantities for a SKU. The WHERE clause
// on the conflict update rejects any delta that would leave a negative
// quantity; the insert path covers a SKU's first ledger entry.
func (r *commitmentRepo) ApplyDelta(ctx context.Context, sku string, deltaCommitted, deltaUncommitted int) (*models.Commitment, error) {
	if deltaCommitted < 0 || deltaUncommitted < 0 {
		existing, err := r.Get(ctx, sku)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrLedgerUnderflow
		}
	}

	c := &models.Commitment{}
	query := `
		INSERT INTO sku_commitments (sku, committed_quantity, uncommitted_quantity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (sku) DO UPDATE
		SET committed_quantity = sku_commitments.committed_quantity + EXCLUDED.committed_quantity,
		    uncommitted_quantity = sku_commitments.uncommitted_quantity + EXCLUDED.uncommitted_quantity,
		    updated_at = NOW()
		WHERE sku_commitments.committed_quantity + EXCLUDED.committed_quantity >= 0
		  AND sku_commitments.uncommitted_quantity + EXCLUDED.uncommitted_quantity >= 0
		RETURNING sku, committed_quantity, uncommitted_quantity, updated_at
	`
	err := r.db.QueryRow(ctx, query, sku, deltaCommitted, deltaUncommitted).
		Scan(&c.SKU, &c.Committed, &c.Uncommitted, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLedgerUnderflow
		}
		return nil, err
	}
	return c, nil
}

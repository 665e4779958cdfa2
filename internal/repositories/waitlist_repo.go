package repositories

import (
	"context"
	"errors"

	"denimops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WaitlistRepository interface {
	WithTx(tx pgx.Tx) WaitlistRepository
	Create(ctx context.Context, entry *models.WaitlistEntry) error
	ListByRawSKU(ctx context.Context, rawSKU string) ([]*models.WaitlistEntry, error)
	CountByRawSKU(ctx context.Context, rawSKU string) (int, error)
	SumQuantityByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int, error)
	DeleteByOrderAndSKU(ctx context.Context, orderID uuid.UUID, sku string) (string, error)
	Renumber(ctx context.Context, rawSKU string) error
}

type waitlistRepo struct {
	db Database
}

func NewWaitlistRepo(db Database) WaitlistRepository {
	return &waitlistRepo{db: db}
}

func (r *waitlistRepo) WithTx(tx pgx.Tx) WaitlistRepository {
	return &waitlistRepo{db: tx}
}

func (r *waitlistRepo) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist_entries (id, order_id, order_item_id, sku, raw_sku, quantity, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`
	_, err := r.db.Exec(ctx, query, entry.ID, entry.OrderID, entry.OrderItemID,
		entry.SKU, entry.RawSKU, entry.Quantity, entry.Position)
	return err
}

func (r *waitlistRepo) ListByRawSKU(ctx context.Context, rawSKU string) ([]*models.WaitlistEntry, error) {
	query := `
		SELECT id, order_id, order_item_id, sku, raw_sku, quantity, position, created_at
		FROM waitlist_entries
		WHERE raw_sku = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, rawSKU)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.WaitlistEntry
	for rows.Next() {
		entry := &models.WaitlistEntry{}
		if err := rows.Scan(&entry.ID, &entry.OrderID, &entry.OrderItemID, &entry.SKU,
			&entry.RawSKU, &entry.Quantity, &entry.Position, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *waitlistRepo) CountByRawSKU(ctx context.Context, rawSKU string) (int, error) {
	query := `SELECT COUNT(*) FROM waitlist_entries WHERE raw_sku = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, rawSKU).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// SumQuantityByOrderItem totals the units an order item already has queued,
// across however many entries escalation recorded for it.
func (r *waitlistRepo) SumQuantityByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM waitlist_entries WHERE order_item_id = $1`
	var total int
	if err := r.db.QueryRow(ctx, query, orderItemID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// DeleteByOrderAndSKU removes the entry matching either the exact or the raw
// SKU and returns the raw SKU group that now needs renumbering. Returns ""
// when no entry matched.
func (r *waitlistRepo) DeleteByOrderAndSKU(ctx context.Context, orderID uuid.UUID, sku string) (string, error) {
	query := `
		DELETE FROM waitlist_entries
		WHERE id IN (
			SELECT id FROM waitlist_entries
			WHERE order_id = $1 AND (sku = $2 OR raw_sku = $2)
			ORDER BY created_at
			LIMIT 1
		)
		RETURNING raw_sku
	`
	var rawSKU string
	err := r.db.QueryRow(ctx, query, orderID, sku).Scan(&rawSKU)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return rawSKU, nil
}

// Renumber reassigns positions 1..n by creation time within a raw SKU group,
// closing any gap left by a removal.
func (r *waitlistRepo) Renumber(ctx context.Context, rawSKU string) error {
	query := `
		UPDATE waitlist_entries w
		SET position = ranked.rn
		FROM (
			SELECT id, ROW_NUMBER() OVER (ORDER BY created_at) AS rn
			FROM waitlist_entries
			WHERE raw_sku = $1
		) ranked
		WHERE w.id = ranked.id
	`
	_, err := r.db.Exec(ctx, query, rawSKU)
	return err
}

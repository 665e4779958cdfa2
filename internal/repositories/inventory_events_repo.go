package repositories

import (
	"context"

	"denimops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type InventoryEventRepository interface {
	WithTx(tx pgx.Tx) InventoryEventRepository
	Create(ctx context.Context, event *models.InventoryEvent) error
	ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryEvent, error)
}

type inventoryEventRepo struct {
	db Database
}

func NewInventoryEventRepo(db Database) InventoryEventRepository {
	return &inventoryEventRepo{db: db}
}

func (r *inventoryEventRepo) WithTx(tx pgx.Tx) InventoryEventRepository {
	return &inventoryEventRepo{db: tx}
}

func (r *inventoryEventRepo) Create(ctx context.Context, event *models.InventoryEvent) error {
	query := `
		INSERT INTO inventory_events (id, item_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.db.Exec(ctx, query, event.ID, event.ItemID, event.Type, event.Payload)
	return err
}

func (r *inventoryEventRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryEvent, error) {
	query := `
		SELECT id, item_id, event_type, payload, created_at
		FROM inventory_events
		WHERE item_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*models.InventoryEvent
	for rows.Next() {
		event := &models.InventoryEvent{}
		if err := rows.Scan(&event.ID, &event.ItemID, &event.Type, &event.Payload, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"denimops/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrItemNotCommittable is returned when the optimistic commit guard finds
// the item no longer UNCOMMITTED (a concurrent allocation won).
var ErrItemNotCommittable = errors.New("inventory item is not uncommitted")

type InventoryItemRepository interface {
	WithTx(tx pgx.Tx) InventoryItemRepository
	Create(ctx context.Context, item *models.InventoryItem) error
	BulkCreate(ctx context.Context, items []*models.InventoryItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, location string) error
	UpdateStage(ctx context.Context, id uuid.UUID, status1, activeStage string) error
	Commit(ctx context.Context, id, orderID, orderItemID uuid.UUID, status2, activeStage string) error
	ListUncommittedBySKU(ctx context.Context, sku string) ([]*models.InventoryItem, error)
	ListUncommittedByBase(ctx context.Context, style string, waist int, shape string) ([]*models.InventoryItem, error)
	ListUncommittedByStatus1(ctx context.Context, status1 string, limit int) ([]*models.InventoryItem, error)
	CountBySKUAndStatus2(ctx context.Context, sku string, statuses []string) (int, error)
	CountByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int, error)
	AdvancedSearch(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error)
}

type inventoryItemRepo struct {
	db Database
}

func NewInventoryItemRepo(db Database) InventoryItemRepository {
	return &inventoryItemRepo{db: db}
}

func (r *inventoryItemRepo) WithTx(tx pgx.Tx) InventoryItemRepository {
	return &inventoryItemRepo{db: tx}
}

const itemColumns = `id, sku, status1, status2, active_stage, order_id, order_item_id, batch_id, location, created_at, updated_at`

func scanItem(row pgx.Row) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	err := row.Scan(&item.ID, &item.SKU, &item.Status1, &item.Status2, &item.ActiveStage,
		&item.OrderID, &item.OrderItemID, &item.BatchID, &item.Location, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *inventoryItemRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, sku, status1, status2, active_stage, order_id, order_item_id, batch_id, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.SKU, item.Status1, item.Status2, item.ActiveStage,
		item.OrderID, item.OrderItemID, item.BatchID, item.Location)
	return err
}

func (r *inventoryItemRepo) BulkCreate(ctx context.Context, items []*models.InventoryItem) error {
	for _, item := range items {
		if err := r.Create(ctx, item); err != nil {
			return fmt.Errorf("bulk create item %s: %w", item.ID, err)
		}
	}
	return nil
}

func (r *inventoryItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return item, nil
}

func (r *inventoryItemRepo) UpdateLocation(ctx context.Context, id uuid.UUID, location string) error {
	query := `UPDATE inventory_items SET location = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(ctx, query, location, id)
	return err
}

func (r *inventoryItemRepo) UpdateStage(ctx context.Context, id uuid.UUID, status1, activeStage string) error {
	query := `UPDATE inventory_items SET status1 = $1, active_stage = $2, updated_at = NOW() WHERE id = $3`
	_, err := r.db.Exec(ctx, query, status1, activeStage, id)
	return err
}

// Commit binds an item to an order. The status2 guard in the WHERE clause is
// what gives at-most-one-writer semantics: two concurrent allocations of the
// same item cannot both see UNCOMMITTED.
func (r *inventoryItemRepo) Commit(ctx context.Context, id, orderID, orderItemID uuid.UUID, status2, activeStage string) error {
	query := `
		UPDATE inventory_items
		SET status2 = $1, active_stage = $2, order_id = $3, order_item_id = $4, updated_at = NOW()
		WHERE id = $5 AND status2 = $6
	`
	tag, err := r.db.Exec(ctx, query, status2, activeStage, orderID, orderItemID, id, models.Status2Uncommitted)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotCommittable
	}
	return nil
}

func (r *inventoryItemRepo) ListUncommittedBySKU(ctx context.Context, sku string) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE sku = $1 AND status2 = $2
		ORDER BY created_at
	`
	return r.list(ctx, query, sku, models.Status2Uncommitted)
}

// ListUncommittedByBase returns universal-match candidates: every free item
// sharing the target's style, waist, and shape. SKU fields are encoded
// positionally, so the prefix match is expressed over the string form.
func (r *inventoryItemRepo) ListUncommittedByBase(ctx context.Context, style string, waist int, shape string) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE sku LIKE $1 AND status2 = $2
		ORDER BY created_at
	`
	prefix := fmt.Sprintf("%s-%d-%s-%%", style, waist, shape)
	return r.list(ctx, query, prefix, models.Status2Uncommitted)
}

func (r *inventoryItemRepo) ListUncommittedByStatus1(ctx context.Context, status1 string, limit int) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM inventory_items
		WHERE status1 = $1 AND status2 = $2
		ORDER BY created_at
		LIMIT $3
	`
	return r.list(ctx, query, status1, models.Status2Uncommitted, limit)
}

func (r *inventoryItemRepo) CountBySKUAndStatus2(ctx context.Context, sku string, statuses []string) (int, error) {
	query := `SELECT COUNT(*) FROM inventory_items WHERE sku = $1 AND status2 = ANY($2)`
	var count int
	if err := r.db.QueryRow(ctx, query, sku, statuses).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *inventoryItemRepo) CountByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM inventory_items WHERE order_item_id = $1`
	var count int
	if err := r.db.QueryRow(ctx, query, orderItemID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// AdvancedSearch performs filtered inventory queries for the dashboard.
func (r *inventoryItemRepo) AdvancedSearch(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `SELECT ` + itemColumns + ` FROM inventory_items WHERE 1=1`
	args := []interface{}{}
	argCount := 0

	addCondition := func(clause string, value interface{}) {
		argCount++
		queryBase += fmt.Sprintf(" AND %s = $%d", clause, argCount)
		args = append(args, value)
	}

	if filter.SKU != nil {
		addCondition("sku", *filter.SKU)
	}
	if filter.Status1 != nil {
		addCondition("status1", *filter.Status1)
	}
	if filter.Status2 != nil {
		addCondition("status2", *filter.Status2)
	}
	if filter.Location != nil {
		addCondition("location", *filter.Location)
	}
	if filter.OrderID != nil {
		addCondition("order_id", *filter.OrderID)
	}
	if filter.BatchID != nil {
		addCondition("batch_id", *filter.BatchID)
	}

	sortField := "created_at"
	switch filter.SortBy {
	case "updated_at":
		sortField = "updated_at"
	case "sku":
		sortField = "sku"
	}
	sortOrder := "ASC"
	if strings.ToLower(filter.SortOrder) == "desc" {
		sortOrder = "DESC"
	}
	queryBase += fmt.Sprintf(" ORDER BY %s %s", sortField, sortOrder)

	argCount++
	queryBase += fmt.Sprintf(" LIMIT $%d", argCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		argCount++
		queryBase += fmt.Sprintf(" OFFSET $%d", argCount)
		args = append(args, filter.Offset)
	}

	return r.list(ctx, queryBase, args...)
}

func (r *inventoryItemRepo) list(ctx context.Context, query string, args ...interface{}) ([]*models.InventoryItem, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item := &models.InventoryItem{}
		if err := rows.Scan(&item.ID, &item.SKU, &item.Status1, &item.Status2, &item.ActiveStage,
			&item.OrderID, &item.OrderItemID, &item.BatchID, &item.Location, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

package services

import (
	"context"
	"time"

	"denimops/internal/models"
	"denimops/internal/repositories"
	"denimops/internal/sku"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

// fakeTx stands in for a real transaction; the embedded interface is never
// touched because mocked repositories ignore the tx handed to WithTx.
type fakeTx struct {
	pgx.Tx
}

func (fakeTx) Commit(ctx context.Context) error   { return nil }
func (fakeTx) Rollback(ctx context.Context) error { return nil }

// fakeDB satisfies repositories.Database for services that only use Begin.
type fakeDB struct {
	repositories.Database
}

func (fakeDB) Begin(ctx context.Context) (pgx.Tx, error) { return fakeTx{}, nil }

type MockInventoryItemRepo struct {
	mock.Mock
}

func (m *MockInventoryItemRepo) WithTx(tx pgx.Tx) repositories.InventoryItemRepository {
	return m
}

func (m *MockInventoryItemRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryItemRepo) BulkCreate(ctx context.Context, items []*models.InventoryItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockInventoryItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepo) UpdateLocation(ctx context.Context, id uuid.UUID, location string) error {
	args := m.Called(ctx, id, location)
	return args.Error(0)
}

func (m *MockInventoryItemRepo) UpdateStage(ctx context.Context, id uuid.UUID, status1, activeStage string) error {
	args := m.Called(ctx, id, status1, activeStage)
	return args.Error(0)
}

func (m *MockInventoryItemRepo) Commit(ctx context.Context, id, orderID, orderItemID uuid.UUID, status2, activeStage string) error {
	args := m.Called(ctx, id, orderID, orderItemID, status2, activeStage)
	return args.Error(0)
}

func (m *MockInventoryItemRepo) ListUncommittedBySKU(ctx context.Context, skuStr string) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, skuStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepo) ListUncommittedByBase(ctx context.Context, style string, waist int, shape string) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, style, waist, shape)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepo) ListUncommittedByStatus1(ctx context.Context, status1 string, limit int) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, status1, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryItemRepo) CountBySKUAndStatus2(ctx context.Context, skuStr string, statuses []string) (int, error) {
	args := m.Called(ctx, skuStr, statuses)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryItemRepo) CountByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	args := m.Called(ctx, orderItemID)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryItemRepo) AdvancedSearch(ctx context.Context, filter *models.ItemSearchFilter) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) WithTx(tx pgx.Tx) repositories.OrderRepository { return m }

func (m *MockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepo) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

type MockOrderItemRepo struct {
	mock.Mock
}

func (m *MockOrderItemRepo) WithTx(tx pgx.Tx) repositories.OrderItemRepository { return m }

func (m *MockOrderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockOrderItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OrderItem), args.Error(1)
}

func (m *MockOrderItemRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockWaitlistRepo struct {
	mock.Mock
}

func (m *MockWaitlistRepo) WithTx(tx pgx.Tx) repositories.WaitlistRepository { return m }

func (m *MockWaitlistRepo) Create(ctx context.Context, entry *models.WaitlistEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockWaitlistRepo) ListByRawSKU(ctx context.Context, rawSKU string) ([]*models.WaitlistEntry, error) {
	args := m.Called(ctx, rawSKU)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WaitlistEntry), args.Error(1)
}

func (m *MockWaitlistRepo) CountByRawSKU(ctx context.Context, rawSKU string) (int, error) {
	args := m.Called(ctx, rawSKU)
	return args.Int(0), args.Error(1)
}

func (m *MockWaitlistRepo) SumQuantityByOrderItem(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	args := m.Called(ctx, orderItemID)
	return args.Int(0), args.Error(1)
}

func (m *MockWaitlistRepo) DeleteByOrderAndSKU(ctx context.Context, orderID uuid.UUID, skuStr string) (string, error) {
	args := m.Called(ctx, orderID, skuStr)
	return args.String(0), args.Error(1)
}

func (m *MockWaitlistRepo) Renumber(ctx context.Context, rawSKU string) error {
	args := m.Called(ctx, rawSKU)
	return args.Error(0)
}

type MockPendingProductionRepo struct {
	mock.Mock
}

func (m *MockPendingProductionRepo) WithTx(tx pgx.Tx) repositories.PendingProductionRepository {
	return m
}

func (m *MockPendingProductionRepo) Create(ctx context.Context, req *models.PendingProductionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockPendingProductionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PendingProductionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingProductionRequest), args.Error(1)
}

func (m *MockPendingProductionRepo) FindPendingBySKU(ctx context.Context, skuStr string) (*models.PendingProductionRequest, error) {
	args := m.Called(ctx, skuStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingProductionRequest), args.Error(1)
}

func (m *MockPendingProductionRepo) AddQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	args := m.Called(ctx, id, delta)
	return args.Error(0)
}

func (m *MockPendingProductionRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPendingProductionRepo) List(ctx context.Context, status string, limit, offset int) ([]*models.PendingProductionRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingProductionRequest), args.Error(1)
}

type MockProductionBatchRepo struct {
	mock.Mock
}

func (m *MockProductionBatchRepo) WithTx(tx pgx.Tx) repositories.ProductionBatchRepository {
	return m
}

func (m *MockProductionBatchRepo) Create(ctx context.Context, batch *models.ProductionBatch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func (m *MockProductionBatchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductionBatch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductionBatch), args.Error(1)
}

type MockRequestRepo struct {
	mock.Mock
}

func (m *MockRequestRepo) WithTx(tx pgx.Tx) repositories.RequestRepository { return m }

func (m *MockRequestRepo) Create(ctx context.Context, req *models.ProductionRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProductionRequest), args.Error(1)
}

func (m *MockRequestRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.ProductionRequest, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProductionRequest), args.Error(1)
}

func (m *MockRequestRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRequestRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRequestRepo) CompleteStep(ctx context.Context, stepID uuid.UUID) error {
	args := m.Called(ctx, stepID)
	return args.Error(0)
}

func (m *MockRequestRepo) ListInProgressOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*models.ProductionRequest, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ProductionRequest), args.Error(1)
}

type MockCommitmentRepo struct {
	mock.Mock
}

func (m *MockCommitmentRepo) WithTx(tx pgx.Tx) repositories.CommitmentRepository { return m }

func (m *MockCommitmentRepo) Get(ctx context.Context, skuStr string) (*models.Commitment, error) {
	args := m.Called(ctx, skuStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Commitment), args.Error(1)
}

func (m *MockCommitmentRepo) ApplyDelta(ctx context.Context, skuStr string, deltaCommitted, deltaUncommitted int) (*models.Commitment, error) {
	args := m.Called(ctx, skuStr, deltaCommitted, deltaUncommitted)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Commitment), args.Error(1)
}

type MockInventoryEventRepo struct {
	mock.Mock
}

func (m *MockInventoryEventRepo) WithTx(tx pgx.Tx) repositories.InventoryEventRepository { return m }

func (m *MockInventoryEventRepo) Create(ctx context.Context, event *models.InventoryEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockInventoryEventRepo) ListByItem(ctx context.Context, itemID uuid.UUID) ([]*models.InventoryEvent, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryEvent), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetCommitment(ctx context.Context, skuStr string) (*models.Commitment, error) {
	args := m.Called(ctx, skuStr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Commitment), args.Error(1)
}

func (m *MockCacheService) SetCommitment(ctx context.Context, commitment *models.Commitment, ttl time.Duration) error {
	args := m.Called(ctx, commitment, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteCommitment(ctx context.Context, skuStr string) error {
	args := m.Called(ctx, skuStr)
	return args.Error(0)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Notify(ctx context.Context, notificationType, message string) {
	m.Called(ctx, notificationType, message)
}

type MockMatcherService struct {
	mock.Mock
}

func (m *MockMatcherService) FindMatch(ctx context.Context, target sku.Components) (*models.InventoryItem, MatchType, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.InventoryItem), args.Get(1).(MatchType), args.Error(2)
}

type MockWaitlistService struct {
	mock.Mock
}

func (m *MockWaitlistService) AddToWaitlist(ctx context.Context, orderID, orderItemID uuid.UUID, skuStr string, quantity int) (*models.WaitlistEntry, error) {
	args := m.Called(ctx, orderID, orderItemID, skuStr, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WaitlistEntry), args.Error(1)
}

func (m *MockWaitlistService) RemoveFromWaitlist(ctx context.Context, orderID uuid.UUID, skuStr string) error {
	args := m.Called(ctx, orderID, skuStr)
	return args.Error(0)
}

func (m *MockWaitlistService) ListByRawSKU(ctx context.Context, rawSKU string) ([]*models.WaitlistEntry, error) {
	args := m.Called(ctx, rawSKU)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WaitlistEntry), args.Error(1)
}

func (m *MockWaitlistService) PendingQuantity(ctx context.Context, orderItemID uuid.UUID) (int, error) {
	args := m.Called(ctx, orderItemID)
	return args.Int(0), args.Error(1)
}

type MockAllocationService struct {
	mock.Mock
}

func (m *MockAllocationService) ProcessOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockAllocationService) ProcessNewProductionItems(ctx context.Context, items []*models.InventoryItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

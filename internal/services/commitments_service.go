package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"denimops/internal/caching"
	"denimops/internal/common"
	"denimops/internal/models"
	"denimops/internal/repositories"
)

const commitmentCacheTTL = 5 * time.Minute

// CommitmentService is the read/update surface of the per-SKU ledger.
// Allocation writes ride the allocator's transaction directly through the
// repository; everything else goes through here.
type CommitmentService interface {
	GetCommitments(ctx context.Context, skuStr string) (*models.Commitment, error)
	UpdateCommitments(ctx context.Context, skuStr string, deltaCommitted, deltaUncommitted int) (*models.Commitment, error)
}

type commitmentService struct {
	commitments repositories.CommitmentRepository
	items       repositories.InventoryItemRepository
	cache       caching.CacheService
}

func NewCommitmentService(commitments repositories.CommitmentRepository,
	items repositories.InventoryItemRepository, cache caching.CacheService) CommitmentService {
	return &commitmentService{
		commitments: commitments,
		items:       items,
		cache:       cache,
	}
}

// GetCommitments reads the ledger row for a SKU, falling back to a live
// recount over inventory when no row exists yet. Unseen SKUs report zeros.
func (s *commitmentService) GetCommitments(ctx context.Context, skuStr string) (*models.Commitment, error) {
	if cached, err := s.cache.GetCommitment(ctx, skuStr); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("Commitment cache read failed for %s: %v", skuStr, err)
	}

	commitment, err := s.commitments.Get(ctx, skuStr)
	if err != nil {
		return nil, fmt.Errorf("read commitment ledger for %s: %w", skuStr, err)
	}
	if commitment == nil {
		commitment, err = s.recount(ctx, skuStr)
		if err != nil {
			return nil, err
		}
	}

	if err := s.cache.SetCommitment(ctx, commitment, commitmentCacheTTL); err != nil {
		log.Printf("Commitment cache write failed for %s: %v", skuStr, err)
	}
	return commitment, nil
}

// UpdateCommitments applies deltas to both quantities. A delta that would
// drive either quantity negative fails with INVALID_QUANTITY and leaves the
// ledger untouched.
func (s *commitmentService) UpdateCommitments(ctx context.Context, skuStr string, deltaCommitted, deltaUncommitted int) (*models.Commitment, error) {
	// The pre-check must see the live row, not a cached snapshot that may
	// predate concurrent allocator writes.
	current, err := s.commitments.Get(ctx, skuStr)
	if err != nil {
		return nil, fmt.Errorf("read commitment ledger for %s: %w", skuStr, err)
	}
	if current == nil {
		current, err = s.recount(ctx, skuStr)
		if err != nil {
			return nil, err
		}
	}
	if current.Committed+deltaCommitted < 0 || current.Uncommitted+deltaUncommitted < 0 {
		return nil, common.NewDomainError(common.CodeInvalidQuantity,
			"commitment update for %s would go negative (committed %d%+d, uncommitted %d%+d)",
			skuStr, current.Committed, deltaCommitted, current.Uncommitted, deltaUncommitted)
	}

	updated, err := s.commitments.ApplyDelta(ctx, skuStr, deltaCommitted, deltaUncommitted)
	if err != nil {
		if errors.Is(err, repositories.ErrLedgerUnderflow) {
			return nil, common.WrapDomainError(common.CodeInvalidQuantity, err,
				"commitment update for %s rejected", skuStr)
		}
		return nil, fmt.Errorf("update commitment ledger for %s: %w", skuStr, err)
	}

	if err := s.cache.DeleteCommitment(ctx, skuStr); err != nil {
		log.Printf("Commitment cache invalidation failed for %s: %v", skuStr, err)
	}
	return updated, nil
}

func (s *commitmentService) recount(ctx context.Context, skuStr string) (*models.Commitment, error) {
	committed, err := s.items.CountBySKUAndStatus2(ctx, skuStr,
		[]string{models.Status2Committed, models.Status2Assigned})
	if err != nil {
		return nil, fmt.Errorf("recount committed inventory for %s: %w", skuStr, err)
	}
	uncommitted, err := s.items.CountBySKUAndStatus2(ctx, skuStr, []string{models.Status2Uncommitted})
	if err != nil {
		return nil, fmt.Errorf("recount uncommitted inventory for %s: %w", skuStr, err)
	}
	return &models.Commitment{
		SKU:         skuStr,
		Committed:   committed,
		Uncommitted: uncommitted,
		UpdatedAt:   time.Now(),
	}, nil
}

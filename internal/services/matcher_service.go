package services

import (
	"context"
	"log"

	"denimops/internal/common"
	"denimops/internal/models"
	"denimops/internal/repositories"
	"denimops/internal/sku"
)

// MatchType reports how a matched item relates to the target SKU.
type MatchType string

const (
	MatchExact     MatchType = "EXACT"
	MatchUniversal MatchType = "UNIVERSAL"
)

// MatcherService finds a free inventory item that either is the target SKU
// or can be converted into it (same style/waist/shape, inseam long enough,
// wash compatible).
type MatcherService interface {
	FindMatch(ctx context.Context, target sku.Components) (*models.InventoryItem, MatchType, error)
}

type matcherService struct {
	items repositories.InventoryItemRepository
}

func NewMatcherService(items repositories.InventoryItemRepository) MatcherService {
	return &matcherService{items: items}
}

// FindMatch prefers an exact match; otherwise the convertible candidate with
// the smallest inseam surplus wins, so the least material is cut away during
// finishing. No candidate at all yields NO_INVENTORY_AVAILABLE.
func (s *matcherService) FindMatch(ctx context.Context, target sku.Components) (*models.InventoryItem, MatchType, error) {
	targetSKU, err := sku.Build(target)
	if err != nil {
		return nil, "", err
	}

	exact, err := s.items.ListUncommittedBySKU(ctx, targetSKU)
	if err != nil {
		return nil, "", err
	}
	if len(exact) > 0 {
		return exact[0], MatchExact, nil
	}

	candidates, err := s.items.ListUncommittedByBase(ctx, target.Style, target.Waist, target.Shape)
	if err != nil {
		return nil, "", err
	}

	var best *models.InventoryItem
	bestSurplus := 0
	for _, candidate := range candidates {
		c, err := sku.Parse(candidate.SKU)
		if err != nil {
			// A malformed SKU on a stored item must not poison matching.
			log.Printf("Skipping inventory item %s with malformed sku %q: %v", candidate.ID, candidate.SKU, err)
			continue
		}
		if c.Inseam < target.Inseam {
			continue
		}
		compatible, err := sku.IsWashCompatible(c.Wash, target.Wash)
		if err != nil {
			log.Printf("Skipping inventory item %s with unrecognized wash %q: %v", candidate.ID, c.Wash, err)
			continue
		}
		if !compatible {
			continue
		}

		surplus := c.Inseam - target.Inseam
		// Candidates arrive oldest first, so on a surplus tie the older
		// item keeps priority.
		if best == nil || surplus < bestSurplus {
			best = candidate
			bestSurplus = surplus
		}
	}

	if best == nil {
		return nil, "", common.NewDomainError(common.CodeNoInventoryAvailable,
			"no uncommitted inventory can satisfy %s", targetSKU)
	}
	return best, MatchUniversal, nil
}

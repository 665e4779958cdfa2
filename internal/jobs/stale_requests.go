package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"denimops/internal/models"
	"denimops/internal/repositories"
	"denimops/internal/services"
)

const (
	defaultStaleAfter = 24 * time.Hour
	staleScanLimit    = 200
)

// StaleRequestService flags production requests sitting in progress longer
// than the floor crew normally takes, so stuck garments get looked at.
type StaleRequestService struct {
	requests repositories.RequestRepository
	notifier services.NotificationService
}

func NewStaleRequestService(requests repositories.RequestRepository, notifier services.NotificationService) *StaleRequestService {
	return &StaleRequestService{
		requests: requests,
		notifier: notifier,
	}
}

// FindStaleRequests returns in-progress requests untouched since the cutoff.
func (s *StaleRequestService) FindStaleRequests(ctx context.Context, staleAfter time.Duration) ([]*models.ProductionRequest, error) {
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	cutoff := time.Now().Add(-staleAfter)
	return s.requests.ListInProgressOlderThan(ctx, cutoff, staleScanLimit)
}

// ScheduledStaleCheck is the periodic entry point.
func (s *StaleRequestService) ScheduledStaleCheck(ctx context.Context) error {
	stale, err := s.FindStaleRequests(ctx, defaultStaleAfter)
	if err != nil {
		log.Printf("Stale request scan failed: %v", err)
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	for _, req := range stale {
		s.notifier.Notify(ctx, models.NotifyRequestStale,
			fmt.Sprintf("%s %s for item %s has been in progress since %s",
				req.Type, req.ID, req.ItemID, req.UpdatedAt.Format(time.RFC3339)))
	}
	log.Printf("Flagged %d stale production requests", len(stale))
	return nil
}

package background

import (
	"context"
	"log"
	"sync"
	"time"

	"denimops/internal/jobs"
	"denimops/internal/models"
	"denimops/internal/repositories"
	"denimops/internal/services"

	"github.com/go-co-op/gocron/v2"
)

const waitlistScanBatch = 200

// JobScheduler runs the periodic reconciliation jobs: pairing finished
// production inventory with the waitlist and flagging stale requests.
type JobScheduler struct {
	scheduler gocron.Scheduler
	items     repositories.InventoryItemRepository
	alloc     services.AllocationService
	staleSvc  *jobs.StaleRequestService
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(items repositories.InventoryItemRepository, alloc services.AllocationService,
	staleSvc *jobs.StaleRequestService) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		items:     items,
		alloc:     alloc,
		staleSvc:  staleSvc,
		jobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Waitlist reconciliation - every 5 minutes
	reconcileJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.reconcileWaitlist, context.Background()),
		gocron.WithName("waitlist-reconcile"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create waitlist reconcile job: %v", err)
	} else {
		js.jobs["waitlist-reconcile"] = reconcileJob
	}

	// Stale request alerts - every 30 minutes
	staleJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.staleSvc.ScheduledStaleCheck, context.Background()),
		gocron.WithName("stale-request-alerts"),
	)
	if err != nil {
		log.Printf("Failed to create stale request job: %v", err)
	} else {
		js.jobs["stale-request-alerts"] = staleJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// reconcileWaitlist sweeps uncommitted in-production inventory back through
// the waitlist pairing, catching items whose original pairing pass failed.
func (js *JobScheduler) reconcileWaitlist(ctx context.Context) error {
	free, err := js.items.ListUncommittedByStatus1(ctx, models.Status1Production, waitlistScanBatch)
	if err != nil {
		log.Printf("Waitlist reconcile scan failed: %v", err)
		return err
	}
	if len(free) == 0 {
		return nil
	}

	if err := js.alloc.ProcessNewProductionItems(ctx, free); err != nil {
		log.Printf("Waitlist reconcile pairing failed: %v", err)
		return err
	}
	return nil
}

// AddJob registers a custom periodic job.
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	return nil
}

// GetJobStatus reports the registered job names for the health endpoint.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}

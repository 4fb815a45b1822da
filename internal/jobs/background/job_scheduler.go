package background

import (
	"context"
	"log"
	"sync"
	"time"

	"courierhub/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

// JobScheduler manages background jobs. It runs on its own goroutines and
// shares no locks with the request path.
type JobScheduler struct {
	scheduler  gocron.Scheduler
	sessionSvc services.SessionService
	rateSvc    services.RateService
	tenantSvc  services.TenantService
	jobs       map[string]gocron.Job
	mu         sync.RWMutex
}

func NewJobScheduler(sessionSvc services.SessionService, rateSvc services.RateService, tenantSvc services.TenantService) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler:  scheduler,
		sessionSvc: sessionSvc,
		rateSvc:    rateSvc,
		tenantSvc:  tenantSvc,
		jobs:       make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Session reaper - every 10 minutes
	reaperJob, err := js.scheduler.NewJob(
		gocron.DurationJob(10*time.Minute),
		gocron.NewTask(js.reapExpiredSessions),
		gocron.WithName("session-reaper"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create session reaper job: %v", err)
	} else {
		js.jobs["session-reaper"] = reaperJob
	}

	// Rate table cache refresh - every 15 minutes
	rateCacheJob, err := js.scheduler.NewJob(
		gocron.DurationJob(15*time.Minute),
		gocron.NewTask(js.refreshRateCaches),
		gocron.WithName("rate-cache-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create rate cache refresh job: %v", err)
	} else {
		js.jobs["rate-cache-refresh"] = rateCacheJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// reapExpiredSessions deactivates sessions past their expiry. Readers do
// not depend on this having run; they also check expiry lazily.
func (js *JobScheduler) reapExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reaped, err := js.sessionSvc.ReapExpired(ctx)
	if err != nil {
		log.Printf("Session reaper failed: %v", err)
		return
	}
	if reaped > 0 {
		log.Printf("Session reaper deactivated %d expired sessions", reaped)
	}
}

// refreshRateCaches re-primes the cached rate tables for all active
// tenants, bounded to a few tenants at a time.
func (js *JobScheduler) refreshRateCaches() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	tenantIDs, err := js.tenantSvc.ListActiveTenantIDs(ctx)
	if err != nil {
		log.Printf("Failed to list tenants for rate cache refresh: %v", err)
		return
	}

	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, tenantID := range tenantIDs {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := js.rateSvc.RefreshRateCache(ctx, id); err != nil {
				log.Printf("Failed to refresh rate cache for tenant %s: %v", id.String(), err)
			}
		}(tenantID)
	}

	wg.Wait()
}

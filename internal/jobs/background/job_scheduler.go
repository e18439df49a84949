package background

import (
	"context"
	"errors"
	"sync"
	"time"

	"shiftstock/internal/caching"
	"shiftstock/internal/common"
	"shiftstock/internal/models"
	"shiftstock/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

// JobScheduler manages the recurring compliance and cache jobs.
type JobScheduler struct {
	scheduler       gocron.Scheduler
	cacheSvc        caching.CacheService
	storeRepo       repositories.StoreRepository
	submissionRepo  repositories.SubmissionRepository
	temperatureRepo repositories.TemperatureRepository
	jobs            map[string]gocron.Job
	mu              sync.RWMutex
}

func NewJobScheduler(cacheSvc caching.CacheService, storeRepo repositories.StoreRepository,
	submissionRepo repositories.SubmissionRepository, temperatureRepo repositories.TemperatureRepository) *JobScheduler {

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:       scheduler,
		cacheSvc:        cacheSvc,
		storeRepo:       storeRepo,
		submissionRepo:  submissionRepo,
		temperatureRepo: temperatureRepo,
		jobs:            make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Info("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Compliance sweep - every 30 minutes
	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.complianceSweep, context.Background()),
		gocron.WithName("compliance-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.WithError(err).Error("Failed to create compliance sweep job")
	} else {
		js.jobs["compliance-sweep"] = sweepJob
	}

	// Badge cache refresh - every 5 minutes
	badgeJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.refreshBadgeCaches, context.Background()),
		gocron.WithName("badge-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.WithError(err).Error("Failed to create badge refresh job")
	} else {
		js.jobs["badge-refresh"] = badgeJob
	}

	log.Infof("Registered %d background jobs", len(js.jobs))
}

// complianceSweep flags stores that have not submitted today's stock count
// or are behind on temperature checks.
func (js *JobScheduler) complianceSweep(ctx context.Context) error {
	log.Info("Starting compliance sweep")

	stores, err := js.storeRepo.List(ctx, false)
	if err != nil {
		log.WithError(err).Error("Failed to list stores for compliance sweep")
		return err
	}

	today := common.DayKey(time.Now())
	flagged := 0

	for _, store := range stores {
		entry := log.WithFields(log.Fields{"store_id": store.ID, "date": today})

		if _, err := js.submissionRepo.GetByDay(ctx, store.ID, today); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				entry.Warn("No stock submission yet today")
				flagged++
			} else {
				entry.WithError(err).Error("Failed to check stock submission")
			}
		}

		day, err := js.temperatureRepo.GetDay(ctx, store.ID, today)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			entry.Warn("No temperature checks yet today")
			flagged++
		case err != nil:
			entry.WithError(err).Error("Failed to check temperature day")
		case day.CheckCount < len(models.Slots()):
			entry.WithField("check_count", day.CheckCount).Warn("Temperature checks incomplete")
			flagged++
		}
	}

	log.Infof("Completed compliance sweep over %d stores, %d flags", len(stores), flagged)
	return nil
}

// refreshBadgeCaches warms the unread-count cache for every active store so
// the admin dashboards read hot data.
func (js *JobScheduler) refreshBadgeCaches(ctx context.Context) error {
	stores, err := js.storeRepo.List(ctx, false)
	if err != nil {
		log.WithError(err).Error("Failed to list stores for badge refresh")
		return err
	}

	// Bounded fan-out; stores are independent.
	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, store := range stores {
		wg.Add(1)
		go func(storeID string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			stock, err := js.submissionRepo.CountUnread(ctx, storeID)
			if err != nil {
				log.WithError(err).WithField("store_id", storeID).Warn("Failed to count unread submissions")
				return
			}
			temp, err := js.temperatureRepo.CountUnreadDays(ctx, storeID)
			if err != nil {
				log.WithError(err).WithField("store_id", storeID).Warn("Failed to count unread temperature days")
				return
			}

			counts := &models.UnreadCounts{Stock: stock, Temp: temp, Combined: stock + temp}
			if err := js.cacheSvc.SetUnreadCounts(ctx, storeID, counts, 10*time.Minute); err != nil {
				log.WithError(err).WithField("store_id", storeID).Warn("Failed to warm badge cache")
			}
		}(store.ID)
	}

	wg.Wait()
	return nil
}

// AddJob adds a custom job to the scheduler
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
	log.Infof("Added custom job: %s", name)
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobs, name)
		return err
	}

	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobs)
	jobs := make([]string, 0, len(js.jobs))

	for name := range js.jobs {
		jobs = append(jobs, name)
	}

	status["jobs"] = jobs

	return status
}

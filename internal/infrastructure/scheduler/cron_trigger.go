package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CronTriggerConfig holds configuration for the cron trigger
type CronTriggerConfig struct {
	// CampaignSweepInterval is how often expired campaigns are swept.
	// Coupon validation also checks dates at redemption time, so the
	// sweep only has to keep listings tidy.
	CampaignSweepInterval time.Duration

	// MediaCleanupHour is the local hour of day to run the daily
	// stale-media cleanup
	MediaCleanupHour   int
	MediaCleanupMinute int

	// CheckInterval is how often to check if it's time to run
	CheckInterval time.Duration
}

// DefaultCronTriggerConfig returns default cron trigger configuration
func DefaultCronTriggerConfig() CronTriggerConfig {
	return CronTriggerConfig{
		CampaignSweepInterval: 5 * time.Minute,
		MediaCleanupHour:      3, // 3am
		MediaCleanupMinute:    0,
		CheckInterval:         time.Minute,
	}
}

// CronTrigger submits maintenance jobs on a schedule
type CronTrigger struct {
	config    CronTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastSweep   time.Time
	lastRunDate string // date of the last daily cleanup
}

// NewCronTrigger creates a new cron trigger
func NewCronTrigger(
	config CronTriggerConfig,
	scheduler *Scheduler,
	logger *zap.Logger,
) *CronTrigger {
	return &CronTrigger{
		config:    config,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start starts the cron trigger
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started",
		zap.Duration("campaign_sweep_interval", c.config.CampaignSweepInterval),
		zap.Int("media_cleanup_hour", c.config.MediaCleanupHour),
		zap.Duration("check_interval", c.config.CheckInterval),
	)

	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop checks periodically whether any scheduled job is due
func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger()
		}
	}
}

// checkAndTrigger submits due jobs
func (c *CronTrigger) checkAndTrigger() {
	now := time.Now()

	c.mu.Lock()
	sweepDue := now.Sub(c.lastSweep) >= c.config.CampaignSweepInterval
	if sweepDue {
		c.lastSweep = now
	}

	currentDate := now.Format("2006-01-02")
	cleanupDue := c.lastRunDate != currentDate &&
		now.Hour() == c.config.MediaCleanupHour &&
		now.Minute() == c.config.MediaCleanupMinute
	if cleanupDue {
		c.lastRunDate = currentDate
	}
	c.mu.Unlock()

	if sweepDue {
		if err := c.scheduler.ScheduleJob(JobTypeCampaignExpiry); err != nil {
			c.logger.Error("Failed to schedule campaign expiry sweep", zap.Error(err))
		}
	}

	if cleanupDue {
		c.logger.Info("Triggering daily media cleanup")
		if err := c.scheduler.ScheduleJob(JobTypeMediaCleanup); err != nil {
			c.logger.Error("Failed to schedule media cleanup", zap.Error(err))
		}
	}
}

// TriggerNow submits a maintenance job immediately, outside the schedule
func (c *CronTrigger) TriggerNow(jobType JobType) error {
	return c.scheduler.ScheduleJob(jobType)
}

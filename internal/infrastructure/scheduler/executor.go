package scheduler

import (
	"context"

	"go.uber.org/zap"
)

// CampaignExpirer sweeps campaigns whose end date has passed
type CampaignExpirer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// MediaCleaner removes media records whose upload was never confirmed
type MediaCleaner interface {
	CleanupStalePending(ctx context.Context, olderThanHours, limit int) (int, error)
}

// MaintenanceExecutorConfig holds cleanup thresholds
type MaintenanceExecutorConfig struct {
	// MediaStaleAfterHours is how long a pending upload may sit before
	// it is considered abandoned
	MediaStaleAfterHours int
	// MediaCleanupBatchSize caps how many records one cleanup run removes
	MediaCleanupBatchSize int
}

// DefaultMaintenanceExecutorConfig returns default cleanup thresholds
func DefaultMaintenanceExecutorConfig() MaintenanceExecutorConfig {
	return MaintenanceExecutorConfig{
		MediaStaleAfterHours:  24,
		MediaCleanupBatchSize: 500,
	}
}

// MaintenanceExecutor dispatches maintenance jobs to the application
// services that carry them out
type MaintenanceExecutor struct {
	campaigns CampaignExpirer
	media     MediaCleaner
	config    MaintenanceExecutorConfig
	logger    *zap.Logger
}

// NewMaintenanceExecutor creates a new maintenance executor
func NewMaintenanceExecutor(
	campaigns CampaignExpirer,
	media MediaCleaner,
	config MaintenanceExecutorConfig,
	logger *zap.Logger,
) *MaintenanceExecutor {
	return &MaintenanceExecutor{
		campaigns: campaigns,
		media:     media,
		config:    config,
		logger:    logger,
	}
}

// Execute runs a single maintenance job
func (e *MaintenanceExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeCampaignExpiry:
		expired, err := e.campaigns.ExpireOverdue(ctx)
		if err != nil {
			return err
		}
		if expired > 0 {
			e.logger.Info("Expired overdue campaigns", zap.Int64("count", expired))
		}
		return nil

	case JobTypeMediaCleanup:
		removed, err := e.media.CleanupStalePending(ctx, e.config.MediaStaleAfterHours, e.config.MediaCleanupBatchSize)
		if err != nil {
			return err
		}
		if removed > 0 {
			e.logger.Info("Removed stale pending media", zap.Int("count", removed))
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}

// Ensure MaintenanceExecutor implements the JobExecutor interface
var _ JobExecutor = (*MaintenanceExecutor)(nil)

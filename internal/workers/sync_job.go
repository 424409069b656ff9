package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-note-sync/internal/logger"
	"github.com/MKhiriev/go-note-sync/models"
)

// Syncer runs one full synchronization. Implemented by the sync service.
type Syncer interface {
	Sync(ctx context.Context, direction models.SyncDirection) (models.SyncResult, error)
}

// SyncJob runs a bidirectional sync on a fixed interval until its context
// is cancelled. Sync errors are logged and the job keeps ticking; a flaky
// network must not kill the background loop.
type SyncJob struct {
	syncer   Syncer
	interval time.Duration
	logger   *logger.Logger
}

func NewSyncJob(syncer Syncer, interval time.Duration, log *logger.Logger) *SyncJob {
	return &SyncJob{syncer: syncer, interval: interval, logger: log}
}

// Run blocks until ctx is cancelled. A non-positive interval disables the
// job entirely.
func (j *SyncJob) Run(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.Info().Str("func", "SyncJob.Run").Msg("periodic sync disabled")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info().Str("func", "SyncJob.Run").Dur("interval", j.interval).Msg("periodic sync started")

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Str("func", "SyncJob.Run").Msg("periodic sync stopped")
			return
		case <-ticker.C:
			result, err := j.syncer.Sync(ctx, models.SyncBoth)
			if err != nil {
				j.logger.Err(err).Str("func", "SyncJob.Run").Msg("periodic sync failed")
				continue
			}
			j.logger.Info().Str("func", "SyncJob.Run").Msg(result.Message)
		}
	}
}

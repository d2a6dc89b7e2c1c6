package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/ports"
)

// Config carries the schedules and limits for the background jobs. Schedules
// use the six-field cron format with seconds.
type Config struct {
	TrackingPollSchedule      string
	NotificationRetrySchedule string
	RetryMaxAttempts          int
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	trackingPollJob      *TrackingPollJob
	notificationRetryJob *NotificationRetryJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	shipments ports.ShipmentRepository,
	carrierClient ports.CarrierClient,
	ingestor TrackingIngestor,
	retrier NotificationRetrier,
	cfg Config,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		trackingPollJob: NewTrackingPollJob(
			shipments, carrierClient, ingestor, cfg.TrackingPollSchedule, logger),
		notificationRetryJob: NewNotificationRetryJob(
			retrier, cfg.NotificationRetrySchedule, cfg.RetryMaxAttempts, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.trackingPollJob.Start(); err != nil {
		return fmt.Errorf("failed to start tracking poll job: %w", err)
	}

	if err := jm.notificationRetryJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.trackingPollJob.Stop()
		return fmt.Errorf("failed to start notification retry job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.notificationRetryJob.Stop()
	jm.trackingPollJob.Stop()
}

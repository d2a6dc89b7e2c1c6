package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationRetrier re-attempts failed notification deliveries.
type NotificationRetrier interface {
	Handle(ctx context.Context, command commands.RetryFailedNotificationsCommand) error
}

// NotificationRetryJob periodically re-sends FAILED notification rows that
// still have attempt budget left.
type NotificationRetryJob struct {
	retrier     NotificationRetrier
	schedule    string
	maxAttempts int
	cron        *cron.Cron
	logger      *slog.Logger
}

// NewNotificationRetryJob creates the retry job with a cron schedule in the
// six-field (seconds) format.
func NewNotificationRetryJob(
	retrier NotificationRetrier,
	schedule string,
	maxAttempts int,
	logger *slog.Logger,
) *NotificationRetryJob {
	return &NotificationRetryJob{
		retrier:     retrier,
		schedule:    schedule,
		maxAttempts: maxAttempts,
		cron:        cron.New(cron.WithSeconds()),
		logger:      logger.With("component", "notification_retry_job"),
	}
}

// Start schedules the job.
func (j *NotificationRetryJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Retry(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification retry job started",
		"schedule", j.schedule,
		"max_attempts", j.maxAttempts,
	)
	return nil
}

// Stop stops the job.
func (j *NotificationRetryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification retry job stopped")
}

// Retry runs one retry pass.
func (j *NotificationRetryJob) Retry(ctx context.Context) {
	cmd, err := commands.NewRetryFailedNotificationsCommand(j.maxAttempts)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid retry configuration", "error", err)
		return
	}

	if err = j.retrier.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Notification retry pass failed", "error", err)
	}
}

package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// TrackingIngestor applies one carrier tracking event.
type TrackingIngestor interface {
	Handle(ctx context.Context, command commands.IngestTrackingEventCommand) (shipment.ApplyOutcome, error)
}

// TrackingPollJob periodically polls the carriers for tracking updates on all
// active shipments. It backstops the webhooks: carriers that push reliably
// produce duplicates here, which the ingestion dedup silently drops.
type TrackingPollJob struct {
	shipments     ports.ShipmentRepository
	carrierClient ports.CarrierClient
	ingestor      TrackingIngestor
	schedule      string
	cron          *cron.Cron
	logger        *slog.Logger
}

// NewTrackingPollJob creates the polling job with a cron schedule in the
// six-field (seconds) format.
func NewTrackingPollJob(
	shipments ports.ShipmentRepository,
	carrierClient ports.CarrierClient,
	ingestor TrackingIngestor,
	schedule string,
	logger *slog.Logger,
) *TrackingPollJob {
	return &TrackingPollJob{
		shipments:     shipments,
		carrierClient: carrierClient,
		ingestor:      ingestor,
		schedule:      schedule,
		cron:          cron.New(cron.WithSeconds()),
		logger:        logger.With("component", "tracking_poll_job"),
	}
}

// Start schedules the job.
func (j *TrackingPollJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Poll(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Tracking poll job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job.
func (j *TrackingPollJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Tracking poll job stopped")
}

// Poll runs one full polling pass. A failing carrier or assignment never
// stops the pass; each problem is logged and the loop moves on.
func (j *TrackingPollJob) Poll(ctx context.Context) {
	assignments, err := j.shipments.GetActive(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to list active shipments", "error", err)
		return
	}

	for _, assignment := range assignments {
		j.pollAssignment(ctx, assignment)
	}
}

func (j *TrackingPollJob) pollAssignment(ctx context.Context, assignment *shipment.Assignment) {
	events, err := j.carrierClient.PollTracking(ctx, assignment.CarrierID(), assignment.TrackingID())
	if err != nil {
		j.logger.WarnContext(ctx, "Tracking poll failed",
			"carrier_id", assignment.CarrierID(),
			"tracking_id", assignment.TrackingID(),
			"error", err,
		)
		return
	}

	for _, event := range events {
		cmd, cmdErr := commands.NewIngestTrackingEventCommand(
			assignment.CarrierID(),
			assignment.TrackingID(),
			event.ExternalEventID,
			event.RawStatus,
			event.OccurredAt,
			event.Location,
			event.Remarks,
		)
		if cmdErr != nil {
			j.logger.WarnContext(ctx, "Polled event rejected",
				"tracking_id", assignment.TrackingID(),
				"error", cmdErr,
			)
			continue
		}

		if _, ingestErr := j.ingestor.Handle(ctx, cmd); ingestErr != nil {
			j.logger.ErrorContext(ctx, "Polled event ingestion failed",
				"tracking_id", assignment.TrackingID(),
				"error", ingestErr,
			)
		}
	}
}

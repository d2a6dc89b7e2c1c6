// Package jobs provides the scheduled background tasks of the fulfillment
// service, built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. TrackingPollJob - polls the carriers for tracking updates on active
// shipments, backstopping the webhook path
// 2. NotificationRetryJob - re-sends failed notification deliveries that
// still have attempt budget left
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(shipmentRepo, carrierClient,
//		ingestHandler, retryHandler, cfg, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Both jobs log failures and keep going: one unreachable carrier or one
// broken notification row never stops a pass. Failed job starts stop any
// already running jobs.
package jobs

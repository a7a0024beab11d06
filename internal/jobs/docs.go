// Package jobs provides scheduled background tasks for order fulfillment.
//
// Jobs run on github.com/robfig/cron/v3 with second precision and skip a
// tick while the previous run is still in progress.
//
// # Available Jobs
//
// 1. PaymentPollJob - queries the gateway for pending payments whose
// callback has not arrived and fails those that stay inconclusive.
// 2. PrintStatusJob - asks the print spooler which printing jobs have left
// its queue and marks them, and their orders, printed.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(pollJob, printJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs

// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are built on github.com/robfig/cron/v3 with a seconds field.
//
// # Available Jobs
//
// ReconciliationJob looks for fulfillment intents that stalled longer than a
// configured age. Intents still waiting on the carrier are flagged for an
// operator; intents with a shipment get their order confirmed when possible.
// The carrier is never called from a job.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(reconcileHandler, jobs.ReconciliationConfig{
//		Schedule:   "0 */5 * * * *",
//		StaleAfter: 10 * time.Minute,
//	}, logger)
//
//	// Reconciles once, then on schedule
//	if err := jobManager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and the next run starts from scratch. An invalid
// schedule fails StartAll.
package jobs

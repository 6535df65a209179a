// Package tasks runs background jobs on a backlite queue stored in its own
// SQLite file next to the main database.
//
// The only job today is CleanupAuditEventsTask, enqueued by the scheduler.
package tasks

// Package task runs background work. Tasks are persisted before they are
// queued, executed by a fixed worker pool, and rebuilt through registered
// factories after a restart. The StreakScheduler decides which finished
// local days need a streak batch and requests them as events.
package task

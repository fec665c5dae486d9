package domain

import "time"

// BatchRunStatus is the outcome of one streak batch pass over a timezone/day.
type BatchRunStatus string

const (
	// BatchRunCompleted means every user of the zone was processed or skipped.
	BatchRunCompleted BatchRunStatus = "completed"
	// BatchRunPartial means at least one user failed and the day should be retried.
	BatchRunPartial BatchRunStatus = "partial"
)

// BatchRun summarizes a streak batch pass for a single timezone and day.
type BatchRun struct {
	Timezone   string         `json:"timezone"`
	DayKey     string         `json:"day_key"`
	Status     BatchRunStatus `json:"status"`
	Processed  int            `json:"processed"`
	Skipped    int            `json:"skipped"`
	Failed     int            `json:"failed"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Finish stamps the run and derives its status from the failure count.
func (r *BatchRun) Finish(at time.Time) {
	r.FinishedAt = at.UTC()
	if r.Failed > 0 {
		r.Status = BatchRunPartial
		return
	}
	r.Status = BatchRunCompleted
}

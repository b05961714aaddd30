package scheduler

import (
	"context"
	"time"
)

// Job is one schedulable unit of work
// ⭐ SSOT: 定时任务接口只在这里定义
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron expression (with seconds field),
	// e.g. "0 0 18 * * 1-5" for weekdays at 18:00
	Schedule() string
}

// JobResult is one execution's outcome
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory keeps the last executions of one job
type JobHistory struct {
	Results []JobResult
}

const historyLimit = 100

// AddResult appends a result, dropping the oldest past the limit
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)
	if len(h.Results) > historyLimit {
		h.Results = h.Results[len(h.Results)-historyLimit:]
	}
}

// LastResult returns the most recent result, or nil when the job has
// never run
func (h *JobHistory) LastResult() *JobResult {
	if len(h.Results) == 0 {
		return nil
	}
	return &h.Results[len(h.Results)-1]
}

// SuccessRate returns the fraction of recorded runs that succeeded
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0
	}

	succeeded := 0
	for _, r := range h.Results {
		if r.Success {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(h.Results))
}

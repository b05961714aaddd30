package scheduler

import (
	"testing"
	"time"
)

func TestJobHistoryRingLimit(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+20; i++ {
		h.AddResult(JobResult{JobName: "holdings_sync", StartTime: time.Now(), Success: true})
	}

	if len(h.Results) != historyLimit {
		t.Errorf("history length = %d, want %d", len(h.Results), historyLimit)
	}
}

func TestJobHistorySuccessRate(t *testing.T) {
	h := &JobHistory{}
	if got := h.SuccessRate(); got != 0 {
		t.Errorf("empty history rate = %v, want 0", got)
	}

	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: false})

	if got := h.SuccessRate(); got < 0.66 || got > 0.67 {
		t.Errorf("rate = %v, want 2/3", got)
	}

	last := h.LastResult()
	if last == nil || last.Success {
		t.Errorf("last result = %+v, want the failed run", last)
	}
}
